package systems

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arena/scene"
)

// PathVisualParams configures a PathVisualizer.
type PathVisualParams struct {
	Sink   scene.Sink
	Logger *slog.Logger

	Lift       float64 // added to waypoint height
	PointSize  float64
	PointColor scene.Color
	LineColor  scene.Color
	LineWidth  float64
	Visible    bool
}

// PathVisualizer draws the most recent path as a lifted polyline with a
// marker on each waypoint. Each Render replaces the previous drawing.
type PathVisualizer struct {
	sink     scene.Sink
	log      *slog.Logger
	params   PathVisualParams
	group    *scene.Group
	disposed bool
}

// NewPathVisualizer registers an empty path group with p.Sink.
func NewPathVisualizer(p PathVisualParams) (*PathVisualizer, error) {
	if p.Sink == nil {
		return nil, ErrNilSink
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	if p.Lift == 0 {
		p.Lift = 1
	}
	if p.PointSize == 0 {
		p.PointSize = 1
	}
	if p.LineWidth == 0 {
		p.LineWidth = DefaultLineWidth
	}
	g := scene.NewGroup("path")
	g.Visible = p.Visible
	p.Sink.Add(g)
	return &PathVisualizer{sink: p.Sink, log: p.Logger, params: p, group: g}, nil
}

// Render replaces the drawn path. Paths shorter than two waypoints only
// clear the previous drawing.
func (v *PathVisualizer) Render(path Path) {
	if v.disposed {
		return
	}
	v.Clear()
	if len(path) < 2 {
		return
	}

	lift := r3.Vec{Y: v.params.Lift}
	points := make([]r3.Vec, len(path))
	for i, wp := range path {
		points[i] = r3.Add(wp.Pos, lift)
	}
	v.group.Add(scene.Polyline(points, v.params.LineWidth, v.params.LineColor))
	for _, p := range points {
		v.group.Add(scene.Sphere(p, v.params.PointSize, v.params.PointColor))
	}
}

// Clear removes the drawn path. Disposal errors are logged.
func (v *PathVisualizer) Clear() {
	if err := v.group.Clear(); err != nil {
		v.log.Warn("path visual clear", "error", err)
	}
}

// Primitives returns the number of primitives currently drawn.
func (v *PathVisualizer) Primitives() int {
	return v.group.Len()
}

// Visible reports whether the path is shown.
func (v *PathVisualizer) Visible() bool {
	return v.group.Visible
}

// SetVisible shows or hides the drawn path without redrawing it.
func (v *PathVisualizer) SetVisible(visible bool) {
	v.group.Visible = visible
}

// Dispose releases the drawn path and unregisters the group. Safe to call
// more than once.
func (v *PathVisualizer) Dispose() {
	if v == nil || v.disposed {
		return
	}
	v.disposed = true
	v.Clear()
	v.sink.Remove(v.group)
}
