package systems

import (
	"errors"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arena/scene"
)

// Navmesh defaults, used when a param is left at zero.
const (
	DefaultHoverHeight      = 5.0
	DefaultPointSize        = 1.5
	DefaultPointColor       = scene.Color(0xff0000)
	DefaultLineColor        = scene.Color(0xffff00)
	DefaultLineWidth        = 3.0
	DefaultConnectionFactor = 1.5 // visual lines only; the search uses its own threshold
)

var (
	ErrNilTileMap = errors.New("navmesh: occupancy grid is required")
	ErrNilSink    = errors.New("navmesh: render sink is required")
)

// Waypoint is a fixed point of the walkable graph. ID is its index in the
// navmesh and is stable for the navmesh's lifetime.
type Waypoint struct {
	ID     int
	Pos    r3.Vec
	Corner bool // emitted by the corner pass
}

// NavMeshParams configures a navmesh build.
type NavMeshParams struct {
	Grid   OccupancyGrid
	Sink   scene.Sink
	Logger *slog.Logger

	HoverHeight        float64
	PointSize          float64
	PointColor         scene.Color
	LineColor          scene.Color
	LineWidth          float64
	ConnectionDistance float64 // 0 = tile size * DefaultConnectionFactor
	Visible            bool
}

// NavMesh is the set of waypoints generated from an occupancy grid plus its
// debug visualization. The waypoint set never changes after construction;
// rebuild a new NavMesh when occupancy changes.
type NavMesh struct {
	grid      OccupancyGrid
	sink      scene.Sink
	log       *slog.Logger
	params    NavMeshParams
	waypoints []Waypoint
	corners   int
	visual    *scene.Group
	disposed  bool
}

// NewNavMesh builds the waypoint set from p.Grid and adds its visualization
// to p.Sink. Occupancy must be final before calling.
func NewNavMesh(p NavMeshParams) (*NavMesh, error) {
	if p.Grid == nil {
		return nil, ErrNilTileMap
	}
	if p.Sink == nil {
		return nil, ErrNilSink
	}
	if p.Grid.Width() <= 0 || p.Grid.Height() <= 0 || p.Grid.TileSize() <= 0 {
		return nil, ErrInvalidTileMap
	}
	applyNavMeshDefaults(&p)

	m := &NavMesh{
		grid:   p.Grid,
		sink:   p.Sink,
		log:    p.Logger,
		params: p,
		visual: scene.NewGroup("navmesh"),
	}
	m.generate()
	m.buildVisualization()
	m.visual.Visible = p.Visible
	m.sink.Add(m.visual)

	m.log.Info("navmesh built",
		"waypoints", len(m.waypoints),
		"corners", m.corners,
		"interior", len(m.waypoints)-m.corners,
		"lines", m.visual.Len()-len(m.waypoints),
	)
	return m, nil
}

func applyNavMeshDefaults(p *NavMeshParams) {
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	if p.HoverHeight == 0 {
		p.HoverHeight = DefaultHoverHeight
	}
	if p.PointSize == 0 {
		p.PointSize = DefaultPointSize
	}
	if p.PointColor == 0 {
		p.PointColor = DefaultPointColor
	}
	if p.LineColor == 0 {
		p.LineColor = DefaultLineColor
	}
	if p.LineWidth == 0 {
		p.LineWidth = DefaultLineWidth
	}
	if p.ConnectionDistance == 0 {
		p.ConnectionDistance = p.Grid.TileSize() * DefaultConnectionFactor
	}
}

// generate runs the corner pass then the interior pass. Points are not
// deduplicated.
func (m *NavMesh) generate() {
	g := m.grid
	w, h, ts := g.Width(), g.Height(), g.TileSize()
	y := m.params.HoverHeight

	for x := 0; x <= w; x++ {
		for z := 0; z <= h; z++ {
			if m.isCornerOfOccupiedTile(x, z) {
				continue
			}
			m.addPoint(r3.Vec{
				X: (float64(x) - float64(w)/2) * ts,
				Y: y,
				Z: (float64(z) - float64(h)/2) * ts,
			}, true)
		}
	}
	m.corners = len(m.waypoints)

	quarter := ts / 4
	for x := 0; x < w; x++ {
		for z := 0; z < h; z++ {
			if g.IsOccupied(x, z) {
				continue
			}
			cx, cz := g.GridToWorld(x, z)
			m.addPoint(r3.Vec{X: cx, Y: y, Z: cz}, false)

			baseX := (float64(x) - float64(w)/2) * ts
			baseZ := (float64(z) - float64(h)/2) * ts
			for qx := 1; qx < 4; qx += 2 {
				for qz := 1; qz < 4; qz += 2 {
					m.addPoint(r3.Vec{
						X: baseX + float64(qx)*quarter,
						Y: y,
						Z: baseZ + float64(qz)*quarter,
					}, false)
				}
			}
		}
	}
}

// isCornerOfOccupiedTile reports whether any in-range cell sharing corner
// (x, z) is occupied.
func (m *NavMesh) isCornerOfOccupiedTile(x, z int) bool {
	w, h := m.grid.Width(), m.grid.Height()
	shared := [4]GridPos{
		{X: x - 1, Z: z - 1},
		{X: x - 1, Z: z},
		{X: x, Z: z - 1},
		{X: x, Z: z},
	}
	for _, c := range shared {
		if c.X < 0 || c.X >= w || c.Z < 0 || c.Z >= h {
			continue
		}
		if m.grid.IsOccupied(c.X, c.Z) {
			return true
		}
	}
	return false
}

func (m *NavMesh) addPoint(pos r3.Vec, corner bool) {
	m.waypoints = append(m.waypoints, Waypoint{ID: len(m.waypoints), Pos: pos, Corner: corner})
}

// buildVisualization draws a marker per waypoint and a line between every
// pair closer than the connection distance.
func (m *NavMesh) buildVisualization() {
	p := m.params
	for _, wp := range m.waypoints {
		m.visual.Add(scene.Sphere(wp.Pos, p.PointSize, p.PointColor))
	}
	maxDist := p.ConnectionDistance
	for i := 0; i < len(m.waypoints); i++ {
		for j := i + 1; j < len(m.waypoints); j++ {
			a, b := m.waypoints[i].Pos, m.waypoints[j].Pos
			if r3.Norm(r3.Sub(a, b)) <= maxDist {
				m.visual.Add(scene.Line(a, b, p.LineWidth, p.LineColor))
			}
		}
	}
}

// Waypoints returns the generated waypoints in generation order: corners
// first, then per-cell center and quarter points. The slice is shared and
// must not be modified.
func (m *NavMesh) Waypoints() []Waypoint {
	return m.waypoints
}

// Len returns the number of waypoints.
func (m *NavMesh) Len() int {
	return len(m.waypoints)
}

// Corners returns the number of corner waypoints.
func (m *NavMesh) Corners() int {
	return m.corners
}

// TileSize returns the tile size of the grid the mesh was built from.
func (m *NavMesh) TileSize() float64 {
	return m.grid.TileSize()
}

// ConnectionDistance returns the threshold used for visual lines.
func (m *NavMesh) ConnectionDistance() float64 {
	return m.params.ConnectionDistance
}

// Visual returns the debug group.
func (m *NavMesh) Visual() *scene.Group {
	return m.visual
}

// Visible reports whether the debug overlay is shown.
func (m *NavMesh) Visible() bool {
	return m.visual.Visible
}

// SetVisible shows or hides the debug overlay.
func (m *NavMesh) SetVisible(v bool) {
	m.visual.Visible = v
}

// ToggleVisible flips the debug overlay.
func (m *NavMesh) ToggleVisible() {
	m.visual.Visible = !m.visual.Visible
}

// Dispose releases the visualization and forgets the waypoints. Planners
// built from this mesh keep their own reference to the waypoint slice.
// Safe to call more than once.
func (m *NavMesh) Dispose() {
	if m == nil || m.disposed {
		return
	}
	m.disposed = true
	if err := m.visual.Clear(); err != nil {
		m.log.Warn("navmesh dispose", "error", err)
	}
	m.sink.Remove(m.visual)
	m.waypoints = nil
	m.corners = 0
}
