package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arena/camera"
	"github.com/pthm-cable/arena/systems"
)

// Arena colors.
var (
	FloorColor    = rl.NewColor(40, 44, 52, 255)
	GridColor     = rl.NewColor(70, 76, 88, 255)
	ObstacleColor = rl.NewColor(120, 124, 136, 255)
	WallColor     = rl.NewColor(90, 96, 110, 255)
	PlayerColor   = rl.NewColor(80, 180, 255, 255)
	EnemyColor    = rl.NewColor(230, 90, 70, 255)
)

// Camera3D builds the raylib camera for cam.
func Camera3D(cam *camera.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(cam.Position()),
		Target:     vec3(cam.Target),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}

// ArenaRenderer draws the floor, grid lines, obstacles and walls of a tile map.
type ArenaRenderer struct {
	tm *systems.TileMap
}

// NewArenaRenderer creates a renderer for tm.
func NewArenaRenderer(tm *systems.TileMap) *ArenaRenderer {
	return &ArenaRenderer{tm: tm}
}

// SetTileMap replaces the drawn tile map.
func (r *ArenaRenderer) SetTileMap(tm *systems.TileMap) {
	r.tm = tm
}

// Draw renders the arena. Must be called inside rl.BeginMode3D.
func (r *ArenaRenderer) Draw() {
	if r.tm == nil {
		return
	}
	hx, hz := r.tm.HalfExtents()
	rl.DrawPlane(rl.NewVector3(0, 0, 0), rl.NewVector2(float32(2*hx), float32(2*hz)), FloorColor)
	r.drawGridLines(hx, hz)

	for _, o := range r.tm.Obstacles() {
		pos := vec3(o.Center)
		rl.DrawCube(pos, float32(o.Size.X), float32(o.Size.Y), float32(o.Size.Z), ObstacleColor)
		rl.DrawCubeWires(pos, float32(o.Size.X), float32(o.Size.Y), float32(o.Size.Z), rl.Black)
	}
	for _, w := range r.tm.Walls() {
		sx, sz := w.Length, w.Thickness
		if w.Rotated {
			sx, sz = sz, sx
		}
		rl.DrawCube(vec3(w.Center), float32(sx), float32(w.Height), float32(sz), WallColor)
	}
}

// drawGridLines draws one line per tile boundary slightly above the floor.
func (r *ArenaRenderer) drawGridLines(hx, hz float64) {
	const y = 0.01
	ts := r.tm.TileSize()
	for i := 0; i <= r.tm.Width(); i++ {
		x := -hx + float64(i)*ts
		rl.DrawLine3D(vec3(r3.Vec{X: x, Y: y, Z: -hz}), vec3(r3.Vec{X: x, Y: y, Z: hz}), GridColor)
	}
	for i := 0; i <= r.tm.Height(); i++ {
		z := -hz + float64(i)*ts
		rl.DrawLine3D(vec3(r3.Vec{X: -hx, Y: y, Z: z}), vec3(r3.Vec{X: hx, Y: y, Z: z}), GridColor)
	}
}

// DrawAgent draws an agent as a cylinder standing on the floor.
func DrawAgent(pos r3.Vec, radius float64, c rl.Color) {
	base := vec3(r3.Vec{X: pos.X, Z: pos.Z})
	r := float32(radius)
	rl.DrawCylinder(base, r, r, 2*r, 12, c)
	rl.DrawCylinderWires(base, r, r, 2*r, 12, rl.Black)
}
