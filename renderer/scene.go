// Package renderer draws the arena and its debug scene with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arena/scene"
)

// Lines wider than one pixel are drawn as thin cylinders of this radius per
// unit of width.
const lineRadiusPerWidth = 0.08

// vec3 converts a world position to a raylib vector.
func vec3(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

// color converts a hex scene color to an opaque raylib color.
func color(c scene.Color) rl.Color {
	r, g, b := c.RGB()
	return rl.NewColor(r, g, b, 255)
}

// DrawScene draws every visible group of sc. Must be called inside
// rl.BeginMode3D.
func DrawScene(sc *scene.Scene) {
	if sc == nil {
		return
	}
	for _, g := range sc.Groups() {
		if !g.Visible {
			continue
		}
		for _, p := range g.Children() {
			drawPrimitive(p)
		}
	}
}

func drawPrimitive(p *scene.Primitive) {
	if p == nil || p.Disposed() || len(p.Points) == 0 {
		return
	}
	c := color(p.Color)
	switch p.Kind {
	case scene.KindSphere:
		rl.DrawSphere(vec3(p.Points[0]), float32(p.Radius), c)
	case scene.KindLine, scene.KindPolyline:
		for i := 1; i < len(p.Points); i++ {
			drawSegment(p.Points[i-1], p.Points[i], p.Width, c)
		}
	case scene.KindBox:
		pos := vec3(p.Points[0])
		w, h, l := float32(p.Size.X), float32(p.Size.Y), float32(p.Size.Z)
		rl.DrawCube(pos, w, h, l, c)
		rl.DrawCubeWires(pos, w, h, l, rl.Black)
	}
}

func drawSegment(a, b r3.Vec, width float64, c rl.Color) {
	if width <= 1 {
		rl.DrawLine3D(vec3(a), vec3(b), c)
		return
	}
	r := float32(width * lineRadiusPerWidth)
	rl.DrawCylinderEx(vec3(a), vec3(b), r, r, 4, c)
}
