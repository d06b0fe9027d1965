// Package scene holds the renderable groups that debug overlays push into.
// It knows nothing about how they are drawn; the renderer package walks a
// Scene each frame.
package scene

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrDisposed is returned when a primitive is disposed twice.
var ErrDisposed = errors.New("scene: primitive already disposed")

// Color is a packed 0xRRGGBB value.
type Color uint32

// RGB splits the color into its channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Kind identifies the shape of a primitive.
type Kind uint8

const (
	KindSphere Kind = iota
	KindLine
	KindPolyline
	KindBox
)

// Primitive is one drawable shape.
type Primitive struct {
	Kind   Kind
	Points []r3.Vec // sphere/box: center at [0]; line: two; polyline: n
	Radius float64  // sphere radius
	Size   r3.Vec   // box extents
	Width  float64  // line width
	Color  Color

	disposed bool
}

// Sphere creates a sphere marker.
func Sphere(center r3.Vec, radius float64, color Color) *Primitive {
	return &Primitive{Kind: KindSphere, Points: []r3.Vec{center}, Radius: radius, Color: color}
}

// Line creates a segment between a and b.
func Line(a, b r3.Vec, width float64, color Color) *Primitive {
	return &Primitive{Kind: KindLine, Points: []r3.Vec{a, b}, Width: width, Color: color}
}

// Polyline creates a connected strip through points.
func Polyline(points []r3.Vec, width float64, color Color) *Primitive {
	pts := make([]r3.Vec, len(points))
	copy(pts, points)
	return &Primitive{Kind: KindPolyline, Points: pts, Width: width, Color: color}
}

// Box creates an axis-aligned box centered on center.
func Box(center, size r3.Vec, color Color) *Primitive {
	return &Primitive{Kind: KindBox, Points: []r3.Vec{center}, Size: size, Color: color}
}

// Disposed reports whether Dispose has run.
func (p *Primitive) Disposed() bool {
	return p.disposed
}

// Dispose releases the primitive's geometry.
func (p *Primitive) Dispose() error {
	if p.disposed {
		return ErrDisposed
	}
	p.disposed = true
	p.Points = nil
	return nil
}

// Group is a named collection of primitives toggled as one.
type Group struct {
	Name    string
	Visible bool

	children []*Primitive
}

// NewGroup creates an empty visible group.
func NewGroup(name string) *Group {
	return &Group{Name: name, Visible: true}
}

// Add appends primitives to the group.
func (g *Group) Add(prims ...*Primitive) {
	g.children = append(g.children, prims...)
}

// Children returns the group's primitives. Callers must not modify the slice.
func (g *Group) Children() []*Primitive {
	return g.children
}

// Len returns the number of primitives in the group.
func (g *Group) Len() int {
	return len(g.children)
}

// Clear disposes and removes every primitive. Disposal errors are collected
// and returned; the group is emptied regardless.
func (g *Group) Clear() error {
	var errs []error
	for _, p := range g.children {
		if p == nil {
			continue
		}
		if err := p.Dispose(); err != nil {
			errs = append(errs, err)
		}
	}
	g.children = g.children[:0]
	return errors.Join(errs...)
}

// Sink is the rendering host: it accepts and releases groups.
type Sink interface {
	Add(g *Group)
	Remove(g *Group)
}

// Scene is an ordered set of groups.
type Scene struct {
	groups []*Group
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add registers g. Adding a group that is already present is a no-op.
func (s *Scene) Add(g *Group) {
	if g == nil || s.Contains(g) {
		return
	}
	s.groups = append(s.groups, g)
}

// Remove unregisters g. Removing an absent group is a no-op.
func (s *Scene) Remove(g *Group) {
	for i, existing := range s.groups {
		if existing == g {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			return
		}
	}
}

// Contains reports whether g is registered.
func (s *Scene) Contains(g *Group) bool {
	for _, existing := range s.groups {
		if existing == g {
			return true
		}
	}
	return false
}

// Groups returns the registered groups in insertion order.
func (s *Scene) Groups() []*Group {
	return s.groups
}

// Len returns the number of registered groups.
func (s *Scene) Len() int {
	return len(s.groups)
}

// PrimitiveCount returns the total primitives across all groups.
func (s *Scene) PrimitiveCount() int {
	n := 0
	for _, g := range s.groups {
		n += g.Len()
	}
	return n
}
