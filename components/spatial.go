package components

import "gonum.org/v1/gonum/spatial/r3"

// Position represents an entity's world position. Y is height above the floor.
type Position struct {
	X, Y, Z float64
}

// Vec returns the position as a vector.
func (p Position) Vec() r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// Set copies v into the position.
func (p *Position) Set(v r3.Vec) {
	p.X, p.Y, p.Z = v.X, v.Y, v.Z
}

// Velocity represents an entity's planar velocity in world units per second.
type Velocity struct {
	X, Z float64
}
