// Package camera provides an orbit camera for viewing the arena.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Pitch limits keep the camera above the floor and off the pole.
const (
	MinPitch = 0.1
	MaxPitch = math.Pi/2 - 0.05
)

// Camera orbits a target point on the arena floor.
type Camera struct {
	// Target is the point the camera looks at
	Target r3.Vec

	// Yaw is the heading around the vertical axis in radians; 0 looks along -z
	Yaw float64

	// Pitch is the elevation above the floor in radians
	Pitch float64

	// Distance from target
	Distance float64

	// Distance constraints
	MinDistance, MaxDistance float64

	// Arena half extents bound the target
	HalfX, HalfZ float64

	home pose
}

// pose is what Reset restores.
type pose struct {
	target               r3.Vec
	yaw, pitch, distance float64
}

// New creates a camera looking at the arena center from a distance that
// frames an arena of the given half extents.
func New(halfX, halfZ float64) *Camera {
	span := math.Max(halfX, halfZ)
	if span <= 0 {
		span = 1
	}
	c := &Camera{
		Yaw:         math.Pi / 4,
		Pitch:       math.Pi / 3,
		Distance:    span * 2.2,
		MinDistance: span * 0.2,
		MaxDistance: span * 6,
		HalfX:       halfX,
		HalfZ:       halfZ,
	}
	c.home = pose{c.Target, c.Yaw, c.Pitch, c.Distance}
	return c
}

// Position returns the camera eye position in world space.
func (c *Camera) Position() r3.Vec {
	cp := math.Cos(c.Pitch)
	offset := r3.Vec{
		X: c.Distance * cp * math.Sin(c.Yaw),
		Y: c.Distance * math.Sin(c.Pitch),
		Z: c.Distance * cp * math.Cos(c.Yaw),
	}
	return r3.Add(c.Target, offset)
}

// Forward returns the unit view direction projected onto the floor.
func (c *Camera) Forward() r3.Vec {
	return r3.Vec{X: -math.Sin(c.Yaw), Z: -math.Cos(c.Yaw)}
}

// Right returns the unit floor direction to the right of the view.
func (c *Camera) Right() r3.Vec {
	return r3.Vec{X: math.Cos(c.Yaw), Z: -math.Sin(c.Yaw)}
}

// Orbit rotates the camera around the target.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = clamp(c.Pitch+dPitch, MinPitch, MaxPitch)
}

// Pan moves the target across the floor relative to the view: right and
// forward are in world units. The target stays inside the arena.
func (c *Camera) Pan(right, forward float64) {
	d := r3.Add(r3.Scale(right, c.Right()), r3.Scale(forward, c.Forward()))
	c.Target.X = clamp(c.Target.X+d.X, -c.HalfX, c.HalfX)
	c.Target.Z = clamp(c.Target.Z+d.Z, -c.HalfZ, c.HalfZ)
}

// SetDistance sets the orbit distance, clamped to min/max.
func (c *Camera) SetDistance(d float64) {
	c.Distance = clamp(d, c.MinDistance, c.MaxDistance)
}

// ZoomBy divides the distance by factor; factors above 1 move closer.
func (c *Camera) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	c.SetDistance(c.Distance / factor)
}

// Reset returns the camera to its initial pose.
func (c *Camera) Reset() {
	c.Target = c.home.target
	c.Yaw = c.home.yaw
	c.Pitch = c.home.pitch
	c.Distance = c.home.distance
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
