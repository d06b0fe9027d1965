package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arena/components"
)

func testCache() components.PathCache {
	return components.PathCache{
		Waypoints: []r3.Vec{{X: 0, Y: 5, Z: 0}, {X: 10, Y: 5, Z: 0}, {X: 20, Y: 5, Z: 0}},
		Target:    r3.Vec{X: 20, Z: 0},
		ValidTick: 100,
	}
}

func TestIsPathValid(t *testing.T) {
	target := r3.Vec{X: 20, Z: 0}

	tests := []struct {
		name   string
		mutate func(c *components.PathCache)
		target r3.Vec
		tick   int32
		want   bool
	}{
		{"fresh", nil, target, 110, true},
		{"at max age", nil, target, 220, true},
		{"too old", nil, target, 300, false},
		{"target moved", nil, r3.Vec{X: 40}, 110, false},
		{"target moved vertically only", nil, r3.Vec{X: 20, Y: 50}, 110, true},
		{"consumed", func(c *components.PathCache) { c.Index = 3 }, target, 110, false},
		{"empty", func(c *components.PathCache) { c.Waypoints = nil }, target, 110, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := testCache()
			if tc.mutate != nil {
				tc.mutate(&c)
			}
			if got := IsPathValid(&c, tc.target, tc.tick, 120, 10); got != tc.want {
				t.Errorf("IsPathValid = %v, want %v", got, tc.want)
			}
		})
	}

	if IsPathValid(nil, target, 0, 120, 10) {
		t.Error("nil cache should be invalid")
	}
}

func TestGetNextWaypoint(t *testing.T) {
	c := testCache()

	// Standing on the first waypoint advances to the second
	wp, more := GetNextWaypoint(&c, r3.Vec{X: 0.5}, 2)
	if wp.X != 10 || !more || c.Index != 1 {
		t.Errorf("got %v more=%v index=%d, want x=10 more index=1", wp, more, c.Index)
	}

	// Far from the second waypoint keeps it
	wp, more = GetNextWaypoint(&c, r3.Vec{X: 3}, 2)
	if wp.X != 10 || !more || c.Index != 1 {
		t.Errorf("got %v more=%v index=%d, want x=10 more index=1", wp, more, c.Index)
	}

	// Reaching the second returns the last, with no more after it
	wp, more = GetNextWaypoint(&c, r3.Vec{X: 9.5}, 2)
	if wp.X != 20 || more {
		t.Errorf("got %v more=%v, want x=20 and no more", wp, more)
	}

	// Reaching the last exhausts the cache
	wp, more = GetNextWaypoint(&c, r3.Vec{X: 19.5}, 2)
	if wp.X != 20 || more || c.Index != 3 {
		t.Errorf("got %v more=%v index=%d, want final waypoint and exhausted", wp, more, c.Index)
	}

	pos := r3.Vec{X: 7, Z: 7}
	wp, more = GetNextWaypoint(&c, pos, 2)
	if wp != pos || more {
		t.Errorf("exhausted cache = %v more=%v, want pos", wp, more)
	}
}

func TestNewPathCache(t *testing.T) {
	path := Path{{ID: 4, Pos: r3.Vec{X: 1}}, {ID: 9, Pos: r3.Vec{X: 2}}}
	c := NewPathCache(path, r3.Vec{Z: 3}, 42)
	if len(c.Waypoints) != 2 || c.Waypoints[1].X != 2 || c.ValidTick != 42 || c.Index != 0 {
		t.Errorf("NewPathCache = %+v", c)
	}
}
