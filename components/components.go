// Package components defines ECS components for arena agents.
package components

import "gonum.org/v1/gonum/spatial/r3"

// Agent holds movement parameters shared by the player and enemies.
type Agent struct {
	Name   string
	Speed  float64 // world units per second
	Radius float64 // physics body radius
}

// Player tags the entity enemies chase.
type Player struct {
	PatrolGoal r3.Vec // headless wander target
	HasGoal    bool
}

// Enemy tags an entity steered by the pathfinder.
type Enemy struct {
	Tracked bool // its path is drawn by the path visualizer
}

// PathCache stores a computed path and validation info.
type PathCache struct {
	Waypoints []r3.Vec // path waypoints in world coordinates
	Index     int      // current waypoint index
	Target    r3.Vec   // target position when the path was computed
	ValidTick int32    // tick when the path was computed
}

// Navigation is the per-agent pathfinding state.
type Navigation struct {
	Cache     PathCache
	HasPath   bool
	LastQuery int32 // tick of the last search
	NextQuery int32 // earliest tick for a scheduled search
	Queries   int32
	Misses    int32 // consecutive not-found results
}
