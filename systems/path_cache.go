package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arena/components"
)

// NewPathCache stores path for an agent chasing target.
func NewPathCache(path Path, target r3.Vec, tick int32) components.PathCache {
	return components.PathCache{
		Waypoints: path.Positions(),
		Target:    target,
		ValidTick: tick,
	}
}

// IsPathValid checks if a cached path is still valid.
// A path is invalid if:
// - it is empty or fully consumed
// - it is older than maxAge ticks
// - the target has moved more than tolerance on the ground plane
//
// Occupancy is fixed for the life of a navmesh, so a path is never
// invalidated by obstacles; neighbor edges may clip an obstacle corner.
func IsPathValid(cache *components.PathCache, target r3.Vec, currentTick, maxAge int32, tolerance float64) bool {
	if cache == nil || cache.Index >= len(cache.Waypoints) {
		return false
	}
	if currentTick-cache.ValidTick > maxAge {
		return false
	}
	if planarDist(target, cache.Target) > tolerance {
		return false
	}
	return true
}

// GetNextWaypoint returns the next waypoint to steer toward, advancing the
// index when pos is within arrival of the current one. hasMore is false on
// the final waypoint; an exhausted cache returns pos.
func GetNextWaypoint(cache *components.PathCache, pos r3.Vec, arrival float64) (wp r3.Vec, hasMore bool) {
	if cache == nil || cache.Index >= len(cache.Waypoints) {
		return pos, false
	}

	wp = cache.Waypoints[cache.Index]
	if planarDist(wp, pos) < arrival {
		cache.Index++
		if cache.Index >= len(cache.Waypoints) {
			return wp, false
		}
		wp = cache.Waypoints[cache.Index]
	}

	return wp, cache.Index < len(cache.Waypoints)-1
}

// planarDist ignores height: agents walk on the floor while waypoints hover.
func planarDist(a, b r3.Vec) float64 {
	a.Y, b.Y = 0, 0
	return r3.Norm(r3.Sub(a, b))
}
