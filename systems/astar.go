package systems

import (
	"errors"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultNeighborFactor scales the tile size into the search's neighbor
// threshold. It is deliberately independent of DefaultConnectionFactor.
const DefaultNeighborFactor = 1.25

// ErrNilNavMesh is returned when a planner is built without a navmesh.
var ErrNilNavMesh = errors.New("astar: navmesh is required")

// Path is an ordered run of waypoints from the start waypoint to the goal
// waypoint inclusive. Consecutive waypoints are within the planner's
// neighbor distance.
type Path []Waypoint

// Length returns the summed Euclidean length of the path.
func (p Path) Length() float64 {
	total := 0.0
	for i := 1; i < len(p); i++ {
		total += r3.Norm(r3.Sub(p[i].Pos, p[i-1].Pos))
	}
	return total
}

// Positions returns the waypoint positions in path order.
func (p Path) Positions() []r3.Vec {
	out := make([]r3.Vec, len(p))
	for i, wp := range p {
		out[i] = wp.Pos
	}
	return out
}

// SearchResult is the outcome of a single query.
type SearchResult struct {
	Path     Path
	Found    bool
	StartID  int // -1 when snapping failed
	GoalID   int
	Expanded int // nodes moved to the closed set
}

// AStarPlanner finds paths over a navmesh's waypoints. It holds its own
// reference to the waypoint slice, so disposing the navmesh does not affect
// a planner already built from it. Queries only read planner state and are
// safe to run from several agents.
type AStarPlanner struct {
	waypoints    []Waypoint
	neighbors    [][]int
	neighborDist float64
	log          *slog.Logger
}

// NewAStarPlanner creates a planner over mesh's waypoints. A zero
// neighborDist means tile size * DefaultNeighborFactor.
func NewAStarPlanner(mesh *NavMesh, neighborDist float64, logger *slog.Logger) (*AStarPlanner, error) {
	if mesh == nil {
		return nil, ErrNilNavMesh
	}
	if neighborDist == 0 {
		neighborDist = mesh.TileSize() * DefaultNeighborFactor
	}
	return newPlanner(mesh.Waypoints(), neighborDist, logger), nil
}

func newPlanner(points []Waypoint, neighborDist float64, logger *slog.Logger) *AStarPlanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &AStarPlanner{
		waypoints:    points,
		neighbors:    buildAdjacency(points, neighborDist),
		neighborDist: neighborDist,
		log:          logger,
	}
}

// NeighborDistance returns the maximum edge length used by the search.
func (a *AStarPlanner) NeighborDistance() float64 {
	return a.neighborDist
}

// Len returns the number of waypoints the planner searches over.
func (a *AStarPlanner) Len() int {
	return len(a.waypoints)
}

// Neighbors returns the IDs adjacent to id in ascending order.
func (a *AStarPlanner) Neighbors(id int) []int {
	if id < 0 || id >= len(a.neighbors) {
		return nil
	}
	return a.neighbors[id]
}

// NearestWaypoint snaps pos to the closest waypoint. Ties go to the waypoint
// generated first.
func (a *AStarPlanner) NearestWaypoint(pos r3.Vec) (Waypoint, bool) {
	if a == nil || len(a.waypoints) == 0 || !finiteVec(pos) {
		return Waypoint{}, false
	}
	best := -1
	bestDist := math.Inf(1)
	for i, wp := range a.waypoints {
		d := r3.Norm(r3.Sub(wp.Pos, pos))
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Waypoint{}, false
	}
	return a.waypoints[best], true
}

// FindPath snaps start and goal to waypoints and returns the cheapest path
// between them. A false result is a normal outcome: the inputs could not be
// snapped or the goal is unreachable.
func (a *AStarPlanner) FindPath(start, goal r3.Vec) (Path, bool) {
	res := a.Search(start, goal)
	return res.Path, res.Found
}

// Search is FindPath with search statistics. It never panics; an internal
// failure is logged and reported as not found.
func (a *AStarPlanner) Search(start, goal r3.Vec) (res SearchResult) {
	res = SearchResult{StartID: -1, GoalID: -1}
	if a == nil {
		return res
	}
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("path search failed", "panic", r, "start", start, "goal", goal)
			res = SearchResult{StartID: -1, GoalID: -1}
		}
	}()

	s, ok := a.NearestWaypoint(start)
	if !ok {
		return res
	}
	g, ok := a.NearestWaypoint(goal)
	if !ok {
		return res
	}
	res.StartID, res.GoalID = s.ID, g.ID
	res.Path, res.Expanded, res.Found = a.search(s.ID, g.ID)
	return res
}

// search runs A* from startID to goalID. The open set is scanned linearly
// for the lowest f; on ties the earliest entry wins.
func (a *AStarPlanner) search(startID, goalID int) (Path, int, bool) {
	wps := a.waypoints
	n := len(wps)
	goalPos := wps[goalID].Pos

	gScore := make([]float64, n)
	fScore := make([]float64, n)
	cameFrom := make([]int, n)
	inOpen := make([]bool, n)
	closed := make([]bool, n)
	for i := range gScore {
		gScore[i] = math.Inf(1)
		fScore[i] = math.Inf(1)
		cameFrom[i] = -1
	}

	gScore[startID] = 0
	fScore[startID] = r3.Norm(r3.Sub(wps[startID].Pos, goalPos))
	open := []int{startID}
	inOpen[startID] = true
	expanded := 0

	for len(open) > 0 {
		best := 0
		for i := 1; i < len(open); i++ {
			if fScore[open[i]] < fScore[open[best]] {
				best = i
			}
		}
		current := open[best]
		if current == goalID {
			return a.reconstructPath(cameFrom, goalID), expanded, true
		}

		open = append(open[:best], open[best+1:]...)
		inOpen[current] = false
		closed[current] = true
		expanded++

		for _, nb := range a.neighbors[current] {
			if closed[nb] {
				continue
			}
			tentativeG := gScore[current] + r3.Norm(r3.Sub(wps[current].Pos, wps[nb].Pos))
			if !inOpen[nb] {
				open = append(open, nb)
				inOpen[nb] = true
			} else if tentativeG >= gScore[nb] {
				continue
			}
			cameFrom[nb] = current
			gScore[nb] = tentativeG
			fScore[nb] = tentativeG + r3.Norm(r3.Sub(wps[nb].Pos, goalPos))
		}
	}
	return nil, expanded, false
}

// reconstructPath follows predecessors back from goalID and reverses.
func (a *AStarPlanner) reconstructPath(cameFrom []int, goalID int) Path {
	var rev Path
	for id := goalID; id >= 0; id = cameFrom[id] {
		rev = append(rev, a.waypoints[id])
	}
	path := make(Path, len(rev))
	for i, wp := range rev {
		path[len(rev)-1-i] = wp
	}
	return path
}

func finiteVec(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
