package systems

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/spatial/r3"
)

// buildAdjacency returns, for each waypoint, the indices of every other
// waypoint within maxDist. Neighbor lists are in ascending index order.
func buildAdjacency(points []Waypoint, maxDist float64) [][]int {
	adj := make([][]int, len(points))
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if r3.Norm(r3.Sub(points[i].Pos, points[j].Pos)) <= maxDist {
				adj[i] = append(adj[i], j)
				adj[j] = append(adj[j], i)
			}
		}
	}
	for i := range adj {
		sort.Ints(adj[i])
	}
	return adj
}

// Graph returns the proximity graph over the waypoints with Euclidean edge
// weights. Node IDs are waypoint IDs. Coincident waypoints are joined by
// zero-weight edges.
func (m *NavMesh) Graph(maxDist float64) *simple.WeightedUndirectedGraph {
	return waypointGraph(m.waypoints, maxDist)
}

func waypointGraph(points []Waypoint, maxDist float64) *simple.WeightedUndirectedGraph {
	g := simple.NewWeightedUndirectedGraph(0, 0)
	for _, wp := range points {
		g.AddNode(simple.Node(wp.ID))
	}
	for i, ns := range buildAdjacency(points, maxDist) {
		for _, j := range ns {
			if j < i {
				continue
			}
			w := r3.Norm(r3.Sub(points[i].Pos, points[j].Pos))
			g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(i), simple.Node(j), w))
		}
	}
	return g
}

// Islands returns the connected components of the proximity graph as sorted
// waypoint ID lists, largest first. A mesh without isolated regions has one
// island.
func (m *NavMesh) Islands(maxDist float64) [][]int {
	if len(m.waypoints) == 0 {
		return nil
	}
	comps := topo.ConnectedComponents(m.Graph(maxDist))
	islands := make([][]int, len(comps))
	for i, c := range comps {
		ids := make([]int, len(c))
		for k, n := range c {
			ids[k] = int(n.ID())
		}
		sort.Ints(ids)
		islands[i] = ids
	}
	sort.SliceStable(islands, func(a, b int) bool {
		if len(islands[a]) != len(islands[b]) {
			return len(islands[a]) > len(islands[b])
		}
		return islands[a][0] < islands[b][0]
	})
	return islands
}
