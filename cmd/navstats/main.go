// Command navstats builds the configured arena and reports navmesh size,
// connectivity and path query statistics without opening a window.
//
// Usage: go run ./cmd/navstats -config arena.yaml -samples 500 -output-dir out
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/game"
	"github.com/pthm-cable/arena/scene"
	"github.com/pthm-cable/arena/systems"
	"github.com/pthm-cable/arena/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	routeFlag := flag.String("cells", "", "Extra route cells as x,z;x,z (spawn cells are always included)")
	samples := flag.Int("samples", 200, "Random free-cell queries to run")
	seed := flag.Int64("seed", 1, "Run seed: sampled queries, and generated obstacles when generator.seed is 0 (matches the game's -seed)")
	outputDir := flag.String("output-dir", "", "Write queries.csv and stats.csv here")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(*configPath, *routeFlag, *samples, *seed, *outputDir); err != nil {
		slog.Error("navstats failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, routeFlag string, samples int, seed int64, outputDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	extra, err := parseRouteCells(routeFlag)
	if err != nil {
		return err
	}

	tm, err := game.BuildArena(cfg, seed, nil)
	if err != nil {
		return err
	}
	mesh, err := systems.NewNavMesh(systems.NavMeshParams{
		Grid:               tm,
		Sink:               scene.New(),
		HoverHeight:        cfg.NavMesh.HoverHeight,
		ConnectionDistance: cfg.Derived.ConnectionDistance,
	})
	if err != nil {
		return fmt.Errorf("building navmesh: %w", err)
	}
	defer mesh.Dispose()
	planner, err := systems.NewAStarPlanner(mesh, cfg.Derived.NeighborDistance, nil)
	if err != nil {
		return err
	}

	islands := mesh.Islands(planner.NeighborDistance())
	sizes := make([]int, len(islands))
	for i, is := range islands {
		sizes[i] = len(is)
	}
	ps := systems.NewPhysicsSystem(systems.PhysicsParams{})
	ps.AddArena(tm)
	edges, blocked := edgesThroughObstacles(mesh.Waypoints(), planner, ps)
	ps.Dispose()

	slog.Info("navmesh",
		"waypoints", mesh.Len(),
		"corners", mesh.Corners(),
		"interior", mesh.Len()-mesh.Corners(),
		"obstacles", len(tm.Obstacles()),
		"islands", len(islands),
		"island_sizes", sizes,
		"edges", edges,
		"edges_through_obstacles", blocked,
	)

	om, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		return err
	}

	var records []telemetry.QueryRecord
	query := func(label string, a, b r3.Vec) {
		start := time.Now()
		res := planner.Search(a, b)
		records = append(records, telemetry.NewQueryRecord(0, label, res.Found, len(res.Path), res.Path.Length(), res.Expanded, time.Since(start)))
	}

	routes := append(game.SpawnCells(cfg), extra...)
	for i, a := range routes {
		for j, b := range routes {
			if i == j {
				continue
			}
			query(fmt.Sprintf("route %d,%d->%d,%d", a.X, a.Z, b.X, b.Z), cellPos(tm, a), cellPos(tm, b))
		}
	}

	free := tm.FreeCells()
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < samples && len(free) > 0; i++ {
		a, b := free[rng.Intn(len(free))], free[rng.Intn(len(free))]
		query("sample", cellPos(tm, a), cellPos(tm, b))
	}

	stats := telemetry.ComputeWindowStats(records)
	slog.Info("queries", "stats", stats)
	for _, r := range records {
		if !r.Found && strings.HasPrefix(r.Agent, "route") {
			slog.Warn("route unreachable", "query", r.Agent)
		}
	}

	if err := om.WriteQueries(records); err != nil {
		return err
	}
	return om.WriteStats(stats)
}

// edgesThroughObstacles counts neighbor edges and those whose floor segment
// crosses an obstacle box. Neighbors are chosen by distance alone, so
// edges past an obstacle corner are expected.
func edgesThroughObstacles(points []systems.Waypoint, planner *systems.AStarPlanner, ps *systems.PhysicsSystem) (edges, blocked int) {
	for _, wp := range points {
		for _, n := range planner.Neighbors(wp.ID) {
			if n <= wp.ID {
				continue
			}
			edges++
			if ps.Obstructed(wp.Pos, points[n].Pos) {
				blocked++
			}
		}
	}
	return edges, blocked
}

func cellPos(tm *systems.TileMap, c systems.GridPos) r3.Vec {
	x, z := tm.GridToWorld(c.X, c.Z)
	return r3.Vec{X: x, Z: z}
}

// parseRouteCells reads "x,z;x,z".
func parseRouteCells(s string) ([]systems.GridPos, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var cells []systems.GridPos
	for _, part := range strings.Split(s, ";") {
		xs, zs, ok := strings.Cut(strings.TrimSpace(part), ",")
		if !ok {
			return nil, fmt.Errorf("cell %q: want x,z", part)
		}
		x, err := strconv.Atoi(strings.TrimSpace(xs))
		if err != nil {
			return nil, fmt.Errorf("cell %q: %w", part, err)
		}
		z, err := strconv.Atoi(strings.TrimSpace(zs))
		if err != nil {
			return nil, fmt.Errorf("cell %q: %w", part, err)
		}
		cells = append(cells, systems.GridPos{X: x, Z: z})
	}
	return cells, nil
}
