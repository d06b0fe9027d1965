package game

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/pthm-cable/arena/config"

	"github.com/pthm-cable/arena/scene"
	"github.com/pthm-cable/arena/systems"
)

// ErrRestartRequired is returned by ReloadConfig when the new config changes
// the arena layout, which is fixed for the life of a Game.
var ErrRestartRequired = errors.New("tile map or generator changed; restart to apply")

// buildNavigation builds the navmesh and its planner from the current tile
// map.
func (g *Game) buildNavigation(visible bool) error {
	nm := g.cfg.NavMesh
	mesh, err := systems.NewNavMesh(systems.NavMeshParams{
		Grid:               g.tileMap,
		Sink:               g.scene,
		Logger:             g.log,
		HoverHeight:        nm.HoverHeight,
		PointSize:          nm.PointSize,
		PointColor:         scene.Color(nm.PointColor),
		LineColor:          scene.Color(nm.LineColor),
		LineWidth:          nm.LineWidth,
		ConnectionDistance: g.cfg.Derived.ConnectionDistance,
		Visible:            visible,
	})
	if err != nil {
		return fmt.Errorf("building navmesh: %w", err)
	}
	planner, err := systems.NewAStarPlanner(mesh, g.cfg.Derived.NeighborDistance, g.log)
	if err != nil {
		mesh.Dispose()
		return fmt.Errorf("creating planner: %w", err)
	}

	islands := mesh.Islands(planner.NeighborDistance())
	g.islands = len(islands)
	if len(islands) > 1 {
		sizes := make([]int, len(islands))
		for i, is := range islands {
			sizes[i] = len(is)
		}
		g.log.Warn("navmesh has unreachable regions", "islands", len(islands), "sizes", sizes)
	}

	g.navMesh = mesh
	g.planner = planner
	return nil
}

// RebuildNavMesh disposes the current navmesh and builds a new one from the
// tile map. Agents repath on their next update.
func (g *Game) RebuildNavMesh() error {
	visible := g.cfg.Controls.ShowNavMesh
	if g.navMesh != nil {
		visible = g.navMesh.Visible()
		g.navMesh.Dispose()
		g.navMesh = nil
	}
	if err := g.buildNavigation(visible); err != nil {
		return err
	}
	if g.pathVis != nil {
		g.pathVis.Clear()
	}
	if g.chase != nil {
		g.chase.SetPlanner(g.planner)
	}
	if g.patrol != nil {
		g.patrol.SetPlanner(g.planner)
	}
	return nil
}

// Islands returns the number of disconnected waypoint regions.
func (g *Game) Islands() int {
	return g.islands
}

// ReloadConfig applies navmesh and pathfinding settings from cfg and
// rebuilds the navmesh. Layout changes are rejected and leave the game
// untouched.
func (g *Game) ReloadConfig(cfg *config.Config) error {
	if !reflect.DeepEqual(cfg.TileMap, g.cfg.TileMap) || cfg.Generator != g.cfg.Generator {
		return ErrRestartRequired
	}
	g.cfg.NavMesh = cfg.NavMesh
	g.cfg.Pathfinding.NeighborFactor = cfg.Pathfinding.NeighborFactor
	g.cfg.Derived.NeighborDistance = cfg.Derived.NeighborDistance
	g.cfg.Derived.ConnectionDistance = cfg.Derived.ConnectionDistance
	if err := g.RebuildNavMesh(); err != nil {
		return err
	}
	g.log.Info("config reloaded",
		"waypoints", g.navMesh.Len(),
		"islands", g.islands,
		"neighbor_distance", g.cfg.Derived.NeighborDistance,
	)
	return nil
}
