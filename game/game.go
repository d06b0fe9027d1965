// Package game wires the arena: occupancy, navmesh, planner, agents, physics
// and telemetry, driven either by a raylib window or headless.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arena/camera"
	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/renderer"
	"github.com/pthm-cable/arena/scene"
	"github.com/pthm-cable/arena/systems"
	"github.com/pthm-cable/arena/telemetry"
	"github.com/pthm-cable/arena/ui"
)

// Options configures a game run.
type Options struct {
	Seed           int64
	Headless       bool
	OutputDir      string // empty disables CSV output
	LogStats       bool   // log window and perf stats via slog
	StepsPerUpdate int
	Logger         *slog.Logger
}

// Game holds the complete arena state.
type Game struct {
	cfg  *config.Config
	opts Options
	log  *slog.Logger
	rng  *rand.Rand

	world   *ecs.World
	posMap  *ecs.Map[components.Position]
	navMap  *ecs.Map[components.Navigation]
	player  ecs.Entity
	enemies []ecs.Entity

	tileMap *systems.TileMap
	scene   *scene.Scene
	physics *systems.PhysicsSystem
	navMesh *systems.NavMesh
	planner *systems.AStarPlanner
	islands int
	pathVis *systems.PathVisualizer
	chase   *systems.ChaseSystem
	patrol  *systems.PatrolSystem

	registry *systems.SystemRegistry // tick phases for the HUD

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	lastStats telemetry.WindowStats

	// Graphics only
	camera      *camera.Camera
	arenaDrawer *renderer.ArenaRenderer
	hud         *ui.HUD

	tick           int32
	paused         bool
	stepsPerUpdate int
	manual         components.Velocity // keyboard steering of the player
	manualActive   bool
}

// NewGame builds the arena described by cfg.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}
	g := &Game{
		cfg:            cfg,
		opts:           opts,
		log:            opts.Logger,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		world:          ecs.NewWorld(),
		scene:          scene.New(),
		stepsPerUpdate: opts.StepsPerUpdate,
		registry:       systems.NewSystemRegistry(),
	}
	g.posMap = ecs.NewMap[components.Position](g.world)
	g.navMap = ecs.NewMap[components.Navigation](g.world)

	tm, err := BuildArena(cfg, opts.Seed, g.log)
	if err != nil {
		return nil, err
	}
	g.tileMap = tm
	g.physics = systems.NewPhysicsSystem(systems.PhysicsParams{Iterations: cfg.Physics.Iterations, Logger: g.log})
	g.physics.AddArena(g.tileMap)

	if err := g.buildNavigation(cfg.Controls.ShowNavMesh); err != nil {
		return nil, err
	}
	vis, err := systems.NewPathVisualizer(systems.PathVisualParams{
		Sink:       g.scene,
		Logger:     g.log,
		Lift:       cfg.Pathfinding.PathLift,
		PointSize:  cfg.Pathfinding.PointSize,
		PointColor: scene.Color(cfg.Pathfinding.PointColor),
		LineColor:  scene.Color(cfg.Pathfinding.LineColor),
		LineWidth:  cfg.Pathfinding.LineWidth,
		Visible:    cfg.Controls.ShowEnemyPath,
	})
	if err != nil {
		return nil, fmt.Errorf("creating path visualizer: %w", err)
	}
	g.pathVis = vis

	g.spawnAgents()

	if err := g.buildSystems(); err != nil {
		return nil, err
	}
	if err := g.initTelemetry(); err != nil {
		return nil, err
	}

	if !opts.Headless {
		hx, hz := g.tileMap.HalfExtents()
		g.camera = camera.New(hx, hz)
		g.arenaDrawer = renderer.NewArenaRenderer(g.tileMap)
		g.hud = ui.NewHUD()
	}

	g.log.Info("arena ready",
		"width", cfg.TileMap.Width,
		"height", cfg.TileMap.Height,
		"obstacles", len(g.tileMap.Obstacles()),
		"enemies", len(g.enemies),
		"seed", opts.Seed,
	)
	return g, nil
}

func (g *Game) spawnPosition(c config.CellConfig) r3.Vec {
	x, z := g.tileMap.GridToWorld(c.X, c.Z)
	return r3.Vec{X: x, Z: z}
}

// spawnAgents creates the player and enemy entities and their bodies. The
// first enemy's path is drawn.
func (g *Game) spawnAgents() {
	a := g.cfg.Agents
	players := ecs.NewMap5[components.Position, components.Velocity, components.Agent, components.Navigation, components.Player](g.world)
	enemies := ecs.NewMap5[components.Position, components.Velocity, components.Agent, components.Navigation, components.Enemy](g.world)

	pos := g.spawnPosition(a.Player.Spawn)
	g.player = players.NewEntity(
		&components.Position{X: pos.X, Z: pos.Z},
		&components.Velocity{},
		&components.Agent{Name: "player", Speed: a.Player.Speed, Radius: a.Player.Radius},
		&components.Navigation{},
		&components.Player{},
	)
	g.physics.AddAgent(g.player, pos, a.Player.Radius)

	for i, ec := range a.Enemies {
		pos := g.spawnPosition(ec.Spawn)
		e := enemies.NewEntity(
			&components.Position{X: pos.X, Z: pos.Z},
			&components.Velocity{},
			&components.Agent{Name: fmt.Sprintf("enemy-%d", i), Speed: ec.Speed, Radius: ec.Radius},
			&components.Navigation{},
			&components.Enemy{Tracked: i == 0},
		)
		g.physics.AddAgent(e, pos, ec.Radius)
		g.enemies = append(g.enemies, e)
	}
}

func (g *Game) buildSystems() error {
	pf := g.cfg.Pathfinding
	chase, err := systems.NewChaseSystem(g.world, systems.ChaseParams{
		Planner:             g.planner,
		Mover:               g.physics,
		Visualizer:          g.pathVis,
		Observer:            g.onQuery,
		Logger:              g.log,
		RepathTicks:         pf.RepathTicks,
		MaxPathAge:          pf.MaxPathAge,
		TargetMoveTolerance: pf.TargetMoveTolerance,
		ArrivalDistance:     pf.ArrivalDistance,
	})
	if err != nil {
		return fmt.Errorf("creating chase system: %w", err)
	}
	g.chase = chase

	patrol, err := systems.NewPatrolSystem(g.world, systems.PatrolParams{
		Planner:         g.planner,
		Goals:           g.patrolGoals(),
		Rand:            g.rng,
		Mover:           g.physics,
		ArrivalDistance: pf.ArrivalDistance,
		Logger:          g.log,
	})
	if err != nil {
		return fmt.Errorf("creating patrol system: %w", err)
	}
	g.patrol = patrol
	return nil
}

func (g *Game) patrolGoals() []r3.Vec {
	free := g.tileMap.FreeCells()
	goals := make([]r3.Vec, 0, len(free))
	for _, c := range free {
		x, z := g.tileMap.GridToWorld(c.X, c.Z)
		goals = append(goals, r3.Vec{X: x, Z: z})
	}
	return goals
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// TileMap returns the arena occupancy model.
func (g *Game) TileMap() *systems.TileMap {
	return g.tileMap
}

// NavMesh returns the current navmesh.
func (g *Game) NavMesh() *systems.NavMesh {
	return g.navMesh
}

// Planner returns the planner built from the current navmesh.
func (g *Game) Planner() *systems.AStarPlanner {
	return g.planner
}

// Scene returns the debug scene holding the navmesh and path groups.
func (g *Game) Scene() *scene.Scene {
	return g.scene
}

// LastStats returns the most recently flushed query window.
func (g *Game) LastStats() telemetry.WindowStats {
	return g.lastStats
}
