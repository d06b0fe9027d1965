package systems

import (
	"errors"
	"log/slog"
	"time"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arena/components"
)

// ErrNilPlanner is returned when a chase system is built without a planner.
var ErrNilPlanner = errors.New("chase: planner is required")

// Mover applies steering output to an agent.
type Mover interface {
	SetVelocity(e ecs.Entity, v components.Velocity)
}

// QueryEvent describes one path search made for an agent.
type QueryEvent struct {
	Tick      int32
	Agent     string
	Found     bool
	Waypoints int
	Length    float64
	Expanded  int
	Duration  time.Duration
}

// ChaseParams configures a ChaseSystem.
type ChaseParams struct {
	Planner    *AStarPlanner
	Mover      Mover // optional; velocity components are always written
	Visualizer *PathVisualizer
	Observer   func(QueryEvent)
	Logger     *slog.Logger

	RepathTicks         int32
	MaxPathAge          int32
	TargetMoveTolerance float64
	ArrivalDistance     float64
}

// ChaseSystem steers every enemy along a path toward the player.
type ChaseSystem struct {
	enemies *ecs.Filter5[components.Position, components.Velocity, components.Agent, components.Navigation, components.Enemy]
	players *ecs.Filter2[components.Position, components.Player]
	p       ChaseParams
	log     *slog.Logger
}

// NewChaseSystem creates a chase system over w.
func NewChaseSystem(w *ecs.World, p ChaseParams) (*ChaseSystem, error) {
	if p.Planner == nil {
		return nil, ErrNilPlanner
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	if p.RepathTicks <= 0 {
		p.RepathTicks = 30
	}
	if p.MaxPathAge <= 0 {
		p.MaxPathAge = 4 * p.RepathTicks
	}
	return &ChaseSystem{
		enemies: ecs.NewFilter5[components.Position, components.Velocity, components.Agent, components.Navigation, components.Enemy](w),
		players: ecs.NewFilter2[components.Position, components.Player](w),
		p:       p,
		log:     p.Logger,
	}, nil
}

// SetPlanner swaps the planner after a navmesh rebuild. Cached paths
// refer to the old waypoints, so every enemy repaths on the next update.
func (s *ChaseSystem) SetPlanner(p *AStarPlanner) {
	if p != nil {
		s.p.Planner = p
	}
	query := s.enemies.Query()
	for query.Next() {
		_, _, _, nav, _ := query.Get()
		nav.HasPath = false
		nav.NextQuery = 0
	}
}

// target returns the position of the first player.
func (s *ChaseSystem) target() (r3.Vec, bool) {
	var target r3.Vec
	found := false
	query := s.players.Query()
	for query.Next() {
		pos, _ := query.Get()
		if !found {
			target, found = pos.Vec(), true
		}
	}
	return target, found
}

// Update repaths enemies that are due and steers them toward their next
// waypoint. Enemies without a path hold position.
func (s *ChaseSystem) Update(tick int32) {
	target, hasTarget := s.target()

	query := s.enemies.Query()
	for query.Next() {
		e := query.Entity()
		pos, vel, agent, nav, enemy := query.Get()
		here := pos.Vec()

		if !hasTarget {
			nav.HasPath = false
			s.steer(e, vel, components.Velocity{})
			continue
		}

		if nav.HasPath && nav.Cache.Index >= len(nav.Cache.Waypoints) {
			// Arrived; wait for the schedule rather than searching every tick
			nav.HasPath = false
		}
		due := tick >= nav.NextQuery
		if nav.HasPath && !IsPathValid(&nav.Cache, target, tick, s.p.MaxPathAge, s.p.TargetMoveTolerance) {
			due = true
		}
		if due {
			s.repath(tick, agent, nav, enemy, here, target)
		}

		if !nav.HasPath {
			s.steer(e, vel, components.Velocity{})
			continue
		}
		wp, _ := GetNextWaypoint(&nav.Cache, here, s.p.ArrivalDistance)
		s.steer(e, vel, seek(here, wp, agent.Speed))
	}
}

func (s *ChaseSystem) repath(tick int32, agent *components.Agent, nav *components.Navigation, enemy *components.Enemy, from, target r3.Vec) {
	start := time.Now()
	res := s.p.Planner.Search(from, target)
	elapsed := time.Since(start)

	nav.LastQuery = tick
	nav.NextQuery = tick + s.p.RepathTicks
	nav.Queries++

	if res.Found {
		nav.Cache = NewPathCache(res.Path, target, tick)
		nav.HasPath = true
		nav.Misses = 0
	} else {
		nav.Cache = components.PathCache{}
		nav.HasPath = false
		nav.Misses++
		s.log.Debug("no path", "agent", agent.Name, "tick", tick, "misses", nav.Misses)
	}

	if enemy.Tracked && s.p.Visualizer != nil {
		s.p.Visualizer.Render(res.Path)
	}
	if s.p.Observer != nil {
		s.p.Observer(QueryEvent{
			Tick:      tick,
			Agent:     agent.Name,
			Found:     res.Found,
			Waypoints: len(res.Path),
			Length:    res.Path.Length(),
			Expanded:  res.Expanded,
			Duration:  elapsed,
		})
	}
}

func (s *ChaseSystem) steer(e ecs.Entity, vel *components.Velocity, v components.Velocity) {
	*vel = v
	if s.p.Mover != nil {
		s.p.Mover.SetVelocity(e, v)
	}
}

// seek returns the planar velocity of magnitude speed from pos toward wp.
func seek(pos, wp r3.Vec, speed float64) components.Velocity {
	d := r3.Vec{X: wp.X - pos.X, Z: wp.Z - pos.Z}
	n := r3.Norm(d)
	if n < 1e-6 {
		return components.Velocity{}
	}
	d = r3.Scale(speed/n, d)
	return components.Velocity{X: d.X, Z: d.Z}
}
