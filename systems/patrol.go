package systems

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arena/components"
)

// patrolAttempts bounds goal sampling per update.
const patrolAttempts = 8

// PatrolParams configures a PatrolSystem.
type PatrolParams struct {
	Planner         *AStarPlanner
	Goals           []r3.Vec // candidate destinations, usually free cell centers
	Rand            *rand.Rand
	Mover           Mover
	ArrivalDistance float64
	Logger          *slog.Logger
}

// PatrolSystem walks the player between random reachable goals. It drives
// the player when nobody is steering it, such as in headless runs.
type PatrolSystem struct {
	players *ecs.Filter5[components.Position, components.Velocity, components.Agent, components.Navigation, components.Player]
	p       PatrolParams
	log     *slog.Logger
}

// NewPatrolSystem creates a patrol system over w.
func NewPatrolSystem(w *ecs.World, p PatrolParams) (*PatrolSystem, error) {
	if p.Planner == nil {
		return nil, ErrNilPlanner
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	if p.Rand == nil {
		p.Rand = rand.New(rand.NewSource(1))
	}
	return &PatrolSystem{
		players: ecs.NewFilter5[components.Position, components.Velocity, components.Agent, components.Navigation, components.Player](w),
		p:       p,
		log:     p.Logger,
	}, nil
}

// SetPlanner swaps the planner and drops every patrol path.
func (s *PatrolSystem) SetPlanner(p *AStarPlanner) {
	if p != nil {
		s.p.Planner = p
	}
	query := s.players.Query()
	for query.Next() {
		_, _, _, nav, player := query.Get()
		nav.HasPath = false
		player.HasGoal = false
	}
}

// Update steers every player along its patrol path, picking a new goal
// when the current one is reached.
func (s *PatrolSystem) Update(tick int32) {
	query := s.players.Query()
	for query.Next() {
		e := query.Entity()
		pos, vel, agent, nav, player := query.Get()
		here := pos.Vec()

		if nav.HasPath && nav.Cache.Index >= len(nav.Cache.Waypoints) {
			nav.HasPath = false
			player.HasGoal = false
		}
		if !nav.HasPath {
			s.pickGoal(tick, here, nav, player)
		}

		v := components.Velocity{}
		if nav.HasPath {
			wp, _ := GetNextWaypoint(&nav.Cache, here, s.p.ArrivalDistance)
			v = seek(here, wp, agent.Speed)
		}
		*vel = v
		if s.p.Mover != nil {
			s.p.Mover.SetVelocity(e, v)
		}
	}
}

func (s *PatrolSystem) pickGoal(tick int32, here r3.Vec, nav *components.Navigation, player *components.Player) {
	if len(s.p.Goals) == 0 {
		return
	}
	for range patrolAttempts {
		goal := s.p.Goals[s.p.Rand.Intn(len(s.p.Goals))]
		path, ok := s.p.Planner.FindPath(here, goal)
		nav.Queries++
		if !ok || len(path) < 2 {
			continue
		}
		nav.Cache = NewPathCache(path, goal, tick)
		nav.HasPath = true
		nav.LastQuery = tick
		player.PatrolGoal, player.HasGoal = goal, true
		return
	}
	s.log.Debug("no patrol goal reachable", "tick", tick)
}
