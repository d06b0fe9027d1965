package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arena/components"
)

func newTestPhysics(t *testing.T) (*PhysicsSystem, *ecs.World) {
	t.Helper()
	tm := newTestTileMap(t, 5, 5, 10)
	tm.PlaceObstacles([]GridPos{{X: 2, Z: 2}}, 6)
	tm.PlaceWalls(6, 2)
	ps := NewPhysicsSystem(PhysicsParams{Iterations: 10})
	ps.AddArena(tm)
	return ps, ecs.NewWorld()
}

func TestPhysicsObstructed(t *testing.T) {
	ps, _ := newTestPhysics(t)

	tests := []struct {
		name string
		a, b r3.Vec
		want bool
	}{
		{"through obstacle", r3.Vec{X: -15}, r3.Vec{X: 15}, true},
		{"beside obstacle", r3.Vec{X: -15, Z: -15}, r3.Vec{X: 15, Z: -15}, false},
		{"height ignored", r3.Vec{X: -15, Y: 50}, r3.Vec{X: 15, Y: 50}, true},
		{"along wall", r3.Vec{X: -25, Z: -25}, r3.Vec{X: 25, Z: -25}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ps.Obstructed(tc.a, tc.b); got != tc.want {
				t.Errorf("Obstructed = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPhysicsAgentMoves(t *testing.T) {
	ps, w := newTestPhysics(t)
	posMap := ecs.NewMap[components.Position](w)
	start := components.Position{X: -15, Z: -15}
	e := posMap.NewEntity(&start)

	ps.AddAgent(e, start.Vec(), 2)
	ps.SetVelocity(e, components.Velocity{X: 10})
	for i := 0; i < 60; i++ {
		ps.Step(1.0 / 60)
	}
	ps.Sync(posMap)

	pos := posMap.Get(e)
	if pos.X < -6 || pos.X > -4 {
		t.Errorf("x after 1s = %v, want about -5", pos.X)
	}
	if pos.Z < -15.5 || pos.Z > -14.5 {
		t.Errorf("z drifted to %v", pos.Z)
	}
}

func TestPhysicsObstacleBlocksAgent(t *testing.T) {
	ps, w := newTestPhysics(t)
	posMap := ecs.NewMap[components.Position](w)
	start := components.Position{X: -15}
	e := posMap.NewEntity(&start)

	// Obstacle face at x=-5, agent radius 2: the center must stay near -7
	// while the agent keeps driving into the box.
	ps.AddAgent(e, start.Vec(), 2)
	maxX := -15.0
	for i := 0; i < 240; i++ {
		ps.SetVelocity(e, components.Velocity{X: 20})
		ps.Step(1.0 / 60)
		got, ok := ps.AgentPosition(e)
		if !ok {
			t.Fatal("agent missing")
		}
		maxX = max(maxX, got.X)
	}
	if maxX > -6.5 {
		t.Errorf("max agent x = %v, want stopped before obstacle face at -5", maxX)
	}
	got, _ := ps.AgentPosition(e)
	if got.X < -7.5 {
		t.Errorf("final agent x = %v, want resting against the face near -7", got.X)
	}
}

func TestPhysicsTeleportResetsSteering(t *testing.T) {
	ps, w := newTestPhysics(t)
	posMap := ecs.NewMap[components.Position](w)
	e := posMap.NewEntity(&components.Position{})

	ps.AddAgent(e, r3.Vec{X: -15, Z: -15}, 2)
	ps.SetVelocity(e, components.Velocity{X: 10})
	ps.Teleport(e, r3.Vec{X: 15, Z: 15})
	for i := 0; i < 30; i++ {
		ps.Step(1.0 / 60)
	}
	got, _ := ps.AgentPosition(e)
	if math.Abs(got.X-15) > 1e-6 || math.Abs(got.Z-15) > 1e-6 {
		t.Errorf("position = %+v, want resting at (15, 15)", got)
	}
}

func TestPhysicsRemoveAndDispose(t *testing.T) {
	ps, w := newTestPhysics(t)
	posMap := ecs.NewMap[components.Position](w)
	e := posMap.NewEntity(&components.Position{})

	ps.AddAgent(e, r3.Vec{X: -15, Z: -15}, 2)
	ps.RemoveAgent(e)
	if _, ok := ps.AgentPosition(e); ok {
		t.Error("removed agent still present")
	}
	ps.RemoveAgent(e)

	ps.Dispose()
	if ps.Obstructed(r3.Vec{X: -15}, r3.Vec{X: 15}) {
		t.Error("disposed space should have no obstacles")
	}
}
