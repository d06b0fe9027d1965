package game

import (
	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/telemetry"
)

// UpdateHeadless runs stepsPerUpdate ticks without touching the window.
func (g *Game) UpdateHeadless() {
	for range g.stepsPerUpdate {
		g.step()
	}
}

// step runs a single tick.
func (g *Game) step() {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhasePlayer)
	if g.manualActive {
		g.steerPlayer(g.manual)
	} else {
		g.patrol.Update(g.tick)
	}

	g.perf.StartPhase(telemetry.PhaseChase)
	g.chase.Update(g.tick)

	g.perf.StartPhase(telemetry.PhasePhysics)
	g.physics.Step(g.cfg.Physics.DT)

	g.perf.StartPhase(telemetry.PhaseSync)
	g.physics.Sync(g.posMap)

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perf.EndTick()
	g.tick++
}

// steerPlayer applies keyboard velocity and drops any patrol path.
func (g *Game) steerPlayer(v components.Velocity) {
	if nav := g.navMap.Get(g.player); nav != nil {
		nav.HasPath = false
	}
	g.physics.SetVelocity(g.player, v)
}

// chasing counts enemies that currently hold a path.
func (g *Game) chasing() int {
	n := 0
	for _, e := range g.enemies {
		if nav := g.navMap.Get(e); nav != nil && nav.HasPath {
			n++
		}
	}
	return n
}
