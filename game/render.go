package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/arena/renderer"
	"github.com/pthm-cable/arena/ui"
)

const controlsLegend = "WASD move  Arrows orbit  RMB pan  Wheel zoom  N navmesh  P path  B rebuild  Space pause  </> speed"

// Update handles input and runs the simulation for one frame.
func (g *Game) Update() {
	g.handleInput()
	g.perf.RecordFrame()

	if g.paused {
		return
	}
	for range g.stepsPerUpdate {
		g.step()
	}
}

// Draw renders the arena, debug scene, agents and HUD.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(18, 20, 24, 255))

	rl.BeginMode3D(renderer.Camera3D(g.camera))
	g.arenaDrawer.Draw()
	renderer.DrawScene(g.scene)
	g.drawAgents()
	rl.EndMode3D()

	act := g.hud.Draw(ui.HUDData{
		Tick:           g.tick,
		FPS:            rl.GetFPS(),
		StepsPerUpdate: g.stepsPerUpdate,
		Paused:         g.paused,
		Waypoints:      g.navMesh.Len(),
		Corners:        g.navMesh.Corners(),
		Islands:        g.islands,
		Enemies:        len(g.enemies),
		Chasing:        g.chasing(),
		HitRate:        g.lastStats.HitRate,
		SearchP90us:    g.lastStats.MicrosP90,
		ShowNavMesh:    g.navMesh.Visible(),
		ShowEnemyPath:  g.pathVis.Visible(),
		Phases:         g.phaseRows(),
	})
	g.hud.DrawControls(int32(rl.GetScreenHeight()), controlsLegend)

	if act.ToggleNavMesh {
		g.navMesh.ToggleVisible()
	}
	if act.ToggleEnemyPath {
		g.pathVis.SetVisible(!g.pathVis.Visible())
	}
	if act.RebuildNavMesh {
		g.rebuild()
	}

	rl.EndDrawing()
}

func (g *Game) drawAgents() {
	renderer.DrawAgent(g.posMap.Get(g.player).Vec(), g.cfg.Agents.Player.Radius, renderer.PlayerColor)
	for i, e := range g.enemies {
		renderer.DrawAgent(g.posMap.Get(e).Vec(), g.cfg.Agents.Enemies[i].Radius, renderer.EnemyColor)
	}
}

// phaseRows reports each tick phase's share of the average tick.
func (g *Game) phaseRows() []ui.PhaseRow {
	pct := g.perf.Stats().PhasePct
	rows := make([]ui.PhaseRow, 0, len(g.registry.All()))
	for _, info := range g.registry.All() {
		rows = append(rows, ui.PhaseRow{Name: info.Name, Pct: pct[info.ID]})
	}
	return rows
}
