package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arena/components"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyN) {
		g.navMesh.ToggleVisible()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.pathVis.SetVisible(!g.pathVis.Visible())
	}
	if rl.IsKeyPressed(rl.KeyB) {
		g.rebuild()
	}

	g.handlePlayerInput()
	g.handleCameraInput()
}

// handlePlayerInput steers the player with WASD relative to the camera.
// Without keys held the player patrols.
func (g *Game) handlePlayerInput() {
	var right, forward float64
	if rl.IsKeyDown(rl.KeyD) {
		right++
	}
	if rl.IsKeyDown(rl.KeyA) {
		right--
	}
	if rl.IsKeyDown(rl.KeyW) {
		forward++
	}
	if rl.IsKeyDown(rl.KeyS) {
		forward--
	}

	g.manualActive = right != 0 || forward != 0
	if !g.manualActive {
		g.manual = components.Velocity{}
		return
	}
	dir := r3.Unit(r3.Add(r3.Scale(right, g.camera.Right()), r3.Scale(forward, g.camera.Forward())))
	speed := g.cfg.Agents.Player.Speed
	g.manual = components.Velocity{X: dir.X * speed, Z: dir.Z * speed}
}

// handleCameraInput processes orbit, pan and zoom controls.
func (g *Game) handleCameraInput() {
	const orbitSpeed = 0.03
	panSpeed := g.camera.Distance * 0.01

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Orbit(orbitSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Orbit(-orbitSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Orbit(0, orbitSpeed)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Orbit(0, -orbitSpeed)
	}

	// Right mouse drag pans across the floor
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		g.camera.Pan(-float64(d.X)*panSpeed*0.2, float64(d.Y)*panSpeed*0.2)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

func (g *Game) rebuild() {
	if err := g.RebuildNavMesh(); err != nil {
		g.log.Error("navmesh rebuild failed", "error", err)
	}
}
