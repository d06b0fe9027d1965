package game

// Unload releases the scene groups, the physics space and the output files.
// Safe to call more than once.
func (g *Game) Unload() {
	if g.pathVis != nil {
		g.pathVis.Dispose()
	}
	if g.navMesh != nil {
		g.navMesh.Dispose()
	}
	if g.physics != nil {
		g.physics.Dispose()
	}
	if g.output != nil {
		if err := g.output.Close(); err != nil {
			g.log.Warn("closing output", "error", err)
		}
		g.output = nil
	}
}
