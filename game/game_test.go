package game

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arena/config"
)

func newHeadlessGame(t *testing.T, outputDir string) *Game {
	t.Helper()
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Telemetry.StatsWindow = 60
	g, err := NewGame(cfg, Options{Seed: 3, Headless: true, OutputDir: outputDir})
	if err != nil {
		t.Fatalf("NewGame error = %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func run(g *Game, ticks int) {
	for i := 0; i < ticks; i++ {
		g.UpdateHeadless()
	}
}

func TestNewGameBuildsArena(t *testing.T) {
	g := newHeadlessGame(t, "")

	if got := len(g.TileMap().Obstacles()); got != len(g.cfg.TileMap.Obstacles) {
		t.Errorf("obstacles = %d, want %d", got, len(g.cfg.TileMap.Obstacles))
	}
	if g.NavMesh().Len() == 0 {
		t.Fatal("navmesh has no waypoints")
	}
	if g.Islands() != 1 {
		t.Errorf("Islands = %d, want 1 for the default arena", g.Islands())
	}
	// Navmesh and path groups
	if g.Scene().Len() != 2 {
		t.Errorf("scene groups = %d, want 2", g.Scene().Len())
	}
	if g.NavMesh().Visible() != g.cfg.Controls.ShowNavMesh {
		t.Errorf("navmesh visible = %v, want %v", g.NavMesh().Visible(), g.cfg.Controls.ShowNavMesh)
	}
	if g.camera != nil || g.hud != nil {
		t.Error("headless game created graphics state")
	}
}

func TestBuildArenaMatchesGame(t *testing.T) {
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Generator.Enabled = true
	cfg.Generator.Seed = 0

	g, err := NewGame(cfg, Options{Seed: 11, Headless: true})
	if err != nil {
		t.Fatalf("NewGame error = %v", err)
	}
	defer g.Unload()

	tm, err := BuildArena(cfg, 11, nil)
	if err != nil {
		t.Fatalf("BuildArena error = %v", err)
	}
	if !reflect.DeepEqual(tm.Obstacles(), g.TileMap().Obstacles()) {
		t.Errorf("BuildArena obstacles = %d, game has %d", len(tm.Obstacles()), len(g.TileMap().Obstacles()))
	}

	other, err := BuildArena(cfg, 12, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range SpawnCells(cfg) {
		if other.IsOccupied(c.X, c.Z) {
			t.Errorf("spawn cell %v occupied", c)
		}
	}
}

func TestNewGameRejectsInvalidTileMap(t *testing.T) {
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cfg.TileMap.TileSize = 0
	if _, err := NewGame(cfg, Options{Headless: true}); err == nil {
		t.Error("NewGame with zero tile size succeeded")
	}
}

func TestEnemiesChasePlayer(t *testing.T) {
	g := newHeadlessGame(t, "")
	start := g.posMap.Get(g.enemies[0]).Vec()

	run(g, 120)

	nav := g.navMap.Get(g.enemies[0])
	if nav.Queries == 0 {
		t.Fatal("enemy never searched for a path")
	}
	if nav.Misses != 0 {
		t.Errorf("misses = %d, want 0 on an open arena", nav.Misses)
	}
	moved := r3.Norm(r3.Sub(g.posMap.Get(g.enemies[0]).Vec(), start))
	if moved < 5 {
		t.Errorf("enemy moved %v, want it chasing", moved)
	}
	if g.Tick() != 120 {
		t.Errorf("Tick = %d, want 120", g.Tick())
	}
}

func TestTelemetryWindow(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	g := newHeadlessGame(t, dir)

	run(g, 61)

	s := g.LastStats()
	if s.WindowEndTick != 60 {
		t.Errorf("WindowEndTick = %d, want 60", s.WindowEndTick)
	}
	if s.Queries == 0 || s.Found == 0 {
		t.Errorf("stats = %+v, want recorded queries", s)
	}

	for _, name := range []string{"config.yaml", "queries.csv", "stats.csv", "perf.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestPhaseRowsFollowRegistry(t *testing.T) {
	g := newHeadlessGame(t, "")
	run(g, 5)

	rows := g.phaseRows()
	if len(rows) != len(g.registry.All()) {
		t.Fatalf("rows = %d, want %d", len(rows), len(g.registry.All()))
	}
	pct := g.perf.Stats().PhasePct
	for _, id := range g.registry.IDs() {
		if _, ok := pct[id]; !ok {
			t.Errorf("phase %q was not timed", id)
		}
	}
}

func TestRebuildNavMesh(t *testing.T) {
	g := newHeadlessGame(t, "")
	run(g, 5)

	old := g.NavMesh()
	old.SetVisible(true)
	oldLen := old.Len()
	queries := g.navMap.Get(g.enemies[0]).Queries

	if err := g.RebuildNavMesh(); err != nil {
		t.Fatal(err)
	}
	if g.NavMesh() == old {
		t.Fatal("navmesh not replaced")
	}
	if old.Len() != 0 {
		t.Error("old navmesh not disposed")
	}
	if g.NavMesh().Len() != oldLen {
		t.Errorf("rebuilt waypoints = %d, want %d", g.NavMesh().Len(), oldLen)
	}
	if !g.NavMesh().Visible() {
		t.Error("rebuild lost navmesh visibility")
	}
	if g.Scene().Len() != 2 {
		t.Errorf("scene groups = %d, want 2 after rebuild", g.Scene().Len())
	}

	run(g, 1)
	if got := g.navMap.Get(g.enemies[0]).Queries; got != queries+1 {
		t.Errorf("queries = %d, want %d after rebuild", got, queries+1)
	}
}

func TestReloadConfig(t *testing.T) {
	g := newHeadlessGame(t, "")
	run(g, 1)

	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cfg.NavMesh.HoverHeight = 3
	if err := g.ReloadConfig(cfg); err != nil {
		t.Fatalf("ReloadConfig error = %v", err)
	}
	for _, w := range g.NavMesh().Waypoints() {
		if w.Pos.Y != 3 {
			t.Fatalf("waypoint %d y = %v, want 3", w.ID, w.Pos.Y)
		}
	}

	layout, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	layout.TileMap.Obstacles = append(layout.TileMap.Obstacles, config.CellConfig{X: 1, Z: 1})
	before := g.NavMesh()
	if err := g.ReloadConfig(layout); !errors.Is(err, ErrRestartRequired) {
		t.Errorf("ReloadConfig(layout change) error = %v, want ErrRestartRequired", err)
	}
	if g.NavMesh() != before {
		t.Error("rejected reload should keep the navmesh")
	}
}

func TestUnloadTwice(t *testing.T) {
	g := newHeadlessGame(t, t.TempDir())
	g.Unload()
	g.Unload()
}
