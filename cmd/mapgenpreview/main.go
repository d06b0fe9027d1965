// Obstacle generator preview - top-down view of generated obstacles and the
// resulting navmesh with sliders for the generator parameters.
//
// Usage: go run ./cmd/mapgenpreview -config arena.yaml
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/game"
	"github.com/pthm-cable/arena/scene"
	"github.com/pthm-cable/arena/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 680
	panelWidth   = windowWidth - previewSize - 30
)

// preview is the generated arena shown on screen.
type preview struct {
	tm        *systems.TileMap
	mesh      *systems.NavMesh
	islands   [][]int
	generated int
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	params := systems.MapGenParams{
		Seed:        cfg.Generator.Seed,
		Scale:       cfg.Generator.Scale,
		Threshold:   cfg.Generator.Threshold,
		KeepClear:   game.SpawnCells(cfg),
		ClearRadius: cfg.Generator.ClearRadius,
	}
	initial := params

	rl.InitWindow(windowWidth, windowHeight, "Obstacle Generator Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	var p *preview
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			if p != nil {
				p.mesh.Dispose()
			}
			p, err = generate(cfg, params)
			if err != nil {
				slog.Error("generation failed", "error", err)
				return
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawPreview(p, cfg)

		statsY := int32(previewSize + 20)
		rl.DrawText(fmt.Sprintf("Generated: %d  Obstacles: %d  Waypoints: %d", p.generated, len(p.tm.Obstacles()), p.mesh.Len()), 15, statsY, 16, rl.DarkGray)
		islandColor := rl.DarkGray
		if len(p.islands) > 1 {
			islandColor = rl.Red
		}
		rl.DrawText(fmt.Sprintf("Islands: %d", len(p.islands)), 15, statsY+20, 16, islandColor)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Generator Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Scale (noise frequency per cell)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.02", "1.0",
			float32(params.Scale), 0.02, 1.0,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.Scale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newScale != float32(params.Scale) {
			params.Scale = float64(newScale)
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Threshold (higher = fewer obstacles)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newThreshold := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.3", "0.95",
			float32(params.Threshold), 0.3, 0.95,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.Threshold), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newThreshold != float32(params.Threshold) {
			params.Threshold = float64(newThreshold)
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Clear radius around spawns", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newRadius := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "5",
			float32(params.ClearRadius), 0, 5,
		)
		rl.DrawText(fmt.Sprintf("%d", params.ClearRadius), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newRadius+0.5) != params.ClearRadius {
			params.ClearRadius = int(newRadius + 0.5)
			needsRegen = true
		}
		panelY += 35

		rl.DrawText(fmt.Sprintf("Seed: %d", params.Seed), int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 30

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(1, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = initial
			needsRegen = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := generatorYAML(params)
		for _, line := range strings.Split(yaml, "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
	if p != nil {
		p.mesh.Dispose()
	}
}

// generate builds the arena with the generator set to params, and its
// navmesh.
func generate(cfg *config.Config, params systems.MapGenParams) (*preview, error) {
	c := *cfg
	c.Generator = config.GeneratorConfig{
		Enabled:     true,
		Seed:        params.Seed,
		Scale:       params.Scale,
		Threshold:   params.Threshold,
		ClearRadius: params.ClearRadius,
	}
	tm, err := game.BuildArena(&c, params.Seed, slog.Default())
	if err != nil {
		return nil, err
	}

	mesh, err := systems.NewNavMesh(systems.NavMeshParams{Grid: tm, Sink: scene.New(), HoverHeight: cfg.NavMesh.HoverHeight})
	if err != nil {
		return nil, err
	}
	return &preview{
		tm:        tm,
		mesh:      mesh,
		islands:   mesh.Islands(cfg.Derived.NeighborDistance),
		generated: len(tm.Obstacles()) - len(cfg.TileMap.Obstacles),
	}, nil
}

// drawPreview draws cells, spawns and waypoints top-down; the largest
// island is green, the rest red.
func drawPreview(p *preview, cfg *config.Config) {
	const margin = 10
	hx, hz := p.tm.HalfExtents()
	scale := float32(previewSize) / float32(2*max(hx, hz))
	toScreen := func(x, z float64) (int32, int32) {
		return margin + int32(float32(x+hx)*scale), margin + int32(float32(z+hz)*scale)
	}

	rl.DrawRectangle(margin, margin, int32(float32(2*hx)*scale), int32(float32(2*hz)*scale), rl.NewColor(235, 235, 240, 255))
	cell := int32(float32(p.tm.TileSize()) * scale)
	for _, o := range p.tm.Obstacles() {
		sx, sz := toScreen(o.Center.X-o.Size.X/2, o.Center.Z-o.Size.Z/2)
		rl.DrawRectangle(sx, sz, cell, cell, rl.DarkGray)
	}
	for _, c := range game.SpawnCells(cfg) {
		x, z := p.tm.GridToWorld(c.X, c.Z)
		sx, sz := toScreen(x, z)
		rl.DrawCircleLines(sx, sz, float32(cell)/2, rl.Blue)
	}

	island := make(map[int]int, p.mesh.Len())
	for i, is := range p.islands {
		for _, id := range is {
			island[id] = i
		}
	}
	for _, w := range p.mesh.Waypoints() {
		sx, sz := toScreen(w.Pos.X, w.Pos.Z)
		c := rl.DarkGreen
		if island[w.ID] > 0 {
			c = rl.Red
		}
		rl.DrawCircle(sx, sz, 2, c)
	}
	rl.DrawRectangleLines(margin, margin, int32(float32(2*hx)*scale), int32(float32(2*hz)*scale), rl.DarkGray)
}

func generatorYAML(p systems.MapGenParams) string {
	return fmt.Sprintf(`generator:
  enabled: true
  seed: %d
  scale: %.2f
  threshold: %.2f
  clear_radius: %d`, p.Seed, p.Scale, p.Threshold, p.ClearRadius)
}
