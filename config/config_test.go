package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}

	if cfg.TileMap.Width != 20 || cfg.TileMap.Height != 20 {
		t.Errorf("tilemap size = %dx%d, want 20x20", cfg.TileMap.Width, cfg.TileMap.Height)
	}
	if cfg.NavMesh.PointColor != 0xff0000 {
		t.Errorf("point_color = %#x, want 0xff0000", cfg.NavMesh.PointColor)
	}
	if math.Abs(cfg.Derived.NeighborDistance-12.5) > 1e-9 {
		t.Errorf("NeighborDistance = %v, want 12.5", cfg.Derived.NeighborDistance)
	}
	if math.Abs(cfg.Derived.ConnectionDistance-15) > 1e-9 {
		t.Errorf("ConnectionDistance = %v, want 15", cfg.Derived.ConnectionDistance)
	}
	if cfg.Derived.NeighborDistance == cfg.Derived.ConnectionDistance {
		t.Error("search and visual thresholds should stay distinct by default")
	}
	if len(cfg.Agents.Enemies) == 0 {
		t.Error("expected at least one default enemy")
	}
}

func TestLoadOverridesOnlyPresentKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.yaml")
	data := []byte("tilemap:\n  tile_size: 4\npathfinding:\n  neighbor_factor: 2\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if cfg.TileMap.TileSize != 4 {
		t.Errorf("TileSize = %v, want 4", cfg.TileMap.TileSize)
	}
	if cfg.TileMap.Width != 20 {
		t.Errorf("Width = %d, want default 20", cfg.TileMap.Width)
	}
	if math.Abs(cfg.Derived.NeighborDistance-8) > 1e-9 {
		t.Errorf("NeighborDistance = %v, want 8", cfg.Derived.NeighborDistance)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero width", "tilemap:\n  width: 0\n"},
		{"negative tile size", "tilemap:\n  tile_size: -1\n"},
		{"obstacle out of range", "tilemap:\n  obstacles:\n    - {x: 40, z: 1}\n"},
		{"zero neighbor factor", "pathfinding:\n  neighbor_factor: 0\n"},
		{"zero dt", "physics:\n  dt: 0\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Load error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Controls.ShowNavMesh = true

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error = %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config error = %v", err)
	}
	if !back.Controls.ShowNavMesh {
		t.Error("show_navmesh lost in round trip")
	}
}
