package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/arena/config"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// Nil manager is a no-op
	if err := om.WriteStats(WindowStats{}); err != nil {
		t.Errorf("WriteStats on nil = %v", err)
	}
	if err := om.WriteQueries([]QueryRecord{{}}); err != nil {
		t.Errorf("WriteQueries on nil = %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("Dir = %q, want empty", om.Dir())
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil = %v", err)
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := int32(1); i <= 3; i++ {
		if err := om.WriteStats(WindowStats{WindowEndTick: i * 10, Queries: int(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteQueries([]QueryRecord{{Tick: 1, Agent: "a"}, {Tick: 2, Agent: "b"}}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteQueries([]QueryRecord{{Tick: 3, Agent: "c"}}); err != nil {
		t.Fatal(err)
	}
	if err := om.WritePerf(PerfStats{}, 60); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	stats := readLines(t, filepath.Join(dir, "stats.csv"))
	if len(stats) != 4 {
		t.Fatalf("stats.csv has %d lines, want header + 3", len(stats))
	}
	if !strings.HasPrefix(stats[0], "window_end,") {
		t.Errorf("stats header = %q", stats[0])
	}
	if strings.Contains(stats[0], "WindowStartTick") {
		t.Error("ignored field leaked into header")
	}

	queries := readLines(t, filepath.Join(dir, "queries.csv"))
	if len(queries) != 4 {
		t.Fatalf("queries.csv has %d lines, want header + 3", len(queries))
	}
	if queries[0] != "tick,agent,found,waypoints,length,expanded,micros" {
		t.Errorf("queries header = %q", queries[0])
	}

	perf := readLines(t, filepath.Join(dir, "perf.csv"))
	if len(perf) != 2 || !strings.HasPrefix(perf[1], "60,") {
		t.Errorf("perf.csv = %q", perf)
	}
}

func TestOutputManagerWriteConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if loaded.TileMap.Width != cfg.TileMap.Width {
		t.Errorf("TileMap.Width = %d, want %d", loaded.TileMap.Width, cfg.TileMap.Width)
	}
}
