package game

import (
	"fmt"

	"github.com/pthm-cable/arena/systems"
	"github.com/pthm-cable/arena/telemetry"
)

func (g *Game) initTelemetry() error {
	tc := g.cfg.Telemetry
	g.collector = telemetry.NewCollector(int32(tc.StatsWindow), g.cfg.Physics.DT)
	g.perf = telemetry.NewPerfCollector(tc.PerfCollectorWindow)

	om, err := telemetry.NewOutputManager(g.opts.OutputDir)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := om.WriteConfig(g.cfg); err != nil {
		om.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	g.output = om
	return nil
}

// onQuery records every path search made by the chase system.
func (g *Game) onQuery(ev systems.QueryEvent) {
	g.collector.Record(telemetry.NewQueryRecord(ev.Tick, ev.Agent, ev.Found, ev.Waypoints, ev.Length, ev.Expanded, ev.Duration))
}

// flushTelemetry closes the stats window when it is due.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	if err := g.output.WriteQueries(g.collector.Records()); err != nil {
		g.log.Error("failed to write queries", "error", err)
	}
	stats := g.collector.Flush(g.tick)
	perfStats := g.perf.Stats()
	g.lastStats = stats

	if g.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.output.WriteStats(stats); err != nil {
		g.log.Error("failed to write stats", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		g.log.Error("failed to write perf", "error", err)
	}
}
