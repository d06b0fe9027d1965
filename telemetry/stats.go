package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated path query statistics for a tick window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	Queries int     `csv:"queries"`
	Found   int     `csv:"found"`
	HitRate float64 `csv:"hit_rate"`

	// Search time in microseconds
	MicrosMean float64 `csv:"micros_mean"`
	MicrosP50  float64 `csv:"micros_p50"`
	MicrosP90  float64 `csv:"micros_p90"`
	MicrosMax  float64 `csv:"micros_max"`

	// Found paths only
	LengthMean    float64 `csv:"length_mean"`
	LengthStd     float64 `csv:"length_std"`
	WaypointsMean float64 `csv:"waypoints_mean"`
	ExpandedMean  float64 `csv:"expanded_mean"`
}

// Summary is the mean and empirical quantiles of a sample.
type Summary struct {
	Mean, P50, P90, Max float64
}

// Summarize computes mean, median, p90 and max. Returns zeros if values is empty.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return Summary{
		Mean: stat.Mean(sorted, nil),
		P50:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.9, stat.Empirical, sorted, nil),
		Max:  sorted[len(sorted)-1],
	}
}

// ComputeWindowStats aggregates records. Window ticks are left to the caller.
func ComputeWindowStats(records []QueryRecord) WindowStats {
	s := WindowStats{Queries: len(records)}
	if len(records) == 0 {
		return s
	}

	micros := make([]float64, 0, len(records))
	var lengths, waypoints, expanded []float64
	for _, r := range records {
		micros = append(micros, float64(r.Micros))
		if !r.Found {
			continue
		}
		s.Found++
		lengths = append(lengths, r.Length)
		waypoints = append(waypoints, float64(r.Waypoints))
		expanded = append(expanded, float64(r.Expanded))
	}
	s.HitRate = float64(s.Found) / float64(s.Queries)

	m := Summarize(micros)
	s.MicrosMean, s.MicrosP50, s.MicrosP90, s.MicrosMax = m.Mean, m.P50, m.P90, m.Max

	if s.Found > 0 {
		s.LengthMean, s.LengthStd = stat.PopMeanStdDev(lengths, nil)
		s.WaypointsMean = stat.Mean(waypoints, nil)
		s.ExpandedMean = stat.Mean(expanded, nil)
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("queries", s.Queries),
		slog.Int("found", s.Found),
		slog.Float64("hit_rate", s.HitRate),
		slog.Float64("micros_mean", s.MicrosMean),
		slog.Float64("micros_p50", s.MicrosP50),
		slog.Float64("micros_p90", s.MicrosP90),
		slog.Float64("micros_max", s.MicrosMax),
		slog.Float64("length_mean", s.LengthMean),
		slog.Float64("length_std", s.LengthStd),
		slog.Float64("waypoints_mean", s.WaypointsMean),
		slog.Float64("expanded_mean", s.ExpandedMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"queries", s.Queries,
		"hit_rate", s.HitRate,
		"micros_p50", s.MicrosP50,
		"micros_p90", s.MicrosP90,
		"length_mean", s.LengthMean,
		"expanded_mean", s.ExpandedMean,
	)
}
