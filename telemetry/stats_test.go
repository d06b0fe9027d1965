package telemetry

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Summary
	}{
		{"empty", nil, Summary{}},
		{"single", []float64{5}, Summary{Mean: 5, P50: 5, P90: 5, Max: 5}},
		{"ten", []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, Summary{Mean: 5.5, P50: 5, P90: 9, Max: 10}},
		{"odd", []float64{3, 1, 2, 5, 4}, Summary{Mean: 3, P50: 3, P90: 5, Max: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.values)
			if math.Abs(got.Mean-tt.want.Mean) > 1e-9 || got.P50 != tt.want.P50 || got.P90 != tt.want.P90 || got.Max != tt.want.Max {
				t.Errorf("Summarize(%v) = %+v, want %+v", tt.values, got, tt.want)
			}
		})
	}
}

func TestSummarizeLeavesInputUnsorted(t *testing.T) {
	values := []float64{3, 1, 2}
	Summarize(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered to %v", values)
	}
}

func TestComputeWindowStats(t *testing.T) {
	records := []QueryRecord{
		{Found: true, Waypoints: 4, Length: 30, Expanded: 10, Micros: 100},
		{Found: true, Waypoints: 6, Length: 50, Expanded: 20, Micros: 300},
		{Found: false, Waypoints: 0, Length: 0, Expanded: 40, Micros: 200},
		{Found: true, Waypoints: 5, Length: 40, Expanded: 30, Micros: 400},
	}

	s := ComputeWindowStats(records)

	if s.Queries != 4 || s.Found != 3 {
		t.Errorf("queries/found = %d/%d, want 4/3", s.Queries, s.Found)
	}
	if math.Abs(s.HitRate-0.75) > 1e-9 {
		t.Errorf("HitRate = %v, want 0.75", s.HitRate)
	}
	if math.Abs(s.MicrosMean-250) > 1e-9 {
		t.Errorf("MicrosMean = %v, want 250", s.MicrosMean)
	}
	if s.MicrosMax != 400 {
		t.Errorf("MicrosMax = %v, want 400", s.MicrosMax)
	}

	// Misses do not count toward path shape
	if math.Abs(s.LengthMean-40) > 1e-9 {
		t.Errorf("LengthMean = %v, want 40", s.LengthMean)
	}
	wantStd := math.Sqrt(200.0 / 3)
	if math.Abs(s.LengthStd-wantStd) > 1e-9 {
		t.Errorf("LengthStd = %v, want %v", s.LengthStd, wantStd)
	}
	if math.Abs(s.WaypointsMean-5) > 1e-9 {
		t.Errorf("WaypointsMean = %v, want 5", s.WaypointsMean)
	}
	if math.Abs(s.ExpandedMean-20) > 1e-9 {
		t.Errorf("ExpandedMean = %v, want 20", s.ExpandedMean)
	}
}

func TestComputeWindowStatsNoHits(t *testing.T) {
	s := ComputeWindowStats([]QueryRecord{{Micros: 50}, {Micros: 150}})
	if s.Found != 0 || s.HitRate != 0 {
		t.Errorf("found = %d, hit rate = %v, want 0", s.Found, s.HitRate)
	}
	if s.LengthMean != 0 || s.WaypointsMean != 0 {
		t.Errorf("path stats = %+v, want zero", s)
	}
	if math.Abs(s.MicrosMean-100) > 1e-9 {
		t.Errorf("MicrosMean = %v, want 100", s.MicrosMean)
	}
}

func TestComputeWindowStatsEmpty(t *testing.T) {
	s := ComputeWindowStats(nil)
	if s != (WindowStats{}) {
		t.Errorf("ComputeWindowStats(nil) = %+v, want zero", s)
	}
}
