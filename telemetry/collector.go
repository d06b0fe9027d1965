package telemetry

import "time"

// QueryRecord is one path search, as written to queries.csv.
type QueryRecord struct {
	Tick      int32   `csv:"tick"`
	Agent     string  `csv:"agent"`
	Found     bool    `csv:"found"`
	Waypoints int     `csv:"waypoints"`
	Length    float64 `csv:"length"`
	Expanded  int     `csv:"expanded"`
	Micros    int64   `csv:"micros"`
}

// NewQueryRecord builds a record from search results.
func NewQueryRecord(tick int32, agent string, found bool, waypoints int, length float64, expanded int, d time.Duration) QueryRecord {
	return QueryRecord{
		Tick:      tick,
		Agent:     agent,
		Found:     found,
		Waypoints: waypoints,
		Length:    length,
		Expanded:  expanded,
		Micros:    d.Microseconds(),
	}
}

// Collector accumulates path queries within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32
	records         []QueryRecord
}

// NewCollector creates a new query collector.
// windowTicks: ticks per stats window
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowTicks int32, dt float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: windowTicks,
		dt:                  dt,
	}
}

// Record adds a query to the current window.
func (c *Collector) Record(r QueryRecord) {
	c.records = append(c.records, r)
}

// Pending returns the number of queries recorded in the current window.
func (c *Collector) Pending() int {
	return len(c.records)
}

// Records returns the queries recorded in the current window. The slice is
// reused after Flush.
func (c *Collector) Records() []QueryRecord {
	return c.records
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets the window.
func (c *Collector) Flush(currentTick int32) WindowStats {
	stats := ComputeWindowStats(c.records)
	stats.WindowStartTick = c.windowStartTick
	stats.WindowEndTick = currentTick
	stats.SimTimeSec = float64(currentTick) * c.dt

	c.windowStartTick = currentTick
	c.records = c.records[:0]
	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
