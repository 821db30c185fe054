// Package metrics counts what a generation run selected and wrote.
package metrics

import (
	"strings"
	"time"
)

// Collector tallies generated records. It is not safe for concurrent use;
// a run drives it from a single goroutine.
type Collector struct {
	total    int64
	bytes    int64
	rewrites int64
	newKeys  int64
	byMethod map[string]int64
	byTag    map[string]int64
	start    time.Time
}

// Stats is a snapshot of a Collector.
type Stats struct {
	Total         int64            `json:"total" yaml:"total"`
	Bytes         int64            `json:"bytes" yaml:"bytes"`
	Rewrites      int64            `json:"rewrites" yaml:"rewrites"`
	NewKeys       int64            `json:"new_keys" yaml:"new_keys"`
	Methods       map[string]int64 `json:"methods" yaml:"methods"`
	Tags          map[string]int64 `json:"tags" yaml:"tags"`
	Duration      time.Duration    `json:"-" yaml:"-"`
	DurationMs    float64          `json:"duration_ms" yaml:"duration_ms"`
	RecordsPerSec float64          `json:"records_per_sec" yaml:"records_per_sec"`
}

// NewCollector returns an empty collector whose clock starts now.
func NewCollector() *Collector {
	return &Collector{
		byMethod: make(map[string]int64),
		byTag:    make(map[string]int64),
		start:    time.Now(),
	}
}

// Start resets the clock used for throughput.
func (c *Collector) Start() {
	c.start = time.Now()
}

// Record counts one written record of size bytes. newKey marks a PUT that
// minted a key; rewrite marks a PUT that reused one.
func (c *Collector) Record(method, tag string, size int, newKey, rewrite bool) {
	c.total++
	c.bytes += int64(size)
	c.byMethod[strings.ToUpper(method)]++
	c.byTag[tag]++
	if newKey {
		c.newKeys++
	}
	if rewrite {
		c.rewrites++
	}
}

// Total returns the number of records counted so far.
func (c *Collector) Total() int64 {
	return c.total
}

// Elapsed returns the time since Start.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.start)
}

// Stats snapshots the counters for the given elapsed time.
func (c *Collector) Stats(elapsed time.Duration) Stats {
	stats := Stats{
		Total:      c.total,
		Bytes:      c.bytes,
		Rewrites:   c.rewrites,
		NewKeys:    c.newKeys,
		Methods:    make(map[string]int64, len(c.byMethod)),
		Tags:       make(map[string]int64, len(c.byTag)),
		Duration:   elapsed,
		DurationMs: float64(elapsed) / float64(time.Millisecond),
	}
	for k, v := range c.byMethod {
		stats.Methods[k] = v
	}
	for k, v := range c.byTag {
		stats.Tags[k] = v
	}
	if elapsed > 0 && c.total > 0 {
		stats.RecordsPerSec = float64(c.total) / elapsed.Seconds()
	}
	return stats
}

// Share returns the fraction of records that used method.
func (s Stats) Share(method string) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Methods[strings.ToUpper(method)]) / float64(s.Total)
}
