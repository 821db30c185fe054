package output

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/torosent/ammogen/internal/log"
	"github.com/torosent/ammogen/internal/metrics"
)

// ProgressReporter logs how far a run has got, at most once per interval.
// It is driven synchronously from the generation loop via Tick.
type ProgressReporter struct {
	collector *metrics.Collector
	logger    log.Logger
	target    int
	every     rate.Sometimes
}

// NewProgressReporter creates a progress reporter for a run of target records.
func NewProgressReporter(collector *metrics.Collector, logger log.Logger, target int, interval time.Duration) *ProgressReporter {
	if logger == nil {
		logger = log.Nop()
	}
	return &ProgressReporter{
		collector: collector,
		logger:    logger,
		target:    target,
		every:     rate.Sometimes{First: 1, Interval: interval},
	}
}

// Tick logs a progress line unless one was logged within the interval.
// The first call always logs.
func (p *ProgressReporter) Tick() {
	if p == nil {
		return
	}
	p.every.Do(p.report)
}

// Finish logs the final count unconditionally.
func (p *ProgressReporter) Finish() {
	if p == nil {
		return
	}
	p.report()
}

func (p *ProgressReporter) report() {
	done := p.collector.Total()
	pct := 100.0
	if p.target > 0 {
		pct = float64(done) / float64(p.target) * 100
	}
	p.logger.Info("progress",
		"records", done,
		"target", p.target,
		"percent", int(pct),
		"elapsed", p.collector.Elapsed().Round(time.Millisecond),
	)
}
