package rowpack

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordExtend is called after each extension of the memo tables.
	// items and rows count what was newly computed, duration is the time taken.
	RecordExtend(items, rows int, duration time.Duration)

	// RecordReset is called whenever the memo tables are cleared.
	RecordReset()

	// RecordSlackCorrection is called when a fixed-height row drops its last
	// item. accepted reports whether the shortened row is within the slack bound.
	RecordSlackCorrection(accepted bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordExtend(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordReset()                         {}
func (NoopMetricsCollector) RecordSlackCorrection(bool)           {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ExtendCount         atomic.Int64
	ExtendItems         atomic.Int64
	ExtendRows          atomic.Int64
	ExtendTotalNanos    atomic.Int64
	ResetCount          atomic.Int64
	CorrectionCount     atomic.Int64
	CorrectionsRejected atomic.Int64
}

// RecordExtend implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExtend(items, rows int, duration time.Duration) {
	b.ExtendCount.Add(1)
	b.ExtendItems.Add(int64(items))
	b.ExtendRows.Add(int64(rows))
	b.ExtendTotalNanos.Add(duration.Nanoseconds())
}

// RecordReset implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReset() {
	b.ResetCount.Add(1)
}

// RecordSlackCorrection implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSlackCorrection(accepted bool) {
	b.CorrectionCount.Add(1)
	if !accepted {
		b.CorrectionsRejected.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ExtendCount:         b.ExtendCount.Load(),
		ExtendItems:         b.ExtendItems.Load(),
		ExtendRows:          b.ExtendRows.Load(),
		ExtendAvgNanos:      b.getAvgExtendNanos(),
		ResetCount:          b.ResetCount.Load(),
		CorrectionCount:     b.CorrectionCount.Load(),
		CorrectionsRejected: b.CorrectionsRejected.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgExtendNanos() int64 {
	count := b.ExtendCount.Load()
	if count == 0 {
		return 0
	}
	return b.ExtendTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector values.
type BasicMetricsStats struct {
	ExtendCount         int64
	ExtendItems         int64
	ExtendRows          int64
	ExtendAvgNanos      int64
	ResetCount          int64
	CorrectionCount     int64
	CorrectionsRejected int64
}
