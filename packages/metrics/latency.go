// Package metrics aggregates request latency for a suite run.
package metrics

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Latency records request durations in a histogram.
// Range: 1us to 60s, 3 significant digits.
type Latency struct {
	histogram *hdrhistogram.Histogram
}

// LatencySnapshot is a point-in-time summary of recorded durations.
type LatencySnapshot struct {
	Count int64         `json:"count"`
	Min   time.Duration `json:"-"`
	Max   time.Duration `json:"-"`
	Mean  time.Duration `json:"-"`
	P50   time.Duration `json:"-"`
	P95   time.Duration `json:"-"`
	P99   time.Duration `json:"-"`
}

func NewLatency() *Latency {
	return &Latency{
		histogram: hdrhistogram.New(1, 60_000_000, 3),
	}
}

// Record adds a duration. Values outside the histogram range are clamped.
func (l *Latency) Record(d time.Duration) {
	us := d.Microseconds()
	if us < 1 {
		us = 1
	}
	if us > l.histogram.HighestTrackableValue() {
		us = l.histogram.HighestTrackableValue()
	}
	_ = l.histogram.RecordValue(us)
}

func (l *Latency) Snapshot() LatencySnapshot {
	if l.histogram.TotalCount() == 0 {
		return LatencySnapshot{}
	}
	return LatencySnapshot{
		Count: l.histogram.TotalCount(),
		Min:   time.Duration(l.histogram.Min()) * time.Microsecond,
		Max:   time.Duration(l.histogram.Max()) * time.Microsecond,
		Mean:  time.Duration(l.histogram.Mean()) * time.Microsecond,
		P50:   time.Duration(l.histogram.ValueAtQuantile(50)) * time.Microsecond,
		P95:   time.Duration(l.histogram.ValueAtQuantile(95)) * time.Microsecond,
		P99:   time.Duration(l.histogram.ValueAtQuantile(99)) * time.Microsecond,
	}
}
