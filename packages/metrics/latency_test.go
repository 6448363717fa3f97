package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLatency_Empty(t *testing.T) {
	l := NewLatency()
	snap := l.Snapshot()

	assert.Equal(t, int64(0), snap.Count)
	assert.Equal(t, time.Duration(0), snap.P95)
}

func TestLatency_Percentiles(t *testing.T) {
	l := NewLatency()
	for i := 1; i <= 100; i++ {
		l.Record(time.Duration(i) * time.Millisecond)
	}

	snap := l.Snapshot()
	assert.Equal(t, int64(100), snap.Count)
	assert.InDelta(t, float64(50*time.Millisecond), float64(snap.P50), float64(time.Millisecond))
	assert.InDelta(t, float64(95*time.Millisecond), float64(snap.P95), float64(time.Millisecond))
	assert.InDelta(t, float64(100*time.Millisecond), float64(snap.Max), float64(time.Millisecond))
	assert.InDelta(t, float64(time.Millisecond), float64(snap.Min), float64(10*time.Microsecond))
}

func TestLatency_Clamps(t *testing.T) {
	l := NewLatency()
	l.Record(0)
	l.Record(2 * time.Minute)

	snap := l.Snapshot()
	assert.Equal(t, int64(2), snap.Count)
	assert.LessOrEqual(t, snap.Max, 61*time.Second)
}
