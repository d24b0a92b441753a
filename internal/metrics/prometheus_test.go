// ABOUTME: Tests for pipeline metrics registration
// ABOUTME: Verifies counters register once and accept increments
package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRegisterAndCount(t *testing.T) {
	// promauto registers on the default registry; construct exactly once.
	m := New()

	m.ChunksEncoded.Inc()
	m.ChunksEncoded.Inc()
	if got := testutil.ToFloat64(m.ChunksEncoded); got != 2 {
		t.Errorf("chunks encoded = %v, want 2", got)
	}

	m.Sounding.Set(1)
	if got := testutil.ToFloat64(m.Sounding); got != 1 {
		t.Errorf("sounding = %v, want 1", got)
	}

	m.QueueDepth.Set(4)
	m.QueueDepth.Dec()
	if got := testutil.ToFloat64(m.QueueDepth); got != 3 {
		t.Errorf("queue depth = %v, want 3", got)
	}
}
