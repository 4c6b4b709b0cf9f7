package nunu

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledNoIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	m.Inc(MetricSignInSuccess)

	if got := m.Value(MetricSignInSuccess); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestMetricsEnabledIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricSignInSuccess)
	m.Inc(MetricSignInSuccess)
	m.Inc(MetricSignInSuccess)

	if got := m.Value(MetricSignInSuccess); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestMetricsConcurrentIncrementSafe(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 32
	const perG = 4000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				m.Inc(MetricBootstrapRestored)
			}
		}()
	}
	wg.Wait()

	want := uint64(goroutines * perG)
	if got := m.Value(MetricBootstrapRestored); got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
}

func TestMetricsLatencyHistogram(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	durations := []time.Duration{
		2 * time.Millisecond,   // bucket 0
		8 * time.Millisecond,   // bucket 1
		40 * time.Millisecond,  // bucket 3
		900 * time.Millisecond, // bucket 7
	}
	for _, d := range durations {
		m.Observe(MetricLoginLatency, d)
	}

	buckets := m.Snapshot().Histograms[MetricLoginLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("expected %d buckets, got %d", histBucketCount, len(buckets))
	}
	want := map[int]uint64{0: 1, 1: 1, 3: 1, 7: 1}
	for i, count := range buckets {
		if count != want[i] {
			t.Errorf("bucket %d = %d, want %d", i, count, want[i])
		}
	}
}

func TestMetricsLatencyDisabledByDefault(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Observe(MetricLoginLatency, 10*time.Millisecond)

	if buckets := m.Snapshot().Histograms[MetricLoginLatency]; buckets != nil {
		t.Fatalf("expected no histogram without opt-in, got %v", buckets)
	}
}

func TestMetricsNilReceiverIsNoOp(t *testing.T) {
	var m *Metrics
	m.Inc(MetricSignOut)
	m.Observe(MetricLoginLatency, time.Millisecond)
	if got := m.Value(MetricSignOut); got != 0 {
		t.Fatalf("expected 0 from nil metrics, got %d", got)
	}
	if m.Enabled() {
		t.Fatal("nil metrics must report disabled")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricGuardRedirectLogin)

	snap := m.Snapshot()
	m.Inc(MetricGuardRedirectLogin)

	if got := snap.Counters[MetricGuardRedirectLogin]; got != 1 {
		t.Fatalf("snapshot mutated after the fact: %d", got)
	}
}
