package nunu

import (
	"sync/atomic"
	"time"
)

// MetricID identifies a counter or histogram slot in the in-process
// metrics system.
type MetricID uint16

const (
	// MetricBootstrapRestored counts startups that restored a stored session.
	MetricBootstrapRestored MetricID = iota
	// MetricBootstrapEmpty counts startups with no stored credentials.
	MetricBootstrapEmpty
	// MetricBootstrapCorrupt counts startups that found unusable credentials.
	MetricBootstrapCorrupt
	// MetricBootstrapStorageError counts startups where the store was unreadable.
	MetricBootstrapStorageError
	// MetricSignInSuccess counts published sign-ins.
	MetricSignInSuccess
	// MetricSignInPersistFailure counts sign-ins rejected by the credential store.
	MetricSignInPersistFailure
	// MetricSignOut counts sign-outs.
	MetricSignOut
	// MetricSignOutCleanupFailure counts credential deletions that failed
	// during sign-out (logged only, never surfaced).
	MetricSignOutCleanupFailure
	// MetricSessionBusy counts session operations rejected by the busy guard.
	MetricSessionBusy
	// MetricGuardRedirectLogin counts guard redirects to the login screen.
	MetricGuardRedirectLogin
	// MetricGuardRedirectHome counts guard redirects to the home screen.
	MetricGuardRedirectHome
	// MetricGuardSuppressed counts reconciliations skipped during bootstrap.
	MetricGuardSuppressed
	// MetricLoginLatency is the histogram slot for the login round-trip.
	MetricLoginLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds lock-free counters and an optional latency histogram for
// the login round-trip. All write paths are allocation-free; a disabled
// Metrics turns every operation into a no-op.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics creates a Metrics instance from cfg. Latency histograms are
// only recorded when both Enabled and EnableLatencyHistograms are set.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are being recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc atomically increments a counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records a login round-trip duration into the histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || id != MetricLoginLatency {
		return
	}
	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value reads a single counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot deep-copies all counters and histograms.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricLoginLatency].buckets[i])
		}
		s.Histograms[MetricLoginLatency] = buckets
	}
	return s
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
