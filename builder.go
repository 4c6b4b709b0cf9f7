package nunu

import (
	"errors"
	"log/slog"
	"time"

	"github.com/Paulos19/nunu/api"
	"github.com/Paulos19/nunu/credstore"
)

// Builder assembles a [Manager]. Construction is allocation-only; no
// storage or network I/O happens until the first session operation.
type Builder struct {
	config    Config
	store     credstore.Store
	client    *api.Client
	logger    *slog.Logger
	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStore sets the secure credential store. Required.
func (b *Builder) WithStore(store credstore.Store) *Builder {
	b.store = store
	return b
}

// WithAPIClient sets the shared API client whose Authorization header the
// Manager owns. Required.
func (b *Builder) WithAPIClient(client *api.Client) *Builder {
	b.client = client
	return b
}

// WithLogger sets the structured logger. Defaults to slog.Default.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithAuditSink sets the destination for session audit events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the login latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and produces the Manager. The session
// starts empty and bootstrapping; the host must call [Manager.Bootstrap]
// once before the route guard makes any decision.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.store == nil {
		return nil, errors.New("credential store is required")
	}
	if b.client == nil {
		return nil, errors.New("api client is required")
	}

	normalizeConfig(&b.config)
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}

	metrics := NewMetrics(b.config.Metrics)
	m := &Manager{
		config:  b.config,
		store:   b.store,
		client:  b.client,
		logger:  b.logger,
		audit:   newAuditDispatcher(b.config.Audit, b.auditSink),
		metrics: metrics,
		state:   State{User: nil, Bootstrapping: true},
		subs:    make(map[uint64]chan State),
	}

	b.client.SetLatencyObserver(func(route string, d time.Duration) {
		if route == api.RouteLogin {
			metrics.Observe(MetricLoginLatency, d)
		}
	})

	b.built = true
	return m, nil
}
