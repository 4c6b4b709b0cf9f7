package nunu

import (
	"context"
	"log/slog"
	"strings"
)

// Area classifies a navigation location by its first path segment.
type Area uint8

const (
	// AreaUnauthenticated covers the login/registration group of routes.
	AreaUnauthenticated Area = iota
	// AreaAuthenticated covers everything behind a session.
	AreaAuthenticated
)

func (a Area) String() string {
	if a == AreaUnauthenticated {
		return "unauthenticated"
	}
	return "authenticated"
}

// ClassifyPath derives the area of a path from its first segment. A first
// segment equal to unauthPrefix places the path in the unauthenticated
// area; anything else, including the root path, is the authenticated area.
func ClassifyPath(path, unauthPrefix string) Area {
	trimmed := strings.TrimPrefix(path, "/")
	first, _, _ := strings.Cut(trimmed, "/")
	if first == unauthPrefix {
		return AreaUnauthenticated
	}
	return AreaAuthenticated
}

// Decision is the outcome of one guard reconciliation.
type Decision struct {
	// Redirect is true when the host should navigate.
	Redirect bool
	// Target is the destination path when Redirect is true.
	Target string
	// Suppressed is true while the session is still bootstrapping; the
	// host renders its loading state and no navigation happens.
	Suppressed bool
}

// Navigator is the slice of the host's routing the guard drives. Replace
// swaps the displayed location without growing history, matching the
// original router.replace semantics.
type Navigator interface {
	Location() string
	Replace(path string)
}

// Guard keeps the displayed navigation area consistent with session state.
// It is level-triggered: every reconciliation re-derives the desired area
// from the current state, so it converges after its own redirects and is
// idempotent when nothing changed.
//
// Guard is not safe for concurrent use; it is driven either by a single
// Run loop or by a host that calls Apply from one goroutine.
type Guard struct {
	config  GuardConfig
	nav     Navigator
	logger  *slog.Logger
	metrics *Metrics
	emit    func(from, to string)

	lastTarget   string
	lastLocation string
}

// NewGuard builds a route guard over the given navigator. The logger and
// metrics may be nil.
func NewGuard(cfg GuardConfig, nav Navigator, logger *slog.Logger, metrics *Metrics) *Guard {
	normalizeGuardConfig(&cfg)
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{config: cfg, nav: nav, logger: logger, metrics: metrics}
}

func normalizeGuardConfig(cfg *GuardConfig) {
	def := defaultConfig().Guard
	if cfg.LoginPath == "" {
		cfg.LoginPath = def.LoginPath
	}
	if cfg.HomePath == "" {
		cfg.HomePath = def.HomePath
	}
	if cfg.UnauthenticatedPrefix == "" {
		cfg.UnauthenticatedPrefix = def.UnauthenticatedPrefix
	}
}

// Reconcile computes the guard decision for a session state and location.
// Pure: no navigation is performed and no internal state is touched.
func (g *Guard) Reconcile(st State, location string) Decision {
	if st.Bootstrapping {
		return Decision{Suppressed: true}
	}
	area := ClassifyPath(location, g.config.UnauthenticatedPrefix)
	switch {
	case !st.Authenticated() && area == AreaAuthenticated:
		return Decision{Redirect: true, Target: g.config.LoginPath}
	case st.Authenticated() && area == AreaUnauthenticated:
		return Decision{Redirect: true, Target: g.config.HomePath}
	}
	return Decision{}
}

// Apply reconciles once against the navigator's current location and
// performs the resulting navigation. A decision identical to the previous
// one for an unchanged location is a no-op, so repeated Apply calls with
// unchanged inputs issue at most one navigation.
func (g *Guard) Apply(st State) Decision {
	location := g.nav.Location()
	decision := g.Reconcile(st, location)

	if decision.Suppressed {
		g.metricIncG(MetricGuardSuppressed)
		return decision
	}
	if !decision.Redirect {
		g.lastTarget = ""
		g.lastLocation = location
		return decision
	}
	if decision.Target == g.lastTarget && location == g.lastLocation {
		return Decision{}
	}

	g.lastTarget = decision.Target
	g.lastLocation = location
	g.nav.Replace(decision.Target)

	if decision.Target == g.config.LoginPath {
		g.metricIncG(MetricGuardRedirectLogin)
	} else {
		g.metricIncG(MetricGuardRedirectHome)
	}
	if g.emit != nil {
		g.emit(location, decision.Target)
	}
	g.logger.Info("guard redirect",
		slog.String("from", location),
		slog.String("to", decision.Target))
	return decision
}

// NewGuard builds a route guard wired to this manager's configuration,
// logger, metrics, and audit trail. The host remains responsible for
// driving it, either through [Guard.Run] on a subscription or by calling
// [Guard.Apply] on state changes.
func (m *Manager) NewGuard(nav Navigator) *Guard {
	g := NewGuard(m.config.Guard, nav, m.logger, m.metrics)
	g.emit = func(from, to string) {
		m.emitAudit(context.Background(), AuditEvent{
			EventType: auditEventGuardRedirect,
			Success:   true,
			Metadata:  map[string]string{"from": from, "to": to},
		})
	}
	return g
}

// Run drives the guard from a session subscription until ctx is done.
// Each received state triggers one Apply; redirects change the navigator's
// location, and the next state (or the next Apply for the same state)
// confirms convergence.
func (g *Guard) Run(ctx context.Context, states <-chan State, cancel func()) {
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			g.Apply(st)
		}
	}
}

func (g *Guard) metricIncG(id MetricID) {
	if g.metrics != nil {
		g.metrics.Inc(id)
	}
}
