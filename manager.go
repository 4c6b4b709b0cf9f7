package nunu

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Paulos19/nunu/api"
	"github.com/Paulos19/nunu/credstore"
)

// Manager owns the session state: which user, if any, is currently
// authenticated on this device. It is the only writer of that state;
// subscribers (the route guard, screens) observe it through [Manager.Subscribe]
// and never mutate it.
//
// SignIn, SignOut, and Bootstrap are mutually exclusive: a call made while
// another is in flight fails fast with [ErrSessionBusy]. Everything else is
// safe for concurrent use.
type Manager struct {
	config  Config
	store   credstore.Store
	client  *api.Client
	logger  *slog.Logger
	audit   *auditDispatcher
	metrics *Metrics

	busy         atomic.Bool
	bootstrapped atomic.Bool
	closed       atomic.Bool

	mu      sync.Mutex
	state   State
	subs    map[uint64]chan State
	nextSub uint64
}

// bootstrapOutcome is the internal result of the startup storage read.
// Externally every non-restored outcome degrades to the same logged-out
// state; the distinction exists for logs and metrics only.
type bootstrapOutcome uint8

const (
	bootstrapRestored bootstrapOutcome = iota
	bootstrapEmpty
	bootstrapCorrupt
	bootstrapStorageError
)

func (o bootstrapOutcome) String() string {
	switch o {
	case bootstrapRestored:
		return "restored"
	case bootstrapEmpty:
		return "empty"
	case bootstrapCorrupt:
		return "corrupt"
	case bootstrapStorageError:
		return "storage_error"
	}
	return "unknown"
}

// Current returns the latest session snapshot.
func (m *Manager) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers a session state observer. The returned channel is
// buffered and latest-wins: if the observer lags, intermediate states are
// replaced, never queued. The cancel function removes the subscription and
// closes the channel; it is idempotent.
func (m *Manager) Subscribe() (<-chan State, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++

	ch := make(chan State, 1)
	ch <- m.state
	m.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if sub, ok := m.subs[id]; ok {
				delete(m.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// publish replaces the session state and fans it out to all subscribers.
// Sends never block: a full subscriber buffer is drained first so the
// channel always carries the newest state.
func (m *Manager) publish(st State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = st
	for _, sub := range m.subs {
		select {
		case <-sub:
		default:
		}
		sub <- st
	}
}

func (m *Manager) acquire() error {
	if m.closed.Load() {
		return ErrManagerClosed
	}
	if !m.busy.CompareAndSwap(false, true) {
		m.metricInc(MetricSessionBusy)
		return ErrSessionBusy
	}
	return nil
}

func (m *Manager) release() {
	m.busy.Store(false)
}

// Bootstrap restores the session persisted by a previous launch. It runs
// exactly once per process, reads the token and the serialized user in
// parallel, and always terminates in a non-bootstrapping state. It never
// fails in a way that should gate startup: missing, corrupt, or unreadable
// credentials all degrade to a logged-out session. The only errors it
// returns are precondition violations ([ErrAlreadyBootstrapped],
// [ErrSessionBusy], [ErrManagerClosed]).
func (m *Manager) Bootstrap(ctx context.Context) error {
	if err := m.acquire(); err != nil {
		return err
	}
	defer m.release()

	if !m.bootstrapped.CompareAndSwap(false, true) {
		return ErrAlreadyBootstrapped
	}

	type read struct {
		value string
		ok    bool
		err   error
	}
	var (
		tokenRead read
		userRead  read
		wg        sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		tokenRead.value, tokenRead.ok, tokenRead.err = m.store.Get(ctx, m.config.Storage.TokenKey)
	}()
	go func() {
		defer wg.Done()
		userRead.value, userRead.ok, userRead.err = m.store.Get(ctx, m.config.Storage.UserKey)
	}()
	wg.Wait()

	outcome := bootstrapEmpty
	var user User

	switch {
	case tokenRead.err != nil || userRead.err != nil:
		outcome = bootstrapStorageError
		m.logger.Error("bootstrap: credential store unreadable",
			slog.Any("token_err", tokenRead.err),
			slog.Any("user_err", userRead.err))
	case tokenRead.ok != userRead.ok:
		// One key without the other means a crash between writes or an
		// external wipe. Treated as corrupt, not empty, for diagnosis.
		outcome = bootstrapCorrupt
		m.logger.Warn("bootstrap: partial credentials in store",
			slog.Bool("token_present", tokenRead.ok),
			slog.Bool("user_present", userRead.ok))
	case tokenRead.ok && userRead.ok:
		decoded, err := decodeUser(userRead.value)
		if err != nil {
			outcome = bootstrapCorrupt
			m.logger.Warn("bootstrap: stored user record invalid", slog.Any("error", err))
			break
		}
		user = decoded
		outcome = bootstrapRestored
	}

	if outcome == bootstrapRestored {
		m.client.SetAuthToken(tokenRead.value)
		m.logTokenAge(tokenRead.value)
		m.publish(State{User: &user, Bootstrapping: false})
	} else {
		m.publish(State{User: nil, Bootstrapping: false})
	}

	switch outcome {
	case bootstrapRestored:
		m.metricInc(MetricBootstrapRestored)
	case bootstrapEmpty:
		m.metricInc(MetricBootstrapEmpty)
	case bootstrapCorrupt:
		m.metricInc(MetricBootstrapCorrupt)
	case bootstrapStorageError:
		m.metricInc(MetricBootstrapStorageError)
	}

	m.emitAudit(ctx, AuditEvent{
		EventType: auditEventBootstrap,
		UserID:    user.ID,
		Success:   true,
		Metadata:  map[string]string{"outcome": outcome.String()},
	})
	m.logger.Info("bootstrap complete",
		slog.String("outcome", outcome.String()),
		slog.Bool("authenticated", outcome == bootstrapRestored))
	return nil
}

// logTokenAge inspects a restored bearer token when it happens to be a JWT.
// Diagnostics only: an expired token still restores the session, exactly as
// a missing expiry would, and the backend remains the sole authority.
func (m *Manager) logTokenAge(token string) {
	info, err := api.InspectToken(token)
	if err != nil {
		return
	}
	if !info.ExpiresAt.IsZero() && info.ExpiresAt.Before(time.Now()) {
		m.logger.Warn("bootstrap: restored token is expired",
			slog.Time("expires_at", info.ExpiresAt),
			slog.String("subject", info.Subject))
	}
}

// SignIn installs a freshly authenticated session: bearer token on the API
// client, both credential entries in the store, then the new state to
// subscribers — in that order. If persistence fails the Authorization
// header is rolled back, nothing is published, and the call fails with
// [ErrSessionPersistence]; in-memory state never diverges from durable
// state. The caller validated the server response shape already; SignIn
// only enforces the non-empty token/ID/Role precondition.
func (m *Manager) SignIn(ctx context.Context, token string, user User) error {
	if token == "" {
		return ErrEmptyToken
	}
	if !user.Complete() {
		return ErrIncompleteUser
	}
	if err := m.acquire(); err != nil {
		return err
	}
	defer m.release()

	encoded, err := encodeUser(user)
	if err != nil {
		return err
	}

	prev := m.client.AuthToken()
	m.client.SetAuthToken(token)

	persist := func() error {
		if err := m.store.Set(ctx, m.config.Storage.TokenKey, token); err != nil {
			return fmt.Errorf("storing token: %w", err)
		}
		if err := m.store.Set(ctx, m.config.Storage.UserKey, encoded); err != nil {
			// Leave no half-written pair behind. Best effort: the
			// bootstrap path tolerates a stray token key regardless.
			_ = m.store.Delete(ctx, m.config.Storage.TokenKey)
			return fmt.Errorf("storing user: %w", err)
		}
		return nil
	}

	if err := persist(); err != nil {
		if prev == "" {
			m.client.ClearAuthToken()
		} else {
			m.client.SetAuthToken(prev)
		}
		m.metricInc(MetricSignInPersistFailure)
		m.emitAudit(ctx, AuditEvent{
			EventType: auditEventSignIn,
			UserID:    user.ID,
			Success:   false,
			Error:     err.Error(),
		})
		m.logger.Error("sign-in: persistence failed", slog.Any("error", err))
		return fmt.Errorf("%w: %w", ErrSessionPersistence, err)
	}

	m.publish(State{User: &user, Bootstrapping: false})
	m.metricInc(MetricSignInSuccess)
	m.emitAudit(ctx, AuditEvent{
		EventType: auditEventSignIn,
		UserID:    user.ID,
		Success:   true,
		Metadata:  map[string]string{"role": string(user.Role)},
	})
	m.logger.Info("signed in",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)))
	return nil
}

// SignOut clears the session. The logged-out state is published before any
// storage work so the UI reacts instantly; credential deletion and header
// cleanup are side effects whose failures are logged and counted, never
// surfaced. The only possible errors are [ErrSessionBusy] and
// [ErrManagerClosed].
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.acquire(); err != nil {
		return err
	}
	defer m.release()

	var prevID string
	if st := m.Current(); st.User != nil {
		prevID = st.User.ID
	}

	m.publish(State{User: nil, Bootstrapping: false})
	m.client.ClearAuthToken()

	cleanupErr := ""
	if err := m.store.Delete(ctx, m.config.Storage.TokenKey); err != nil {
		cleanupErr = err.Error()
		m.metricInc(MetricSignOutCleanupFailure)
		m.logger.Warn("sign-out: token cleanup failed", slog.Any("error", err))
	}
	if err := m.store.Delete(ctx, m.config.Storage.UserKey); err != nil {
		cleanupErr = err.Error()
		m.metricInc(MetricSignOutCleanupFailure)
		m.logger.Warn("sign-out: user cleanup failed", slog.Any("error", err))
	}

	m.metricInc(MetricSignOut)
	m.emitAudit(ctx, AuditEvent{
		EventType: auditEventSignOut,
		UserID:    prevID,
		Success:   true,
		Error:     cleanupErr,
	})
	m.logger.Info("signed out", slog.String("user_id", prevID))
	return nil
}

// Bootstrapped reports whether Bootstrap has completed.
func (m *Manager) Bootstrapped() bool {
	return m.bootstrapped.Load()
}

// MetricsSnapshot returns a deep copy of all counters and histograms.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	if m == nil || m.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return m.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (m *Manager) AuditDropped() uint64 {
	if m == nil || m.audit == nil {
		return 0
	}
	return m.audit.Dropped()
}

func (m *Manager) metricInc(id MetricID) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.Inc(id)
}

// Close flushes the audit dispatcher and closes all subscription channels.
// Session operations after Close fail with [ErrManagerClosed].
func (m *Manager) Close() {
	if m == nil || !m.closed.CompareAndSwap(false, true) {
		return
	}
	m.mu.Lock()
	for id, sub := range m.subs {
		delete(m.subs, id)
		close(sub)
	}
	m.mu.Unlock()
	if m.audit != nil {
		m.audit.Close()
	}
}
