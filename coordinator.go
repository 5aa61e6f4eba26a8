package session

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
)

const defaultSubscriberBuffer = 16

// ErrNotStarted is returned by Login/Logout before Start has run.
var ErrNotStarted = errors.New("session coordinator not started", errors.CategoryConflict).
	WithTextCode("SESSION_NOT_STARTED").
	WithCode(errors.CodeConflict)

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("session coordinator already started", errors.CategoryConflict).
	WithTextCode("SESSION_ALREADY_STARTED").
	WithCode(errors.CodeConflict)

// ErrClosed is returned when operating on a closed coordinator.
var ErrClosed = errors.New("session coordinator is closed", errors.CategoryConflict).
	WithTextCode("SESSION_CLOSED").
	WithCode(errors.CodeConflict)

// Coordinator owns the process-wide session state and keeps it synchronized
// with the identity provider. All mutation funnels through its methods; every
// other component holds read-only snapshots.
//
// Publications are totally ordered: each provider event is tagged with a
// monotonic sequence number at receipt, and a resolution that finishes after
// a newer event has been applied is discarded.
type Coordinator struct {
	provider     IdentityProvider
	store        ProfileStore
	cfg          Config
	logger       Logger
	activitySink ActivitySink
	now          func() time.Time

	mu          sync.Mutex
	phase       Phase
	state       SessionState
	seq         uint64
	applied     uint64
	subs        map[int]chan SessionState
	nextSubID   int
	unsubscribe func()
	closed      bool
}

// NewCoordinator returns a new Coordinator
func NewCoordinator(provider IdentityProvider, store ProfileStore, cfg Config) *Coordinator {
	return &Coordinator{
		provider:     provider,
		store:        store,
		cfg:          cfg,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
		now:          time.Now,
		phase:        PhaseUninitialized,
		state:        SessionState{IsLoading: true},
		subs:         map[int]chan SessionState{},
	}
}

func (c *Coordinator) WithLogger(logger Logger) *Coordinator {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithActivitySink configures an ActivitySink for emitting session events.
func (c *Coordinator) WithActivitySink(sink ActivitySink) *Coordinator {
	c.activitySink = normalizeActivitySink(sink)
	return c
}

// WithClock injects a custom clock (useful for tests).
func (c *Coordinator) WithClock(clock func() time.Time) *Coordinator {
	if clock != nil {
		c.now = clock
	}
	return c
}

// Start transitions the coordinator into its loading phase and registers for
// provider session-change notifications. The provider pushes the current
// session (or nil) on registration, which produces the first resolution.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.phase != PhaseUninitialized {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.phase = PhaseLoading
	c.broadcastLocked()
	c.mu.Unlock()

	// The provider may invoke the callback synchronously during
	// registration, so the mutex cannot be held across this call.
	unsub := c.provider.OnSessionChange(func(p Principal) {
		c.handleSessionChange(ctx, p)
	})

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		if unsub != nil {
			unsub()
		}
		return ErrClosed
	}
	c.unsubscribe = unsub
	c.mu.Unlock()

	return nil
}

// Close unregisters from the provider and closes all subscriber channels.
// Shutdown ordering is deterministic: no state is published after Close
// returns.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	unsub := c.unsubscribe
	c.unsubscribe = nil
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	c.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Current returns a snapshot of the published session state.
func (c *Coordinator) Current() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe returns a channel receiving every session state publication,
// primed with the current state, plus a cancel func that must be called on
// shutdown. Slow subscribers lose their oldest pending states, never the
// newest.
func (c *Coordinator) Subscribe() (<-chan SessionState, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	buffer := defaultSubscriberBuffer
	if c.cfg != nil && c.cfg.GetSubscriberBuffer() > 0 {
		buffer = c.cfg.GetSubscriberBuffer()
	}

	ch := make(chan SessionState, buffer)
	ch <- c.state

	id := c.nextSubID
	c.nextSubID++

	if c.closed {
		close(ch)
		return ch, func() {}
	}
	c.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}

	return ch, cancel
}

// Login delegates credential verification to the provider, resolves the
// matching profile, and publishes the new state. On failure the session state
// is left untouched and a classified error is returned.
func (c *Coordinator) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return ErrMissingCredentials
	}

	c.mu.Lock()
	if c.phase == PhaseUninitialized {
		c.mu.Unlock()
		return ErrNotStarted
	}
	c.mu.Unlock()

	principal, err := c.provider.VerifyCredentials(ctx, email, password)
	if err != nil {
		classified := ClassifyAuthError(err)
		c.logger.Error("login credential verification failed", "email", email, "error", classified)
		c.emitActivity(ctx, ActivityEventLoginFailure, "", map[string]any{
			"email": email,
			"error": classified.Error(),
		})
		return classified
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	profile, err := c.resolveProfile(ctx, principal)
	if err != nil {
		c.logger.Error("login profile resolution failed", "principal", principal.ID(), "error", err)
		c.emitActivity(ctx, ActivityEventLoginFailure, principal.ID(), map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return err
	}

	c.applyResolution(ctx, seq, profile)

	c.emitActivity(ctx, ActivityEventLoginSuccess, profile.ID, map[string]any{
		"email": email,
	})

	return nil
}

// Logout requests session termination from the provider. On success the user
// is cleared and the new state published; on failure the state is left
// untouched so the caller can retry.
func (c *Coordinator) Logout(ctx context.Context) error {
	c.mu.Lock()
	if c.phase == PhaseUninitialized {
		c.mu.Unlock()
		return ErrNotStarted
	}
	userID := ""
	if c.state.User != nil {
		userID = c.state.User.ID
	}
	c.mu.Unlock()

	if err := c.provider.TerminateSession(ctx); err != nil {
		wrapped := errors.Wrap(err, errors.CategoryInternal, "unable to terminate session").
			WithTextCode(TextCodeLogoutFailed)
		c.logger.Error("logout failed", "user_id", userID, "error", err)
		c.emitActivity(ctx, ActivityEventLogoutFailure, userID, map[string]any{
			"error": err.Error(),
		})
		return wrapped
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	c.applyResolution(ctx, seq, nil)

	c.emitActivity(ctx, ActivityEventLogoutSuccess, userID, nil)

	return nil
}

// handleSessionChange reacts to provider-pushed identity changes. This path
// has no caller to report to: resolution errors are logged and the state
// falls back to unauthenticated so the UI never hangs in loading.
func (c *Coordinator) handleSessionChange(ctx context.Context, principal Principal) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	if principal == nil {
		c.applyResolution(ctx, seq, nil)
		return
	}

	profile, err := c.resolveProfile(ctx, principal)
	if err != nil {
		c.logger.Error("session change profile resolution failed",
			"principal", principal.ID(),
			"error", err,
		)
		c.applyResolution(ctx, seq, nil)
		return
	}

	c.applyResolution(ctx, seq, profile)
}

// resolveProfile implements fetch-or-create. Provider wins for identity
// fields (email), the store wins for profile fields (role, phone, location).
// Creation uses upsert semantics keyed on the principal id, so a racing
// duplicate cannot produce two records.
func (c *Coordinator) resolveProfile(ctx context.Context, principal Principal) (*UserProfile, error) {
	existing, err := c.store.Get(ctx, principal.ID())
	if err != nil && !errors.IsNotFound(err) {
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to resolve user profile").
			WithTextCode(TextCodeProfileResolution).
			WithMetadata(map[string]any{"principal_id": principal.ID()})
	}

	if err == nil && existing != nil {
		existing.EnsureRole()
		existing.EnsureStatus()

		if email := principal.Email(); email != "" && existing.Email != email {
			existing.Email = email
			if _, err := c.store.Upsert(ctx, existing); err != nil {
				return nil, errors.Wrap(err, errors.CategoryInternal, "unable to persist profile email").
					WithTextCode(TextCodeProfileResolution).
					WithMetadata(map[string]any{"principal_id": principal.ID()})
			}
		}

		return existing, nil
	}

	name := principal.DisplayName()
	if name == "" && c.cfg != nil {
		name = c.cfg.GetDefaultDisplayName()
	}

	now := c.now()
	profile := &UserProfile{
		ID:        principal.ID(),
		Email:     principal.Email(),
		Name:      name,
		Role:      RoleAttendee,
		Status:    UserStatusActive,
		CreatedAt: &now,
	}

	created, err := c.store.Upsert(ctx, profile)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to create user profile").
			WithTextCode(TextCodeProfileResolution).
			WithMetadata(map[string]any{"principal_id": principal.ID()})
	}

	c.emitActivity(ctx, ActivityEventProfileCreated, created.ID, map[string]any{
		"email": created.Email,
	})

	return created, nil
}

func (c *Coordinator) applyResolution(ctx context.Context, seq uint64, profile *UserProfile) {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return
	}

	if seq <= c.applied {
		c.logger.Debug("discarding stale session resolution", "seq", seq, "applied", c.applied)
		c.mu.Unlock()
		return
	}
	c.applied = seq

	target := PhaseUnauthenticated
	if profile != nil {
		target = PhaseAuthenticated
	}

	if !c.phase.CanTransition(target) {
		c.logger.Warn("invalid session phase transition", "from", c.phase, "to", target)
		c.mu.Unlock()
		return
	}
	c.phase = target

	c.state = SessionState{
		User:            profile,
		IsAuthenticated: profile != nil,
		IsLoading:       false,
	}
	c.broadcastLocked()
	c.mu.Unlock()

	userID := ""
	if profile != nil {
		userID = profile.ID
	}
	c.emitActivity(ctx, ActivityEventStateChanged, userID, map[string]any{
		"authenticated": profile != nil,
		"phase":         string(target),
	})
}

func (c *Coordinator) broadcastLocked() {
	for _, ch := range c.subs {
		for {
			select {
			case ch <- c.state:
			default:
				// Full buffer: drop the subscriber's oldest pending state
				// so the newest publication is never lost.
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}

func (c *Coordinator) emitActivity(ctx context.Context, eventType ActivityEventType, userID string, metadata map[string]any) {
	sink := normalizeActivitySink(c.activitySink)
	event := ActivityEvent{
		EventType: eventType,
		UserID:    userID,
		Metadata:  metadata,
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = c.now()
	}

	if err := sink.Record(ctx, event); err != nil {
		c.logger.Warn("activity sink record error", "error", err)
	}
}
