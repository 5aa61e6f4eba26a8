package session_test

import (
	"context"
	"sync"

	"github.com/goliatone/go-errors"

	session "github.com/agendakit/go-session"
)

type fakePrincipal struct {
	id    string
	email string
	name  string
}

func (p fakePrincipal) ID() string          { return p.id }
func (p fakePrincipal) Email() string       { return p.email }
func (p fakePrincipal) DisplayName() string { return p.name }

// fakeProvider is an in-memory IdentityProvider. Push simulates the provider
// notifying registered callbacks about a session change.
type fakeProvider struct {
	mu           sync.Mutex
	verify       func(ctx context.Context, email, password string) (session.Principal, error)
	terminateErr error
	current      session.Principal
	callbacks    map[int]func(session.Principal)
	nextID       int
	unsubscribed int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		callbacks: map[int]func(session.Principal){},
	}
}

func (p *fakeProvider) VerifyCredentials(ctx context.Context, email, password string) (session.Principal, error) {
	if p.verify != nil {
		return p.verify(ctx, email, password)
	}
	return nil, session.ErrUserNotFound
}

func (p *fakeProvider) TerminateSession(ctx context.Context) error {
	if p.terminateErr != nil {
		return p.terminateErr
	}
	p.Push(nil)
	return nil
}

func (p *fakeProvider) OnSessionChange(fn func(session.Principal)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.callbacks[id] = fn
	fn(p.current)
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.callbacks, id)
		p.unsubscribed++
		p.mu.Unlock()
	}
}

func (p *fakeProvider) Push(principal session.Principal) {
	p.mu.Lock()
	p.current = principal
	fns := make([]func(session.Principal), 0, len(p.callbacks))
	for _, fn := range p.callbacks {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(principal)
	}
}

// fakeStore is an in-memory ProfileStore with injectable failures and an
// optional gate to hold Get calls open while other events race past them.
type fakeStore struct {
	mu       sync.Mutex
	profiles map[string]*session.UserProfile

	getErr    error
	upsertErr error

	enterGet chan struct{}
	gateGet  chan struct{}

	gets    int
	upserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles: map[string]*session.UserProfile{},
	}
}

func (s *fakeStore) Get(ctx context.Context, id string) (*session.UserProfile, error) {
	if s.enterGet != nil {
		s.enterGet <- struct{}{}
	}
	if s.gateGet != nil {
		<-s.gateGet
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}

	record, ok := s.profiles[id]
	if !ok {
		return nil, errors.New("user profile not found", errors.CategoryNotFound)
	}

	cp := *record
	return &cp, nil
}

func (s *fakeStore) Upsert(ctx context.Context, profile *session.UserProfile) (*session.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.upserts++
	if s.upsertErr != nil {
		return nil, s.upsertErr
	}

	cp := *profile
	s.profiles[profile.ID] = &cp
	return profile, nil
}

func (s *fakeStore) seed(profile *session.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *profile
	s.profiles[profile.ID] = &cp
}

func (s *fakeStore) upsertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upserts
}

// recordingSink captures activity events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []session.ActivityEvent
}

func (r *recordingSink) Record(ctx context.Context, event session.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingSink) byType(t session.ActivityEventType) []session.ActivityEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []session.ActivityEvent
	for _, e := range r.events {
		if e.EventType == t {
			out = append(out, e)
		}
	}
	return out
}

type silentLogger struct{}

func (silentLogger) Debug(string, ...any) {}
func (silentLogger) Info(string, ...any)  {}
func (silentLogger) Warn(string, ...any)  {}
func (silentLogger) Error(string, ...any) {}
