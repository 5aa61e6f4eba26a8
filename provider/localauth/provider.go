// Package localauth implements a password-verifying session.IdentityProvider
// for deployments that do not use a hosted auth backend. Credentials live in
// a local table; session-change notifications are fanned out to registered
// callbacks the same way a hosted provider would push them.
package localauth

import (
	"context"
	"net/mail"
	"sync"
	"time"

	"github.com/goliatone/go-errors"

	session "github.com/agendakit/go-session"
)

// MaxLoginAttempts is the number of failed attempts allowed per cooldown
// window.
var MaxLoginAttempts = 5

// CoolDownPeriod is the window in which failed attempts accumulate.
var CoolDownPeriod = 24 * time.Hour

// Provider implements session.IdentityProvider backed by a CredentialStore.
type Provider struct {
	store  CredentialStore
	logger session.Logger

	mu          sync.Mutex
	current     session.Principal
	subscribers map[int]func(session.Principal)
	nextID      int
}

var _ session.IdentityProvider = (*Provider)(nil)

// New creates a local identity provider over the given credential store.
func New(store CredentialStore) *Provider {
	return &Provider{
		store:       store,
		logger:      nopLogger{},
		subscribers: map[int]func(session.Principal){},
	}
}

func (p *Provider) WithLogger(logger session.Logger) *Provider {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// VerifyCredentials checks the email/password pair against the store. Every
// failure maps onto the classified session error set so callers never see raw
// store errors.
func (p *Provider) VerifyCredentials(ctx context.Context, email, password string) (session.Principal, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, session.ErrInvalidEmail
	}

	cred, err := p.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, session.ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load credentials").
			WithTextCode(session.TextCodeProviderInternal)
	}

	if cred.Disabled {
		return nil, session.ErrUserDisabled
	}

	if cred.LoginAttemptAt != nil && time.Since(*cred.LoginAttemptAt) > CoolDownPeriod {
		cred.LoginAttempts = 0
	}

	if cred.LoginAttempts >= MaxLoginAttempts {
		return nil, session.ErrRateLimited
	}

	if err := ComparePasswordAndHash(password, cred.PasswordHash); err != nil {
		if err2 := p.store.TrackAttemptedLogin(ctx, cred); err2 != nil {
			p.logger.Error("failed to track login attempt", "error", err2)
		}
		return nil, session.ErrWrongPassword
	}

	if err := p.store.TrackSuccessfulLogin(ctx, cred); err != nil {
		p.logger.Error("failed to track successful login", "error", err)
	}

	principal := principalFromCredential(cred)

	p.mu.Lock()
	p.current = principal
	p.notifyLocked(principal)
	p.mu.Unlock()

	return principal, nil
}

// TerminateSession clears the current session and notifies subscribers.
func (p *Provider) TerminateSession(ctx context.Context) error {
	p.mu.Lock()
	p.current = nil
	p.notifyLocked(nil)
	p.mu.Unlock()
	return nil
}

// OnSessionChange registers fn and immediately pushes the current session (or
// nil), matching the contract hosted providers honor on initial load.
func (p *Provider) OnSessionChange(fn func(session.Principal)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subscribers[id] = fn
	fn(p.current)
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subscribers, id)
		p.mu.Unlock()
	}
}

// notifyLocked fans out under the provider lock so subscribers observe
// session transitions in the order they happened.
func (p *Provider) notifyLocked(principal session.Principal) {
	for _, fn := range p.subscribers {
		fn(principal)
	}
}

type principal struct {
	id          string
	email       string
	displayName string
}

var _ session.Principal = principal{}

func principalFromCredential(cred *Credential) principal {
	return principal{
		id:          cred.PrincipalID,
		email:       cred.Email,
		displayName: cred.DisplayName,
	}
}

func (p principal) ID() string          { return p.id }
func (p principal) Email() string       { return p.email }
func (p principal) DisplayName() string { return p.displayName }

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
