package session

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface the library depends on. Messages are
// followed by alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Principal is the identity provider's representation of an authenticated
// identity: a stable subject id plus the identity fields the provider owns.
type Principal interface {
	ID() string
	Email() string
	DisplayName() string
}

// IdentityProvider is the external auth collaborator. Credential verification,
// session termination, and session-change notifications are all delegated to
// it; this library never stores or refreshes credentials itself.
type IdentityProvider interface {
	// VerifyCredentials authenticates the email/password pair and returns the
	// resulting Principal. Errors should be classifiable via ClassifyAuthError.
	VerifyCredentials(ctx context.Context, email, password string) (Principal, error)

	// TerminateSession ends the provider-side session.
	TerminateSession(ctx context.Context) error

	// OnSessionChange registers fn to receive every session transition,
	// including the current session (or nil) at registration time. A nil
	// Principal means signed out. The returned func unregisters fn.
	OnSessionChange(fn func(Principal)) (unsubscribe func())
}

// ProfileStore is the document-store collaborator holding user profiles keyed
// by principal id.
type ProfileStore interface {
	// Get returns the profile for the given principal id. Not-found errors
	// must satisfy errors.IsNotFound from goliatone/go-errors.
	Get(ctx context.Context, id string) (*UserProfile, error)

	// Upsert persists the profile with last-writer-wins semantics on the
	// principal id key and returns the stored record.
	Upsert(ctx context.Context, profile *UserProfile) (*UserProfile, error)
}

// Config holds session options
type Config interface {
	GetLoginRoute() string
	GetUnauthorizedRoute() string
	GetDefaultDisplayName() string
	GetSubscriberBuffer() int
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Println(append([]any{"[ERR] SESSION", msg}, args...)...)
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Println(append([]any{"[WRN] SESSION", msg}, args...)...)
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Println(append([]any{"[INF] SESSION", msg}, args...)...)
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Println(append([]any{"[DBG] SESSION", msg}, args...)...)
}
