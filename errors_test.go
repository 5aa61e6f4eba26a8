package session_test

import (
	"errors"
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"

	session "github.com/agendakit/go-session"
)

func TestClassifyAuthError(t *testing.T) {
	testCases := []struct {
		name     string
		input    error
		expected *goerrors.Error
	}{
		{
			name:     "pre-classified passes through",
			input:    session.ErrWrongPassword,
			expected: session.ErrWrongPassword,
		},
		{
			name:     "wrapped pre-classified passes through",
			input:    fmt.Errorf("login: %w", session.ErrUserDisabled),
			expected: session.ErrUserDisabled,
		},
		{
			name:     "raw wrong-password code",
			input:    errors.New("auth/wrong-password: invalid credential"),
			expected: session.ErrWrongPassword,
		},
		{
			name:     "raw user-not-found code",
			input:    errors.New("auth/user-not-found"),
			expected: session.ErrUserNotFound,
		},
		{
			name:     "raw invalid-email code",
			input:    errors.New("auth/invalid-email"),
			expected: session.ErrInvalidEmail,
		},
		{
			name:     "raw user-disabled code",
			input:    errors.New("auth/user-disabled"),
			expected: session.ErrUserDisabled,
		},
		{
			name:     "raw too-many-requests code",
			input:    errors.New("auth/too-many-requests"),
			expected: session.ErrRateLimited,
		},
		{
			name:     "raw network failure code",
			input:    errors.New("auth/network-request-failed"),
			expected: session.ErrNetworkFailure,
		},
		{
			name:     "raw internal error code",
			input:    errors.New("auth/internal-error"),
			expected: session.ErrProviderInternal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := session.ClassifyAuthError(tc.input)
			assert.ErrorIs(t, got, tc.expected)
		})
	}
}

func TestClassifyAuthErrorUnknown(t *testing.T) {
	got := session.ClassifyAuthError(errors.New("something unexpected"))
	assert.NotNil(t, got)
	assert.Equal(t, session.TextCodeUnknownAuth, got.TextCode)
	assert.Equal(t, goerrors.CategoryAuth, got.Category)

	// Source is preserved for diagnostics.
	assert.Contains(t, got.Error(), "something unexpected")
}

func TestClassifyAuthErrorNil(t *testing.T) {
	assert.Nil(t, session.ClassifyAuthError(nil))
}

func TestClassifiedErrorProperties(t *testing.T) {
	testCases := []struct {
		err      *goerrors.Error
		textCode string
		category goerrors.Category
	}{
		{session.ErrInvalidEmail, session.TextCodeInvalidEmail, goerrors.CategoryValidation},
		{session.ErrUserDisabled, session.TextCodeUserDisabled, goerrors.CategoryAuth},
		{session.ErrUserNotFound, session.TextCodeUserNotFound, goerrors.CategoryAuth},
		{session.ErrWrongPassword, session.TextCodeWrongPassword, goerrors.CategoryAuth},
		{session.ErrRateLimited, session.TextCodeRateLimited, goerrors.CategoryRateLimit},
		{session.ErrNetworkFailure, session.TextCodeNetworkFailure, goerrors.CategoryInternal},
		{session.ErrProviderInternal, session.TextCodeProviderInternal, goerrors.CategoryInternal},
		{session.ErrUnknownAuth, session.TextCodeUnknownAuth, goerrors.CategoryAuth},
		{session.ErrMissingCredentials, session.TextCodeMissingCreds, goerrors.CategoryValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.textCode, func(t *testing.T) {
			assert.Equal(t, tc.textCode, tc.err.TextCode)
			assert.Equal(t, tc.category, tc.err.Category)
		})
	}
}

func TestUserMessage(t *testing.T) {
	testCases := []struct {
		name     string
		input    error
		expected string
	}{
		{
			name:     "wrong password",
			input:    session.ErrWrongPassword,
			expected: "Senha incorreta.",
		},
		{
			name:     "user not found",
			input:    session.ErrUserNotFound,
			expected: "Usuário não encontrado.",
		},
		{
			name:     "user disabled",
			input:    session.ErrUserDisabled,
			expected: "Este usuário foi desativado.",
		},
		{
			name:     "rate limited",
			input:    session.ErrRateLimited,
			expected: "Muitas tentativas de login. Tente novamente mais tarde.",
		},
		{
			name:     "invalid email",
			input:    session.ErrInvalidEmail,
			expected: "E-mail inválido.",
		},
		{
			name:     "network failure",
			input:    session.ErrNetworkFailure,
			expected: "Falha de conexão. Verifique sua internet.",
		},
		{
			name:     "raw provider code is translated",
			input:    errors.New("auth/wrong-password"),
			expected: "Senha incorreta.",
		},
		{
			name:     "unknown errors get the generic message",
			input:    errors.New("something unexpected"),
			expected: session.UserMessageDefault,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, session.UserMessage(tc.input))
		})
	}
}

func TestUserMessageNeverLeaksProviderCodes(t *testing.T) {
	raw := errors.New("auth/wrong-password: INVALID_LOGIN_CREDENTIALS")
	msg := session.UserMessage(raw)
	assert.NotContains(t, msg, "wrong-password")
	assert.NotContains(t, msg, "INVALID_LOGIN_CREDENTIALS")
}

func TestUserMessageNil(t *testing.T) {
	assert.Empty(t, session.UserMessage(nil))
}
