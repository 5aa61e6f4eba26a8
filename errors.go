package session

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes attached to classified errors. Providers may pre-classify their
// failures by returning errors carrying one of these codes.
const (
	TextCodeInvalidEmail      = "AUTH_INVALID_EMAIL"
	TextCodeUserDisabled      = "AUTH_USER_DISABLED"
	TextCodeUserNotFound      = "AUTH_USER_NOT_FOUND"
	TextCodeWrongPassword     = "AUTH_WRONG_PASSWORD"
	TextCodeRateLimited       = "AUTH_RATE_LIMITED"
	TextCodeNetworkFailure    = "AUTH_NETWORK_FAILURE"
	TextCodeProviderInternal  = "AUTH_PROVIDER_INTERNAL"
	TextCodeUnknownAuth       = "AUTH_UNKNOWN"
	TextCodeMissingCreds      = "AUTH_MISSING_CREDENTIALS"
	TextCodeProfileResolution = "PROFILE_RESOLUTION_FAILED"
	TextCodeProfileNotFound   = "PROFILE_NOT_FOUND"
	TextCodeLogoutFailed      = "LOGOUT_FAILED"
)

// Short provider error codes, matching what hosted auth backends report.
// ClassifyAuthError falls back to matching these in error text when a
// provider does not return pre-classified errors.
const (
	ProviderCodeInvalidEmail    = "invalid-email"
	ProviderCodeUserDisabled    = "user-disabled"
	ProviderCodeUserNotFound    = "user-not-found"
	ProviderCodeWrongPassword   = "wrong-password"
	ProviderCodeTooManyRequests = "too-many-requests"
	ProviderCodeNetworkFailure  = "network-request-failed"
	ProviderCodeInternal        = "internal-error"
)

// ErrInvalidEmail is returned when the provider rejects the email address.
var ErrInvalidEmail = errors.New("email address is invalid", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidEmail).
	WithCode(errors.CodeBadRequest)

// ErrUserDisabled is returned when the identity exists but has been disabled.
var ErrUserDisabled = errors.New("user account is disabled", errors.CategoryAuth).
	WithTextCode(TextCodeUserDisabled).
	WithCode(errors.CodeUnauthorized)

// ErrUserNotFound is returned when no identity matches the email.
var ErrUserNotFound = errors.New("user not found", errors.CategoryAuth).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrWrongPassword is returned when the credentials do not match.
var ErrWrongPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeWrongPassword).
	WithCode(errors.CodeUnauthorized)

// ErrRateLimited is returned when the provider throttles the caller.
var ErrRateLimited = errors.New("too many attempts", errors.CategoryRateLimit).
	WithTextCode(TextCodeRateLimited)

// ErrNetworkFailure is returned when the provider round trip failed.
var ErrNetworkFailure = errors.New("provider request failed", errors.CategoryInternal).
	WithTextCode(TextCodeNetworkFailure)

// ErrProviderInternal is returned on provider-side server errors.
var ErrProviderInternal = errors.New("provider internal error", errors.CategoryInternal).
	WithTextCode(TextCodeProviderInternal)

// ErrUnknownAuth is the catch-all for unclassifiable provider failures.
var ErrUnknownAuth = errors.New("authentication failed", errors.CategoryAuth).
	WithTextCode(TextCodeUnknownAuth).
	WithCode(errors.CodeUnauthorized)

// ErrMissingCredentials is returned for empty email or password.
var ErrMissingCredentials = errors.New("email and password are required", errors.CategoryValidation).
	WithTextCode(TextCodeMissingCreds).
	WithCode(errors.CodeBadRequest)

var classified = map[string]*errors.Error{
	TextCodeInvalidEmail:     ErrInvalidEmail,
	TextCodeUserDisabled:     ErrUserDisabled,
	TextCodeUserNotFound:     ErrUserNotFound,
	TextCodeWrongPassword:    ErrWrongPassword,
	TextCodeRateLimited:      ErrRateLimited,
	TextCodeNetworkFailure:   ErrNetworkFailure,
	TextCodeProviderInternal: ErrProviderInternal,
	TextCodeUnknownAuth:      ErrUnknownAuth,
}

var providerCodes = []struct {
	code string
	err  *errors.Error
}{
	{ProviderCodeInvalidEmail, ErrInvalidEmail},
	{ProviderCodeUserDisabled, ErrUserDisabled},
	{ProviderCodeUserNotFound, ErrUserNotFound},
	{ProviderCodeWrongPassword, ErrWrongPassword},
	{ProviderCodeTooManyRequests, ErrRateLimited},
	{ProviderCodeNetworkFailure, ErrNetworkFailure},
	{ProviderCodeInternal, ErrProviderInternal},
}

// ClassifyAuthError maps a provider failure to exactly one of the classified
// authentication errors. Pre-classified errors pass through untouched; raw
// provider errors are matched on their short code; anything else becomes
// ErrUnknownAuth with the original error as source.
func ClassifyAuthError(err error) *errors.Error {
	if err == nil {
		return nil
	}

	var rich *errors.Error
	if errors.As(err, &rich) {
		if _, ok := classified[rich.TextCode]; ok {
			return rich
		}
	}

	msg := err.Error()
	for _, pc := range providerCodes {
		if strings.Contains(msg, pc.code) {
			return pc.err
		}
	}

	return errors.Wrap(err, errors.CategoryAuth, "authentication failed").
		WithTextCode(TextCodeUnknownAuth).
		WithCode(errors.CodeUnauthorized)
}

var userMessages = map[string]string{
	TextCodeInvalidEmail:      "E-mail inválido.",
	TextCodeUserDisabled:      "Este usuário foi desativado.",
	TextCodeUserNotFound:      "Usuário não encontrado.",
	TextCodeWrongPassword:     "Senha incorreta.",
	TextCodeRateLimited:       "Muitas tentativas de login. Tente novamente mais tarde.",
	TextCodeNetworkFailure:    "Falha de conexão. Verifique sua internet.",
	TextCodeProviderInternal:  "Erro interno do servidor. Tente novamente mais tarde.",
	TextCodeMissingCreds:      "Informe e-mail e senha.",
	TextCodeProfileResolution: "Não foi possível carregar o perfil do usuário.",
	TextCodeLogoutFailed:      "Não foi possível encerrar a sessão.",
}

// UserMessageDefault is the generic retry-suggesting message for errors the
// taxonomy cannot name.
const UserMessageDefault = "Ocorreu um erro inesperado. Tente novamente."

// UserMessage translates any error into the user-facing message for its
// classification. Raw provider codes never reach the UI layer.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var rich *errors.Error
	if errors.As(err, &rich) {
		if msg, ok := userMessages[rich.TextCode]; ok {
			return msg
		}
	}

	if rich = ClassifyAuthError(err); rich != nil {
		if msg, ok := userMessages[rich.TextCode]; ok {
			return msg
		}
	}

	return UserMessageDefault
}
