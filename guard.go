package session

// Decision is the outcome of guarding a navigation against session state.
type Decision string

const (
	// DecisionPending means the first identity resolution has not completed;
	// render nothing rather than flash an unauthenticated view.
	DecisionPending Decision = "pending"
	// DecisionRender allows the protected content.
	DecisionRender Decision = "render"
	// DecisionRedirectLogin sends the visitor to the login view.
	DecisionRedirectLogin Decision = "redirect-login"
	// DecisionRedirectUnauthorized sends an authenticated but
	// under-privileged visitor to the unauthorized view.
	DecisionRedirectUnauthorized Decision = "redirect-unauthorized"
)

// Guard decides whether a navigation may proceed. It is a pure function of
// the session state and the required roles: no side effects, deterministic.
// An empty required set only demands authentication.
func Guard(state SessionState, required ...Role) Decision {
	if state.IsLoading {
		return DecisionPending
	}

	if !state.IsAuthenticated || state.User == nil {
		return DecisionRedirectLogin
	}

	if len(required) == 0 {
		return DecisionRender
	}

	for _, role := range required {
		if state.User.Role == role {
			return DecisionRender
		}
	}

	return DecisionRedirectUnauthorized
}
