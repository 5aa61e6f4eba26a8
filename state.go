package session

// Phase identifies where the coordinator sits in its lifecycle. The machine
// lives for the process lifetime; there is no terminal phase.
type Phase string

const (
	// PhaseUninitialized is the phase before Start is called.
	PhaseUninitialized Phase = "uninitialized"
	// PhaseLoading lasts from Start until the first identity resolution.
	PhaseLoading Phase = "loading"
	// PhaseAuthenticated means a profile is attached to the session.
	PhaseAuthenticated Phase = "authenticated"
	// PhaseUnauthenticated means no profile is attached.
	PhaseUnauthenticated Phase = "unauthenticated"
)

// phaseTransitions is the allowed transition graph. Authenticated loops on
// itself for profile refreshes; Unauthenticated loops for repeated provider
// sign-out pushes.
var phaseTransitions = map[Phase]map[Phase]struct{}{
	PhaseUninitialized: {
		PhaseLoading: {},
	},
	PhaseLoading: {
		PhaseAuthenticated:   {},
		PhaseUnauthenticated: {},
	},
	PhaseAuthenticated: {
		PhaseAuthenticated:   {},
		PhaseUnauthenticated: {},
	},
	PhaseUnauthenticated: {
		PhaseAuthenticated:   {},
		PhaseUnauthenticated: {},
	},
}

// CanTransition reports whether moving from p to target is allowed.
func (p Phase) CanTransition(target Phase) bool {
	allowed, ok := phaseTransitions[p]
	if !ok {
		return false
	}
	_, exists := allowed[target]
	return exists
}

// SessionState is the tuple published by the Coordinator. IsAuthenticated is
// derived and always equals User != nil; IsLoading is true only between Start
// and the first identity resolution.
type SessionState struct {
	User            *UserProfile `json:"user,omitempty"`
	IsAuthenticated bool         `json:"is_authenticated"`
	IsLoading       bool         `json:"is_loading"`
}

// Role returns the authenticated user's role, if any.
func (s SessionState) Role() (Role, bool) {
	if s.User == nil {
		return "", false
	}
	return s.User.Role, true
}
