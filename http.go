package session

import (
	"github.com/gofiber/fiber/v2"
)

// RouteGuard gates navigation to protected routes based on the coordinator's
// published state and an optional required-role set.
type RouteGuard struct {
	coordinator *Coordinator
	cfg         Config
	Logger      Logger
}

// NewRouteGuard returns a guard bound to the coordinator's session state.
func NewRouteGuard(coordinator *Coordinator, cfg Config) *RouteGuard {
	return &RouteGuard{
		coordinator: coordinator,
		cfg:         cfg,
		Logger:      defLogger{},
	}
}

func (g *RouteGuard) WithLogger(logger Logger) *RouteGuard {
	if logger != nil {
		g.Logger = logger
	}
	return g
}

// Protected returns a middleware that applies Guard to every request. During
// bootstrap (loading) it answers 503 with Retry-After instead of flashing a
// redirect; unauthenticated visitors go to the login route; authenticated but
// under-privileged ones to the unauthorized route. On render the profile is
// placed in the request context.
func (g *RouteGuard) Protected(required ...Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state := g.coordinator.Current()

		switch Guard(state, required...) {
		case DecisionPending:
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.SendStatus(fiber.StatusServiceUnavailable)

		case DecisionRedirectLogin:
			g.Logger.Debug("unauthenticated navigation rejected", "path", c.Path())
			return c.Redirect(g.cfg.GetLoginRoute(), fiber.StatusFound)

		case DecisionRedirectUnauthorized:
			g.Logger.Info("under-privileged navigation rejected",
				"path", c.Path(),
				"user_id", state.User.ID,
				"role", state.User.Role,
			)
			return c.Redirect(g.cfg.GetUnauthorizedRoute(), fiber.StatusFound)
		}

		c.SetUserContext(WithContext(c.UserContext(), state.User))
		return c.Next()
	}
}
