package session

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// ControllerRoutes holds the paths the controller mounts its handlers on.
type ControllerRoutes struct {
	Login   string
	Logout  string
	Session string
}

// Controller exposes the coordinator over HTTP: login/logout plus a session
// snapshot endpoint for the UI shell.
type Controller struct {
	coordinator *Coordinator
	Logger      Logger
	Routes      *ControllerRoutes
}

// NewController will create a new session controller
func NewController(coordinator *Coordinator) *Controller {
	return &Controller{
		coordinator: coordinator,
		Logger:      defLogger{},
		Routes: &ControllerRoutes{
			Login:   "/login",
			Logout:  "/logout",
			Session: "/session",
		},
	}
}

func (a *Controller) WithLogger(logger Logger) *Controller {
	if logger != nil {
		a.Logger = logger
	}
	return a
}

// RegisterRoutes mounts the controller on the app.
func (a *Controller) RegisterRoutes(app *fiber.App) {
	app.Post(a.Routes.Login, a.LoginPost)
	app.Post(a.Routes.Logout, a.LogoutPost)
	app.Get(a.Routes.Session, a.SessionShow)
}

// LoginPayload is the login form payload
type LoginPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginPost authenticates the payload against the coordinator. Errors come
// back as localized messages; raw provider codes never reach the client.
func (a *Controller) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": UserMessage(ErrMissingCredentials),
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Debug("login validate payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": UserMessage(ErrInvalidEmail),
		})
	}

	if err := a.coordinator.Login(c.UserContext(), payload.Email, payload.Password); err != nil {
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": UserMessage(err),
		})
	}

	return c.JSON(a.coordinator.Current())
}

// LogoutPost terminates the session. On provider failure the session is left
// intact and the client may retry.
func (a *Controller) LogoutPost(c *fiber.Ctx) error {
	if err := a.coordinator.Logout(c.UserContext()); err != nil {
		a.Logger.Error("logout", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": UserMessage(err),
		})
	}

	return c.JSON(a.coordinator.Current())
}

// SessionShow returns the current session state snapshot.
func (a *Controller) SessionShow(c *fiber.Ctx) error {
	return c.JSON(a.coordinator.Current())
}

func statusFromError(err error) int {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return fiber.StatusInternalServerError
	}

	switch rich.Category {
	case errors.CategoryValidation:
		return fiber.StatusBadRequest
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	case errors.CategoryConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
