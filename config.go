package session

import (
	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

// EnvConfig implements Config from environment variables.
type EnvConfig struct {
	LoginRoute         string `env:"SESSION_LOGIN_ROUTE" envDefault:"/login"`
	UnauthorizedRoute  string `env:"SESSION_UNAUTHORIZED_ROUTE" envDefault:"/unauthorized"`
	DefaultDisplayName string `env:"SESSION_DEFAULT_DISPLAY_NAME" envDefault:"Novo Usuário"`
	SubscriberBuffer   int    `env:"SESSION_SUBSCRIBER_BUFFER" envDefault:"16"`
}

var _ Config = (*EnvConfig)(nil)

// LoadConfig reads optional .env files and parses the environment. Missing
// .env files are not an error.
func LoadConfig(files ...string) (*EnvConfig, error) {
	_ = godotenv.Load(files...)

	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to parse session config")
	}

	return cfg, nil
}

// DefaultConfig returns the configuration defaults without touching the
// environment.
func DefaultConfig() *EnvConfig {
	return &EnvConfig{
		LoginRoute:         "/login",
		UnauthorizedRoute:  "/unauthorized",
		DefaultDisplayName: "Novo Usuário",
		SubscriberBuffer:   16,
	}
}

func (c *EnvConfig) GetLoginRoute() string {
	return c.LoginRoute
}

func (c *EnvConfig) GetUnauthorizedRoute() string {
	return c.UnauthorizedRoute
}

func (c *EnvConfig) GetDefaultDisplayName() string {
	return c.DefaultDisplayName
}

func (c *EnvConfig) GetSubscriberBuffer() int {
	return c.SubscriberBuffer
}
