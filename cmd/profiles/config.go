package main

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/querybind/core/binder"
	"github.com/dmitrymomot/querybind/core/cors"
	"github.com/dmitrymomot/querybind/core/server"
)

const serviceName = "profiles"

type appConfig struct {
	Server server.Config

	Env      string     `env:"APP_ENV" envDefault:"production"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`

	Fixture  string      `env:"PROFILES_FIXTURE"`
	Watch    bool        `env:"PROFILES_WATCH" envDefault:"false"`
	BindMode binder.Mode `env:"PROFILES_BIND_MODE" envDefault:"strict"`
	Metrics  bool        `env:"PROFILES_METRICS" envDefault:"true"`

	AllowOrigins     []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	CORSMaxAge       int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// corsPolicy builds the policy shared by all profile routes.
func (c appConfig) corsPolicy() *cors.Policy {
	return cors.New(cors.Config{
		AllowOrigins: c.AllowOrigins,
		AllowMethods: []string{
			http.MethodDelete,
			http.MethodGet,
			http.MethodHead,
			http.MethodPatch,
			http.MethodPost,
			http.MethodPut,
			http.MethodOptions,
		},
		AllowHeaders:     []string{"*"},
		AllowCredentials: c.AllowCredentials,
		MaxAge:           c.CORSMaxAge,
	})
}
