package main

import (
	"fmt"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/yieldcanary/yieldcanary/pkg/config"
	"github.com/yieldcanary/yieldcanary/pkg/email"
	"github.com/yieldcanary/yieldcanary/pkg/httpserver"
	"github.com/yieldcanary/yieldcanary/pkg/jwt"
	"github.com/yieldcanary/yieldcanary/pkg/logger"
	"github.com/yieldcanary/yieldcanary/pkg/pg"
	"github.com/yieldcanary/yieldcanary/svc/billing"
)

const serviceName = "yieldcanary"

// Config is the full process configuration, read from the environment.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	DB      pg.Config
	HTTP    httpserver.Config
	Email   email.Config
	Billing billing.Config
	Auth    jwt.Config
}

type configLoader func() (Config, error)

func loadConfig(files ...string) (Config, error) {
	cfg, err := config.Load[Config](files...)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.AppEnv, serviceName),
		logger.WithContextExtractors(
			logger.RequestIDExtractor(middleware.GetReqID),
			logger.ViewerExtractor(jwt.EmailFromContext),
		),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevelName(cfg.LogLevel))
	}
	return logger.New(opts...)
}
