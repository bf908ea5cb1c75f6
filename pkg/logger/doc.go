// Package logger builds the *slog.Logger used across the service.
//
// New applies functional options on top of production defaults (JSON, INFO),
// then wraps the handler with a decorator that pulls request-scoped values
// such as the request id out of context.Context on every record.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "yieldcanary"),
//		logger.WithLevelName(cfg.LogLevel),
//		logger.WithContextExtractors(logger.RequestIDExtractor(middleware.GetReqID)),
//	)
//
// Attribute helpers in attr.go keep key names consistent between the billing,
// mailer and dashboard code paths.
package logger
