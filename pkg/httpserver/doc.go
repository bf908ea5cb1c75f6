// Package httpserver runs an http.Handler with configured timeouts and a
// graceful shutdown bound to a context.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// Run returns once ctx is cancelled and in-flight requests drain, or the
// shutdown timeout elapses. Signal handling belongs to the caller
// (signal.NotifyContext in main).
package httpserver
