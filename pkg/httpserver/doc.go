// Package httpserver runs the workflow HTTP API.
//
// Server wraps net/http with graceful shutdown: Run blocks until its context
// is cancelled or SIGINT/SIGTERM arrives, then drains in-flight requests
// within the configured shutdown timeout. Config carries the env-tagged
// settings loaded by pkg/config and NewFromConfig turns them into options.
//
// HealthCheckHandler serves liveness ("alive") without checks and readiness
// with named dependency checks, answering 503 when any of them fails.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
package httpserver
