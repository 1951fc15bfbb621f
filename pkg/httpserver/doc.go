// Package httpserver runs the devicetrack HTTP listener and provides the few
// response helpers its handlers share.
//
// Server is driven by a context rather than by signals; the binary owns
// signal handling and cancels the context to trigger a graceful shutdown:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	srv := httpserver.New(cfg, router, log)
//	if err := srv.Run(ctx); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// HealthCheckHandler aggregates named storage probes (pg.Healthcheck,
// mongo.Healthcheck, redis.Healthcheck) into one JSON readiness endpoint.
//
// Run wraps listen errors with ErrStart and shutdown errors with ErrShutdown.
package httpserver
