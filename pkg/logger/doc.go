// Package logger builds *slog.Logger instances for devicetrack services.
//
// New applies functional options (format, level, output, static attributes,
// environment presets) and wraps the chosen slog.Handler with
// NewContextHandler, which injects attributes pulled from context.Context
// on every record. Helper constructors in attr.go keep attribute keys
// consistent across packages:
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "devicetrack"),
//	    logger.WithContextValue("request_id", middleware.RequestIDKey),
//	)
//	log.InfoContext(ctx, "device created",
//	    logger.DeviceID(dev.ID),
//	    logger.Fingerprint(dev.Fingerprint),
//	)
//
// Error returns an empty attribute for a nil error, so it can be passed
// unconditionally.
package logger
