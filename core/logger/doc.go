// Package logger provides structured logging utilities built on Go's standard slog package.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithDevelopment("profiles"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("Server starting",
//		logger.Component("server"),
//		logger.Event("startup"),
//	)
//
// Without a format option the output is text when writing to a terminal
// and JSON otherwise.
//
// # Context Values
//
// Values stored in the context are added to every record logged with a
// *Context method:
//
//	log := logger.New(
//		logger.WithProduction("profiles"),
//		logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	log.InfoContext(ctx, "Processing request")
//
// # Attribute Helpers
//
// Helpers return an empty attribute for nil errors and empty identifiers,
// so they can be passed unconditionally:
//
//	log.Warn("Binding failed",
//		logger.Error(err),
//		logger.Cause(e.Cause),
//		logger.Mode(binder.Strict),
//		logger.Path(r.URL.Path),
//	)
package logger
