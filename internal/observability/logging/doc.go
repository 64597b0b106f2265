// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper functions
// for common logging patterns used throughout the application.
//
// Key features:
//   - JSON and text output formats
//   - Request (dispatch) ID propagation
//   - Context-aware logging: the dispatcher stores a channel-scoped logger in the
//     context and sender adapters retrieve it with FromContext
//   - Configurable log levels
//
// Example usage:
//
//	import "msgsend/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started", slog.String("version", "1.0"))
//	}
//
//	func send(ctx context.Context) {
//	    logging.FromContext(ctx).Info("notification sent")
//	}
package logging
