// Package log provides a simple, leveled logging interface used by the
// graph package's observers.
//
// # Log Levels
//
// The package supports five log levels, in order of increasing severity:
//
//   - LogLevelDebug: detailed debugging information for development
//   - LogLevelInfo: general informational messages about normal operation
//   - LogLevelWarn: warning messages for potentially problematic situations
//   - LogLevelError: error messages for failures that need attention
//   - LogLevelNone: disables all logging output
//
// # Logger Interface
//
// The Logger interface provides four logging methods: Debug, Info, Warn,
// and Error, each accepting a format string and arguments like fmt.Printf.
//
// # Example Usage
//
//	logger := log.NewDefaultLogger(log.LogLevelInfo)
//	logger.Info("task %s finished", name)
//	logger.Debug("inputs: %v", inputs)
//
// # golog Integration
//
// For callers who prefer github.com/kataras/golog, NewGologLogger wraps an
// existing *golog.Logger behind the same Logger interface:
//
//	glogger := golog.New()
//	logger := log.NewGologLogger(glogger)
//	logger.Info("started")
//
// # Custom Loggers
//
// Any type implementing Debug/Info/Warn/Error with this signature satisfies
// Logger and can be passed to observe.NewLogger.
package log
