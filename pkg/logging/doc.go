// Package logging configures the process-wide slog logger.
//
// The agent's stdout is reserved for the piggyback report, so every
// log record goes to stderr as one JSON line. Each record carries the
// module name and build version, which keeps multi-agent log streams
// attributable after aggregation.
//
// # Setup
//
// main() installs the default logger once, before any command runs:
//
//	logging.SetDefaultStructuredLogger("ktel", version)
//
// after which ordinary slog calls anywhere in the process use it:
//
//	slog.Info("report assembled", "nodes", 3, "sections", 42)
//	slog.Error("collection cycle failed", "error", err)
//
// # Levels
//
// The level comes from the LOG_LEVEL environment variable (debug,
// info, warn or warning, error; case does not matter). Unset or
// unrecognized values mean info. At debug level the handler also
// records the calling source location, so a misbehaving collector can
// be traced to its file and line:
//
//	LOG_LEVEL=debug ktel collect --host k8s.example.com --token "$TOKEN"
//
// SetDefaultStructuredLoggerWithLevel pins the level explicitly and
// ignores the environment; tests use it to silence output.
//
// # Record shape
//
//	{
//	    "time": "2026-08-22T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "collected kubelet stats",
//	    "module": "ktel",
//	    "version": "v0.3.1",
//	    "nodes": 3
//	}
//
// NewLogLogger adapts the structured handler to a *log.Logger for
// dependencies that predate slog.
package logging
