// Package logging provides a minimal logging interface and adapters for helpermesh.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the bridge, the registry and functions use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - NewLogger building a configured slog handler (json or text)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	mesh := helpermesh.New(func(o *helpermesh.Options) { o.Logger = logger })
//
// The design keeps the interface minimal to avoid vendor lock-in while
// supporting structured logging where available.
package logging
