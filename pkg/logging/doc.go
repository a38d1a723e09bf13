// Package logging provides structured logging configuration for apina.
//
// This package wraps log/slog so the dispatcher, storage backends and the
// HTTP transport log the same way. Components accept a *slog.Logger through an
// option; when none is given they use Nop(), so an absent logger is always safe.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatJSON,
//	})
//
//	logger.Debug("request serialized", "request", string(raw))
//
// # Sinks
//
//   - Output: any io.Writer, stderr by default
//   - File: Config.File appends every record to a log file as well
//   - MemoryHandler: keeps records in memory; tests assert on it
package logging
