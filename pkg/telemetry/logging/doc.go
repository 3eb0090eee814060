// Package logging provides structured logging for fragrules.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON, text, and console output formats
//   - Configurable log levels (debug, info, warn, error)
//   - Per-component child loggers
//   - Context-aware logging that picks up the rule file and catalog revision
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "console",
//	})
//
//	watchLog := logger.Component("watcher")
//	ctx := logging.WithSource(ctx, "PC_H.frag.txt")
//	watchLog.InfoContext(ctx, "recompiled", "fragments", 5)
//
// The parser takes a plain *slog.Logger, obtained with Logger.Slog.
package logging
