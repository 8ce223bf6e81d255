// Package logging provides subsystem-tagged structured logging for edgedeploy.
//
// The package wraps Go's log/slog with a small set of package-level helpers so
// that every component logs the same way:
//
//	logging.Init(logging.FormatText, logging.LevelInfo, os.Stderr)
//
//	logging.Info("Reconciler", "Creating new app: %s", key)
//	logging.Debug("Gateway", "POST %s", url)
//	logging.Error("Gateway", err, "Operation %s failed", op)
//
// # Formats
//
// FormatText uses the slog text handler. FormatActions renders records as
// GitHub Actions workflow commands so that debug output only shows up when
// step debugging is enabled and errors are surfaced as annotations:
//
//	::debug::payload echo
//	Creating new app
//	::error::Operation ctrl/CreateApp failed error=...
//
// # Levels
//
// Debug is used for payload echoes and per-item batch progress, Info for the
// actions the reconciler takes, Warn for recoverable conditions and Error for
// failures that are about to propagate.
package logging
