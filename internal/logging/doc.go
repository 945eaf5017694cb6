// Package logging assembles structured slog loggers and formatting helpers used
// across mediascribe.
//
// It owns the console and JSON handlers, the optional rotated log file, and
// context helpers that tag log lines with the run ID and the file being
// transcribed. A no-op logger is provided for tests and wiring code that
// cannot fail.
package logging
