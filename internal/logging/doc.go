// Package logging builds the daemon's slog loggers and standardizes the
// attribute keys used across components, so queue item ids, request types,
// and correlation ids stay greppable in both console and JSON output.
package logging
