// Package logging builds slog loggers with the console and JSON handlers
// shared by every lipidid component, plus typed attribute helpers and the
// standardized field keys used across the codebase.
package logging
