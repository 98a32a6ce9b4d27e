// Package logger builds the process-wide slog.Logger: JSON in production,
// text elsewhere, with a configurable level.
package logger
