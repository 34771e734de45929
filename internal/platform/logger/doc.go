// Package logger sets up the process-wide JSON slog logger from the server
// configuration and carries request-scoped loggers through context.Context,
// so store and service code log with the caller's trace ID.
package logger
