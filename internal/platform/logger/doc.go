// Package logger provides structured logging functionality for the
// application, built on log/slog. It configures the process-wide default
// logger and carries request-scoped loggers through context.Context so that
// stores and services can log with whatever attributes the caller attached.
package logger
