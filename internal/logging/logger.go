// Package logging is the logging seam shared by the server and the CLI.
// Components depend on Logger; SlogLogger is the only implementation and
// writes JSON through log/slog.
package logging

import "context"

// Logger takes the request context so handlers can pull per-request values
// such as the correlation id out of it. Args alternate key and value:
//
//	logger.Warn(ctx, "request rejected", "method", method, "reason", reason)
type Logger interface {
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With binds fields to every record of the returned logger,
	// e.g. l.With("module", "auth_service").
	With(args ...any) Logger
}
