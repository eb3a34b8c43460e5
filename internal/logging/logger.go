// Package logging defines the minimal structured-logging interface the
// server depends on. The variadic args are key-value pairs:
//
//	log.Info(ctx, "node created", "id", node.ID, "kind", node.Kind)
package logging

import "context"

// Logger is a context-aware, structured logger.
type Logger interface {
	// Debug logs a verbose diagnostic message.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs a failure.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given
	// key-value pairs.
	With(args ...any) Logger
}
