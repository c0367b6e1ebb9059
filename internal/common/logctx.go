package common

import "context"

type contextKey int

const loggerContextKey contextKey = iota

// WithLogger stores a request-scoped logger in ctx.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, l)
}

// LoggerFromContext returns the logger stored in ctx, or fallback if none is set.
func LoggerFromContext(ctx context.Context, fallback *Logger) *Logger {
	if l, ok := ctx.Value(loggerContextKey).(*Logger); ok && l != nil {
		return l
	}
	return fallback
}
