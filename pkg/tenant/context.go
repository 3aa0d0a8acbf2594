package tenant

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// WithID adds the resolved store id to the context.
func WithID(ctx context.Context, storeID string) context.Context {
	return context.WithValue(ctx, contextKey{}, storeID)
}

// IDFromContext returns the store id and whether one was set.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// LoggerExtractor adds the store id to every log record written with the context.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return slog.String("store_id", id), true
		}
		return slog.Attr{}, false
	}
}
