package services

import "context"

type contextKey string

const (
	itemIndexKey contextKey = "item_index"
	runIDKey     contextKey = "run_id"
)

// WithItemIndex annotates context with the sound-list index being processed.
func WithItemIndex(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, itemIndexKey, index)
}

// ItemIndexFromContext extracts the sound-list index if present.
func ItemIndexFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(itemIndexKey)
	if idx, ok := v.(int); ok {
		return idx, true
	}
	return 0, false
}

// WithRunID annotates context with the run correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if id, ok := ctx.Value(runIDKey).(string); ok && id != "" {
		return id, true
	}
	return "", false
}
