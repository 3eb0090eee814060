package logging

import (
	"context"
)

// ComponentKey is the attribute naming the subsystem that logged a record.
const ComponentKey = "component"

type contextKey string

const (
	// SourceKey is the context key for the rule file being processed.
	SourceKey contextKey = "source"

	// RevisionKey is the context key for a catalog revision ID.
	RevisionKey contextKey = "revision"
)

// WithSource adds the rule file path to the context.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, SourceKey, source)
}

// GetSource retrieves the rule file path from the context.
func GetSource(ctx context.Context) string {
	if source, ok := ctx.Value(SourceKey).(string); ok {
		return source
	}
	return ""
}

// WithRevision adds a catalog revision ID to the context.
func WithRevision(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RevisionKey, id)
}

// GetRevision retrieves the catalog revision ID from the context.
func GetRevision(ctx context.Context) string {
	if id, ok := ctx.Value(RevisionKey).(string); ok {
		return id
	}
	return ""
}

// extractContextFields returns key-value pairs for the fields stored in ctx.
func extractContextFields(ctx context.Context) []any {
	var fields []any
	if source := GetSource(ctx); source != "" {
		fields = append(fields, string(SourceKey), source)
	}
	if id := GetRevision(ctx); id != "" {
		fields = append(fields, string(RevisionKey), id)
	}
	return fields
}
