package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for the audit run identifier.
	RunIDKey contextKey = "run_id"

	// LanguageKey is the context key for the audited language selector.
	LanguageKey contextKey = "language"

	// FileKey is the context key for the rule file being audited.
	FileKey contextKey = "file"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithLanguage adds the audited language to the context.
func WithLanguage(ctx context.Context, language string) context.Context {
	return context.WithValue(ctx, LanguageKey, language)
}

// GetLanguage retrieves the audited language from the context.
func GetLanguage(ctx context.Context) string {
	if language, ok := ctx.Value(LanguageKey).(string); ok {
		return language
	}
	return ""
}

// WithFile adds the current rule file to the context.
func WithFile(ctx context.Context, file string) context.Context {
	return context.WithValue(ctx, FileKey, file)
}

// GetFile retrieves the current rule file from the context.
func GetFile(ctx context.Context) string {
	if file, ok := ctx.Value(FileKey).(string); ok {
		return file
	}
	return ""
}

// Attrs returns the run fields set on ctx as key-value pairs for
// slog.Logger.With. Unset fields are omitted.
func Attrs(ctx context.Context) []any {
	var fields []any

	if runID := GetRunID(ctx); runID != "" {
		fields = append(fields, string(RunIDKey), runID)
	}
	if language := GetLanguage(ctx); language != "" {
		fields = append(fields, string(LanguageKey), language)
	}
	if file := GetFile(ctx); file != "" {
		fields = append(fields, string(FileKey), file)
	}

	return fields
}
