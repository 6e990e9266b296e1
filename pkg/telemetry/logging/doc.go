// Package logging configures log/slog for langaudit.
//
// New returns a plain *slog.Logger writing JSON, logfmt text, or console
// text (logfmt without timestamps) to stderr, so stdout carries only report
// output. Run-scoped fields travel on the context:
//
//	ctx = logging.WithRunID(ctx, runID)
//	ctx = logging.WithLanguage(ctx, "de")
//	logger := base.With(logging.Attrs(ctx)...)
package logging
