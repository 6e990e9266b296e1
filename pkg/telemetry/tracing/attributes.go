package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys of audit spans.
const (
	AttrRunID           = "langaudit.run_id"
	AttrLanguage        = "langaudit.language"
	AttrFile            = "langaudit.file"
	AttrFiles           = "langaudit.files"
	AttrWorkers         = "langaudit.workers"
	AttrIssues          = "langaudit.issues"
	AttrFilesFailed     = "langaudit.files_failed"
	AttrReferenceRules  = "langaudit.rules.reference"
	AttrTranslatedRules = "langaudit.rules.translated"
	AttrTranslatedFound = "langaudit.translated_found"
)

// RunAttributes describes an audit run as it starts.
func RunAttributes(runID, language string, files, workers int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRunID, runID),
		attribute.String(AttrLanguage, language),
		attribute.Int(AttrFiles, files),
		attribute.Int(AttrWorkers, workers),
	}
}

// WithFile tags a span with the audited file.
func WithFile(file string) trace.SpanStartOption {
	return trace.WithAttributes(attribute.String(AttrFile, file))
}

// SetRunResult adds the totals of a finished run to span.
func SetRunResult(span trace.Span, issues, filesFailed int) {
	span.SetAttributes(
		attribute.Int(AttrIssues, issues),
		attribute.Int(AttrFilesFailed, filesFailed),
	)
}

// SetFileResult adds the outcome of one audited file to span.
func SetFileResult(span trace.Span, issues, referenceRules, translatedRules int, translatedFound bool) {
	span.SetAttributes(
		attribute.Int(AttrIssues, issues),
		attribute.Int(AttrReferenceRules, referenceRules),
		attribute.Int(AttrTranslatedRules, translatedRules),
		attribute.Bool(AttrTranslatedFound, translatedFound),
	)
}
