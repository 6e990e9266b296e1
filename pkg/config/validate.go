package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "audit.workers").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Accepted enumerations.
var (
	ValidFormats       = []string{"text", "rich", "jsonl", "csv", "tasks"}
	ValidIssueTokens   = []string{"missing", "untranslated", "extra", "diffs", "all"}
	ValidLogLevels     = []string{"debug", "info", "warn", "error"}
	ValidLogFormats    = []string{"text", "json", "console"}
	ValidHistoryDriver = []string{"sqlite", "sqlite3"}
	ValidSamplers      = []string{"always", "never", "ratio"}
	ValidExporters     = []string{"otlp"}
)

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateCorpus(&cfg.Corpus)...)
	errs = append(errs, validateAudit(&cfg.Audit)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateCorpus(cfg *CorpusConfig) []FieldError {
	var errs []FieldError

	if cfg.RulesDir == "" {
		errs = append(errs, FieldError{Field: "corpus.rules_dir", Message: "rules directory is required"})
	}
	if cfg.ReferenceLanguage == "" {
		errs = append(errs, FieldError{Field: "corpus.reference_language", Message: "reference language is required"})
	} else if strings.ContainsAny(cfg.ReferenceLanguage, `/\`) {
		errs = append(errs, FieldError{
			Field:   "corpus.reference_language",
			Message: fmt.Sprintf("reference language %q must be a directory name, not a path", cfg.ReferenceLanguage),
		})
	}
	if strings.TrimSpace(cfg.IgnoreMarker) == "" {
		errs = append(errs, FieldError{Field: "corpus.ignore_marker", Message: "ignore marker must not be blank"})
	}

	return errs
}

func validateAudit(cfg *AuditConfig) []FieldError {
	var errs []FieldError

	if !oneOf(cfg.Format, ValidFormats) {
		errs = append(errs, FieldError{
			Field:   "audit.format",
			Message: fmt.Sprintf("invalid format %q: must be one of %s", cfg.Format, strings.Join(ValidFormats, ", ")),
		})
	}

	for _, token := range strings.Split(cfg.Issues, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token != "" && !oneOf(token, ValidIssueTokens) {
			errs = append(errs, FieldError{
				Field:   "audit.issues",
				Message: fmt.Sprintf("unknown issue type %q: must be one of %s", token, strings.Join(ValidIssueTokens, ", ")),
			})
		}
	}

	if cfg.Workers < 1 {
		errs = append(errs, FieldError{Field: "audit.workers", Message: "workers must be at least 1"})
	} else if cfg.Workers > 64 {
		errs = append(errs, FieldError{Field: "audit.workers", Message: "workers must be at most 64"})
	}

	if cfg.TabWidth < 1 || cfg.TabWidth > 16 {
		errs = append(errs, FieldError{Field: "audit.tab_width", Message: "tab width must be between 1 and 16"})
	}

	if cfg.MaxFileSize <= 0 {
		errs = append(errs, FieldError{Field: "audit.max_file_size", Message: "max file size must be positive"})
	}

	if len(cfg.UntranslatedFields) == 0 {
		errs = append(errs, FieldError{Field: "audit.untranslated_fields", Message: "at least one field name is required"})
	}
	for _, f := range cfg.UntranslatedFields {
		if f != strings.ToLower(f) {
			errs = append(errs, FieldError{
				Field:   "audit.untranslated_fields",
				Message: fmt.Sprintf("field %q must be lowercase; uppercase fields mark reviewed text", f),
			})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	if !oneOf(cfg.Logging.Level, ValidLogLevels) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}
	if !oneOf(cfg.Logging.Format, ValidLogFormats) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'text', 'json' or 'console'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Namespace == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.namespace",
				Message: "metrics namespace is required when metrics are enabled",
			})
		}
		if cfg.Metrics.ListenAddress != "" && !strings.HasPrefix(cfg.Metrics.Path, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path must start with '/'",
			})
		}
	}

	if cfg.Tracing.Enabled {
		if !oneOf(cfg.Tracing.Sampler, ValidSamplers) {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sampler",
				Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never' or 'ratio'", cfg.Tracing.Sampler),
			})
		}
		if cfg.Tracing.Sampler == "ratio" && (cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1) {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sample_ratio",
				Message: "sample ratio must be between 0 and 1",
			})
		}
		if !oneOf(cfg.Tracing.Exporter, ValidExporters) {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.exporter",
				Message: fmt.Sprintf("invalid exporter %q: must be 'otlp'", cfg.Tracing.Exporter),
			})
		}
		if cfg.Tracing.Endpoint == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.endpoint",
				Message: "endpoint is required when tracing is enabled",
			})
		}
	}

	for i := 1; i < len(cfg.Metrics.DurationBuckets); i++ {
		if cfg.Metrics.DurationBuckets[i] <= cfg.Metrics.DurationBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.duration_buckets",
				Message: "buckets must be in strictly increasing order",
			})
			break
		}
	}

	return errs
}

func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError

	if !oneOf(cfg.Driver, ValidHistoryDriver) {
		errs = append(errs, FieldError{
			Field:   "history.driver",
			Message: fmt.Sprintf("invalid driver %q: must be 'sqlite' or 'sqlite3'", cfg.Driver),
		})
	}
	if cfg.Enabled && cfg.Path == "" {
		errs = append(errs, FieldError{Field: "history.path", Message: "path is required when history is enabled"})
	}
	if cfg.BusyTimeout < 0 {
		errs = append(errs, FieldError{Field: "history.busy_timeout", Message: "busy timeout must not be negative"})
	}
	if cfg.RetentionDays < 0 {
		errs = append(errs, FieldError{Field: "history.retention_days", Message: "retention days must not be negative"})
	}

	return errs
}

func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError

	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{Field: "watch.debounce", Message: "debounce must not be negative"})
	}
	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "watch.schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Schedule, err),
			})
		}
	}

	return errs
}

func oneOf(value string, valid []string) bool {
	for _, v := range valid {
		if value == v {
			return true
		}
	}
	return false
}
