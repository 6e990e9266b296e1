package config

import "time"

// Config is the root configuration structure for langaudit.
type Config struct {
	// Corpus describes where rule files live and how they are read.
	Corpus CorpusConfig `yaml:"corpus"`

	// Audit contains defaults for audit runs.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// History configures the store of past audit runs.
	History HistoryConfig `yaml:"history"`

	// Watch configures continuous auditing.
	Watch WatchConfig `yaml:"watch"`

	// Translate configures suggested translations for untranslated text.
	Translate TranslateConfig `yaml:"translate"`
}

// CorpusConfig contains the layout of the rule corpus.
type CorpusConfig struct {
	// RulesDir is the directory holding one sub-directory per language.
	// Default: "Rules/Languages"
	RulesDir string `yaml:"rules_dir"`

	// ReferenceLanguage is the directory name of the source of truth.
	// Default: "en"
	ReferenceLanguage string `yaml:"reference_language"`

	// SharedDirs are sub-directories whose files are audited with the language.
	// Default: ["SharedRules"]
	SharedDirs []string `yaml:"shared_dirs"`

	// SkipFiles are file names never audited.
	// Default: ["prefs.yaml"]
	SkipFiles []string `yaml:"skip_files"`

	// KeyedFiles are file names whose entries are keyed by character or range.
	// Default: ["unicode.yaml", "unicode-full.yaml"]
	KeyedFiles []string `yaml:"keyed_files"`

	// IgnoreMarker is the comment that excludes a rule from the audit.
	// Default: "# audit-ignore"
	IgnoreMarker string `yaml:"ignore_marker"`
}

// AuditConfig contains defaults for audit runs.
type AuditConfig struct {
	// Format is the output format: "text", "jsonl", "csv" or "tasks".
	// Default: "text"
	Format string `yaml:"format"`

	// Issues is a comma-separated list of issue categories to report
	// (missing, untranslated, extra, diffs) or "all".
	// Default: "all"
	Issues string `yaml:"issues"`

	// Strict disables the tab-replacement retry when parsing.
	Strict bool `yaml:"strict"`

	// Workers is the number of files audited concurrently.
	// Default: 1
	Workers int `yaml:"workers"`

	// TabWidth is the number of spaces substituted for a tab on retry.
	// Default: 4
	TabWidth int `yaml:"tab_width"`

	// MaxFileSize is the largest rule file accepted, in bytes.
	// Default: 10485760 (10MB)
	MaxFileSize int64 `yaml:"max_file_size"`

	// UntranslatedFields are the field names that mark unreviewed text.
	// Default: ["t", "ot", "ct", "spell", "pronounce", "ifthenelse"]
	UntranslatedFields []string `yaml:"untranslated_fields"`

	// FailOnIssues makes a run that reports issues exit non-zero.
	FailOnIssues bool `yaml:"fail_on_issues"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains configuration for structured logging.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn" or "error".
	// Default: "warn"
	Level string `yaml:"level"`

	// Format is the log format: "text", "json" or "console".
	// Default: "console"
	Format string `yaml:"format"`

	// AddSource includes the source file and line in log records.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains configuration for Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns metric collection on.
	Enabled bool `yaml:"enabled"`

	// Namespace and Subsystem prefix every metric name.
	// Default: "langaudit", "audit"
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`

	// TextfilePath, when set, receives the metrics in the node exporter
	// textfile format after every run.
	TextfilePath string `yaml:"textfile_path"`

	// ListenAddress, when set, serves metrics over HTTP in watch mode.
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path of the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// DurationBuckets are the histogram buckets for per-file audit time, in seconds.
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains OpenTelemetry tracing configuration. A run is one
// trace with a span per audited file.
type TracingConfig struct {
	// Enabled turns span export on. When false spans are no-ops.
	Enabled bool `yaml:"enabled"`

	// Sampler is the sampling strategy: "always", "never" or "ratio".
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of runs traced when Sampler is "ratio".
	SampleRatio float64 `yaml:"sample_ratio"`

	// Exporter names the span exporter. Only "otlp" (gRPC) is supported.
	// Default: "otlp"
	Exporter string `yaml:"exporter"`

	// Endpoint is the OTLP collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is the service.name resource attribute.
	// Default: "langaudit"
	ServiceName string `yaml:"service_name"`
}

// HistoryConfig configures the audit history store.
type HistoryConfig struct {
	// Enabled records every run in the store.
	Enabled bool `yaml:"enabled"`

	// Driver is the database/sql driver: "sqlite" (pure Go) or "sqlite3" (cgo).
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file.
	// Default: "langaudit-history.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long a writer waits for a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// RetentionDays deletes runs older than this many days; 0 keeps everything.
	RetentionDays int `yaml:"retention_days"`
}

// WatchConfig configures continuous auditing.
type WatchConfig struct {
	// Debounce is the quiet period after a file change before re-auditing.
	// Default: 500ms
	Debounce time.Duration `yaml:"debounce"`

	// Schedule is an optional cron expression for periodic full audits.
	Schedule string `yaml:"schedule"`
}

// TranslateConfig configures translation suggestions.
type TranslateConfig struct {
	// GlossaryPath is a YAML glossary used to suggest translations for
	// untranslated text. Suggestions are off when empty.
	GlossaryPath string `yaml:"glossary_path"`
}
