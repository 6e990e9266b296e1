package config

import "time"

// Default values for configuration fields.
const (
	// Corpus defaults
	DefaultRulesDir          = "Rules/Languages"
	DefaultReferenceLanguage = "en"
	DefaultIgnoreMarker      = "# audit-ignore"

	// Audit defaults
	DefaultAuditFormat = "text"
	DefaultAuditIssues = "all"
	DefaultWorkers     = 1
	DefaultTabWidth    = 4
	DefaultMaxFileSize = int64(10 * 1024 * 1024) // 10MB

	// Telemetry defaults
	DefaultLoggingLevel     = "warn"
	DefaultLoggingFormat    = "console"
	DefaultMetricsNamespace = "langaudit"
	DefaultMetricsSubsystem = "audit"
	DefaultMetricsPath      = "/metrics"
	DefaultTracingSampler   = "always"
	DefaultTracingExporter  = "otlp"
	DefaultTracingEndpoint  = "localhost:4317"
	DefaultTracingTimeout   = 10 * time.Second
	DefaultTracingService   = "langaudit"

	// History defaults
	DefaultHistoryDriver      = "sqlite"
	DefaultHistoryPath        = "langaudit-history.db"
	DefaultHistoryBusyTimeout = 5 * time.Second

	// Watch defaults
	DefaultWatchDebounce = 500 * time.Millisecond

	// DefaultConfigFile is read when no configuration path is given and it exists.
	DefaultConfigFile = "langaudit.yaml"
)

// Default list values. Copied on use so callers cannot modify them.
var (
	DefaultSharedDirs         = []string{"SharedRules"}
	DefaultSkipFiles          = []string{"prefs.yaml"}
	DefaultKeyedFiles         = []string{"unicode.yaml", "unicode-full.yaml"}
	DefaultUntranslatedFields = []string{"t", "ot", "ct", "spell", "pronounce", "ifthenelse"}
	DefaultDurationBuckets    = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Corpus defaults
	if cfg.Corpus.RulesDir == "" {
		cfg.Corpus.RulesDir = DefaultRulesDir
	}
	if cfg.Corpus.ReferenceLanguage == "" {
		cfg.Corpus.ReferenceLanguage = DefaultReferenceLanguage
	}
	if cfg.Corpus.SharedDirs == nil {
		cfg.Corpus.SharedDirs = clone(DefaultSharedDirs)
	}
	if cfg.Corpus.SkipFiles == nil {
		cfg.Corpus.SkipFiles = clone(DefaultSkipFiles)
	}
	if cfg.Corpus.KeyedFiles == nil {
		cfg.Corpus.KeyedFiles = clone(DefaultKeyedFiles)
	}
	if cfg.Corpus.IgnoreMarker == "" {
		cfg.Corpus.IgnoreMarker = DefaultIgnoreMarker
	}

	// Audit defaults
	if cfg.Audit.Format == "" {
		cfg.Audit.Format = DefaultAuditFormat
	}
	if cfg.Audit.Issues == "" {
		cfg.Audit.Issues = DefaultAuditIssues
	}
	if cfg.Audit.Workers == 0 {
		cfg.Audit.Workers = DefaultWorkers
	}
	if cfg.Audit.TabWidth == 0 {
		cfg.Audit.TabWidth = DefaultTabWidth
	}
	if cfg.Audit.MaxFileSize == 0 {
		cfg.Audit.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Audit.UntranslatedFields == nil {
		cfg.Audit.UntranslatedFields = clone(DefaultUntranslatedFields)
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}

	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.Exporter == "" {
		cfg.Telemetry.Tracing.Exporter = DefaultTracingExporter
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingService
	}

	// History defaults
	if cfg.History.Driver == "" {
		cfg.History.Driver = DefaultHistoryDriver
	}
	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if cfg.History.BusyTimeout == 0 {
		cfg.History.BusyTimeout = DefaultHistoryBusyTimeout
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
