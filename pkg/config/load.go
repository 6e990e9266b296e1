package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "LANGAUDIT_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	cfg, err := readConfig(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention LANGAUDIT_SECTION_FIELD (e.g., LANGAUDIT_CORPUS_RULES_DIR).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
//
// A file value that is invalid but overridden from the environment is
// therefore accepted.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := readConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// readConfig parses the file and fills defaults without validating.
func readConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault builds a configuration from defaults and environment
// overrides, without a file.
func LoadDefault() (*Config, error) {
	cfg := Default()
	applyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// Load resolves the configuration for a CLI invocation. An explicit path
// must exist. Without one, DefaultConfigFile is used when present in the
// working directory; otherwise defaults apply.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadConfigWithEnvOverrides(path)
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return LoadConfigWithEnvOverrides(DefaultConfigFile)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to access %s: %w", DefaultConfigFile, err)
	}
	return LoadDefault()
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Values that do not parse are ignored and left to validation of the file value.
func applyEnvOverrides(cfg *Config) {
	// Corpus overrides
	envString("CORPUS_RULES_DIR", &cfg.Corpus.RulesDir)
	envString("CORPUS_REFERENCE_LANGUAGE", &cfg.Corpus.ReferenceLanguage)
	envList("CORPUS_SHARED_DIRS", &cfg.Corpus.SharedDirs)
	envList("CORPUS_SKIP_FILES", &cfg.Corpus.SkipFiles)
	envList("CORPUS_KEYED_FILES", &cfg.Corpus.KeyedFiles)
	envString("CORPUS_IGNORE_MARKER", &cfg.Corpus.IgnoreMarker)

	// Audit overrides
	envString("AUDIT_FORMAT", &cfg.Audit.Format)
	envString("AUDIT_ISSUES", &cfg.Audit.Issues)
	envBool("AUDIT_STRICT", &cfg.Audit.Strict)
	envInt("AUDIT_WORKERS", &cfg.Audit.Workers)
	envInt("AUDIT_TAB_WIDTH", &cfg.Audit.TabWidth)
	if val := os.Getenv(EnvPrefix + "AUDIT_MAX_FILE_SIZE"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Audit.MaxFileSize = i
		}
	}
	envList("AUDIT_UNTRANSLATED_FIELDS", &cfg.Audit.UntranslatedFields)
	envBool("AUDIT_FAIL_ON_ISSUES", &cfg.Audit.FailOnIssues)

	// Telemetry overrides
	envString("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("TELEMETRY_LOGGING_ADD_SOURCE", &cfg.Telemetry.Logging.AddSource)
	envBool("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString("TELEMETRY_METRICS_NAMESPACE", &cfg.Telemetry.Metrics.Namespace)
	envString("TELEMETRY_METRICS_TEXTFILE_PATH", &cfg.Telemetry.Metrics.TextfilePath)
	envString("TELEMETRY_METRICS_LISTEN_ADDRESS", &cfg.Telemetry.Metrics.ListenAddress)
	envBool("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	envString("TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	envFloat("TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)
	envString("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	envBool("TELEMETRY_TRACING_INSECURE", &cfg.Telemetry.Tracing.Insecure)
	envString("TELEMETRY_TRACING_SERVICE_NAME", &cfg.Telemetry.Tracing.ServiceName)

	// History overrides
	envBool("HISTORY_ENABLED", &cfg.History.Enabled)
	envString("HISTORY_DRIVER", &cfg.History.Driver)
	envString("HISTORY_PATH", &cfg.History.Path)
	envDuration("HISTORY_BUSY_TIMEOUT", &cfg.History.BusyTimeout)
	envInt("HISTORY_RETENTION_DAYS", &cfg.History.RetentionDays)

	// Watch overrides
	envDuration("WATCH_DEBOUNCE", &cfg.Watch.Debounce)
	envString("WATCH_SCHEDULE", &cfg.Watch.Schedule)

	// Translate overrides
	envString("TRANSLATE_GLOSSARY_PATH", &cfg.Translate.GlossaryPath)
}

func envString(name string, dst *string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		*dst = val
	}
}

func envList(name string, dst *[]string) {
	val := os.Getenv(EnvPrefix + name)
	if val == "" {
		return
	}
	var items []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	*dst = items
}

func envBool(name string, dst *bool) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envInt(name string, dst *int) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envFloat(name string, dst *float64) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*dst = f
		}
	}
}

func envDuration(name string, dst *time.Duration) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
