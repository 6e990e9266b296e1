package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "langaudit.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
corpus:
  rules_dir: "/srv/mathcat/Rules/Languages"
  shared_dirs: ["SharedRules", "Common"]

audit:
  format: jsonl
  issues: "missing,diffs"
  workers: 4

telemetry:
  logging:
    level: debug
    format: json

history:
  enabled: true
  driver: sqlite3
  path: "./history.db"

watch:
  debounce: "2s"
  schedule: "0 3 * * *"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Corpus.RulesDir != "/srv/mathcat/Rules/Languages" {
		t.Errorf("RulesDir = %q", cfg.Corpus.RulesDir)
	}
	if !reflect.DeepEqual(cfg.Corpus.SharedDirs, []string{"SharedRules", "Common"}) {
		t.Errorf("SharedDirs = %v", cfg.Corpus.SharedDirs)
	}
	if cfg.Audit.Format != "jsonl" || cfg.Audit.Issues != "missing,diffs" || cfg.Audit.Workers != 4 {
		t.Errorf("Audit = %+v", cfg.Audit)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Telemetry.Logging.Level, "debug")
	}
	if cfg.History.Driver != "sqlite3" || !cfg.History.Enabled {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("Debounce = %v, want 2s", cfg.Watch.Debounce)
	}

	// Defaults fill what the file leaves out.
	if cfg.Corpus.ReferenceLanguage != DefaultReferenceLanguage {
		t.Errorf("ReferenceLanguage = %q, want %q", cfg.Corpus.ReferenceLanguage, DefaultReferenceLanguage)
	}
	if cfg.Audit.TabWidth != DefaultTabWidth {
		t.Errorf("TabWidth = %d, want %d", cfg.Audit.TabWidth, DefaultTabWidth)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadConfig() error = %v, want os.ErrNotExist", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "audit: [unclosed\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() should fail on invalid YAML")
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	path := writeConfig(t, `
audit:
  format: xml
  issues: "missing,bogus"
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig() should fail validation")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T, want ValidationError", err)
	}
	if len(verr.Errors) != 2 {
		t.Errorf("len(Errors) = %d, want 2: %v", len(verr.Errors), verr.Errors)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
audit:
  workers: 2
`)

	t.Setenv("LANGAUDIT_AUDIT_WORKERS", "8")
	t.Setenv("LANGAUDIT_CORPUS_RULES_DIR", "/tmp/rules")
	t.Setenv("LANGAUDIT_CORPUS_SKIP_FILES", "prefs.yaml, navigate.yaml")
	t.Setenv("LANGAUDIT_AUDIT_STRICT", "true")
	t.Setenv("LANGAUDIT_WATCH_DEBOUNCE", "1s")
	t.Setenv("LANGAUDIT_HISTORY_BUSY_TIMEOUT", "not-a-duration")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() failed: %v", err)
	}

	if cfg.Audit.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Audit.Workers)
	}
	if cfg.Corpus.RulesDir != "/tmp/rules" {
		t.Errorf("RulesDir = %q", cfg.Corpus.RulesDir)
	}
	if !reflect.DeepEqual(cfg.Corpus.SkipFiles, []string{"prefs.yaml", "navigate.yaml"}) {
		t.Errorf("SkipFiles = %v", cfg.Corpus.SkipFiles)
	}
	if !cfg.Audit.Strict {
		t.Error("Strict = false, want true")
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Debounce = %v, want 1s", cfg.Watch.Debounce)
	}
	if cfg.History.BusyTimeout != DefaultHistoryBusyTimeout {
		t.Errorf("unparseable override should be ignored, BusyTimeout = %v", cfg.History.BusyTimeout)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidAfterOverride(t *testing.T) {
	path := writeConfig(t, "audit:\n  workers: 2\n")
	t.Setenv("LANGAUDIT_AUDIT_FORMAT", "xml")

	if _, err := LoadConfigWithEnvOverrides(path); err == nil {
		t.Error("LoadConfigWithEnvOverrides() should fail for an invalid override")
	}
}

func TestLoadConfigWithEnvOverrides_OverrideFixesFileValue(t *testing.T) {
	path := writeConfig(t, "audit:\n  format: xml\n")
	t.Setenv("LANGAUDIT_AUDIT_FORMAT", "jsonl")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() failed: %v", err)
	}
	if cfg.Audit.Format != "jsonl" {
		t.Errorf("Format = %q, want %q", cfg.Audit.Format, "jsonl")
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() should still reject the file value without overrides")
	}
}

func TestLoadConfigWithEnvOverrides_Tracing(t *testing.T) {
	path := writeConfig(t, "telemetry:\n  tracing:\n    enabled: false\n")
	t.Setenv("LANGAUDIT_TELEMETRY_TRACING_ENABLED", "true")
	t.Setenv("LANGAUDIT_TELEMETRY_TRACING_SAMPLER", "ratio")
	t.Setenv("LANGAUDIT_TELEMETRY_TRACING_SAMPLE_RATIO", "0.25")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() failed: %v", err)
	}
	tr := cfg.Telemetry.Tracing
	if !tr.Enabled || tr.Sampler != "ratio" || tr.SampleRatio != 0.25 {
		t.Errorf("Tracing = %+v, want enabled ratio sampler at 0.25", tr)
	}
	if tr.Endpoint != DefaultTracingEndpoint {
		t.Errorf("Endpoint = %q, want %q", tr.Endpoint, DefaultTracingEndpoint)
	}
}

func TestLoad_NoFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Corpus.RulesDir != DefaultRulesDir {
		t.Errorf("RulesDir = %q, want %q", cfg.Corpus.RulesDir, DefaultRulesDir)
	}
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(DefaultConfigFile, []byte("audit:\n  format: csv\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Audit.Format != "csv" {
		t.Errorf("Format = %q, want %q", cfg.Audit.Format, "csv")
	}
}
