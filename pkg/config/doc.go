// Package config provides configuration management for langaudit.
//
// Configuration is read from an optional YAML file (langaudit.yaml by
// default), completed with defaults, overridden from the environment and
// validated. Command-line flags are applied last by the CLI.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("langaudit.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("langaudit.yaml")
//
//  3. Without a file, from defaults and the environment:
//     cfg, err := config.LoadDefault()
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention LANGAUDIT_SECTION_FIELD.
// For example:
//
//   - LANGAUDIT_CORPUS_RULES_DIR overrides corpus.rules_dir
//   - LANGAUDIT_AUDIT_WORKERS overrides audit.workers
//   - LANGAUDIT_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Command-line flags
//
// Validation collects every problem into a ValidationError.
package config
