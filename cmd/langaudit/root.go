package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mathcat/langaudit/pkg/cli"
	"mathcat/langaudit/pkg/config"
	"mathcat/langaudit/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile   string
	rulesDir  string
	logLevel  string
	logFormat string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "langaudit",
	Short: "Audit translated rule files against the reference language",
	Long: `langaudit compares the rule files of a translation with the English
reference rules and reports:
  - rules missing from the translation
  - rules present only in the translation
  - text that still uses the lowercase t/ot/ct keys (untranslated)
  - structural differences in match, conditions, variables and replacements

Text is never compared; only the structure of each rule is.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the code of its error.
func Execute() {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, cli.ErrIssuesFound) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.ExitCode(err))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: ./"+config.DefaultConfigFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&rulesDir, "rules-dir", "", "override the rules directory containing one folder per language")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override log format (console, text, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}

// loadConfig loads the configuration and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, cli.WrapConfigError("config", err)
	}

	if rulesDir != "" {
		cfg.Corpus.RulesDir = rulesDir
	}
	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Telemetry.Logging.Format = logFormat
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		return nil, cli.WrapConfigError("flags", err)
	}
	return cfg, nil
}

// setupLogger builds the process logger. Logs go to stderr so stdout only
// carries reports.
func setupLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Writer:    os.Stderr,
	})
	if err != nil {
		return nil, cli.WrapConfigError("telemetry.logging", err)
	}
	slog.SetDefault(logger)
	return logger, nil
}

// commandContext returns the command's context, or a background context
// when the command was invoked directly.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
