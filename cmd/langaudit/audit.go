package main

import (
	"os"

	"github.com/spf13/cobra"

	"mathcat/langaudit/pkg/cli"
	"mathcat/langaudit/pkg/config"
)

var auditFlags struct {
	file         string
	only         string
	format       string
	output       string
	color        string
	strict       bool
	workers      int
	list         bool
	failOnIssues bool
}

var auditCmd = &cobra.Command{
	Use:   "audit <language>",
	Short: "Audit the rule files of one language",
	Long: `Audit every rule file of a language against the reference language.

A language is a directory under the rules directory ("de"). A region
variant is selected as "language-region" ("zz-aa") and overlays the
files of its region directory on the language.

Output Formats:
  text   - human readable report grouped by file (default)
  jsonl  - one JSON issue per line
  csv    - one row per issue, untranslated texts joined by "|"
  tasks  - JSON lines with the raw rule text of both sides

Examples:
  # Audit German
  langaudit audit de

  # Audit one file of a region variant
  langaudit audit zz-aa --file general.yaml

  # Only missing rules and untranslated text, as CSV
  langaudit audit de --only missing,untranslated --format csv --output de.csv

  # Fail the build when issues are found
  langaudit audit de --fail-on-issues

  # List available languages
  langaudit audit --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVarP(&auditFlags.file, "file", "f", "", "audit a single file, relative to the reference directory")
	auditCmd.Flags().StringVar(&auditFlags.only, "only", "", "comma-separated issue types: missing, untranslated, extra, diffs, all")
	auditCmd.Flags().StringVar(&auditFlags.format, "format", "", "output format: text, jsonl, csv, tasks")
	auditCmd.Flags().StringVarP(&auditFlags.output, "output", "o", "", "write the report to a file instead of stdout")
	auditCmd.Flags().StringVar(&auditFlags.color, "color", colorAuto, "colorize text output: auto, always, never")
	auditCmd.Flags().BoolVar(&auditFlags.strict, "strict", false, "do not retry YAML parsing with tabs replaced")
	auditCmd.Flags().IntVarP(&auditFlags.workers, "workers", "w", 0, "number of files audited concurrently")
	auditCmd.Flags().BoolVar(&auditFlags.list, "list", false, "list available languages and exit")
	auditCmd.Flags().BoolVar(&auditFlags.failOnIssues, "fail-on-issues", false, "exit with status 1 when issues are found")
}

// applyAuditFlags layers the audit flags over configuration.
func applyAuditFlags(cfg *config.Config) error {
	if auditFlags.only != "" {
		cfg.Audit.Issues = auditFlags.only
	}
	if auditFlags.format != "" {
		cfg.Audit.Format = auditFlags.format
	}
	if auditFlags.strict {
		cfg.Audit.Strict = true
	}
	if auditFlags.workers != 0 {
		cfg.Audit.Workers = auditFlags.workers
	}
	if auditFlags.failOnIssues {
		cfg.Audit.FailOnIssues = true
	}
	if err := config.Validate(cfg); err != nil {
		return cli.WrapConfigError("flags", err)
	}
	return nil
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyAuditFlags(cfg); err != nil {
		return err
	}
	logger, err := setupLogger(cfg)
	if err != nil {
		return err
	}

	if auditFlags.list {
		return listLanguages(cmd.OutOrStdout(), cfg, cli.FormatText)
	}
	if len(args) == 0 {
		return cli.NewConfigError("language", "a language code is required (use --list to see available languages)")
	}

	s, err := newSession(cfg, logger, sessionOptions{
		Language:  args[0],
		Format:    cfg.Audit.Format,
		Issues:    cfg.Audit.Issues,
		ColorMode: auditFlags.color,
	}, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer s.Close()

	// The output file is only created once the selection is known to be valid.
	out, closeOut, err := openOutput(auditFlags.output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() { _ = closeOut() }()
	s.setOutput(out)

	ctx, stop := cli.SignalContext(commandContext(cmd), logger)
	defer stop()

	// A progress bar only makes sense when the report is not on the terminal.
	var progress cli.ProgressReporter
	if auditFlags.output != "" && auditFlags.output != "-" {
		progress = cli.NewTerminalProgress(os.Stderr)
	}

	summary, err := s.run(ctx, auditFlags.file, progress)
	if err != nil {
		return cli.NewCommandError("audit", err)
	}

	if err := closeOut(); err != nil {
		return cli.NewCommandError("audit", err)
	}
	closeOut = func() error { return nil }

	if cfg.Audit.FailOnIssues && summary.TotalIssues() > 0 {
		return cli.ErrIssuesFound
	}
	return nil
}
