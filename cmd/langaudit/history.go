package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mathcat/langaudit/pkg/cli"
	"mathcat/langaudit/pkg/config"
	"mathcat/langaudit/pkg/history"
)

var historyFlags struct {
	language string
	limit    int
	format   string
	days     int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded audit runs",
	Long: `Show audit runs recorded in the history store, newest first.

Runs are recorded when history is enabled in the configuration
(history.enabled: true).

Examples:
  # Last 20 runs of any language
  langaudit history

  # Runs of German as CSV
  langaudit history --language de --format csv

  # Per-file results of one run
  langaudit history show 1b4e28ba-2fa1-11d2-883f-0016d3cca427

  # Delete runs older than 90 days
  langaudit history prune --days 90`,
	Args: cobra.NoArgs,
	RunE: listHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the file results of one run",
	Args:  cobra.ExactArgs(1),
	RunE:  showHistoryRun,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old runs",
	Args:  cobra.NoArgs,
	RunE:  pruneHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd, historyPruneCmd)

	historyCmd.PersistentFlags().StringVar(&historyFlags.format, "format", "text", "output format: text, json, csv")
	historyCmd.Flags().StringVarP(&historyFlags.language, "language", "l", "", "only runs of this language")
	historyCmd.Flags().IntVar(&historyFlags.limit, "limit", 20, "max runs (0 for all)")
	historyPruneCmd.Flags().IntVar(&historyFlags.days, "days", 0, "delete runs older than this many days (default: history.retention_days)")
}

// runTable renders history runs as rows.
type runTable []*history.Run

func (t runTable) Headers() []string {
	return []string{"run", "language", "started", "duration", "files", "failed", "missing", "untranslated", "extra", "differences"}
}

func (t runTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, r := range t {
		rows[i] = []string{
			r.ID,
			r.Language,
			r.StartedAt.Local().Format(time.DateTime),
			r.Duration.Round(time.Millisecond).String(),
			strconv.Itoa(r.FilesChecked),
			strconv.Itoa(r.FilesFailed),
			strconv.Itoa(r.Counts.Missing),
			strconv.Itoa(r.Counts.Untranslated),
			strconv.Itoa(r.Counts.Extra),
			strconv.Itoa(r.Counts.Differences),
		}
	}
	return rows
}

// fileResultTable renders the file results of a run as rows.
type fileResultTable []*history.FileResult

func (t fileResultTable) Headers() []string {
	return []string{"file", "status", "missing", "untranslated", "extra", "differences", "error"}
}

func (t fileResultTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, r := range t {
		file := r.File
		if r.TranslatedMissing {
			file += " (no translation)"
		}
		rows[i] = []string{
			file,
			r.Status,
			strconv.Itoa(r.Counts.Missing),
			strconv.Itoa(r.Counts.Untranslated),
			strconv.Itoa(r.Counts.Extra),
			strconv.Itoa(r.Counts.Differences),
			r.Error,
		}
	}
	return rows
}

// openHistory opens the configured store for reading.
func openHistory() (*config.Config, *history.Store, cli.OutputFormat, error) {
	format, err := cli.ParseOutputFormat(historyFlags.format)
	if err != nil {
		return nil, nil, "", err
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, "", err
	}
	logger, err := setupLogger(cfg)
	if err != nil {
		return nil, nil, "", err
	}
	store, err := history.Open(history.Config{
		Driver:      cfg.History.Driver,
		Path:        cfg.History.Path,
		BusyTimeout: cfg.History.BusyTimeout,
		Logger:      logger,
	})
	if err != nil {
		return nil, nil, "", cli.NewCommandError("history", err)
	}
	return cfg, store, format, nil
}

func listHistory(cmd *cobra.Command, args []string) error {
	_, store, format, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(commandContext(cmd), history.ListOptions{
		Language: historyFlags.language,
		Limit:    historyFlags.limit,
	})
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	return writeListing(cmd.OutOrStdout(), format, runs, runTable(runs))
}

func showHistoryRun(cmd *cobra.Command, args []string) error {
	_, store, format, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.GetRun(commandContext(cmd), args[0])
	if errors.Is(err, history.ErrRunNotFound) {
		return cli.NewConfigError("run-id", err.Error())
	}
	if err != nil {
		return cli.NewCommandError("history show", err)
	}
	results, err := store.FileResults(commandContext(cmd), run.ID)
	if err != nil {
		return cli.NewCommandError("history show", err)
	}

	w := cmd.OutOrStdout()
	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(w, struct {
			*history.Run
			Files []*history.FileResult `json:"files"`
		}{run, results})
	}
	if format == cli.FormatText {
		fmt.Fprintf(w, "Run %s: %s, %s, %d files\n\n", run.ID, run.Language,
			run.StartedAt.Local().Format(time.DateTime), run.FilesChecked)
	}
	return cli.NewFormatter(format).FormatTo(w, fileResultTable(results))
}

func pruneHistory(cmd *cobra.Command, args []string) error {
	cfg, store, _, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	days := historyFlags.days
	if days == 0 {
		days = cfg.History.RetentionDays
	}
	if days <= 0 {
		return cli.NewConfigError("days", "a positive retention in days is required")
	}

	deleted, err := store.PruneOlderThan(commandContext(cmd), days)
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %d runs older than %d days\n", deleted, days)
	return nil
}

// writeListing writes JSON as the raw values and other formats as a table.
func writeListing[T any](w io.Writer, format cli.OutputFormat, values []T, table cli.Table) error {
	if format == cli.FormatJSON {
		if values == nil {
			values = []T{}
		}
		return cli.NewFormatter(format).FormatTo(w, values)
	}
	return cli.NewFormatter(format).FormatTo(w, table)
}
