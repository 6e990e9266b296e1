package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mathcat/langaudit/pkg/cli"
	"mathcat/langaudit/pkg/config"
	"mathcat/langaudit/pkg/telemetry/health"
	"mathcat/langaudit/pkg/telemetry/tracing"
	"mathcat/langaudit/pkg/watch"
)

// pruneSchedule runs history retention once a day while watching.
const pruneSchedule = "0 3 * * *"

var watchFlags struct {
	only     string
	format   string
	color    string
	schedule string
	debounce time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch <language>",
	Short: "Re-audit a language whenever its rule files change",
	Long: `Audit a language once, then watch the reference and translation
directories and re-audit changed files as they are saved.

A single changed file is re-audited alone; a batch of changes re-audits
the whole language. With --schedule (or watch.schedule) a full audit also
runs on a cron schedule. When metrics are enabled with a listen address
they are served over HTTP while watching, together with /health, /ready
and /version endpoints.

Examples:
  langaudit watch de
  langaudit watch zz-aa --only untranslated
  langaudit watch de --schedule "0 * * * *"`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.only, "only", "", "comma-separated issue types: missing, untranslated, extra, diffs, all")
	watchCmd.Flags().StringVar(&watchFlags.format, "format", "", "output format: text, jsonl, csv, tasks")
	watchCmd.Flags().StringVar(&watchFlags.color, "color", colorAuto, "colorize text output: auto, always, never")
	watchCmd.Flags().StringVar(&watchFlags.schedule, "schedule", "", "cron expression for periodic full audits")
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 0, "quiet period after a change before re-auditing")
}

func applyWatchFlags(cfg *config.Config) error {
	if watchFlags.only != "" {
		cfg.Audit.Issues = watchFlags.only
	}
	if watchFlags.format != "" {
		cfg.Audit.Format = watchFlags.format
	}
	if watchFlags.schedule != "" {
		cfg.Watch.Schedule = watchFlags.schedule
	}
	if watchFlags.debounce != 0 {
		cfg.Watch.Debounce = watchFlags.debounce
	}
	if err := config.Validate(cfg); err != nil {
		return cli.WrapConfigError("flags", err)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyWatchFlags(cfg); err != nil {
		return err
	}
	logger, err := setupLogger(cfg)
	if err != nil {
		return err
	}

	s, err := newSession(cfg, logger, sessionOptions{
		Language:  args[0],
		Format:    cfg.Audit.Format,
		Issues:    cfg.Audit.Issues,
		ColorMode: watchFlags.color,
	}, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := cli.SignalContext(commandContext(cmd), logger)
	defer stop()

	scheduler := watch.NewScheduler(logger)
	if cfg.Watch.Schedule != "" {
		if err := scheduler.Add("audit", cfg.Watch.Schedule, func(ctx context.Context) error {
			_, err := s.run(ctx, "", nil)
			return err
		}); err != nil {
			return cli.WrapConfigError("watch.schedule", err)
		}
	}
	if s.store != nil && cfg.History.RetentionDays > 0 {
		if err := scheduler.Add("prune", pruneSchedule, s.prune); err != nil {
			return cli.NewCommandError("watch", err)
		}
	}

	if s.metrics.Enabled() && cfg.Telemetry.Metrics.ListenAddress != "" {
		go serveHTTP(ctx, s, scheduler, logger)
	}

	if _, err := s.run(ctx, "", nil); err != nil {
		return cli.NewCommandError("watch", err)
	}

	if err := scheduler.Start(ctx); err != nil {
		return cli.WrapConfigError("watch.schedule", err)
	}
	defer scheduler.Stop()
	if next := scheduler.NextRun("audit"); next != nil {
		logger.Info("next scheduled audit", "at", next)
	}

	watcher, err := watch.NewWatcher(&watch.Config{
		Paths:      watchPaths(s),
		Debounce:   cfg.Watch.Debounce,
		Extensions: []string{".yaml"},
		SkipHidden: true,
	}, logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer watcher.Stop()

	err = watcher.Watch(ctx, func(ctx context.Context, changed []string) error {
		file, ok := s.changedFile(changed)
		if !ok {
			logger.Debug("changes do not affect audited files", "changed", changed)
			return nil
		}
		_, err := s.run(ctx, file, nil)
		return err
	})
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

// watchPaths are the directories whose changes affect the audit. Region
// directories sit inside the language directory.
func watchPaths(s *session) []string {
	return []string{s.target.ReferenceDir, s.target.LanguageDir}
}

// changedFile maps changed paths to the reference file to re-audit. It
// returns "" to re-audit everything when several audited files changed and
// false when no audited file changed.
func (s *session) changedFile(changed []string) (string, bool) {
	files, err := s.corpus.Files(s.target.ReferenceDir)
	if err != nil {
		return "", true
	}

	var hits []string
	for _, path := range changed {
		rel, ok := s.relativeFile(path)
		if ok && slices.Contains(files, rel) && !slices.Contains(hits, rel) {
			hits = append(hits, rel)
		}
	}

	switch len(hits) {
	case 0:
		return "", false
	case 1:
		return hits[0], true
	default:
		return "", true
	}
}

// relativeFile returns path relative to the directory of the audit it
// belongs to. The region directory is checked before its language.
func (s *session) relativeFile(path string) (string, bool) {
	dirs := []string{s.target.ReferenceDir}
	if s.target.HasRegion() {
		dirs = append(dirs, s.target.RegionDir)
	}
	dirs = append(dirs, s.target.LanguageDir)

	for _, dir := range dirs {
		rel, err := filepath.Rel(dir, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return filepath.ToSlash(rel), true
	}
	return "", false
}

// serveHTTP exposes the session metrics and health endpoints until ctx is
// cancelled.
func serveHTTP(ctx context.Context, s *session, scheduler *watch.Scheduler, logger *slog.Logger) {
	mcfg := s.cfg.Telemetry.Metrics
	mux := http.NewServeMux()
	mux.Handle(mcfg.Path, s.metrics.Handler())
	newHealthChecker(s, scheduler).Mount(mux, buildInfo())

	srv := &http.Server{
		Addr:              mcfg.ListenAddress,
		Handler:           tracing.Middleware(s.tracer, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown failed", "error", err)
		}
	}()

	logger.Info("serving metrics and health", "address", mcfg.ListenAddress, "metrics_path", mcfg.Path)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
	}
}

// newHealthChecker registers the readiness checks of a watch session. The
// scheduler is only checked when periodic audits are configured.
func newHealthChecker(s *session, scheduler *watch.Scheduler) *health.Checker {
	checker := health.New(2 * time.Second)
	checker.RegisterCheck("corpus", func(context.Context) error {
		for _, dir := range watchPaths(s) {
			if _, err := os.Stat(dir); err != nil {
				return err
			}
		}
		return nil
	})
	checker.RegisterCheck("last_audit", s.checkLastRun)
	if s.store != nil {
		checker.RegisterCheck("history", s.store.Ping)
	}
	if scheduler != nil && s.cfg.Watch.Schedule != "" {
		checker.RegisterCheck("scheduler", func(context.Context) error {
			if !scheduler.IsRunning() {
				return errors.New("scheduler is not running")
			}
			return nil
		})
	}
	return checker
}
