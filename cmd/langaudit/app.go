package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"

	"mathcat/langaudit/pkg/audit"
	"mathcat/langaudit/pkg/cli"
	"mathcat/langaudit/pkg/config"
	"mathcat/langaudit/pkg/corpus"
	"mathcat/langaudit/pkg/history"
	"mathcat/langaudit/pkg/report"
	"mathcat/langaudit/pkg/rules/detector"
	"mathcat/langaudit/pkg/rules/parser"
	"mathcat/langaudit/pkg/telemetry/metrics"
	"mathcat/langaudit/pkg/telemetry/tracing"
	"mathcat/langaudit/pkg/translate"
)

// Color modes of the text report.
const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// newCorpus builds the corpus layout from configuration.
func newCorpus(cfg *config.Config) *corpus.Corpus {
	return &corpus.Corpus{
		Root:       cfg.Corpus.RulesDir,
		Reference:  cfg.Corpus.ReferenceLanguage,
		SharedDirs: cfg.Corpus.SharedDirs,
		SkipFiles:  cfg.Corpus.SkipFiles,
	}
}

// newParser builds the rule parser from configuration.
func newParser(cfg *config.Config) *parser.Parser {
	return parser.NewParser().
		WithMaxFileSize(cfg.Audit.MaxFileSize).
		WithStrictMode(cfg.Audit.Strict).
		WithTabWidth(cfg.Audit.TabWidth).
		WithIgnoreMarker(cfg.Corpus.IgnoreMarker).
		WithKeyedFiles(cfg.Corpus.KeyedFiles...).
		WithDetector(detector.New(cfg.Audit.UntranslatedFields...))
}

// session holds everything one language needs to be audited repeatedly.
// Runs are serialized so reports never interleave on the output.
type session struct {
	cfg       *config.Config
	logger    *slog.Logger
	corpus    *corpus.Corpus
	target    *corpus.Target
	format    report.Format
	filter    audit.IssueFilter
	out       io.Writer
	color     bool
	colorMode string
	runner    *audit.Runner
	metrics   *metrics.Collector
	tracer    *tracing.Tracer
	store     *history.Store

	mu sync.Mutex

	lastMu  sync.Mutex
	lastRun *audit.Summary
	lastErr error
}

// sessionOptions are the per-command choices layered over configuration.
type sessionOptions struct {
	Language  string
	Format    string
	Issues    string
	ColorMode string
}

// newSession validates the selection and opens the collaborators. All
// configuration errors surface here, before any report output.
func newSession(cfg *config.Config, logger *slog.Logger, opts sessionOptions, out io.Writer) (*session, error) {
	format, err := report.ParseFormat(opts.Format)
	if err != nil {
		return nil, cli.WrapConfigError("format", err)
	}
	filter, err := audit.ParseIssueFilter(opts.Issues)
	if err != nil {
		return nil, cli.WrapConfigError("only", err)
	}

	c := newCorpus(cfg)
	target, err := c.Resolve(opts.Language)
	if err != nil {
		return nil, cli.WrapConfigError("language", err)
	}

	useColor, err := colorEnabled(opts.ColorMode, out)
	if err != nil {
		return nil, err
	}

	var translator translate.Translator
	if path := cfg.Translate.GlossaryPath; path != "" {
		glossary, err := translate.LoadGlossary(path)
		if err != nil {
			return nil, cli.WrapConfigError("translate.glossary_path", err)
		}
		logger.Debug("glossary loaded", "path", path, "entries", glossary.Len())
		translator = glossary
	}

	s := &session{
		cfg:       cfg,
		logger:    logger,
		corpus:    c,
		target:    target,
		format:    format,
		filter:    filter,
		out:       out,
		color:     useColor,
		colorMode: opts.ColorMode,
	}

	if cfg.Telemetry.Metrics.Enabled {
		s.metrics = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	// Only a non-nil store may become the recorder interface value.
	var recorder audit.Recorder
	if cfg.History.Enabled {
		store, err := history.Open(history.Config{
			Driver:      cfg.History.Driver,
			Path:        cfg.History.Path,
			BusyTimeout: cfg.History.BusyTimeout,
			Logger:      logger,
		})
		if err != nil {
			return nil, cli.NewCommandError("history", err)
		}
		s.store = store
		recorder = store
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		_ = s.Close()
		return nil, cli.NewCommandError("tracing", err)
	}
	s.tracer = tracer

	s.runner = audit.NewRunner(audit.RunnerConfig{
		Corpus:     c,
		Comparator: audit.NewComparator(newParser(cfg), logger),
		Workers:    cfg.Audit.Workers,
		Logger:     logger,
		Metrics:    s.metrics,
		Tracer:     s.tracer,
		Recorder:   recorder,
		Translator: translator,
	})
	return s, nil
}

// Close flushes pending spans and releases the history store.
func (s *session) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.tracer.Shutdown(ctx)
	if s.store != nil {
		err = errors.Join(err, s.store.Close())
	}
	return err
}

// run audits one file, or every file when file is empty, and writes the
// report to the session output.
func (s *session) run(ctx context.Context, file string, progress cli.ProgressReporter) (*audit.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sink, err := report.New(s.format, s.out, report.Options{
		Color:             s.color,
		Language:          s.target.Code,
		ReferenceLanguage: s.corpus.Reference,
	})
	if err != nil {
		return nil, cli.WrapConfigError("format", err)
	}

	opts := audit.Options{
		Target:     s.target,
		File:       file,
		Filter:     s.filter,
		IncludeRaw: s.format.IncludeRaw(),
	}

	if progress != nil {
		files, _, err := s.runner.Files(opts)
		if err != nil {
			return nil, err
		}
		progress.Start(len(files))
		defer progress.Finish()
		sink = &progressSink{Sink: sink, progress: progress}
	}

	summary, err := s.runner.Run(ctx, opts, sink)
	s.remember(summary, err)
	if err != nil {
		return summary, err
	}

	s.afterRun(ctx)
	return summary, nil
}

func (s *session) remember(summary *audit.Summary, err error) {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	s.lastRun, s.lastErr = summary, err
}

// checkLastRun reports the outcome of the most recent run as a health check.
func (s *session) checkLastRun(context.Context) error {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()

	switch {
	case s.lastErr != nil:
		return fmt.Errorf("last audit failed: %w", s.lastErr)
	case s.lastRun == nil:
		return errors.New("no audit has completed yet")
	case s.lastRun.FilesFailed > 0:
		return fmt.Errorf("last audit could not read %d files", s.lastRun.FilesFailed)
	}
	return nil
}

// afterRun writes the metrics textfile and applies history retention.
// Failures here never fail the audit.
func (s *session) afterRun(ctx context.Context) {
	if path := s.cfg.Telemetry.Metrics.TextfilePath; path != "" && s.metrics.Enabled() {
		if err := s.metrics.WriteTextfile(path); err != nil {
			s.logger.Warn("failed to write metrics textfile", "path", path, "error", err)
		}
	}
	if err := s.prune(ctx); err != nil {
		s.logger.Warn("failed to prune audit history", "error", err)
	}
}

func (s *session) prune(ctx context.Context) error {
	if s.store == nil || s.cfg.History.RetentionDays <= 0 {
		return nil
	}
	_, err := s.store.PruneOlderThan(ctx, s.cfg.History.RetentionDays)
	return err
}

// progressSink advances a progress bar as file reports are written.
type progressSink struct {
	audit.Sink
	progress cli.ProgressReporter
	done     int
}

func (p *progressSink) WriteFile(r *audit.FileReport) error {
	err := p.Sink.WriteFile(r)
	p.done++
	p.progress.Update(p.done)
	return err
}

// colorEnabled resolves the --color mode. In auto mode colors are used
// only when writing to a terminal on stdout.
func colorEnabled(mode string, out io.Writer) (bool, error) {
	switch mode {
	case colorAlways:
		return true, nil
	case colorNever:
		return false, nil
	case colorAuto, "":
		return out == io.Writer(os.Stdout) && !color.NoColor, nil
	}
	return false, cli.NewConfigError("color", fmt.Sprintf("unknown color mode %q (valid: auto, always, never)", mode))
}

// setOutput redirects later reports to out. The color mode was validated by
// newSession, so only auto detection is redone for the new writer.
func (s *session) setOutput(out io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.out = out
	s.color, _ = colorEnabled(s.colorMode, out)
}

// openOutput returns the report writer for path, stdout when path is empty.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, cli.WrapConfigError("output", err)
	}
	return f, f.Close, nil
}
