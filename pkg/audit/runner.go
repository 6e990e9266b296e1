package audit

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"mathcat/langaudit/pkg/corpus"
	"mathcat/langaudit/pkg/telemetry/logging"
	"mathcat/langaudit/pkg/telemetry/metrics"
	"mathcat/langaudit/pkg/telemetry/tracing"
	"mathcat/langaudit/pkg/translate"
)

// FileReport is the outcome of auditing one reference file.
type FileReport struct {
	// File is the path relative to the language directory, slash separated.
	File string

	Result *ComparisonResult
	Issues []Issue

	// Err is set when the file could not be audited; Result is nil then.
	Err error

	// TranslatedMissing is set when neither the translated file nor a
	// region overlay exists.
	TranslatedMissing bool

	Duration time.Duration
}

// Counts tallies the issues of this file.
func (r *FileReport) Counts() Counts {
	return CountIssues(r.Issues)
}

// Summary aggregates a whole run.
type Summary struct {
	RunID    string `json:"run_id"`
	Language string `json:"language"`

	FilesChecked    int `json:"files_checked"`
	FilesWithIssues int `json:"files_with_issues"`
	FilesOK         int `json:"files_ok"`
	FilesFailed     int `json:"files_failed"`

	// FilesMissingTranslation counts files audited against an empty translation.
	FilesMissingTranslation int `json:"files_missing_translation"`

	Counts      Counts `json:"counts"`
	Suggestions int    `json:"suggestions"`

	// Warnings are run-level problems that did not stop the run.
	Warnings []string `json:"warnings,omitempty"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// TotalIssues returns the number of issues reported by the run.
func (s *Summary) TotalIssues() int {
	return s.Counts.Total()
}

// Sink receives file reports in reference-file order, then the summary.
// Sinks are only called from one goroutine.
type Sink interface {
	WriteFile(report *FileReport) error
	Close(summary *Summary) error
}

// Recorder persists finished runs.
type Recorder interface {
	RecordRun(ctx context.Context, summary *Summary, reports []*FileReport) error
}

// Options selects what a run audits.
type Options struct {
	// Target is the resolved language selection.
	Target *corpus.Target

	// File restricts the run to one file, relative to the reference directory.
	File string

	Filter IssueFilter

	// IncludeRaw attaches raw rule text to issues.
	IncludeRaw bool
}

// RunnerConfig holds the collaborators of a Runner. Only Corpus is required.
type RunnerConfig struct {
	Corpus     *corpus.Corpus
	Comparator *Comparator

	// Workers is the number of files audited concurrently. Default 1.
	Workers int

	Logger     *slog.Logger
	Metrics    *metrics.Collector
	Tracer     *tracing.Tracer
	Recorder   Recorder
	Translator translate.Translator
}

// Runner audits every file of a language and streams the results to a sink.
type Runner struct {
	corpus     *corpus.Corpus
	comparator *Comparator
	workers    int
	logger     *slog.Logger
	metrics    *metrics.Collector
	tracer     *tracing.Tracer
	recorder   Recorder
	translator translate.Translator
}

// NewRunner creates a runner.
func NewRunner(cfg RunnerConfig) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	comparator := cfg.Comparator
	if comparator == nil {
		comparator = NewComparator(nil, logger)
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	return &Runner{
		corpus:     cfg.Corpus,
		comparator: comparator,
		workers:    workers,
		logger:     logger.With("component", "audit.runner"),
		metrics:    cfg.Metrics,
		tracer:     cfg.Tracer,
		recorder:   cfg.Recorder,
		translator: cfg.Translator,
	}
}

// Files returns the reference files a run with opts would audit. A File
// option naming a missing reference file yields no files and a warning.
func (r *Runner) Files(opts Options) ([]string, []string, error) {
	if opts.File != "" {
		file := filepath.ToSlash(opts.File)
		refPath := filepath.Join(opts.Target.ReferenceDir, filepath.FromSlash(file))
		if _, err := os.Stat(refPath); err != nil {
			return nil, []string{fmt.Sprintf("reference file not found: %s", refPath)}, nil
		}
		return []string{file}, nil, nil
	}

	files, err := r.corpus.Files(opts.Target.ReferenceDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list reference files: %w", err)
	}
	return files, nil, nil
}

// Run audits the files selected by opts. Reports reach the sink in
// reference-file order regardless of the number of workers, and the sink
// is closed with the summary once every file was written. A per-file
// failure is reported and counted; only cancellation and sink errors stop
// the run.
//
// The run is traced as an "audit.run" span with one "audit.file" child
// span per file.
func (r *Runner) Run(ctx context.Context, opts Options, sink Sink) (*Summary, error) {
	if opts.Target == nil {
		return nil, fmt.Errorf("audit target is required")
	}

	ctx, span := r.tracer.Start(ctx, "audit.run")
	defer span.End()

	summary, err := r.run(ctx, span, opts, sink)
	if err != nil {
		tracing.SetError(span, err)
		return nil, err
	}
	tracing.SetRunResult(span, summary.TotalIssues(), summary.FilesFailed)
	return summary, nil
}

func (r *Runner) run(ctx context.Context, span trace.Span, opts Options, sink Sink) (*Summary, error) {
	summary := &Summary{
		RunID:     uuid.NewString(),
		Language:  opts.Target.Code,
		StartedAt: time.Now(),
	}

	ctx = logging.WithRunID(ctx, summary.RunID)
	ctx = logging.WithLanguage(ctx, opts.Target.Code)
	logger := r.logger.With(logging.Attrs(ctx)...)
	if id := tracing.TraceID(ctx); id != "" && r.tracer.Enabled() {
		logger = logger.With("trace_id", id)
	}

	files, warnings, err := r.Files(opts)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(tracing.RunAttributes(summary.RunID, opts.Target.Code, len(files), r.workers)...)
	for _, w := range warnings {
		logger.Warn(w)
	}
	summary.Warnings = append(summary.Warnings, warnings...)

	logger.Info("audit started",
		"files", len(files),
		"workers", r.workers,
		"issues", opts.Filter.String(),
	)

	var wg sync.WaitGroup
	defer wg.Wait()

	// Cancelled before the wait above so workers stop picking up files
	// when the run ends early.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]chan *FileReport, len(files))
	for i := range results {
		results[i] = make(chan *FileReport, 1)
	}

	jobs := make(chan int)

	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] <- r.auditFile(ctx, logger, opts, files[i])
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range files {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var reports []*FileReport
	for i := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var report *FileReport
		select {
		case report = <-results[i]:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		r.tally(summary, report)
		if err := sink.WriteFile(report); err != nil {
			return nil, fmt.Errorf("failed to write report for %s: %w", report.File, err)
		}
		if r.recorder != nil {
			reports = append(reports, report)
		}
	}

	summary.Duration = time.Since(summary.StartedAt)
	r.metrics.RecordRun(opts.Target.Code, summary.FilesChecked, summary.TotalIssues(), summary.Duration, time.Now())

	if r.recorder != nil {
		recordCtx, recordSpan := r.tracer.Start(ctx, "history.record_run")
		if err := r.recorder.RecordRun(recordCtx, summary, reports); err != nil {
			tracing.SetError(recordSpan, err)
			logger.Warn("failed to record audit run", "error", err)
		}
		recordSpan.End()
	}

	if err := sink.Close(summary); err != nil {
		return nil, fmt.Errorf("failed to finish output: %w", err)
	}

	logger.Info("audit finished",
		"files_checked", summary.FilesChecked,
		"files_with_issues", summary.FilesWithIssues,
		"files_failed", summary.FilesFailed,
		"issues", summary.TotalIssues(),
		"duration", summary.Duration,
	)

	return summary, nil
}

func (r *Runner) auditFile(ctx context.Context, logger *slog.Logger, opts Options, file string) *FileReport {
	report := &FileReport{File: file}
	if err := ctx.Err(); err != nil {
		report.Err = err
		return report
	}

	ctx, span := r.tracer.Start(ctx, "audit.file", tracing.WithFile(file))
	defer span.End()

	start := time.Now()
	t := opts.Target
	native := filepath.FromSlash(file)
	refPath := filepath.Join(t.ReferenceDir, native)
	trPath := filepath.Join(t.LanguageDir, native)
	regionPath := ""
	if t.HasRegion() {
		regionPath = filepath.Join(t.RegionDir, native)
	}

	logger = logger.With("file", file)

	result, err := r.comparator.CompareFiles(refPath, trPath, regionPath, opts.Filter)
	report.Duration = time.Since(start)
	if err != nil {
		logger.Error("failed to audit file", "error", err)
		tracing.SetError(span, err)
		report.Err = err
		return report
	}

	report.Result = result
	report.TranslatedMissing = !result.TranslatedFound
	if report.TranslatedMissing {
		logger.Warn("translated file not found, treating as empty", "path", trPath)
	}

	report.Issues = CollectIssues(result, file, t.Code, ProjectOptions{IncludeRaw: opts.IncludeRaw})

	if r.translator != nil {
		if _, err := Suggest(ctx, report.Issues, r.translator, t.Code); err != nil {
			logger.Warn("translation suggestions failed", "error", err)
		}
	}

	report.Duration = time.Since(start)
	tracing.SetFileResult(span, len(report.Issues), result.ReferenceRuleCount, result.TranslatedRuleCount, result.TranslatedFound)
	logger.Debug("file audited",
		"issues", len(report.Issues),
		"reference_rules", result.ReferenceRuleCount,
		"translated_rules", result.TranslatedRuleCount,
		"duration", report.Duration,
	)

	return report
}

// tally folds a report into the summary and the metrics.
func (r *Runner) tally(summary *Summary, report *FileReport) {
	language := summary.Language
	summary.FilesChecked++

	if report.Err != nil {
		summary.FilesFailed++
		r.metrics.RecordFile(language, metrics.StatusFailed, report.Duration)
		return
	}

	if report.TranslatedMissing {
		summary.FilesMissingTranslation++
	}

	counts := report.Counts()
	summary.Counts.Add(counts)
	for _, issue := range report.Issues {
		if issue.Suggestion != "" {
			summary.Suggestions++
		}
	}

	status := metrics.StatusOK
	if len(report.Issues) > 0 {
		summary.FilesWithIssues++
		status = metrics.StatusIssues
	} else {
		summary.FilesOK++
	}

	r.metrics.RecordFile(language, status, report.Duration)
	r.metrics.RecordRules(language, report.Result.ReferenceRuleCount, report.Result.TranslatedRuleCount)
	r.metrics.RecordIssues(language, string(IssueMissingRule), counts.Missing)
	r.metrics.RecordIssues(language, string(IssueExtraRule), counts.Extra)
	r.metrics.RecordIssues(language, string(IssueUntranslatedText), counts.Untranslated)
	r.metrics.RecordIssues(language, string(IssueRuleDifference), counts.Differences)
	r.metrics.SetFileIssues(language, report.File, counts.Total())
}
