package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mathcat/langaudit/pkg/audit"
)

// File result statuses.
const (
	StatusOK     = "ok"
	StatusIssues = "issues"
	StatusFailed = "failed"
)

// Config contains configuration for the history store.
type Config struct {
	// Driver is the database/sql driver name.
	// Default: "sqlite"
	Driver string

	// Path is the database file path. Parent directories are created.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration

	Logger *slog.Logger
}

// Run is the stored summary of one audit run.
type Run struct {
	ID                      string        `json:"id"`
	Language                string        `json:"language"`
	StartedAt               time.Time     `json:"started_at"`
	Duration                time.Duration `json:"duration"`
	FilesChecked            int           `json:"files_checked"`
	FilesWithIssues         int           `json:"files_with_issues"`
	FilesOK                 int           `json:"files_ok"`
	FilesFailed             int           `json:"files_failed"`
	FilesMissingTranslation int           `json:"files_missing_translation"`
	Counts                  audit.Counts  `json:"counts"`
	Suggestions             int           `json:"suggestions"`
}

// FileResult is the stored outcome of one file of a run.
type FileResult struct {
	RunID             string        `json:"run_id"`
	File              string        `json:"file"`
	Status            string        `json:"status"`
	TranslatedMissing bool          `json:"translated_missing"`
	Counts            audit.Counts  `json:"counts"`
	Error             string        `json:"error,omitempty"`
	Duration          time.Duration `json:"duration"`
}

// ListOptions filters ListRuns.
type ListOptions struct {
	// Language restricts the listing to one language selector.
	Language string

	// Limit caps the number of runs returned, newest first. 0 means no limit.
	Limit int
}

// Store persists audit runs. It implements audit.Recorder.
type Store struct {
	db     *sql.DB
	driver string
	path   string
	logger *slog.Logger
}

var _ audit.Recorder = (*Store)(nil)

// Open opens (creating if needed) the history database.
func Open(cfg Config) (*Store, error) {
	if cfg.Driver == "" {
		cfg.Driver = DriverModernc
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	logger := cfg.Logger.With("component", "history.store")

	if !supportedDriver(cfg.Driver) {
		return nil, NewStorageError(cfg.Driver, "open", fmt.Errorf("unsupported driver %q", cfg.Driver))
	}
	if cfg.Path == "" {
		return nil, NewStorageError(cfg.Driver, "open", fmt.Errorf("database path cannot be empty"))
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, NewStorageError(cfg.Driver, "create_directory", err)
		}
	}

	db, err := sql.Open(cfg.Driver, cfg.Path)
	if err != nil {
		return nil, NewStorageError(cfg.Driver, "open", err)
	}

	// SQLite only supports a single writer; one connection also keeps the
	// pragmas below in effect.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{
		db:     db,
		driver: cfg.Driver,
		path:   cfg.Path,
		logger: logger,
	}

	if err := s.initialize(cfg.BusyTimeout); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("history store opened", "driver", cfg.Driver, "path", cfg.Path)
	return s, nil
}

// initialize sets pragmas and creates the schema.
func (s *Store) initialize(busyTimeout time.Duration) error {
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeout.Milliseconds())); err != nil {
		return NewStorageError(s.driver, "set_busy_timeout", err)
	}
	if _, err := s.db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return NewStorageError(s.driver, "enable_foreign_keys", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError(s.driver, "create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError(s.driver, "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return NewStorageError(s.driver, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError(s.driver, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStorageError(s.driver, "ping", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores a finished run and its file results in one transaction.
func (s *Store) RecordRun(ctx context.Context, summary *audit.Summary, reports []*audit.FileReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return NewStorageError(s.driver, "begin", err)
	}
	defer tx.Rollback()

	c := summary.Counts
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, language, started_at, duration_ms,
			files_checked, files_with_issues, files_ok, files_failed, files_missing_translation,
			missing, untranslated, extra, differences, suggestions
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID, summary.Language, summary.StartedAt.UnixMilli(), summary.Duration.Milliseconds(),
		summary.FilesChecked, summary.FilesWithIssues, summary.FilesOK, summary.FilesFailed, summary.FilesMissingTranslation,
		c.Missing, c.Untranslated, c.Extra, c.Differences, summary.Suggestions,
	)
	if err != nil {
		return NewStorageError(s.driver, "record_run", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO file_results (
			run_id, file, status, translated_missing,
			missing, untranslated, extra, differences,
			error, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return NewStorageError(s.driver, "prepare_file_result", err)
	}
	defer stmt.Close()

	for _, r := range reports {
		counts := r.Counts()
		status := StatusOK
		var errorVal any
		switch {
		case r.Err != nil:
			status = StatusFailed
			errorVal = r.Err.Error()
		case len(r.Issues) > 0:
			status = StatusIssues
		}

		_, err := stmt.ExecContext(ctx,
			summary.RunID, r.File, status, r.TranslatedMissing,
			counts.Missing, counts.Untranslated, counts.Extra, counts.Differences,
			errorVal, r.Duration.Milliseconds(),
		)
		if err != nil {
			return NewStorageError(s.driver, "record_file_result", fmt.Errorf("%s: %w", r.File, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return NewStorageError(s.driver, "commit", err)
	}

	s.logger.Debug("audit run recorded", "run_id", summary.RunID, "files", len(reports))
	return nil
}

const runColumns = `
	id, language, started_at, duration_ms,
	files_checked, files_with_issues, files_ok, files_failed, files_missing_translation,
	missing, untranslated, extra, differences, suggestions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run        Run
		startedAt  int64
		durationMs int64
	)
	err := row.Scan(
		&run.ID, &run.Language, &startedAt, &durationMs,
		&run.FilesChecked, &run.FilesWithIssues, &run.FilesOK, &run.FilesFailed, &run.FilesMissingTranslation,
		&run.Counts.Missing, &run.Counts.Untranslated, &run.Counts.Extra, &run.Counts.Differences, &run.Suggestions,
	)
	if err != nil {
		return nil, err
	}
	run.StartedAt = time.UnixMilli(startedAt)
	run.Duration = time.Duration(durationMs) * time.Millisecond
	return &run, nil
}

// ListRuns returns stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context, opts ListOptions) ([]*Run, error) {
	query := `SELECT` + runColumns + ` FROM runs`
	var args []any
	if opts.Language != "" {
		query += ` WHERE language = ?`
		args = append(args, opts.Language)
	}
	query += ` ORDER BY started_at DESC, rowid DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewStorageError(s.driver, "list_runs", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, NewStorageError(s.driver, "scan_run", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError(s.driver, "list_runs", err)
	}
	return runs, nil
}

// GetRun returns one run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT`+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, NewStorageError(s.driver, "get_run", err)
	}
	return run, nil
}

// FileResults returns the file results of a run in file order.
func (s *Store) FileResults(ctx context.Context, runID string) ([]*FileResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, file, status, translated_missing,
			missing, untranslated, extra, differences,
			error, duration_ms
		FROM file_results WHERE run_id = ? ORDER BY file`, runID)
	if err != nil {
		return nil, NewStorageError(s.driver, "file_results", err)
	}
	defer rows.Close()

	var results []*FileResult
	for rows.Next() {
		var (
			r          FileResult
			errorVal   sql.NullString
			durationMs int64
		)
		err := rows.Scan(&r.RunID, &r.File, &r.Status, &r.TranslatedMissing,
			&r.Counts.Missing, &r.Counts.Untranslated, &r.Counts.Extra, &r.Counts.Differences,
			&errorVal, &durationMs)
		if err != nil {
			return nil, NewStorageError(s.driver, "scan_file_result", err)
		}
		r.Error = errorVal.String
		r.Duration = time.Duration(durationMs) * time.Millisecond
		results = append(results, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError(s.driver, "file_results", err)
	}
	return results, nil
}

// Prune deletes runs started before cutoff and returns how many were deleted.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, NewStorageError(s.driver, "begin", err)
	}
	defer tx.Rollback()

	ms := cutoff.UnixMilli()
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM file_results WHERE run_id IN (SELECT id FROM runs WHERE started_at < ?)`, ms); err != nil {
		return 0, NewStorageError(s.driver, "prune_file_results", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, ms)
	if err != nil {
		return 0, NewStorageError(s.driver, "prune_runs", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, NewStorageError(s.driver, "prune_runs", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, NewStorageError(s.driver, "commit", err)
	}

	if deleted > 0 {
		s.logger.Info("pruned audit history", "runs", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}

// PruneOlderThan deletes runs older than the given number of days.
// A non-positive retention keeps everything.
func (s *Store) PruneOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, nil
	}
	return s.Prune(ctx, time.Now().AddDate(0, 0, -days))
}
