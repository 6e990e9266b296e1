package history

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the history database schema.
// Times are unix milliseconds; durations are milliseconds.
const Schema = `
-- One row per audit run
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    language TEXT NOT NULL,
    started_at INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL,

    files_checked INTEGER NOT NULL,
    files_with_issues INTEGER NOT NULL,
    files_ok INTEGER NOT NULL,
    files_failed INTEGER NOT NULL,
    files_missing_translation INTEGER NOT NULL,

    missing INTEGER NOT NULL,
    untranslated INTEGER NOT NULL,
    extra INTEGER NOT NULL,
    differences INTEGER NOT NULL,
    suggestions INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_language_started ON runs(language, started_at);

-- One row per audited file of a run
CREATE TABLE IF NOT EXISTS file_results (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    file TEXT NOT NULL,
    status TEXT NOT NULL,
    translated_missing BOOLEAN NOT NULL,

    missing INTEGER NOT NULL,
    untranslated INTEGER NOT NULL,
    extra INTEGER NOT NULL,
    differences INTEGER NOT NULL,

    error TEXT,
    duration_ms INTEGER NOT NULL,

    PRIMARY KEY (run_id, file)
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InsertSchemaVersion records the schema version if not yet present.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`

// GetSchemaVersion reads the highest recorded schema version.
const GetSchemaVersion = `SELECT MAX(version) FROM schema_version`
