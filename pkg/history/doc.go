// Package history records audit runs in a SQLite database so translation
// progress can be followed over time.
//
// Two database/sql drivers are linked in: the pure-Go modernc.org/sqlite
// driver, registered as "sqlite" (the default), and the cgo
// github.com/mattn/go-sqlite3 driver, registered as "sqlite3".
//
// Basic usage:
//
//	store, err := history.Open(history.Config{Path: "langaudit-history.db"})
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	runner := audit.NewRunner(audit.RunnerConfig{Corpus: c, Recorder: store})
//
//	runs, err := store.ListRuns(ctx, history.ListOptions{Language: "de", Limit: 10})
package history
