// Package watch re-runs audits while translators work.
//
// Watcher follows the reference and translation rule directories with
// fsnotify and reports the set of changed rule files once edits settle.
// Scheduler runs jobs on cron expressions, which the CLI uses for periodic
// full audits and history pruning.
//
// Example:
//
//	w, err := watch.NewWatcher(&watch.Config{
//		Paths:    []string{"rules/en", "rules/de"},
//		Debounce: 500 * time.Millisecond,
//	}, logger)
//	if err != nil {
//		return err
//	}
//	defer w.Stop()
//
//	return w.Watch(ctx, func(ctx context.Context, changed []string) error {
//		return reaudit(ctx, changed)
//	})
package watch
