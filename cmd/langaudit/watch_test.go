package main

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"mathcat/langaudit/pkg/config"
	"mathcat/langaudit/pkg/telemetry/health"
	"mathcat/langaudit/pkg/telemetry/logging"
	"mathcat/langaudit/pkg/watch"
)

func newTestSession(t *testing.T, language string) *session {
	t.Helper()
	cfg := config.Default()
	cfg.Corpus.RulesDir = testRulesDir

	s, err := newSession(cfg, logging.Discard(), sessionOptions{
		Language: language,
		Format:   "jsonl",
	}, io.Discard)
	if err != nil {
		t.Fatalf("newSession(%q) error = %v", language, err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSession_ChangedFile(t *testing.T) {
	s := newTestSession(t, "zz-aa")
	ref := filepath.Join(testRulesDir, "en")
	lang := filepath.Join(testRulesDir, "zz")
	region := filepath.Join(testRulesDir, "zz", "aa")

	tests := []struct {
		name     string
		changed  []string
		wantFile string
		wantOK   bool
	}{
		{"reference file", []string{filepath.Join(ref, "general.yaml")}, "general.yaml", true},
		{"shared reference file", []string{filepath.Join(ref, "SharedRules", "default.yaml")}, "SharedRules/default.yaml", true},
		{"translation file", []string{filepath.Join(lang, "overview.yaml")}, "overview.yaml", true},
		{"region file", []string{filepath.Join(region, "general.yaml")}, "general.yaml", true},
		{"same file on both sides", []string{filepath.Join(ref, "general.yaml"), filepath.Join(region, "general.yaml")}, "general.yaml", true},
		{"several files", []string{filepath.Join(ref, "general.yaml"), filepath.Join(lang, "overview.yaml")}, "", true},
		{"skipped file", []string{filepath.Join(ref, "prefs.yaml")}, "", false},
		{"other region", []string{filepath.Join(lang, "bb", "general.yaml")}, "", false},
		{"unrelated", []string{filepath.Join(testRulesDir, "de", "general.yaml")}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, ok := s.changedFile(tt.changed)
			if file != tt.wantFile || ok != tt.wantOK {
				t.Errorf("changedFile(%v) = %q, %v; want %q, %v", tt.changed, file, ok, tt.wantFile, tt.wantOK)
			}
		})
	}
}

func TestWatchPaths(t *testing.T) {
	s := newTestSession(t, "de")
	got := watchPaths(s)
	if len(got) != 2 || got[0] != s.target.ReferenceDir || got[1] != s.target.LanguageDir {
		t.Errorf("watchPaths() = %v", got)
	}
}

func TestApplyWatchFlags(t *testing.T) {
	resetFlags(rootCmd)
	defer resetFlags(rootCmd)

	watchFlags.schedule = "not a cron"
	cfg := config.Default()
	if err := applyWatchFlags(cfg); err == nil {
		t.Error("applyWatchFlags() with an invalid schedule should fail")
	}

	watchFlags.schedule = "*/5 * * * *"
	cfg = config.Default()
	if err := applyWatchFlags(cfg); err != nil {
		t.Fatalf("applyWatchFlags() error = %v", err)
	}
	if cfg.Watch.Schedule != "*/5 * * * *" {
		t.Errorf("Schedule = %q", cfg.Watch.Schedule)
	}
}

func TestSession_CheckLastRun(t *testing.T) {
	s := newTestSession(t, "de")
	ctx := context.Background()

	if err := s.checkLastRun(ctx); err == nil {
		t.Error("checkLastRun() before any run = nil, want error")
	}

	if _, err := s.run(ctx, "", nil); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if err := s.checkLastRun(ctx); err != nil {
		t.Errorf("checkLastRun() after run = %v, want nil", err)
	}

	failure := errors.New("boom")
	s.remember(nil, failure)
	if err := s.checkLastRun(ctx); !errors.Is(err, failure) {
		t.Errorf("checkLastRun() = %v, want wrapped %v", err, failure)
	}
}

func TestNewHealthChecker(t *testing.T) {
	ctx := context.Background()

	t.Run("without history", func(t *testing.T) {
		s := newTestSession(t, "de")
		checker := newHealthChecker(s, nil)

		got := checker.Checks()
		want := []string{"corpus", "last_audit"}
		if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
			t.Fatalf("Checks() = %v, want %v", got, want)
		}

		if status := checker.Readiness(ctx); status.Ready() {
			t.Errorf("Readiness() before a run = %q, want not ready", status.Status)
		}
		if _, err := s.run(ctx, "", nil); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if status := checker.Readiness(ctx); !status.Ready() {
			t.Errorf("Readiness() after a run = %q, want ready (%v)", status.Status, status.Checks)
		}
	})

	t.Run("with history", func(t *testing.T) {
		cfg := config.Default()
		cfg.Corpus.RulesDir = testRulesDir
		cfg.History.Enabled = true
		cfg.History.Path = filepath.Join(t.TempDir(), "history.db")

		s, err := newSession(cfg, logging.Discard(), sessionOptions{
			Language: "de",
			Format:   "jsonl",
		}, io.Discard)
		if err != nil {
			t.Fatalf("newSession() error = %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })

		checker := newHealthChecker(s, nil)
		if _, err := s.run(ctx, "", nil); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		status := checker.Readiness(ctx)
		if res, ok := status.Checks["history"]; !ok || res.Status != health.StatusOK {
			t.Errorf("history check = %+v (present %v), want %q", res, ok, health.StatusOK)
		}
	})

	t.Run("with schedule", func(t *testing.T) {
		s := newTestSession(t, "de")
		s.cfg.Watch.Schedule = "*/15 * * * *"
		scheduler := watch.NewScheduler(logging.Discard())
		if err := scheduler.Add("audit", s.cfg.Watch.Schedule, func(context.Context) error { return nil }); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		checker := newHealthChecker(s, scheduler)

		status := checker.Readiness(ctx)
		if res := status.Checks["scheduler"]; res.Status != health.StatusUnhealthy {
			t.Errorf("scheduler check before Start() = %q, want %q", res.Status, health.StatusUnhealthy)
		}

		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := scheduler.Start(runCtx); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		defer scheduler.Stop()

		status = checker.Readiness(ctx)
		if res := status.Checks["scheduler"]; res.Status != health.StatusOK {
			t.Errorf("scheduler check after Start() = %q, want %q", res.Status, health.StatusOK)
		}
	})
}
