package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name            string
		timeout         time.Duration
		expectedTimeout time.Duration
	}{
		{"default timeout", 0, DefaultCheckTimeout},
		{"custom timeout", 10 * time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(tt.timeout)
			if checker.checkTimeout != tt.expectedTimeout {
				t.Errorf("checkTimeout = %v, want %v", checker.checkTimeout, tt.expectedTimeout)
			}
			if len(checker.Checks()) != 0 {
				t.Errorf("Checks() = %v, want none", checker.Checks())
			}
		})
	}
}

func TestRegisterCheck(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("history", func(context.Context) error { return nil })
	checker.RegisterCheck("corpus", func(context.Context) error { return nil })
	checker.RegisterCheck("corpus", func(context.Context) error { return errors.New("replaced") })

	if got, want := checker.Checks(), []string{"corpus", "history"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Checks() = %v, want %v", got, want)
	}

	status := checker.Readiness(context.Background())
	if status.Checks["corpus"].Message != "replaced" {
		t.Errorf("corpus check = %+v, want the replacement", status.Checks["corpus"])
	}
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]CheckFunc
		want   string
	}{
		{"no checks", nil, StatusReady},
		{
			"all healthy",
			map[string]CheckFunc{
				"corpus":  func(context.Context) error { return nil },
				"history": func(context.Context) error { return nil },
			},
			StatusReady,
		},
		{
			"one failing",
			map[string]CheckFunc{
				"corpus":     func(context.Context) error { return nil },
				"last_audit": func(context.Context) error { return errors.New("last audit failed") },
			},
			StatusDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.Readiness(context.Background())
			if status.Status != tt.want {
				t.Errorf("Status = %q, want %q", status.Status, tt.want)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("got %d results, want %d", len(status.Checks), len(tt.checks))
			}
			if status.Timestamp.IsZero() {
				t.Error("Timestamp is zero")
			}
		})
	}
}

func TestReadinessTimeout(t *testing.T) {
	checker := New(20 * time.Millisecond)
	checker.RegisterCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		return nil
	})

	start := time.Now()
	status := checker.Readiness(context.Background())
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("Readiness() took %v, want about the check timeout", elapsed)
	}

	result := status.Checks["slow"]
	if result.Status != StatusUnhealthy || result.Message != ErrCheckTimeout.Error() {
		t.Errorf("slow check = %+v, want timeout", result)
	}
}

func TestHandlers(t *testing.T) {
	checker := New(time.Second)
	failing := false
	checker.RegisterCheck("last_audit", func(context.Context) error {
		if failing {
			return errors.New("audit failed")
		}
		return nil
	})

	mux := http.NewServeMux()
	checker.Mount(mux, VersionInfo{Version: "0.1.0", Commit: "abc123"})

	tests := []struct {
		name       string
		method     string
		path       string
		failing    bool
		wantCode   int
		wantStatus string
	}{
		{"liveness", http.MethodGet, "/health", false, http.StatusOK, StatusOK},
		{"liveness while degraded", http.MethodGet, "/health", true, http.StatusOK, StatusOK},
		{"ready", http.MethodGet, "/ready", false, http.StatusOK, StatusReady},
		{"not ready", http.MethodGet, "/ready", true, http.StatusServiceUnavailable, StatusDegraded},
		{"wrong method", http.MethodPost, "/health", false, http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failing = tt.failing
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantStatus == "" {
				return
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			var status Status
			if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if status.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status.Status, tt.wantStatus)
			}
		})
	}
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler(VersionInfo{Version: "0.1.0", Commit: "abc123"}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if info.Version != "0.1.0" || info.Commit != "abc123" || info.GoVersion == "" {
		t.Errorf("info = %+v", info)
	}

	head := httptest.NewRecorder()
	VersionHandler(VersionInfo{}).ServeHTTP(head, httptest.NewRequest(http.MethodHead, "/version", nil))
	if head.Body.Len() != 0 {
		t.Errorf("HEAD body = %q, want empty", head.Body.String())
	}
}
