package metrics

import (
	"time"

	"mathcat/langaudit/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RunMetrics tracks whole audit runs.
//
// Metrics:
//   - langaudit_audit_runs_total: Completed runs by language
//   - langaudit_audit_last_run_timestamp_seconds: Completion time of the last run
//   - langaudit_audit_last_run_duration_seconds: Duration of the last run
//   - langaudit_audit_last_run_files: Files checked by the last run
//   - langaudit_audit_last_run_issues: Issues reported by the last run
type RunMetrics struct {
	runsTotal        *prometheus.CounterVec
	lastRunTimestamp *prometheus.GaugeVec
	lastRunDuration  *prometheus.GaugeVec
	lastRunFiles     *prometheus.GaugeVec
	lastRunIssues    *prometheus.GaugeVec
}

// NewRunMetrics creates and registers run metrics with the provided registry.
func NewRunMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RunMetrics {
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      name,
				Help:      help,
			},
			[]string{"language"},
		)
	}

	rm := &RunMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of completed audit runs",
			},
			[]string{"language"},
		),
		lastRunTimestamp: gauge("last_run_timestamp_seconds", "Unix time the last audit run completed"),
		lastRunDuration:  gauge("last_run_duration_seconds", "Duration of the last audit run in seconds"),
		lastRunFiles:     gauge("last_run_files", "Number of files checked by the last audit run"),
		lastRunIssues:    gauge("last_run_issues", "Number of issues reported by the last audit run"),
	}

	registry.MustRegister(
		rm.runsTotal,
		rm.lastRunTimestamp,
		rm.lastRunDuration,
		rm.lastRunFiles,
		rm.lastRunIssues,
	)

	return rm
}

// RecordRun records a completed run.
func (rm *RunMetrics) RecordRun(language string, files, issues int, duration time.Duration, finished time.Time) {
	rm.runsTotal.WithLabelValues(language).Inc()
	rm.lastRunTimestamp.WithLabelValues(language).Set(float64(finished.Unix()))
	rm.lastRunDuration.WithLabelValues(language).Set(duration.Seconds())
	rm.lastRunFiles.WithLabelValues(language).Set(float64(files))
	rm.lastRunIssues.WithLabelValues(language).Set(float64(issues))
}
