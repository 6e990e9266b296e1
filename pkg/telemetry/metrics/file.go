package metrics

import (
	"time"

	"mathcat/langaudit/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// FileMetrics tracks per-file audit work.
//
// Metrics:
//   - langaudit_audit_files_total: Files audited by language and outcome
//   - langaudit_audit_file_duration_seconds: Time to parse and compare one file
//   - langaudit_audit_rules_compared_total: Rules read, by side
type FileMetrics struct {
	filesTotal    *prometheus.CounterVec
	fileDuration  *prometheus.HistogramVec
	rulesCompared *prometheus.CounterVec
}

// NewFileMetrics creates and registers file metrics with the provided registry.
func NewFileMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *FileMetrics {
	fm := &FileMetrics{
		filesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "files_total",
				Help:      "Total number of rule files audited",
			},
			[]string{"language", "status"},
		),

		fileDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "file_duration_seconds",
				Help:      "Duration of auditing one rule file in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"language"},
		),

		rulesCompared: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rules_compared_total",
				Help:      "Total number of rules read, by document side",
			},
			[]string{"language", "side"},
		),
	}

	registry.MustRegister(
		fm.filesTotal,
		fm.fileDuration,
		fm.rulesCompared,
	)

	return fm
}

// RecordFile records one audited file.
func (fm *FileMetrics) RecordFile(language, status string, duration time.Duration) {
	fm.filesTotal.WithLabelValues(language, status).Inc()
	fm.fileDuration.WithLabelValues(language).Observe(duration.Seconds())
}

// RecordRules records the rule counts of both sides of a file.
func (fm *FileMetrics) RecordRules(language string, reference, translated int) {
	fm.rulesCompared.WithLabelValues(language, "reference").Add(float64(reference))
	fm.rulesCompared.WithLabelValues(language, "translated").Add(float64(translated))
}
