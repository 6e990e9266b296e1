package metrics

import (
	"mathcat/langaudit/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// IssueMetrics tracks audit findings.
//
// Metrics:
//   - langaudit_audit_issues_total: Issues found by language and issue type
//   - langaudit_audit_file_issues: Issues in the latest audit of each file
type IssueMetrics struct {
	issuesTotal *prometheus.CounterVec
	fileIssues  *prometheus.GaugeVec
}

// NewIssueMetrics creates and registers issue metrics with the provided registry.
func NewIssueMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *IssueMetrics {
	im := &IssueMetrics{
		issuesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "issues_total",
				Help:      "Total number of audit issues found",
			},
			[]string{"language", "issue_type"},
		),

		fileIssues: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "file_issues",
				Help:      "Number of issues in the latest audit of a file",
			},
			[]string{"language", "file"},
		),
	}

	registry.MustRegister(
		im.issuesTotal,
		im.fileIssues,
	)

	return im
}

// RecordIssues adds count issues of one type.
func (im *IssueMetrics) RecordIssues(language, issueType string, count int) {
	im.issuesTotal.WithLabelValues(language, issueType).Add(float64(count))
}

// SetFileIssues sets the current issue count of a file.
func (im *IssueMetrics) SetFileIssues(language, file string, count int) {
	im.fileIssues.WithLabelValues(language, file).Set(float64(count))
}
