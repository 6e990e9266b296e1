// Package metrics provides Prometheus metrics for audit runs.
//
// # Overview
//
// Audits are batch jobs, so metrics are mostly read after the fact: either
// written to a node exporter textfile at the end of every run, or scraped
// from the HTTP endpoint while `langaudit watch` is running.
//
// # Metrics Categories
//
//   - File Metrics: files audited by outcome, audit duration, rules compared
//   - Issue Metrics: issues by language and type, current issues per file
//   - Run Metrics: runs, and the time, duration and issue count of the last run
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	collector.RecordFile("de", metrics.StatusIssues, 12*time.Millisecond)
//	collector.RecordIssues("de", "missing_rule", 3)
//	collector.RecordRun("de", 12, 40, time.Second, time.Now())
//
//	if err := collector.WriteTextfile("/var/lib/node_exporter/langaudit.prom"); err != nil {
//		...
//	}
//
// # Cardinality Management
//
// Per-file series are bounded by a cardinality limiter; files beyond the
// limit are aggregated under file="other".
package metrics
