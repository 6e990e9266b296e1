package metrics

import (
	"fmt"
	"sync"
	"time"

	"mathcat/langaudit/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// File outcome labels.
const (
	StatusOK        = "ok"
	StatusIssues    = "issues"
	StatusFailed    = "failed"
	otherLabelValue = "other"
)

// DefaultMaxFileSeries bounds the number of distinct language/file label pairs.
const DefaultMaxFileSeries = 2000

// Collector is the main orchestrator for all Prometheus metrics of an audit.
// It manages metric registration and provides a unified interface for
// recording metrics from the audit runner.
//
// A collector whose configuration is disabled accepts every call and
// records nothing.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	fileMetrics  *FileMetrics
	issueMetrics *IssueMetrics
	runMetrics   *RunMetrics

	// Cardinality tracking for per-file series
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a new registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	return &Collector{
		config:             cfg,
		registry:           registry,
		fileMetrics:        NewFileMetrics(cfg, registry),
		issueMetrics:       NewIssueMetrics(cfg, registry),
		runMetrics:         NewRunMetrics(cfg, registry),
		cardinalityLimiter: NewCardinalityLimiter(DefaultMaxFileSeries),
	}
}

// Enabled returns true if the collector records metrics.
func (c *Collector) Enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordFile records the outcome of auditing one file.
//
// Parameters:
//   - language: language selector ("de", "zz-aa")
//   - status: StatusOK, StatusIssues or StatusFailed
//   - duration: time spent parsing and comparing the file
func (c *Collector) RecordFile(language, status string, duration time.Duration) {
	if !c.Enabled() {
		return
	}
	c.fileMetrics.RecordFile(language, status, duration)
}

// RecordRules records how many rules each side of a file held.
func (c *Collector) RecordRules(language string, reference, translated int) {
	if !c.Enabled() {
		return
	}
	c.fileMetrics.RecordRules(language, reference, translated)
}

// RecordIssues records count issues of one type found in a file. Per-file
// totals go through SetFileIssues.
func (c *Collector) RecordIssues(language, issueType string, count int) {
	if !c.Enabled() || count <= 0 {
		return
	}
	c.issueMetrics.RecordIssues(language, issueType, count)
}

// SetFileIssues sets the current total issue count of a file.
func (c *Collector) SetFileIssues(language, file string, count int) {
	if !c.Enabled() {
		return
	}

	// Check cardinality limit
	labelSet := fmt.Sprintf("file:%s:%s", language, file)
	if !c.cardinalityLimiter.Allow(labelSet) {
		// Aggregate into "other" to prevent cardinality explosion
		file = otherLabelValue
	}
	c.issueMetrics.SetFileIssues(language, file, count)
}

// RecordRun records a completed audit run.
func (c *Collector) RecordRun(language string, files, issues int, duration time.Duration, finished time.Time) {
	if !c.Enabled() {
		return
	}
	c.runMetrics.RecordRun(language, files, issues, duration, finished)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if we haven't reached the cardinality limit yet.
// Returns false if adding this label set would exceed the limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
