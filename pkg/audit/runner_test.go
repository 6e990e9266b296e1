package audit

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"mathcat/langaudit/pkg/config"
	"mathcat/langaudit/pkg/corpus"
	"mathcat/langaudit/pkg/telemetry/metrics"
	"mathcat/langaudit/pkg/telemetry/tracing"
	"mathcat/langaudit/pkg/translate"
)

type collectSink struct {
	files   []string
	reports []*FileReport
	summary *Summary
	failOn  string
}

func (s *collectSink) WriteFile(report *FileReport) error {
	if report.File == s.failOn {
		return errors.New("disk full")
	}
	s.files = append(s.files, report.File)
	s.reports = append(s.reports, report)
	return nil
}

func (s *collectSink) Close(summary *Summary) error {
	s.summary = summary
	return nil
}

type memoryRecorder struct {
	summary *Summary
	reports []*FileReport
}

func (r *memoryRecorder) RecordRun(_ context.Context, summary *Summary, reports []*FileReport) error {
	r.summary = summary
	r.reports = reports
	return nil
}

func newTestCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"en/general.yaml":             "- name: a\n  tag: mo\n- name: b\n  tag: mi\n",
		"en/navigate.yaml":            "- name: n\n  tag: mrow\n",
		"en/overview.yaml":            "- name: o\n  tag: math\n  replace: [t: \"x\"]\n",
		"en/broken.yaml":              "- name: [unclosed\n",
		"en/prefs.yaml":               "- name: p\n",
		"en/SharedRules/default.yaml": "- name: d\n  tag: mn\n",
		"de/general.yaml":             "- name: a\n  tag: mo\n",
		"de/navigate.yaml":            "- name: n\n  tag: mrow\n",
		"de/overview.yaml":            "- name: o\n  tag: math\n  replace: [t: \"eins\"]\n",
		"de/SharedRules/default.yaml": "- name: d\n  tag: mn\n- name: e\n  tag: mi\n",
	})
	return corpus.New(root)
}

func resolve(t *testing.T, c *corpus.Corpus, code string) *corpus.Target {
	t.Helper()
	target, err := c.Resolve(code)
	if err != nil {
		t.Fatalf("Resolve(%q) error = %v", code, err)
	}
	return target
}

func TestRunner_Run(t *testing.T) {
	c := newTestCorpus(t)
	sink := &collectSink{}

	summary, err := NewRunner(RunnerConfig{Corpus: c}).Run(context.Background(), Options{
		Target: resolve(t, c, "de"),
		Filter: AllIssues(),
	}, sink)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	wantFiles := []string{"SharedRules/default.yaml", "broken.yaml", "general.yaml", "navigate.yaml", "overview.yaml"}
	if !reflect.DeepEqual(sink.files, wantFiles) {
		t.Errorf("files = %v, want %v", sink.files, wantFiles)
	}
	if sink.summary != summary {
		t.Error("sink was not closed with the run summary")
	}

	if summary.FilesChecked != 5 {
		t.Errorf("FilesChecked = %d, want 5", summary.FilesChecked)
	}
	if summary.FilesFailed != 1 {
		t.Errorf("FilesFailed = %d, want 1", summary.FilesFailed)
	}
	// broken.yaml fails; its translation is missing but that is never reached.
	if summary.FilesWithIssues != 3 || summary.FilesOK != 1 {
		t.Errorf("FilesWithIssues/FilesOK = %d/%d, want 3/1", summary.FilesWithIssues, summary.FilesOK)
	}
	want := Counts{Missing: 1, Untranslated: 1, Extra: 1}
	if summary.Counts != want {
		t.Errorf("Counts = %+v, want %+v", summary.Counts, want)
	}
	if summary.RunID == "" || summary.Language != "de" {
		t.Errorf("RunID/Language = %q/%q", summary.RunID, summary.Language)
	}

	if sink.reports[1].Err == nil {
		t.Error("broken.yaml report has no error")
	}
}

func TestRunner_OrderedWithWorkers(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{"de/.keep.yaml": ""}
	var want []string
	for i := 0; i < 40; i++ {
		name := fmt.Sprintf("file%02d.yaml", i)
		files["en/"+name] = fmt.Sprintf("- name: r%d\n  tag: mo\n", i)
		want = append(want, name)
	}
	writeTree(t, root, files)
	c := corpus.New(root)

	for _, workers := range []int{1, 4, 16} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			sink := &collectSink{}
			summary, err := NewRunner(RunnerConfig{Corpus: c, Workers: workers}).Run(context.Background(), Options{
				Target: resolve(t, c, "de"),
			}, sink)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !reflect.DeepEqual(sink.files, want) {
				t.Errorf("files out of order: %v", sink.files)
			}
			if summary.FilesMissingTranslation != 40 || summary.Counts.Missing != 40 {
				t.Errorf("missing translations/rules = %d/%d, want 40/40",
					summary.FilesMissingTranslation, summary.Counts.Missing)
			}
		})
	}
}

func TestRunner_SingleFile(t *testing.T) {
	c := newTestCorpus(t)
	target := resolve(t, c, "de")

	sink := &collectSink{}
	summary, err := NewRunner(RunnerConfig{Corpus: c}).Run(context.Background(), Options{
		Target: target,
		File:   "general.yaml",
	}, sink)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !reflect.DeepEqual(sink.files, []string{"general.yaml"}) {
		t.Errorf("files = %v, want [general.yaml]", sink.files)
	}
	if summary.Counts.Missing != 1 {
		t.Errorf("Counts.Missing = %d, want 1", summary.Counts.Missing)
	}

	sink = &collectSink{}
	summary, err = NewRunner(RunnerConfig{Corpus: c}).Run(context.Background(), Options{
		Target: target,
		File:   "nothing.yaml",
	}, sink)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(sink.files) != 0 || summary.FilesChecked != 0 {
		t.Errorf("files = %v, want none", sink.files)
	}
	if len(summary.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one", summary.Warnings)
	}
}

func TestRunner_Filter(t *testing.T) {
	c := newTestCorpus(t)
	sink := &collectSink{}

	summary, err := NewRunner(RunnerConfig{Corpus: c}).Run(context.Background(), Options{
		Target: resolve(t, c, "de"),
		Filter: NewIssueFilter(CategoryExtra),
	}, sink)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Counts != (Counts{Extra: 1}) {
		t.Errorf("Counts = %+v, want only one extra", summary.Counts)
	}
}

func TestRunner_SinkError(t *testing.T) {
	c := newTestCorpus(t)
	sink := &collectSink{failOn: "general.yaml"}

	_, err := NewRunner(RunnerConfig{Corpus: c, Workers: 3}).Run(context.Background(), Options{
		Target: resolve(t, c, "de"),
	}, sink)
	if err == nil {
		t.Fatal("Run() error = nil, want sink error")
	}
	if sink.summary != nil {
		t.Error("sink closed after a write failure")
	}
}

func TestRunner_Cancelled(t *testing.T) {
	c := newTestCorpus(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(RunnerConfig{Corpus: c}).Run(ctx, Options{Target: resolve(t, c, "de")}, &collectSink{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunner_MissingTarget(t *testing.T) {
	if _, err := NewRunner(RunnerConfig{Corpus: newTestCorpus(t)}).Run(context.Background(), Options{}, &collectSink{}); err == nil {
		t.Error("Run() without target error = nil")
	}
}

func TestRunner_Collaborators(t *testing.T) {
	c := newTestCorpus(t)
	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true}, nil)
	recorder := &memoryRecorder{}
	glossary := translate.NewGlossary(map[string]map[string]string{"de": {"eins": "eins"}})

	sink := &collectSink{}
	summary, err := NewRunner(RunnerConfig{
		Corpus:     c,
		Metrics:    collector,
		Recorder:   recorder,
		Translator: glossary,
	}).Run(context.Background(), Options{Target: resolve(t, c, "de")}, sink)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if recorder.summary != summary || len(recorder.reports) != 5 {
		t.Errorf("recorder got %d reports", len(recorder.reports))
	}
	if summary.Suggestions != 1 {
		t.Errorf("Suggestions = %d, want 1", summary.Suggestions)
	}

	count, err := testutil.GatherAndCount(collector.Registry(), "langaudit_audit_files_total")
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	// de: ok, issues, failed
	if count != 3 {
		t.Errorf("files_total series = %d, want 3", count)
	}
	count, err = testutil.GatherAndCount(collector.Registry(), "langaudit_audit_runs_total")
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if count != 1 {
		t.Errorf("runs_total series = %d, want 1", count)
	}
}

func TestRunner_Tracing(t *testing.T) {
	c := newTestCorpus(t)
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := tracing.NewWithExporter(&config.TracingConfig{Enabled: true}, "test", exporter)
	if err != nil {
		t.Fatalf("NewWithExporter() error = %v", err)
	}
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })

	summary, err := NewRunner(RunnerConfig{
		Corpus:   c,
		Workers:  2,
		Tracer:   tracer,
		Recorder: &memoryRecorder{},
	}).Run(context.Background(), Options{
		Target: resolve(t, c, "de"),
		Filter: AllIssues(),
	}, &collectSink{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := tracer.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var run tracetest.SpanStub
	files := make(map[string]tracetest.SpanStub)
	names := make(map[string]int)
	for _, s := range exporter.GetSpans() {
		names[s.Name]++
		switch s.Name {
		case "audit.run":
			run = s
		case "audit.file":
			for _, kv := range s.Attributes {
				if kv.Key == tracing.AttrFile {
					files[kv.Value.AsString()] = s
				}
			}
		}
	}
	if names["audit.run"] != 1 || names["audit.file"] != summary.FilesChecked || names["history.record_run"] != 1 {
		t.Fatalf("span counts = %v, want 1 run, %d files, 1 record", names, summary.FilesChecked)
	}

	for file, s := range files {
		if s.Parent.SpanID() != run.SpanContext.SpanID() {
			t.Errorf("%s span is not a child of the run span", file)
		}
	}
	if got := files["broken.yaml"].Status.Code; got != codes.Error {
		t.Errorf("broken.yaml span status = %v, want error", got)
	}
	if got := files["general.yaml"].Status.Code; got == codes.Error {
		t.Error("general.yaml span marked as error")
	}

	attrs := make(map[string]int64)
	for _, kv := range run.Attributes {
		attrs[string(kv.Key)] = kv.Value.AsInt64()
	}
	if attrs[tracing.AttrFilesFailed] != 1 || attrs[tracing.AttrIssues] != int64(summary.TotalIssues()) {
		t.Errorf("run attributes = %v, want 1 failed file and %d issues", attrs, summary.TotalIssues())
	}
}
