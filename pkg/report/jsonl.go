package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"mathcat/langaudit/pkg/audit"
)

// JSONLWriter writes one JSON issue record per line. Non-ASCII text is
// written as is.
type JSONLWriter struct {
	buf     *bufio.Writer
	encoder *json.Encoder
	written int
}

// NewJSONLWriter creates a JSON lines writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	buf := bufio.NewWriter(w)
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	return &JSONLWriter{
		buf:     buf,
		encoder: encoder,
	}
}

// WriteFile implements audit.Sink.
func (j *JSONLWriter) WriteFile(report *audit.FileReport) error {
	for i := range report.Issues {
		if err := j.encoder.Encode(&report.Issues[i]); err != nil {
			return fmt.Errorf("failed to write issue %d: %w", j.written, err)
		}
		j.written++
	}
	return j.buf.Flush()
}

// Close implements audit.Sink.
func (j *JSONLWriter) Close(*audit.Summary) error {
	return j.buf.Flush()
}
