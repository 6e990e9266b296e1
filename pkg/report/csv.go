package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mathcat/langaudit/pkg/audit"
)

// IssueFields is the CSV header, in column order.
var IssueFields = []string{
	"language",
	"file",
	"issue_type",
	"diff_type",
	"rule_name",
	"rule_tag",
	"rule_key",
	"issue_line_en",
	"issue_line_tr",
	"rule_line_en",
	"rule_line_tr",
	"description",
	"english_snippet",
	"translated_snippet",
	"untranslated_texts",
}

// CSVWriter writes one row per issue. Untranslated texts are joined with
// "|" and absent line numbers are empty cells.
type CSVWriter struct {
	writer        *csv.Writer
	headerWritten bool
}

// NewCSVWriter creates a CSV writer.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{writer: csv.NewWriter(w)}
}

// WriteFile implements audit.Sink.
func (c *CSVWriter) WriteFile(report *audit.FileReport) error {
	if err := c.writeHeader(); err != nil {
		return err
	}
	for i := range report.Issues {
		if err := c.writer.Write(issueToRow(&report.Issues[i])); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	c.writer.Flush()
	return c.writer.Error()
}

// Close implements audit.Sink. The header is written even when no issue was.
func (c *CSVWriter) Close(*audit.Summary) error {
	if err := c.writeHeader(); err != nil {
		return err
	}
	c.writer.Flush()
	return c.writer.Error()
}

func (c *CSVWriter) writeHeader() error {
	if c.headerWritten {
		return nil
	}
	c.headerWritten = true
	if err := c.writer.Write(IssueFields); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	return nil
}

// issueToRow converts an issue to a CSV row.
func issueToRow(issue *audit.Issue) []string {
	formatLine := func(line *int) string {
		if line == nil {
			return ""
		}
		return strconv.Itoa(*line)
	}

	return []string{
		issue.Language,
		issue.File,
		string(issue.IssueType),
		issue.DiffType,
		issue.RuleName,
		issue.RuleTag,
		issue.RuleKey,
		formatLine(issue.IssueLineEN),
		formatLine(issue.IssueLineTR),
		formatLine(issue.RuleLineEN),
		formatLine(issue.RuleLineTR),
		issue.Description,
		issue.EnglishSnippet,
		issue.TranslatedSnippet,
		strings.Join(issue.UntranslatedTexts, "|"),
	}
}
