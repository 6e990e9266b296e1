// Package report writes audit results in the supported output formats.
//
// Every writer implements audit.Sink: the runner hands it one FileReport
// per audited file, in file order, and closes it with the run summary.
//
//	text   human-readable report grouped by issue category, with a summary table
//	jsonl  one JSON issue record per line
//	csv    one row per issue under a fixed header
//	tasks  jsonl records carrying the raw rule text of both sides
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"mathcat/langaudit/pkg/audit"
	rulesErrors "mathcat/langaudit/pkg/rules/errors"
)

// Format is an output format.
type Format string

const (
	FormatText  Format = "text"
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
	FormatTasks Format = "tasks"
)

// Formats lists every output format.
var Formats = []Format{FormatText, FormatJSONL, FormatCSV, FormatTasks}

// ErrUnknownFormat is returned for a format name that is not supported.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat parses a format name. "rich" is accepted as an alias of text
// and an empty name selects text.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "", "rich":
		return FormatText, nil
	}
	for _, f := range Formats {
		if Format(name) == f {
			return f, nil
		}
	}

	valid := make([]string, len(Formats))
	for i, f := range Formats {
		valid[i] = string(f)
	}
	return "", fmt.Errorf("%w %q: %s", ErrUnknownFormat, s, rulesErrors.SuggestName(name, valid))
}

// IncludeRaw returns true if the format carries raw rule text.
func (f Format) IncludeRaw() bool {
	return f == FormatTasks
}

// Options configures a writer.
type Options struct {
	// Color enables ANSI colors in the text format.
	Color bool

	// Language is the audited language selector, shown in the text header.
	Language string

	// ReferenceLanguage names the reference in the text header.
	ReferenceLanguage string
}

// New creates the writer for format.
func New(format Format, w io.Writer, opts Options) (audit.Sink, error) {
	switch format {
	case FormatText:
		return NewTextWriter(w, opts), nil
	case FormatJSONL, FormatTasks:
		return NewJSONLWriter(w), nil
	case FormatCSV:
		return NewCSVWriter(w), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}
