package errors

import (
	"fmt"
	"strings"

	"mathcat/langaudit/pkg/rules/ast"
)

// ErrorType says which stage of reading a rule file went wrong.
type ErrorType string

const (
	ErrorTypeSyntax     ErrorType = "syntax"     // YAML could not be decoded
	ErrorTypeStructural ErrorType = "structural" // Decoded, but not a rule list
	ErrorTypeIO         ErrorType = "io"         // File could not be read
)

// Error describes a problem in one rule file. Structural errors that do not
// stop parsing are kept on the document as warnings.
type Error struct {
	Type       ErrorType
	Message    string
	Location   ast.Location
	Context    string // numbered source lines around Location
	Suggestion string
	Err        error
}

// Structural builds a non-fatal structural error at file:line.
func Structural(file string, line int, format string, args ...any) *Error {
	return &Error{
		Type:     ErrorTypeStructural,
		Message:  fmt.Sprintf(format, args...),
		Location: ast.Location{File: file, Line: line},
	}
}

// Error renders the header line, then source context and suggestion when set.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Short())
	sb.WriteByte('\n')

	if e.Context != "" {
		sb.WriteString(e.Context)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&sb, "  hint: %s\n", e.Suggestion)
	}
	return sb.String()
}

// Short is the one-line form: "file:line: type: message".
func (e *Error) Short() string {
	if e.Location.IsValid() {
		return fmt.Sprintf("%s: %s: %s", e.Location, e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same type with no message, so callers
// can test errors.Is(err, &Error{Type: ErrorTypeSyntax}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" {
		return false
	}
	return t.Type == e.Type
}
