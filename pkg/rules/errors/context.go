package errors

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"mathcat/langaudit/pkg/rules/ast"
)

// ExtractSourceContext extracts the lines surrounding location from source.
// It returns a formatted string showing the error location with line numbers.
func ExtractSourceContext(source []byte, location ast.Location, contextLines int) string {
	if location.Line <= 0 {
		return ""
	}

	scanner := bufio.NewScanner(bytes.NewReader(source))
	lines := make([]string, 0)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil || len(lines) == 0 {
		return ""
	}

	errorLine := location.Line - 1 // Convert to 0-based index
	if errorLine >= len(lines) {
		errorLine = len(lines) - 1
	}
	startLine := errorLine - contextLines
	endLine := errorLine + contextLines

	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}

	var sb strings.Builder
	maxLineNumWidth := len(fmt.Sprintf("%d", endLine+1))

	for i := startLine; i <= endLine; i++ {
		lineNumStr := fmt.Sprintf("%*d", maxLineNumWidth, i+1)
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}

		// Tabs are the most common cause of YAML failures in rule files; make them visible.
		text := strings.ReplaceAll(lines[i], "\t", "→   ")
		sb.WriteString(fmt.Sprintf("%s %s | %s\n", prefix, lineNumStr, text))

		if i == errorLine && location.Column > 0 {
			padding := strings.Repeat(" ", location.Column-1)
			sb.WriteString(fmt.Sprintf("   %s | %s^\n", strings.Repeat(" ", maxLineNumWidth), padding))
		}
	}

	return sb.String()
}

// WithSourceContext fills err.Context from in-memory source text.
func WithSourceContext(err *Error, source []byte, contextLines int) *Error {
	err.Context = ExtractSourceContext(source, err.Location, contextLines)
	return err
}

var yamlLineRE = regexp.MustCompile(`line (\d+)`)

// LineFromYAMLError extracts the line number reported by the YAML reader,
// or 0 when the message carries none.
func LineFromYAMLError(err error) int {
	if err == nil {
		return 0
	}
	m := yamlLineRE.FindStringSubmatch(err.Error())
	if len(m) != 2 {
		return 0
	}
	n, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return 0
	}
	return n
}
