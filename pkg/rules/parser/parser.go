package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mathcat/langaudit/pkg/rules/ast"
	"mathcat/langaudit/pkg/rules/detector"
	rulesErrors "mathcat/langaudit/pkg/rules/errors"
)

// DefaultKeyedFiles are the file names parsed as keyed (unicode) documents.
var DefaultKeyedFiles = []string{"unicode.yaml", "unicode-full.yaml"}

// DefaultIgnoreMarker is the comment that excludes a rule from auditing.
const DefaultIgnoreMarker = "# audit-ignore"

// Parser parses rule documents into Rule records.
type Parser struct {
	maxFileSize  int64 // Maximum file size in bytes (default: 10MB)
	strictMode   bool  // Fail on tabs instead of retrying
	tabWidth     int   // Spaces substituted for each tab on retry
	ignoreMarker string
	keyedFiles   map[string]bool
	detector     *detector.Detector
}

// NewParser creates a new parser with default configuration.
func NewParser() *Parser {
	p := &Parser{
		maxFileSize:  10 * 1024 * 1024, // 10MB
		tabWidth:     4,
		ignoreMarker: DefaultIgnoreMarker,
		detector:     detector.New(),
	}
	p.WithKeyedFiles(DefaultKeyedFiles...)
	return p
}

// WithMaxFileSize sets the maximum file size limit.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// WithStrictMode disables the tab retry: a document that only parses after
// tab replacement is reported as a syntax error.
func (p *Parser) WithStrictMode(strict bool) *Parser {
	p.strictMode = strict
	return p
}

// WithTabWidth sets how many spaces replace a tab on retry.
func (p *Parser) WithTabWidth(width int) *Parser {
	if width > 0 {
		p.tabWidth = width
	}
	return p
}

// WithIgnoreMarker sets the comment that flags a rule as not audited.
func (p *Parser) WithIgnoreMarker(marker string) *Parser {
	if marker != "" {
		p.ignoreMarker = marker
	}
	return p
}

// WithKeyedFiles sets the base names parsed as keyed documents.
func (p *Parser) WithKeyedFiles(names ...string) *Parser {
	p.keyedFiles = make(map[string]bool, len(names))
	for _, n := range names {
		p.keyedFiles[n] = true
	}
	return p
}

// WithDetector sets the untranslated-text detector.
func (p *Parser) WithDetector(d *detector.Detector) *Parser {
	if d != nil {
		p.detector = d
	}
	return p
}

// ShapeOf returns the document shape used for path.
func (p *Parser) ShapeOf(path string) Shape {
	if p.keyedFiles[filepath.Base(path)] {
		return ShapeKeyed
	}
	return ShapeNamed
}

// Parse parses the rule file at path.
// It returns an error if the file cannot be read or is not well-formed YAML.
// A missing file yields an ErrorTypeIO error wrapping fs.ErrNotExist.
func (p *Parser) Parse(path string) (*Document, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, &rulesErrors.Error{
			Type:     rulesErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Failed to access file: %v", err),
			Location: ast.Location{File: path},
			Err:      err,
		}
	}

	if fileInfo.Size() > p.maxFileSize {
		return nil, &rulesErrors.Error{
			Type:     rulesErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("File size %d exceeds maximum %d bytes", fileInfo.Size(), p.maxFileSize),
			Location: ast.Location{File: path},
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &rulesErrors.Error{
			Type:     rulesErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Failed to read file: %v", err),
			Location: ast.Location{File: path},
			Err:      err,
		}
	}

	return p.ParseBytes(data, path)
}

// ParseBytes parses rule YAML from a byte slice. The document shape is
// chosen from sourcePath's base name.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*Document, error) {
	if int64(len(data)) > p.maxFileSize {
		return nil, &rulesErrors.Error{
			Type:     rulesErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Data size %d exceeds maximum %d bytes", len(data), p.maxFileSize),
			Location: ast.Location{File: sourcePath},
		}
	}

	root, tabsReplaced, err := p.decode(data)
	if err != nil {
		return nil, p.syntaxError(err, data, sourcePath)
	}

	doc := &Document{
		Path:         sourcePath,
		Shape:        p.ShapeOf(sourcePath),
		Source:       data,
		TabsReplaced: tabsReplaced,
	}

	b := newBuilder(doc, p)
	b.build(root)

	return doc, nil
}

// ParseOptional parses path, returning an empty document when the file
// does not exist. The boolean reports whether the file was found.
func (p *Parser) ParseOptional(path string) (*Document, bool, error) {
	doc, err := p.Parse(path)
	if err == nil {
		return doc, true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return EmptyDocument(path, p.ShapeOf(path)), false, nil
	}
	return nil, false, err
}

func (p *Parser) syntaxError(err error, data []byte, sourcePath string) error {
	line := rulesErrors.LineFromYAMLError(err)
	if line == 0 {
		line = 1
	}
	e := &rulesErrors.Error{
		Type:     rulesErrors.ErrorTypeSyntax,
		Message:  fmt.Sprintf("YAML parsing failed: %v", err),
		Location: ast.Location{File: sourcePath, Line: line},
		Err:      err,
	}
	if containsTab(data) {
		e.Suggestion = rulesErrors.SuggestTabFix(p.tabWidth)
	} else {
		e.Suggestion = "Check YAML syntax (indentation, colons, quotes)"
	}
	return rulesErrors.WithSourceContext(e, data, 2)
}
