// Package detector finds rule text that has not been reviewed by a translator.
//
// Rule files mark spoken text with short field names. By convention a
// lowercase field (t, ot, ct, spell, pronounce, ifthenelse) holds text that
// was copied from the reference language and not yet reviewed, while the
// uppercase form (T, OT, CT, ...) holds verified text:
//
//	- t: "square root"      # unreviewed
//	- T: "raíz cuadrada"    # reviewed
//
// Values that cannot carry translatable meaning are not reported: empty or
// blank strings, a single non-letter character, and references starting with
// "$" (variables) or "@" (attributes).
package detector

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"mathcat/langaudit/pkg/rules/ast"
)

// DefaultFields are the lowercase field names that mark unreviewed text.
var DefaultFields = []string{"t", "ot", "ct", "spell", "pronounce", "ifthenelse"}

// Detector reports unreviewed text fields in rule trees.
type Detector struct {
	fields map[string]bool
	names  []string
}

// New creates a detector for the given field names.
// With no arguments DefaultFields is used.
func New(fields ...string) *Detector {
	if len(fields) == 0 {
		fields = DefaultFields
	}
	d := &Detector{
		fields: make(map[string]bool, len(fields)),
		names:  make([]string, 0, len(fields)),
	}
	for _, f := range fields {
		if d.fields[f] {
			continue
		}
		d.fields[f] = true
		d.names = append(d.names, f)
	}
	return d
}

// Fields returns the field names this detector looks for.
func (d *Detector) Fields() []string {
	return append([]string(nil), d.names...)
}

// IsField returns true if key is one of the detector's field names.
// The comparison is case sensitive: "T" is never a detector field.
func (d *Detector) IsField(key string) bool {
	return d.fields[key]
}

// Find returns every unreviewed text in the rule, in tree order, with
// lines resolved through the rule's line map.
//
// The n-th string-valued occurrence of a field resolves to the n-th line
// recorded for that field. Occurrences that are skipped by ShouldReport still
// advance the counter so later occurrences stay aligned with the line map.
func (d *Detector) Find(rule *ast.Rule) []ast.UntranslatedEntry {
	var entries []ast.UntranslatedEntry
	counter := ast.Counter{}

	ast.Walk(rule.Tree, func(key string, value *ast.Value) {
		if !d.fields[key] || !value.IsString() {
			return
		}
		n := counter.Next(key)
		if !ShouldReport(value.Text) {
			return
		}
		line, _ := rule.LineMap.At(key, n)
		entries = append(entries, ast.UntranslatedEntry{
			Field: key,
			Text:  value.Text,
			Line:  line,
		})
	})

	return entries
}

// ShouldReport decides whether a candidate text carries translatable content.
func ShouldReport(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if utf8.RuneCountInString(text) == 1 {
		r, _ := utf8.DecodeRuneInString(text)
		if !unicode.IsLetter(r) {
			return false
		}
	}
	if strings.HasPrefix(text, "$") || strings.HasPrefix(text, "@") {
		return false
	}
	return true
}
