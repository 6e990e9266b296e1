package ast

// UnknownTag is used in keys of named rules that carry no tag.
const UnknownTag = "unknown"

// Rule represents a single entry of a rule document.
// Named rules carry Name and Tag; keyed entries (unicode files) carry only
// a Key, which is the character or range they describe.
type Rule struct {
	Name    string // Rule name; empty for keyed entries
	Tag     string // Normalized tag; empty when absent
	Key     string // Identity used to match rules across documents
	Line    int    // Line where the rule starts (1-based)
	RawText string // Exact source text of the rule
	Tree    *Value // Parsed rule body
	LineMap LineMap

	// Untranslated lists leaf texts still written under lowercase fields.
	Untranslated []UntranslatedEntry

	// Ignored is set when the rule text carries the audit-ignore marker.
	Ignored bool

	// Keyed is true for entries of keyed (unicode) documents.
	Keyed bool
}

// UntranslatedEntry is one leaf text that has not been reviewed.
type UntranslatedEntry struct {
	Field string // Field name it was found under (t, ot, ct, ...)
	Text  string // The text value
	Line  int    // Source line; 0 when it could not be resolved
}

// NamedKey builds the key of a named rule.
func NamedKey(name, tag string) string {
	return name + "|" + DisplayTag(tag)
}

// HasUntranslatedText returns true if any untranslated entry was found.
func (r *Rule) HasUntranslatedText() bool {
	return len(r.Untranslated) > 0
}

// UntranslatedTexts returns the text of every untranslated entry.
func (r *Rule) UntranslatedTexts() []string {
	texts := make([]string, 0, len(r.Untranslated))
	for _, e := range r.Untranslated {
		texts = append(texts, e.Text)
	}
	return texts
}

// DisplayTag returns tag, or UnknownTag when it is empty.
func DisplayTag(tag string) string {
	if tag == "" {
		return UnknownTag
	}
	return tag
}
