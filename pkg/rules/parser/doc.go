// Package parser turns rule documents into comparable Rule records.
//
// Two document shapes are supported, selected by file name:
//
// Named-rule documents (everything except the keyed files) are sequences
// of mappings carrying "name" and "tag" fields:
//
//	- name: default
//	  tag: mfrac
//	  match: "."
//	  replace:
//	    - t: "fraction"
//
// Each item becomes a Rule keyed "name|tag". A tag written as a sequence is
// normalized to a sorted "[a, b]" string so reordering tags never creates a
// spurious difference. A missing tag is keyed as "unknown".
//
// Keyed documents (unicode.yaml and unicode-full.yaml by default) are
// sequences of single-key mappings:
//
//	- "a": [t: "a"]
//	- "0-9": [t: "digit"]
//
// Each item becomes a Rule whose key is the character or range.
//
// # Line Tracking
//
// Start lines come from the YAML reader's node positions, so they stay
// correct regardless of quoting or escaping. While converting a rule body
// the parser records, per rule, the lines of every match pattern, condition,
// variable binding, structural token and untranslated-text field in walk
// order (see ast.LineMap). The raw text of a rule is the slice of source
// between its start line and the next rule's start line.
//
// # Tabs
//
// YAML forbids tabs for indentation. When a document fails to parse and
// contains tabs, the parser replaces every tab with a run of spaces and
// parses once more. WithStrictMode(true) disables the retry and returns the
// original error, which is what conformance tooling wants.
//
// # Usage
//
//	p := parser.NewParser()
//	doc, err := p.Parse("Rules/Languages/de/SharedRules/general.yaml")
//	if err != nil {
//	    return err
//	}
//	for _, w := range doc.Warnings {
//	    log.Println(w.Message)
//	}
package parser
