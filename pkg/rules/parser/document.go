package parser

import (
	"mathcat/langaudit/pkg/rules/ast"
	rulesErrors "mathcat/langaudit/pkg/rules/errors"
)

// Shape identifies how the entries of a document are keyed.
type Shape string

const (
	// ShapeNamed documents hold rules with name/tag fields.
	ShapeNamed Shape = "named"
	// ShapeKeyed documents hold single-key character or range entries.
	ShapeKeyed Shape = "keyed"
)

// Document is a parsed rule file.
type Document struct {
	Path   string
	Shape  Shape
	Source []byte
	Rules  []*ast.Rule

	// Warnings holds anomalies that did not stop parsing: duplicate keys,
	// malformed keyed entries, non-sequence roots.
	Warnings []*rulesErrors.Error

	// TabsReplaced is set when the document only parsed after tab replacement.
	TabsReplaced bool
}

// EmptyDocument returns a document with no rules, used for translated
// files that do not exist.
func EmptyDocument(path string, shape Shape) *Document {
	return &Document{Path: path, Shape: shape}
}

// Index is a key lookup over a document's rules.
type Index struct {
	// Keys lists every distinct key in order of first appearance.
	Keys []string

	byKey map[string]*ast.Rule
}

// Lookup returns the rule for key.
func (ix *Index) Lookup(key string) (*ast.Rule, bool) {
	r, ok := ix.byKey[key]
	return r, ok
}

// Len returns the number of distinct keys.
func (ix *Index) Len() int {
	return len(ix.Keys)
}

// Index builds the key lookup for the document's rules. When a key repeats,
// the last rule wins and the key keeps the position of its first appearance.
func (d *Document) Index() *Index {
	ix := &Index{
		Keys:  make([]string, 0, len(d.Rules)),
		byKey: make(map[string]*ast.Rule, len(d.Rules)),
	}
	for _, r := range d.Rules {
		if _, seen := ix.byKey[r.Key]; !seen {
			ix.Keys = append(ix.Keys, r.Key)
		}
		ix.byKey[r.Key] = r
	}
	return ix
}

// Overlay returns a new document holding d's rules with every rule of
// region applied on top: rules sharing a key are replaced in place and
// region-only rules are appended in region order. Neither input is modified.
func (d *Document) Overlay(region *Document) *Document {
	if region == nil {
		return d
	}

	regionIndex := region.Index()
	merged := &Document{
		Path:         d.Path,
		Shape:        d.Shape,
		Source:       d.Source,
		Rules:        make([]*ast.Rule, 0, len(d.Rules)+len(region.Rules)),
		Warnings:     append(append([]*rulesErrors.Error(nil), d.Warnings...), region.Warnings...),
		TabsReplaced: d.TabsReplaced || region.TabsReplaced,
	}

	used := make(map[string]bool, regionIndex.Len())
	for _, r := range d.Rules {
		if override, ok := regionIndex.Lookup(r.Key); ok {
			if !used[r.Key] {
				merged.Rules = append(merged.Rules, override)
				used[r.Key] = true
			}
			continue
		}
		merged.Rules = append(merged.Rules, r)
	}
	for _, key := range regionIndex.Keys {
		if used[key] {
			continue
		}
		r, _ := regionIndex.Lookup(key)
		merged.Rules = append(merged.Rules, r)
	}
	return merged
}

func (d *Document) warn(line int, format string, args ...any) {
	d.Warnings = append(d.Warnings, rulesErrors.Structural(d.Path, line, format, args...))
}
