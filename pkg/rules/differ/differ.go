package differ

import (
	"slices"
	"sort"
	"strings"

	"mathcat/langaudit/pkg/rules/ast"
)

// Type is the aspect of a rule that differs.
type Type string

const (
	TypeMatch     Type = "match"
	TypeCondition Type = "condition"
	TypeVariables Type = "variables"
	TypeStructure Type = "structure"
)

// Label returns the human-readable heading for the type.
func (t Type) Label() string {
	switch t {
	case TypeMatch:
		return "Match Pattern"
	case TypeCondition:
		return "Conditions"
	case TypeVariables:
		return "Variables"
	case TypeStructure:
		return "Structure"
	default:
		return string(t)
	}
}

// Difference is one logical mismatch between a reference rule and its translation.
type Difference struct {
	Reference         *ast.Rule
	Translated        *ast.Rule
	Type              Type
	Description       string
	ReferenceSnippet  string
	TranslatedSnippet string
}

const noneSnippet = "(none)"

// Diff compares two rules that share a key and returns every difference found.
func Diff(reference, translated *ast.Rule) []Difference {
	var diffs []Difference
	add := func(t Type, description, refSnippet, trSnippet string) {
		diffs = append(diffs, Difference{
			Reference:         reference,
			Translated:        translated,
			Type:              t,
			Description:       description,
			ReferenceSnippet:  refSnippet,
			TranslatedSnippet: trSnippet,
		})
	}

	refMatch := NormalizeWhitespace(MatchPattern(reference.Tree))
	trMatch := NormalizeWhitespace(MatchPattern(translated.Tree))
	if refMatch != "" && trMatch != "" && refMatch != trMatch {
		add(TypeMatch, "Match pattern differs", refMatch, trMatch)
	}

	refConds := newSet(Conditions(reference.Tree))
	trConds := newSet(Conditions(translated.Tree))
	if !refConds.equal(trConds) {
		add(TypeCondition, "Conditions differ", joinSorted(refConds), joinSorted(trConds))
	}

	refVars := newSet(VariableNames(reference.Tree))
	trVars := newSet(VariableNames(translated.Tree))
	if !refVars.equal(trVars) {
		add(TypeVariables, "Variable definitions differ", joinSorted(refVars), joinSorted(trVars))
	}

	refTokens := StructureTokens(reference.Tree)
	trTokens := StructureTokens(translated.Tree)
	if !slices.Equal(refTokens, trTokens) {
		add(TypeStructure, "Rule structure differs (test/if/then/else blocks)",
			renderTokens(refTokens), renderTokens(trTokens))
	}

	return diffs
}

func joinSorted(s set) string {
	if len(s) == 0 {
		return noneSnippet
	}
	items := make([]string, 0, len(s))
	for item := range s {
		items = append(items, item)
	}
	sort.Strings(items)
	return strings.Join(items, ", ")
}

func renderTokens(tokens []string) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t + ":"
	}
	return strings.Join(parts, " ")
}
