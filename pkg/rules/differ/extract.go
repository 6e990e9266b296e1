package differ

import (
	"strings"

	"mathcat/langaudit/pkg/rules/ast"
)

// NormalizeWhitespace collapses every run of whitespace to a single space
// and trims the ends.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// MatchPattern returns the rule's top-level match pattern. A list of
// strings is joined with spaces; anything else yields "".
func MatchPattern(tree *ast.Value) string {
	m := tree.Get(ast.FieldMatch)
	switch {
	case m.IsString():
		return m.Text
	case m.IsSequence():
		parts := make([]string, 0, len(m.Items))
		for _, item := range m.Items {
			parts = append(parts, item.String())
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// Conditions returns every if/else_if expression in walk order, whitespace normalized.
func Conditions(tree *ast.Value) []string {
	var conditions []string
	ast.Walk(tree, func(key string, value *ast.Value) {
		if ast.IsConditionField(key) && value.IsString() {
			conditions = append(conditions, NormalizeWhitespace(value.Text))
		}
	})
	return conditions
}

// VariableNames returns the names declared under every variables field, in
// walk order. Bindings may be written as a mapping or a list of mappings.
func VariableNames(tree *ast.Value) []string {
	var names []string
	ast.Walk(tree, func(key string, value *ast.Value) {
		if key != ast.FieldVariables {
			return
		}
		switch {
		case value.IsMapping():
			for _, f := range value.Fields {
				names = append(names, f.Key)
			}
		case value.IsSequence():
			for _, item := range value.Items {
				if !item.IsMapping() {
					continue
				}
				for _, f := range item.Fields {
					names = append(names, f.Key)
				}
			}
		}
	})
	return names
}

// StructureTokens returns the rule's structural skeleton: the ordered list
// of control-flow field names, with all text payload discarded.
func StructureTokens(tree *ast.Value) []string {
	var tokens []string
	ast.Walk(tree, func(key string, _ *ast.Value) {
		if ast.IsStructureToken(key) {
			tokens = append(tokens, key)
		}
	})
	return tokens
}

// set is a string set with deterministic rendering.
type set map[string]struct{}

func newSet(items []string) set {
	s := make(set, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

func (s set) has(item string) bool {
	_, ok := s[item]
	return ok
}

func (s set) equal(other set) bool {
	if len(s) != len(other) {
		return false
	}
	for item := range s {
		if !other.has(item) {
			return false
		}
	}
	return true
}
