package differ

import "mathcat/langaudit/pkg/rules/ast"

// Lines holds the resolved source lines of a difference on both sides.
type Lines struct {
	Reference  int
	Translated int
}

// Locate resolves the lines a difference refers to. It returns false for
// structural differences whose token lists are misaligned, which must not
// be reported.
func Locate(d Difference) (Lines, bool) {
	ref, tr := d.Reference, d.Translated

	switch d.Type {
	case TypeMatch:
		return Lines{
			Reference:  firstOr(ref, ast.CategoryMatch),
			Translated: firstOr(tr, ast.CategoryMatch),
		}, true

	case TypeCondition:
		refItems, trItems := Conditions(ref.Tree), Conditions(tr.Tree)
		return Lines{
			Reference:  firstUnshared(ref, ast.CategoryCondition, refItems, newSet(trItems)),
			Translated: firstUnshared(tr, ast.CategoryCondition, trItems, newSet(refItems)),
		}, true

	case TypeVariables:
		refItems, trItems := VariableNames(ref.Tree), VariableNames(tr.Tree)
		return Lines{
			Reference:  firstUnshared(ref, ast.CategoryVariables, refItems, newSet(trItems)),
			Translated: firstUnshared(tr, ast.CategoryVariables, trItems, newSet(refItems)),
		}, true

	case TypeStructure:
		return locateStructure(ref, tr)
	}

	return Lines{Reference: ref.Line, Translated: tr.Line}, true
}

// locateStructure finds the first index where the token lists disagree.
// If one list is exhausted there, the token present on the other side is
// missing and both sides are located. If both lists still have a token,
// the lists are shifted against each other and the difference is dropped.
func locateStructure(ref, tr *ast.Rule) (Lines, bool) {
	refTokens := StructureTokens(ref.Tree)
	trTokens := StructureTokens(tr.Tree)

	i := 0
	for i < len(refTokens) && i < len(trTokens) && refTokens[i] == trTokens[i] {
		i++
	}

	switch {
	case i < len(refTokens) && i < len(trTokens):
		return Lines{}, false
	case i < len(refTokens):
		token := refTokens[i]
		n := occurrence(refTokens, i)
		return Lines{
			Reference:  tokenLine(ref, token, n),
			Translated: tokenLine(tr, token, n),
		}, true
	case i < len(trTokens):
		token := trTokens[i]
		n := occurrence(trTokens, i)
		return Lines{
			Reference:  tokenLine(ref, token, n),
			Translated: tokenLine(tr, token, n),
		}, true
	default:
		// Lists are equal; nothing to point at.
		return Lines{}, false
	}
}

// occurrence counts how many times tokens[i] appears before index i.
func occurrence(tokens []string, i int) int {
	n := 0
	for _, t := range tokens[:i] {
		if t == tokens[i] {
			n++
		}
	}
	return n
}

func tokenLine(rule *ast.Rule, token string, n int) int {
	if line, ok := rule.LineMap.At(ast.StructureCategory(token), n); ok {
		return line
	}
	return rule.Line
}

func firstOr(rule *ast.Rule, category string) int {
	if line, ok := rule.LineMap.First(category); ok {
		return line
	}
	return rule.Line
}

// firstUnshared returns the line of the first item not present in other,
// falling back to the first line of the category and then the rule start.
func firstUnshared(rule *ast.Rule, category string, items []string, other set) int {
	for i, item := range items {
		if other.has(item) {
			continue
		}
		if line, ok := rule.LineMap.At(category, i); ok {
			return line
		}
		break
	}
	return firstOr(rule, category)
}
