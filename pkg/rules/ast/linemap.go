package ast

// Line map categories.
const (
	CategoryMatch     = "match"
	CategoryCondition = "condition"
	CategoryVariables = "variables"

	structurePrefix = "structure:"
)

// StructureCategory returns the line map category of a structural token.
func StructureCategory(token string) string {
	return structurePrefix + token
}

// LineMap maps an element category to the ordered source lines where
// elements of that category occur in one rule.
type LineMap map[string][]int

// Add appends a line for category.
func (m LineMap) Add(category string, line int) {
	m[category] = append(m[category], line)
}

// Lines returns every recorded line for category.
func (m LineMap) Lines(category string) []int {
	return m[category]
}

// At returns the line of the n-th (0-based) occurrence of category.
func (m LineMap) At(category string, n int) (int, bool) {
	lines := m[category]
	if n < 0 || n >= len(lines) {
		return 0, false
	}
	return lines[n], true
}

// First returns the first recorded line for category.
func (m LineMap) First(category string) (int, bool) {
	return m.At(category, 0)
}

// Counter hands out occurrence indexes per category so that repeated
// elements resolve to successive recorded lines.
type Counter map[string]int

// Next returns the current occurrence index for category and advances it.
func (c Counter) Next(category string) int {
	n := c[category]
	c[category] = n + 1
	return n
}
