package ast

// Field names with a fixed meaning in rule bodies.
const (
	FieldName      = "name"
	FieldTag       = "tag"
	FieldMatch     = "match"
	FieldIf        = "if"
	FieldElseIf    = "else_if"
	FieldVariables = "variables"
)

// StructureTokens is the control-flow vocabulary that makes up a rule's
// structural skeleton.
var StructureTokens = []string{
	"test", "if", "else_if", "then", "else", "then_test", "else_test",
	"with", "replace", "intent",
}

var structureTokenSet = func() map[string]bool {
	m := make(map[string]bool, len(StructureTokens))
	for _, t := range StructureTokens {
		m[t] = true
	}
	return m
}()

// IsStructureToken returns true if key belongs to the structural vocabulary.
func IsStructureToken(key string) bool {
	return structureTokenSet[key]
}

// IsConditionField returns true for fields holding a condition expression.
func IsConditionField(key string) bool {
	return key == FieldIf || key == FieldElseIf
}
