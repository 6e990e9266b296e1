// Package ast provides the in-memory model of a parsed rule document.
//
// A rule document is a YAML sequence whose items are either named rules
// (mappings carrying "name" and "tag" fields) or keyed entries (single-key
// mappings such as `"a": [...]` or `"0-9": [...]` in unicode files).
// Rule bodies have no fixed schema, so the parsed tree is modelled as a
// tagged recursive Value (mapping, sequence or scalar) and every analysis
// over it is written as a recursive walk.
//
// # Core Types
//
// Value: a node of the rule tree. Mappings keep their fields in document order.
//
// Rule: one entry of a document with its derived key, start line, raw source
// text, tree and line map.
//
// LineMap: element category -> ordered source lines. It lets a caller turn
// "the third `t:` in this rule" into a line number without the tree carrying
// source positions.
//
// Location: source location (file, line, column) used by error reporting.
//
// # Basic Usage
//
//	doc, err := parser.NewParser().Parse("Rules/Languages/en/general.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, rule := range doc.Rules {
//	    fmt.Println(rule.Key, "line", rule.Line)
//	}
//
// Walk every mapping field of a rule tree:
//
//	ast.Walk(rule.Tree, func(key string, value *ast.Value) {
//	    if key == "if" {
//	        fmt.Println("condition:", value.Text())
//	    }
//	})
package ast
