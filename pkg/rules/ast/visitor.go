package ast

// FieldVisitor is called for every mapping field found while walking a tree.
type FieldVisitor func(key string, value *Value)

// Walk traverses the tree rooted at v depth-first in document order and
// calls visit for each mapping field before descending into its value.
// Sequences are descended into item by item; scalars end the walk.
//
// Every tree analysis (untranslated text, conditions, variables, structure)
// is a Walk with a different visitor, so they all agree on visiting order.
// The line map built by the parser relies on that order.
func Walk(v *Value, visit FieldVisitor) {
	if v == nil {
		return
	}
	switch v.Kind {
	case KindMapping:
		for _, f := range v.Fields {
			visit(f.Key, f.Value)
			Walk(f.Value, visit)
		}
	case KindSequence:
		for _, item := range v.Items {
			Walk(item, visit)
		}
	}
}
