package ast

import "strings"

// Kind identifies the shape of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindMapping
	KindSequence
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "null"
	}
}

// Scalar tags as resolved by the YAML reader.
const (
	TagString = "!!str"
	TagInt    = "!!int"
	TagFloat  = "!!float"
	TagBool   = "!!bool"
	TagNull   = "!!null"
)

// Value is one node of a rule tree.
// Exactly one of Text, Fields or Items is meaningful, selected by Kind.
type Value struct {
	Kind Kind

	// Tag is the resolved scalar tag (TagString, TagInt, ...). Empty for
	// mappings and sequences.
	Tag string

	// Text is the scalar's text as written (quotes removed).
	Text string

	// Fields holds mapping entries in document order.
	Fields []*Field

	// Items holds sequence elements.
	Items []*Value
}

// Field is a single key/value pair of a mapping.
type Field struct {
	Key   string
	Value *Value
}

// NewString returns a string scalar.
func NewString(s string) *Value {
	return &Value{Kind: KindScalar, Tag: TagString, Text: s}
}

// NewScalar returns a scalar with an explicit tag.
func NewScalar(tag, text string) *Value {
	return &Value{Kind: KindScalar, Tag: tag, Text: text}
}

// NewMapping returns a mapping with the given fields.
func NewMapping(fields ...*Field) *Value {
	return &Value{Kind: KindMapping, Fields: fields}
}

// NewSequence returns a sequence with the given items.
func NewSequence(items ...*Value) *Value {
	return &Value{Kind: KindSequence, Items: items}
}

// F is shorthand for building a mapping field.
func F(key string, value *Value) *Field {
	return &Field{Key: key, Value: value}
}

// IsMapping returns true if the value is a mapping.
func (v *Value) IsMapping() bool {
	return v != nil && v.Kind == KindMapping
}

// IsSequence returns true if the value is a sequence.
func (v *Value) IsSequence() bool {
	return v != nil && v.Kind == KindSequence
}

// IsString returns true if the value is a scalar resolved as a string.
// Numbers, booleans and nulls written without quotes are not strings.
func (v *Value) IsString() bool {
	return v != nil && v.Kind == KindScalar && v.Tag == TagString
}

// Get returns the value stored under key in a mapping, or nil.
// When a key is repeated the last occurrence wins, as in a YAML load.
func (v *Value) Get(key string) *Value {
	if !v.IsMapping() {
		return nil
	}
	var found *Value
	for _, f := range v.Fields {
		if f.Key == key {
			found = f.Value
		}
	}
	return found
}

// Has returns true if the mapping contains key.
func (v *Value) Has(key string) bool {
	if !v.IsMapping() {
		return false
	}
	for _, f := range v.Fields {
		if f.Key == key {
			return true
		}
	}
	return false
}

// Len returns the number of fields or items; zero for scalars.
func (v *Value) Len() int {
	switch {
	case v.IsMapping():
		return len(v.Fields)
	case v.IsSequence():
		return len(v.Items)
	default:
		return 0
	}
}

// String renders the value in a compact flow style. It is used for
// snippets and tag normalization, not for round-tripping.
func (v *Value) String() string {
	if v == nil {
		return ""
	}
	switch v.Kind {
	case KindScalar:
		return v.Text
	case KindSequence:
		parts := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			parts = append(parts, item.String())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMapping:
		parts := make([]string, 0, len(v.Fields))
		for _, f := range v.Fields {
			parts = append(parts, f.Key+": "+f.Value.String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return ""
	}
}
