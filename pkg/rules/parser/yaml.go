package parser

import (
	"bytes"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"mathcat/langaudit/pkg/rules/ast"
)

// decode reads data into a YAML node tree, retrying once with tabs
// replaced by spaces unless the parser is strict.
func (p *Parser) decode(data []byte) (*yaml.Node, bool, error) {
	root, err := unmarshalNode(data)
	if err == nil {
		return root, false, nil
	}
	if p.strictMode || !containsTab(data) {
		return nil, false, err
	}

	sanitized := bytes.ReplaceAll(data, []byte("\t"), bytes.Repeat([]byte(" "), p.tabWidth))
	root, retryErr := unmarshalNode(sanitized)
	if retryErr != nil {
		return nil, false, retryErr
	}
	return root, true, nil
}

func unmarshalNode(data []byte) (*yaml.Node, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

func containsTab(data []byte) bool {
	return bytes.IndexByte(data, '\t') >= 0
}

// entry is a top-level document item selected as a rule.
type entry struct {
	line int
	name string
	tag  string
	key  string
	body *yaml.Node
}

// builder converts the YAML node tree of one document into rules.
type builder struct {
	doc   *Document
	p     *Parser
	lines []string
}

func newBuilder(doc *Document, p *Parser) *builder {
	return &builder{
		doc:   doc,
		p:     p,
		lines: splitLines(doc.Source),
	}
}

func (b *builder) build(root *yaml.Node) {
	node := root
	if node == nil || node.Kind == 0 {
		return
	}
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return
		}
		node = node.Content[0]
	}
	node = resolve(node)

	if node.Kind != yaml.SequenceNode {
		if node.Kind == yaml.ScalarNode && node.ShortTag() == ast.TagNull {
			return
		}
		b.doc.warn(node.Line, "document root is not a sequence of rules; no rules read")
		return
	}

	var entries []entry
	if b.doc.Shape == ShapeKeyed {
		entries = b.keyedEntries(node)
	} else {
		entries = b.namedEntries(node)
	}

	b.doc.Rules = make([]*ast.Rule, 0, len(entries))
	firstLine := make(map[string]int, len(entries))

	for i, e := range entries {
		end := len(b.lines) + 1
		if i+1 < len(entries) {
			end = entries[i+1].line
		}
		raw := b.slice(e.line, end)

		lm := ast.LineMap{}
		tree := b.convert(e.body, lm, true)

		rule := &ast.Rule{
			Name:    e.name,
			Tag:     e.tag,
			Key:     e.key,
			Line:    e.line,
			RawText: raw,
			Tree:    tree,
			LineMap: lm,
			Ignored: strings.Contains(raw, b.p.ignoreMarker),
			Keyed:   b.doc.Shape == ShapeKeyed,
		}
		rule.Untranslated = b.p.detector.Find(rule)

		if first, dup := firstLine[rule.Key]; dup {
			b.doc.warn(rule.Line, "duplicate rule key %q (first defined at line %d); the later definition is used", rule.Key, first)
		} else {
			firstLine[rule.Key] = rule.Line
		}

		b.doc.Rules = append(b.doc.Rules, rule)
	}
}

func (b *builder) namedEntries(seq *yaml.Node) []entry {
	entries := make([]entry, 0, len(seq.Content))
	for _, item := range seq.Content {
		item = resolve(item)
		if item.Kind != yaml.MappingNode {
			continue
		}
		nameNode := mappingValue(item, ast.FieldName)
		if nameNode == nil {
			continue
		}
		name := scalarText(nameNode)
		tag := normalizeTag(mappingValue(item, ast.FieldTag))
		entries = append(entries, entry{
			line: item.Line,
			name: name,
			tag:  tag,
			key:  ast.NamedKey(name, tag),
			body: item,
		})
	}
	return entries
}

func (b *builder) keyedEntries(seq *yaml.Node) []entry {
	entries := make([]entry, 0, len(seq.Content))
	for _, item := range seq.Content {
		item = resolve(item)
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			b.doc.warn(item.Line, "entry is not a single-key character or range mapping; skipped")
			continue
		}
		keyNode := resolve(item.Content[0])
		if keyNode.Kind != yaml.ScalarNode {
			b.doc.warn(item.Line, "entry key is not a scalar; skipped")
			continue
		}
		entries = append(entries, entry{
			line: item.Line,
			key:  keyNode.Value,
			body: item.Content[1],
		})
	}
	return entries
}

// convert turns a YAML node into an ast.Value, recording line map entries
// in the same depth-first order that ast.Walk visits fields.
func (b *builder) convert(node *yaml.Node, lm ast.LineMap, top bool) *ast.Value {
	node = resolve(node)
	if node == nil {
		return &ast.Value{Kind: ast.KindNull}
	}

	switch node.Kind {
	case yaml.ScalarNode:
		tag := node.ShortTag()
		if tag == ast.TagNull {
			return &ast.Value{Kind: ast.KindNull, Tag: tag, Text: node.Value}
		}
		return ast.NewScalar(tag, node.Value)

	case yaml.SequenceNode:
		v := &ast.Value{Kind: ast.KindSequence, Items: make([]*ast.Value, 0, len(node.Content))}
		for _, item := range node.Content {
			v.Items = append(v.Items, b.convert(item, lm, false))
		}
		return v

	case yaml.MappingNode:
		v := &ast.Value{Kind: ast.KindMapping, Fields: make([]*ast.Field, 0, len(node.Content)/2)}
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := resolve(node.Content[i])
			valueNode := resolve(node.Content[i+1])
			key := scalarText(keyNode)

			b.record(lm, key, keyNode.Line, valueNode, top)
			v.Fields = append(v.Fields, ast.F(key, b.convert(valueNode, lm, false)))
		}
		return v
	}

	return &ast.Value{Kind: ast.KindNull}
}

// record adds the line of one mapping key to every category it belongs to.
func (b *builder) record(lm ast.LineMap, key string, line int, value *yaml.Node, top bool) {
	if top && key == ast.FieldMatch {
		lm.Add(ast.CategoryMatch, line)
	}
	if ast.IsConditionField(key) && isStringNode(value) {
		lm.Add(ast.CategoryCondition, line)
	}
	if key == ast.FieldVariables {
		for _, bindingLine := range bindingLines(value) {
			lm.Add(ast.CategoryVariables, bindingLine)
		}
	}
	if ast.IsStructureToken(key) {
		lm.Add(ast.StructureCategory(key), line)
	}
	if b.p.detector.IsField(key) && isStringNode(value) {
		lm.Add(key, line)
	}
}

// bindingLines returns the line of every variable name declared by a
// variables field, written either as a mapping or a sequence of mappings.
func bindingLines(value *yaml.Node) []int {
	var lines []int
	switch value.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			lines = append(lines, value.Content[i].Line)
		}
	case yaml.SequenceNode:
		for _, item := range value.Content {
			item = resolve(item)
			if item.Kind != yaml.MappingNode {
				continue
			}
			for i := 0; i+1 < len(item.Content); i += 2 {
				lines = append(lines, item.Content[i].Line)
			}
		}
	}
	return lines
}

// slice returns source lines [start, end) joined with newlines (1-based).
func (b *builder) slice(start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(b.lines)+1 {
		end = len(b.lines) + 1
	}
	if start >= end {
		return ""
	}
	return strings.Join(b.lines[start-1:end-1], "\n")
}

// normalizeTag renders a tag value as a string. Sequences are sorted so
// tag order never affects rule identity.
func normalizeTag(node *yaml.Node) string {
	node = resolve(node)
	if node == nil {
		return ""
	}
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == ast.TagNull {
			return ""
		}
		return node.Value
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			items = append(items, scalarText(item))
		}
		sort.Strings(items)
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return scalarText(node)
	}
}

func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	var found *yaml.Node
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if resolve(mapping.Content[i]).Value == key {
			found = mapping.Content[i+1]
		}
	}
	return found
}

// scalarText returns a scalar's text, or a flow rendering for collections.
func scalarText(node *yaml.Node) string {
	node = resolve(node)
	if node == nil {
		return ""
	}
	if node.Kind == yaml.ScalarNode {
		return node.Value
	}
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	flow := *node
	flow.Style = yaml.FlowStyle
	if err := enc.Encode(&flow); err != nil {
		return ""
	}
	_ = enc.Close()
	return strings.TrimSpace(sb.String())
}

func isStringNode(node *yaml.Node) bool {
	node = resolve(node)
	return node != nil && node.Kind == yaml.ScalarNode && node.ShortTag() == ast.TagString
}

func resolve(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	lines := strings.Split(string(data), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
