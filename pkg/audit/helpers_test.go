package audit

import (
	"os"
	"path/filepath"
	"testing"

	"mathcat/langaudit/pkg/rules/ast"
	"mathcat/langaudit/pkg/rules/parser"
)

func parseDoc(t *testing.T, src, path string) *parser.Document {
	t.Helper()
	doc, err := parser.NewParser().ParseBytes([]byte(src), path)
	if err != nil {
		t.Fatalf("ParseBytes(%s) failed: %v", path, err)
	}
	return doc
}

func ruleKeys(rules []*ast.Rule) []string {
	keys := make([]string, 0, len(rules))
	for _, r := range rules {
		keys = append(keys, r.Key)
	}
	return keys
}

// writeTree writes files (slash-separated path → content) below root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}
}
