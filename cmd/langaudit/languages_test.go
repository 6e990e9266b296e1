package main

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"mathcat/langaudit/pkg/corpus"
)

func TestLanguagesJSON(t *testing.T) {
	out, err := execute(t, "languages", "--format", "json")
	if err != nil {
		t.Fatalf("languages error = %v", err)
	}

	var got []corpus.Language
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	want := []corpus.Language{
		{Code: "de", FileCount: 3},
		{Code: "zz", FileCount: 1},
		{Code: "zz-aa", Region: true, FileCount: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("languages = %+v, want %+v", got, want)
	}
}

func TestLanguagesText(t *testing.T) {
	out, err := execute(t, "languages")
	if err != nil {
		t.Fatalf("languages error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "LANGUAGE") {
		t.Errorf("header = %q", lines[0])
	}
	if fields := strings.Fields(lines[3]); !reflect.DeepEqual(fields, []string{"zz-aa", "true", "1"}) {
		t.Errorf("region row = %v", fields)
	}
}

func TestLanguagesCSV(t *testing.T) {
	out, err := execute(t, "languages", "--format", "csv")
	if err != nil {
		t.Fatalf("languages error = %v", err)
	}
	want := "language,region,files\nde,false,3\nzz,false,1\nzz-aa,true,1\n"
	if out != want {
		t.Errorf("csv = %q, want %q", out, want)
	}
}

func TestLanguagesUnknownFormat(t *testing.T) {
	if _, err := execute(t, "languages", "--format", "xml"); err == nil {
		t.Error("languages --format xml should fail")
	}
}
