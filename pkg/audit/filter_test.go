package audit

import (
	"errors"
	"testing"
)

func TestParseIssueFilter(t *testing.T) {
	tests := []struct {
		input   string
		include []Category
		exclude []Category
		str     string
	}{
		{"", Categories, nil, "all"},
		{"all", Categories, nil, "all"},
		{"missing", []Category{CategoryMissing}, []Category{CategoryExtra, CategoryUntranslated, CategoryDiffs}, "missing"},
		{" Diffs , missing ", []Category{CategoryMissing, CategoryDiffs}, []Category{CategoryExtra, CategoryUntranslated}, "diffs,missing"},
		{"extra,all", Categories, nil, "all"},
		{"untranslated,", []Category{CategoryUntranslated}, []Category{CategoryMissing}, "untranslated"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseIssueFilter(tt.input)
			if err != nil {
				t.Fatalf("ParseIssueFilter(%q) error = %v", tt.input, err)
			}
			for _, c := range tt.include {
				if !f.Includes(c) {
					t.Errorf("Includes(%q) = false, want true", c)
				}
			}
			for _, c := range tt.exclude {
				if f.Includes(c) {
					t.Errorf("Includes(%q) = true, want false", c)
				}
			}
			if got := f.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
		})
	}
}

func TestParseIssueFilter_Unknown(t *testing.T) {
	for _, input := range []string{"missng", "missing,bogus", "differences"} {
		if _, err := ParseIssueFilter(input); !errors.Is(err, ErrUnknownCategory) {
			t.Errorf("ParseIssueFilter(%q) error = %v, want ErrUnknownCategory", input, err)
		}
	}
}

func TestIssueFilter_ZeroValueSelectsAll(t *testing.T) {
	var f IssueFilter
	for _, c := range Categories {
		if !f.Includes(c) {
			t.Errorf("zero IssueFilter.Includes(%q) = false", c)
		}
	}
}
