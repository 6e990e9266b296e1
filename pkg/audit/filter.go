package audit

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	rulesErrors "mathcat/langaudit/pkg/rules/errors"
)

// Category is a class of issue that can be selected for a run.
type Category string

const (
	CategoryMissing      Category = "missing"
	CategoryUntranslated Category = "untranslated"
	CategoryExtra        Category = "extra"
	CategoryDiffs        Category = "diffs"
)

// Categories lists every category in report order.
var Categories = []Category{CategoryMissing, CategoryUntranslated, CategoryExtra, CategoryDiffs}

// ErrUnknownCategory is returned for an issue filter token that names no category.
var ErrUnknownCategory = errors.New("unknown issue type")

// IssueFilter selects the categories a comparison reports.
// The zero value selects everything.
type IssueFilter struct {
	only map[Category]bool
}

// AllIssues selects every category.
func AllIssues() IssueFilter {
	return IssueFilter{}
}

// NewIssueFilter selects exactly the given categories.
func NewIssueFilter(categories ...Category) IssueFilter {
	if len(categories) == 0 {
		return IssueFilter{}
	}
	f := IssueFilter{only: make(map[Category]bool, len(categories))}
	for _, c := range categories {
		f.only[c] = true
	}
	return f
}

// ParseIssueFilter parses a comma-separated category list such as
// "missing,diffs". An empty string or "all" selects everything.
func ParseIssueFilter(s string) (IssueFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "all" {
		return AllIssues(), nil
	}

	valid := make([]string, len(Categories))
	for i, c := range Categories {
		valid[i] = string(c)
	}

	var categories []Category
	for _, token := range strings.Split(s, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		if token == "all" {
			return AllIssues(), nil
		}
		c := Category(token)
		if !isCategory(c) {
			return IssueFilter{}, fmt.Errorf("%w %q: %s", ErrUnknownCategory, token, rulesErrors.SuggestName(token, valid))
		}
		categories = append(categories, c)
	}
	return NewIssueFilter(categories...), nil
}

func isCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Includes returns true if the filter selects category c.
func (f IssueFilter) Includes(c Category) bool {
	return len(f.only) == 0 || f.only[c]
}

// String renders the selected categories, "all" for everything.
func (f IssueFilter) String() string {
	if len(f.only) == 0 {
		return "all"
	}
	names := make([]string, 0, len(f.only))
	for c := range f.only {
		names = append(names, string(c))
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
