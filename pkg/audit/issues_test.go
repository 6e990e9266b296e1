package audit

import (
	"encoding/json"
	"strings"
	"testing"
)

const issuesReference = `- name: a
  tag: mo
  match: "."
  replace: [T: "z"]
- name: b
  tag: mi
`

const issuesTranslated = `- name: a
  tag: mo
  match: "*"
  replace:
  - t: "one"
  - ot: "two"
- name: c
  tag: mn
`

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func collectTestIssues(t *testing.T, opts ProjectOptions) []Issue {
	t.Helper()
	ref := parseDoc(t, issuesReference, "en/general.yaml")
	tr := parseDoc(t, issuesTranslated, "de/general.yaml")
	return CollectIssues(Compare(ref, tr, AllIssues()), "general.yaml", "de", opts)
}

func TestCollectIssues(t *testing.T) {
	issues := collectTestIssues(t, ProjectOptions{})

	type want struct {
		issueType        IssueType
		key              string
		issueEN, issueTR int
		ruleEN, ruleTR   int
		untranslated     string
		description      string
		diffType         string
	}
	wants := []want{
		{IssueMissingRule, "b|mi", 5, 0, 5, 0, "", DescriptionMissing, ""},
		{IssueExtraRule, "c|mn", 0, 7, 0, 7, "", DescriptionExtra, ""},
		{IssueUntranslatedText, "a|mo", 0, 5, 0, 1, "one", DescriptionUntranslated, ""},
		{IssueUntranslatedText, "a|mo", 0, 6, 0, 1, "two", DescriptionUntranslated, ""},
		{IssueRuleDifference, "a|mo", 3, 3, 1, 1, "", "", "match"},
	}

	if len(issues) != len(wants) {
		t.Fatalf("len(issues) = %d, want %d: %+v", len(issues), len(wants), issues)
	}

	for i, w := range wants {
		got := issues[i]
		if got.IssueType != w.issueType || got.RuleKey != w.key {
			t.Errorf("issues[%d] = %s %s, want %s %s", i, got.IssueType, got.RuleKey, w.issueType, w.key)
			continue
		}
		if got.Language != "de" || got.File != "general.yaml" {
			t.Errorf("issues[%d] language/file = %q/%q", i, got.Language, got.File)
		}
		if intValue(got.IssueLineEN) != w.issueEN || intValue(got.IssueLineTR) != w.issueTR {
			t.Errorf("issues[%d] issue lines = %d/%d, want %d/%d", i,
				intValue(got.IssueLineEN), intValue(got.IssueLineTR), w.issueEN, w.issueTR)
		}
		if intValue(got.RuleLineEN) != w.ruleEN || intValue(got.RuleLineTR) != w.ruleTR {
			t.Errorf("issues[%d] rule lines = %d/%d, want %d/%d", i,
				intValue(got.RuleLineEN), intValue(got.RuleLineTR), w.ruleEN, w.ruleTR)
		}
		if w.untranslated != "" && (len(got.UntranslatedTexts) != 1 || got.UntranslatedTexts[0] != w.untranslated) {
			t.Errorf("issues[%d] UntranslatedTexts = %v, want [%s]", i, got.UntranslatedTexts, w.untranslated)
		}
		if w.description != "" && got.Description != w.description {
			t.Errorf("issues[%d] Description = %q, want %q", i, got.Description, w.description)
		}
		if got.DiffType != w.diffType {
			t.Errorf("issues[%d] DiffType = %q, want %q", i, got.DiffType, w.diffType)
		}
		if got.EnglishRaw != "" || got.TranslatedRaw != "" {
			t.Errorf("issues[%d] carries raw text without IncludeRaw", i)
		}
	}

	diff := issues[4]
	if diff.EnglishSnippet != "." || diff.TranslatedSnippet != "*" {
		t.Errorf("snippets = %q/%q, want %q/%q", diff.EnglishSnippet, diff.TranslatedSnippet, ".", "*")
	}
}

func TestCollectIssues_AbsentLinesAreNull(t *testing.T) {
	issues := collectTestIssues(t, ProjectOptions{})

	data, err := json.Marshal(issues[0])
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(data)
	for _, want := range []string{
		`"issue_line_tr":null`,
		`"rule_line_tr":null`,
		`"issue_line_en":5`,
		`"untranslated_texts":[]`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON missing %s: %s", want, s)
		}
	}
	if strings.Contains(s, "english_raw") || strings.Contains(s, "suggestion") {
		t.Errorf("JSON carries optional fields: %s", s)
	}
}

func TestCollectIssues_IncludeRaw(t *testing.T) {
	issues := collectTestIssues(t, ProjectOptions{IncludeRaw: true})

	missing := issues[0]
	if !strings.HasPrefix(missing.EnglishRaw, "- name: b") || missing.TranslatedRaw != "" {
		t.Errorf("missing raw = %q/%q", missing.EnglishRaw, missing.TranslatedRaw)
	}
	extra := issues[1]
	if extra.EnglishRaw != "" || !strings.HasPrefix(extra.TranslatedRaw, "- name: c") {
		t.Errorf("extra raw = %q/%q", extra.EnglishRaw, extra.TranslatedRaw)
	}
	diff := issues[4]
	if !strings.HasPrefix(diff.EnglishRaw, "- name: a") || !strings.HasPrefix(diff.TranslatedRaw, "- name: a") {
		t.Errorf("difference raw = %q/%q", diff.EnglishRaw, diff.TranslatedRaw)
	}
}

func TestCountIssues(t *testing.T) {
	counts := CountIssues(collectTestIssues(t, ProjectOptions{}))
	want := Counts{Missing: 1, Untranslated: 2, Extra: 1, Differences: 1}
	if counts != want {
		t.Errorf("CountIssues() = %+v, want %+v", counts, want)
	}
	if counts.Total() != 5 {
		t.Errorf("Total() = %d, want 5", counts.Total())
	}

	counts.Add(Counts{Missing: 2, Differences: 1})
	if counts.Missing != 3 || counts.Differences != 2 {
		t.Errorf("Add() = %+v", counts)
	}
}

func TestIssueType_Category(t *testing.T) {
	tests := map[IssueType]Category{
		IssueMissingRule:      CategoryMissing,
		IssueExtraRule:        CategoryExtra,
		IssueUntranslatedText: CategoryUntranslated,
		IssueRuleDifference:   CategoryDiffs,
	}
	for issueType, want := range tests {
		if got := issueType.Category(); got != want {
			t.Errorf("%s.Category() = %q, want %q", issueType, got, want)
		}
	}
}
