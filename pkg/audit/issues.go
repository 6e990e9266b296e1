package audit

import (
	"mathcat/langaudit/pkg/rules/ast"
	"mathcat/langaudit/pkg/rules/differ"
)

// IssueType is the kind of an issue record.
type IssueType string

const (
	IssueMissingRule      IssueType = "missing_rule"
	IssueExtraRule        IssueType = "extra_rule"
	IssueUntranslatedText IssueType = "untranslated_text"
	IssueRuleDifference   IssueType = "rule_difference"
)

// Category returns the filter category that produces this issue type.
func (t IssueType) Category() Category {
	switch t {
	case IssueMissingRule:
		return CategoryMissing
	case IssueExtraRule:
		return CategoryExtra
	case IssueUntranslatedText:
		return CategoryUntranslated
	default:
		return CategoryDiffs
	}
}

// Issue descriptions.
const (
	DescriptionMissing      = "Rule present in English but missing in translation"
	DescriptionExtra        = "Rule present in translation but missing in English"
	DescriptionUntranslated = "Lowercase t/ot/ct keys indicate untranslated text"
)

// Issue is one flat audit finding. Line fields are nil where they do not
// apply to the issue's side.
type Issue struct {
	Language          string    `json:"language"`
	File              string    `json:"file"`
	IssueType         IssueType `json:"issue_type"`
	DiffType          string    `json:"diff_type"`
	RuleName          string    `json:"rule_name"`
	RuleTag           string    `json:"rule_tag"`
	RuleKey           string    `json:"rule_key"`
	IssueLineEN       *int      `json:"issue_line_en"`
	IssueLineTR       *int      `json:"issue_line_tr"`
	RuleLineEN        *int      `json:"rule_line_en"`
	RuleLineTR        *int      `json:"rule_line_tr"`
	Description       string    `json:"description"`
	EnglishSnippet    string    `json:"english_snippet"`
	TranslatedSnippet string    `json:"translated_snippet"`
	UntranslatedTexts []string  `json:"untranslated_texts"`

	// Suggestion is a proposed translation of an untranslated text.
	Suggestion string `json:"suggestion,omitempty"`

	// Raw rule text, set only when requested.
	EnglishRaw    string `json:"english_raw,omitempty"`
	TranslatedRaw string `json:"translated_raw,omitempty"`
}

// ProjectOptions controls issue projection.
type ProjectOptions struct {
	// IncludeRaw attaches the raw rule text of the sides involved.
	IncludeRaw bool
}

// CollectIssues flattens a comparison result into issue records: one per
// missing rule, per extra rule, per untranslated string and per locatable
// rule difference, in that order. Structural differences that cannot be
// located unambiguously are dropped.
func CollectIssues(result *ComparisonResult, file, language string, opts ProjectOptions) []Issue {
	var issues []Issue

	for _, rule := range result.MissingRules {
		issue := issueBase(rule, file, language)
		issue.IssueType = IssueMissingRule
		issue.IssueLineEN = lineRef(rule.Line)
		issue.RuleLineEN = lineRef(rule.Line)
		issue.Description = DescriptionMissing
		if opts.IncludeRaw {
			issue.EnglishRaw = rule.RawText
		}
		issues = append(issues, issue)
	}

	for _, rule := range result.ExtraRules {
		issue := issueBase(rule, file, language)
		issue.IssueType = IssueExtraRule
		issue.IssueLineTR = lineRef(rule.Line)
		issue.RuleLineTR = lineRef(rule.Line)
		issue.Description = DescriptionExtra
		if opts.IncludeRaw {
			issue.TranslatedRaw = rule.RawText
		}
		issues = append(issues, issue)
	}

	for _, u := range result.Untranslated {
		for _, entry := range u.Entries {
			issue := issueBase(u.Rule, file, language)
			issue.IssueType = IssueUntranslatedText
			line := entry.Line
			if line <= 0 {
				line = u.Rule.Line
			}
			issue.IssueLineTR = lineRef(line)
			issue.RuleLineTR = lineRef(u.Rule.Line)
			issue.Description = DescriptionUntranslated
			issue.UntranslatedTexts = []string{entry.Text}
			if opts.IncludeRaw {
				issue.TranslatedRaw = u.Rule.RawText
			}
			issues = append(issues, issue)
		}
	}

	for _, d := range result.Differences {
		lines, ok := differ.Locate(d)
		if !ok {
			continue
		}
		issue := issueBase(d.Reference, file, language)
		issue.IssueType = IssueRuleDifference
		issue.DiffType = string(d.Type)
		issue.IssueLineEN = lineRef(lines.Reference)
		issue.IssueLineTR = lineRef(lines.Translated)
		issue.RuleLineEN = lineRef(d.Reference.Line)
		issue.RuleLineTR = lineRef(d.Translated.Line)
		issue.Description = d.Description
		issue.EnglishSnippet = d.ReferenceSnippet
		issue.TranslatedSnippet = d.TranslatedSnippet
		if opts.IncludeRaw {
			issue.EnglishRaw = d.Reference.RawText
			issue.TranslatedRaw = d.Translated.RawText
		}
		issues = append(issues, issue)
	}

	return issues
}

func issueBase(rule *ast.Rule, file, language string) Issue {
	return Issue{
		Language:          language,
		File:              file,
		RuleName:          rule.Name,
		RuleTag:           rule.Tag,
		RuleKey:           rule.Key,
		UntranslatedTexts: []string{},
	}
}

func lineRef(line int) *int {
	if line <= 0 {
		return nil
	}
	return &line
}

// Counts tallies issues per type.
type Counts struct {
	Missing      int `json:"missing"`
	Untranslated int `json:"untranslated"`
	Extra        int `json:"extra"`
	Differences  int `json:"differences"`
}

// Total returns the number of issues counted.
func (c Counts) Total() int {
	return c.Missing + c.Untranslated + c.Extra + c.Differences
}

// Add accumulates other into c.
func (c *Counts) Add(other Counts) {
	c.Missing += other.Missing
	c.Untranslated += other.Untranslated
	c.Extra += other.Extra
	c.Differences += other.Differences
}

// CountIssues tallies issues by type.
func CountIssues(issues []Issue) Counts {
	var c Counts
	for _, issue := range issues {
		switch issue.IssueType {
		case IssueMissingRule:
			c.Missing++
		case IssueExtraRule:
			c.Extra++
		case IssueUntranslatedText:
			c.Untranslated++
		case IssueRuleDifference:
			c.Differences++
		}
	}
	return c
}
