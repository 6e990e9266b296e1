package audit

import (
	"fmt"
	"log/slog"
	"sort"

	"mathcat/langaudit/pkg/rules/ast"
	"mathcat/langaudit/pkg/rules/differ"
	rulesErrors "mathcat/langaudit/pkg/rules/errors"
	"mathcat/langaudit/pkg/rules/parser"
)

// UntranslatedRule pairs a translated rule with its unreviewed texts.
type UntranslatedRule struct {
	Rule    *ast.Rule
	Entries []ast.UntranslatedEntry
}

// ComparisonResult is the outcome of comparing one translated document
// with its reference.
type ComparisonResult struct {
	ReferencePath  string
	TranslatedPath string
	RegionPath     string

	// TranslatedFound is false when neither the translated file nor its
	// region overlay exists; every reference rule is then missing.
	TranslatedFound bool

	MissingRules []*ast.Rule
	ExtraRules   []*ast.Rule
	Untranslated []UntranslatedRule
	Differences  []differ.Difference

	ReferenceRuleCount  int
	TranslatedRuleCount int

	// Warnings collects anomalies found while reading both documents.
	Warnings []*rulesErrors.Error

	// TabsReplaced lists the documents that only parsed after tab replacement.
	TabsReplaced []string
}

// HasIssues returns true if any category holds at least one finding.
func (r *ComparisonResult) HasIssues() bool {
	return len(r.MissingRules) > 0 || len(r.ExtraRules) > 0 ||
		len(r.Untranslated) > 0 || len(r.Differences) > 0
}

// UntranslatedTextCount returns the number of unreviewed strings across all rules.
func (r *ComparisonResult) UntranslatedTextCount() int {
	n := 0
	for _, u := range r.Untranslated {
		n += len(u.Entries)
	}
	return n
}

// Compare compares a translated document with its reference. Categories
// excluded by filter are left empty; the others are unaffected by it.
func Compare(ref, tr *parser.Document, filter IssueFilter) *ComparisonResult {
	refIndex := ref.Index()
	trIndex := tr.Index()

	result := &ComparisonResult{
		ReferencePath:       ref.Path,
		TranslatedPath:      tr.Path,
		TranslatedFound:     true,
		ReferenceRuleCount:  len(ref.Rules),
		TranslatedRuleCount: len(tr.Rules),
	}
	for _, doc := range []*parser.Document{ref, tr} {
		if doc.TabsReplaced {
			result.TabsReplaced = append(result.TabsReplaced, doc.Path)
		}
	}
	result.Warnings = append(result.Warnings, ref.Warnings...)
	result.Warnings = append(result.Warnings, tr.Warnings...)
	sort.SliceStable(result.Warnings, func(i, j int) bool {
		return result.Warnings[i].Location.Before(result.Warnings[j].Location)
	})

	if filter.Includes(CategoryMissing) {
		for _, key := range refIndex.Keys {
			if _, ok := trIndex.Lookup(key); !ok {
				rule, _ := refIndex.Lookup(key)
				result.MissingRules = append(result.MissingRules, rule)
			}
		}
	}

	if filter.Includes(CategoryExtra) {
		for _, key := range trIndex.Keys {
			if _, ok := refIndex.Lookup(key); !ok {
				rule, _ := trIndex.Lookup(key)
				result.ExtraRules = append(result.ExtraRules, rule)
			}
		}
	}

	if filter.Includes(CategoryUntranslated) {
		for _, key := range trIndex.Keys {
			if _, ok := refIndex.Lookup(key); !ok {
				continue
			}
			rule, _ := trIndex.Lookup(key)
			if rule.Ignored || !rule.HasUntranslatedText() {
				continue
			}
			result.Untranslated = append(result.Untranslated, UntranslatedRule{
				Rule:    rule,
				Entries: rule.Untranslated,
			})
		}
	}

	if filter.Includes(CategoryDiffs) {
		for _, key := range refIndex.Keys {
			trRule, ok := trIndex.Lookup(key)
			if !ok || trRule.Ignored {
				continue
			}
			refRule, _ := refIndex.Lookup(key)
			result.Differences = append(result.Differences, differ.Diff(refRule, trRule)...)
		}
	}

	return result
}

// Comparator reads document pairs from disk and compares them.
type Comparator struct {
	parser *parser.Parser
	logger *slog.Logger
}

// NewComparator creates a comparator. A nil parser uses parser.NewParser()
// and a nil logger uses slog.Default().
func NewComparator(p *parser.Parser, logger *slog.Logger) *Comparator {
	if p == nil {
		p = parser.NewParser()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Comparator{
		parser: p,
		logger: logger.With("component", "audit.comparator"),
	}
}

// CompareFiles compares the translated file at trPath with the reference
// at refPath. A missing translated file is an empty document. When
// regionPath names an existing file it is overlaid on the translated
// document. The reference file must exist.
func (c *Comparator) CompareFiles(refPath, trPath, regionPath string, filter IssueFilter) (*ComparisonResult, error) {
	ref, err := c.parser.Parse(refPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reference %s: %w", refPath, err)
	}

	tr, found, err := c.parser.ParseOptional(trPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse translation %s: %w", trPath, err)
	}

	var tabbed []string
	if ref.TabsReplaced {
		tabbed = append(tabbed, refPath)
	}
	if found && tr.TabsReplaced {
		tabbed = append(tabbed, trPath)
	}

	regionFound := false
	if regionPath != "" {
		region, ok, err := c.parser.ParseOptional(regionPath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse region overlay %s: %w", regionPath, err)
		}
		if ok {
			regionFound = true
			if region.TabsReplaced {
				tabbed = append(tabbed, regionPath)
			}
			tr = tr.Overlay(region)
			c.logger.Debug("applied region overlay",
				"file", trPath,
				"region", regionPath,
				"region_rules", len(region.Rules),
			)
		}
	}

	result := Compare(ref, tr, filter)
	result.TranslatedPath = trPath
	result.RegionPath = regionPath
	result.TranslatedFound = found || regionFound
	result.TabsReplaced = tabbed

	for _, w := range result.Warnings {
		c.logger.Warn("rule document anomaly",
			"file", w.Location.File,
			"line", w.Location.Line,
			"warning", w.Message,
		)
	}
	for _, path := range result.TabsReplaced {
		c.logger.Warn("tab characters replaced before parsing", "file", path)
	}

	return result, nil
}

// CompareFiles compares two files with a default comparator.
func CompareFiles(refPath, trPath, regionPath string, filter IssueFilter) (*ComparisonResult, error) {
	return NewComparator(nil, nil).CompareFiles(refPath, trPath, regionPath, filter)
}
