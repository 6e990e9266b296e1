package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"mathcat/langaudit/pkg/audit"
	"mathcat/langaudit/pkg/rules/ast"
	"mathcat/langaudit/pkg/rules/differ"
)

const ruleWidth = 60

// palette holds the colors of the text report. Every color is disabled
// unless the writer was created with Options.Color.
type palette struct {
	red, green, yellow, blue, magenta, cyan, dim, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		red:     color.New(color.FgRed),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow),
		blue:    color.New(color.FgBlue),
		magenta: color.New(color.FgMagenta),
		cyan:    color.New(color.FgCyan),
		dim:     color.New(color.Faint),
		bold:    color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.red, p.green, p.yellow, p.blue, p.magenta, p.cyan, p.dim, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// TextWriter writes the human-readable report: a header, one section per
// file with issues, and a summary table.
type TextWriter struct {
	w         io.Writer
	c         palette
	language  string
	reference string
	started   bool
	err       error
}

// NewTextWriter creates a text report writer.
func NewTextWriter(w io.Writer, opts Options) *TextWriter {
	reference := opts.ReferenceLanguage
	if reference == "" {
		reference = "en"
	}
	return &TextWriter{
		w:         w,
		c:         newPalette(opts.Color),
		language:  opts.Language,
		reference: reference,
	}
}

func (t *TextWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *TextWriter) header() {
	if t.started {
		return
	}
	t.started = true
	title := "Translation Audit"
	if t.language != "" {
		title += ": " + strings.ToUpper(t.language)
	}
	t.printf("%s\n", t.c.cyan.Sprint(strings.Repeat("═", ruleWidth)))
	t.printf("  %s\n", t.c.bold.Sprint(title))
	t.printf("%s\n", t.c.cyan.Sprint(strings.Repeat("═", ruleWidth)))
	t.printf("\n  %s\n", t.c.dim.Sprintf("Comparing against %s reference files", t.reference))
}

// WriteFile implements audit.Sink. Files without issues print nothing.
func (t *TextWriter) WriteFile(report *audit.FileReport) error {
	t.header()

	if report.Err != nil {
		t.printf("\n%s %s\n", t.c.red.Sprint("✗"), t.c.bold.Sprint(report.File))
		t.printf("  %s %v\n", t.c.red.Sprint("failed:"), report.Err)
		return t.err
	}
	if len(report.Issues) == 0 {
		return t.err
	}

	t.fileHeader(report)

	groups := groupIssues(report.Issues)
	if missing := groups[audit.IssueMissingRule]; len(missing) > 0 {
		t.printf("\n  %s %s [%s] %s\n", t.c.red.Sprint("✗"), t.c.bold.Sprint("Missing Rules"),
			t.c.red.Sprint(len(missing)), t.c.dim.Sprint("(in English but not in translation)"))
		for _, issue := range missing {
			t.ruleItem(issue, lineOf(issue.RuleLineEN), " in English")
		}
	}

	if untranslated := groups[audit.IssueUntranslatedText]; len(untranslated) > 0 {
		rules := groupByRule(untranslated)
		t.printf("\n  %s %s [%s] %s\n", t.c.yellow.Sprint("⚠"), t.c.bold.Sprint("Untranslated Text"),
			t.c.yellow.Sprint(len(rules)), t.c.dim.Sprint("(lowercase t/ot/ct keys)"))
		for _, rule := range rules {
			t.ruleItem(rule[0], lineOf(rule[0].RuleLineTR), "")
			for _, issue := range rule {
				for _, text := range issue.UntranslatedTexts {
					t.printf("          %s %s", t.c.dim.Sprint("→"), t.c.yellow.Sprintf("%q", text))
					if issue.Suggestion != "" {
						t.printf(" %s", t.c.dim.Sprintf("(suggested: %q)", issue.Suggestion))
					}
					t.printf("\n")
				}
			}
		}
	}

	if diffs := groups[audit.IssueRuleDifference]; len(diffs) > 0 {
		t.printf("\n  %s %s [%s] %s\n", t.c.magenta.Sprint("≠"), t.c.bold.Sprint("Rule Differences"),
			t.c.magenta.Sprint(len(diffs)), t.c.dim.Sprint("(structural differences between en and translation)"))
		for _, byType := range groupByDiffType(diffs) {
			label := differ.Type(byType[0].DiffType).Label()
			t.printf("\n    %s\n", t.c.dim.Sprintf("%s (%d):", label, len(byType)))
			for _, issue := range byType {
				t.diffItem(issue)
			}
		}
	}

	if extra := groups[audit.IssueExtraRule]; len(extra) > 0 {
		t.printf("\n  %s %s [%s] %s\n", t.c.blue.Sprint("ℹ"), t.c.bold.Sprint("Extra Rules"),
			t.c.blue.Sprint(len(extra)), t.c.dim.Sprint("(may be intentional)"))
		for _, issue := range extra {
			t.ruleItem(issue, lineOf(issue.RuleLineTR), "")
		}
	}

	return t.err
}

func (t *TextWriter) fileHeader(report *audit.FileReport) {
	icon := t.c.yellow.Sprint("⚠")
	if r := report.Result; r != nil {
		switch {
		case r.TranslatedRuleCount == r.ReferenceRuleCount:
			icon = t.c.green.Sprint("✓")
		case r.TranslatedRuleCount == 0:
			icon = t.c.red.Sprint("✗")
		}
	}

	separator := t.c.cyan.Sprint(strings.Repeat("─", ruleWidth))
	t.printf("\n%s\n", separator)
	t.printf("%s %s\n", icon, t.c.bold.Sprint(report.File))
	if r := report.Result; r != nil {
		t.printf("  %s\n", t.c.dim.Sprintf("English: %d rules  →  Translated: %d rules",
			r.ReferenceRuleCount, r.TranslatedRuleCount))
		if !r.TranslatedFound {
			t.printf("  %s\n", t.c.yellow.Sprint("translated file not found"))
		}
	}
	t.printf("%s\n", separator)
}

func (t *TextWriter) ruleItem(issue audit.Issue, line int, context string) {
	t.printf("      %s %s %s\n", t.c.dim.Sprint("•"), t.ruleLabel(issue),
		t.c.dim.Sprintf("(line %d%s)", line, context))
}

func (t *TextWriter) diffItem(issue audit.Issue) {
	t.printf("      %s %s %s\n", t.c.dim.Sprint("•"), t.ruleLabel(issue),
		t.c.dim.Sprintf("(line %d en, %d tr)", lineOf(issue.RuleLineEN), lineOf(issue.RuleLineTR)))
	t.printf("          %s\n", t.c.dim.Sprint(issue.Description+":"))
	t.printf("          %s %s\n", t.c.green.Sprint("en:"), issue.EnglishSnippet)
	t.printf("          %s %s\n", t.c.red.Sprint("tr:"), issue.TranslatedSnippet)
}

func (t *TextWriter) ruleLabel(issue audit.Issue) string {
	if issue.RuleName == "" {
		return t.c.yellow.Sprintf("%q", issue.RuleKey)
	}
	return t.c.cyan.Sprint(issue.RuleName) + " " + t.c.dim.Sprintf("[%s]", ast.DisplayTag(issue.RuleTag))
}

// Close implements audit.Sink by printing the summary table.
func (t *TextWriter) Close(summary *audit.Summary) error {
	if t.language == "" {
		t.language = summary.Language
	}
	t.header()

	counts := summary.Counts
	rows := []summaryRow{
		{"Files checked", summary.FilesChecked, nil},
		{"Files with issues", summary.FilesWithIssues, pick(summary.FilesWithIssues > 0, t.c.yellow, t.c.green)},
		{"Files OK", summary.FilesOK, pick(summary.FilesOK > 0, t.c.green, nil)},
		{"Missing rules", counts.Missing, pick(counts.Missing > 0, t.c.red, t.c.green)},
		{"Untranslated text", counts.Untranslated, pick(counts.Untranslated > 0, t.c.yellow, t.c.green)},
		{"Rule differences", counts.Differences, pick(counts.Differences > 0, t.c.magenta, t.c.green)},
		{"Extra rules", counts.Extra, pick(counts.Extra > 0, t.c.blue, nil)},
	}
	if summary.FilesFailed > 0 {
		rows = append(rows, summaryRow{"Files failed", summary.FilesFailed, t.c.red})
	}
	if summary.Suggestions > 0 {
		rows = append(rows, summaryRow{"Suggested translations", summary.Suggestions, t.c.cyan})
	}

	t.printf("\n%s\n", t.c.cyan.Sprint(strings.Repeat("═", ruleWidth)))
	t.printf("  %s\n", t.c.bold.Sprint("SUMMARY"))
	for _, row := range rows {
		value := fmt.Sprint(row.value)
		if row.c != nil {
			value = row.c.Sprint(value)
		}
		t.printf("  %-30s%s\n", row.label, value)
	}
	t.printf("%s\n", t.c.cyan.Sprint(strings.Repeat("═", ruleWidth)))

	for _, w := range summary.Warnings {
		t.printf("\n%s %s\n", t.c.yellow.Sprint("⚠ Warning:"), w)
	}

	return t.err
}

type summaryRow struct {
	label string
	value int
	c     *color.Color
}

func pick(cond bool, yes, no *color.Color) *color.Color {
	if cond {
		return yes
	}
	return no
}

func lineOf(line *int) int {
	if line == nil {
		return 0
	}
	return *line
}

func groupIssues(issues []audit.Issue) map[audit.IssueType][]audit.Issue {
	groups := make(map[audit.IssueType][]audit.Issue)
	for _, issue := range issues {
		groups[issue.IssueType] = append(groups[issue.IssueType], issue)
	}
	return groups
}

// groupByRule splits untranslated issues into runs belonging to one rule.
func groupByRule(issues []audit.Issue) [][]audit.Issue {
	var groups [][]audit.Issue
	for _, issue := range issues {
		n := len(groups)
		if n > 0 {
			last := groups[n-1][0]
			if last.RuleKey == issue.RuleKey && lineOf(last.RuleLineTR) == lineOf(issue.RuleLineTR) {
				groups[n-1] = append(groups[n-1], issue)
				continue
			}
		}
		groups = append(groups, []audit.Issue{issue})
	}
	return groups
}

// groupByDiffType groups differences by type in order of first appearance.
func groupByDiffType(issues []audit.Issue) [][]audit.Issue {
	index := make(map[string]int)
	var groups [][]audit.Issue
	for _, issue := range issues {
		i, ok := index[issue.DiffType]
		if !ok {
			i = len(groups)
			index[issue.DiffType] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], issue)
	}
	return groups
}
