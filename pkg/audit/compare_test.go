package audit

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"mathcat/langaudit/pkg/rules/differ"
)

const fracReference = `- name: frac
  tag: mfrac
  match: "self::m:mfrac"
  replace:
  - t: "over"
`

func TestCompare_MissingRule(t *testing.T) {
	ref := parseDoc(t, "- name: a\n  tag: mo\n- name: b\n  tag: mi\n", "en/general.yaml")
	tr := parseDoc(t, "- name: a\n  tag: mo\n", "de/general.yaml")

	result := Compare(ref, tr, AllIssues())

	if got := ruleKeys(result.MissingRules); !reflect.DeepEqual(got, []string{"b|mi"}) {
		t.Errorf("MissingRules = %v, want [b|mi]", got)
	}
	if len(result.ExtraRules) != 0 {
		t.Errorf("ExtraRules = %v, want none", ruleKeys(result.ExtraRules))
	}
	if result.ReferenceRuleCount != 2 || result.TranslatedRuleCount != 1 {
		t.Errorf("rule counts = %d/%d, want 2/1", result.ReferenceRuleCount, result.TranslatedRuleCount)
	}
	if !result.HasIssues() {
		t.Error("HasIssues() = false, want true")
	}
}

func TestCompare_MissingExtraSymmetry(t *testing.T) {
	a := parseDoc(t, "- name: a\n  tag: mo\n- name: b\n  tag: mi\n- name: c\n", "a.yaml")
	b := parseDoc(t, "- name: b\n  tag: mi\n- name: d\n  tag: mn\n", "b.yaml")

	ab := Compare(a, b, AllIssues())
	ba := Compare(b, a, AllIssues())

	if !reflect.DeepEqual(ruleKeys(ab.MissingRules), ruleKeys(ba.ExtraRules)) {
		t.Errorf("missing(A,B) = %v, extra(B,A) = %v", ruleKeys(ab.MissingRules), ruleKeys(ba.ExtraRules))
	}
	if !reflect.DeepEqual(ruleKeys(ab.ExtraRules), ruleKeys(ba.MissingRules)) {
		t.Errorf("extra(A,B) = %v, missing(B,A) = %v", ruleKeys(ab.ExtraRules), ruleKeys(ba.MissingRules))
	}
	if got := ruleKeys(ab.MissingRules); !reflect.DeepEqual(got, []string{"a|mo", "c|unknown"}) {
		t.Errorf("missing(A,B) = %v, want [a|mo c|unknown]", got)
	}
}

func TestCompare_TextBlind(t *testing.T) {
	ref := parseDoc(t, fracReference, "en/general.yaml")
	tr := parseDoc(t, `- name: frac
  tag: mfrac
  match: "self::m:mfrac"
  replace:
  - T: "sur"
`, "fr/general.yaml")

	result := Compare(ref, tr, AllIssues())
	if len(result.Differences) != 0 {
		t.Errorf("Differences = %+v, want none", result.Differences)
	}
	if len(result.Untranslated) != 0 {
		t.Errorf("Untranslated = %+v, want none", result.Untranslated)
	}
	if result.HasIssues() {
		t.Error("HasIssues() = true, want false")
	}
}

func TestCompare_MatchDifference(t *testing.T) {
	ref := parseDoc(t, fracReference, "en/general.yaml")
	tr := parseDoc(t, `- name: frac
  tag: mfrac
  match: "self::m:mo"
  replace:
  - T: "sur"
`, "fr/general.yaml")

	result := Compare(ref, tr, AllIssues())
	if len(result.Differences) != 1 {
		t.Fatalf("len(Differences) = %d, want 1", len(result.Differences))
	}
	if result.Differences[0].Type != differ.TypeMatch {
		t.Errorf("Differences[0].Type = %q, want %q", result.Differences[0].Type, differ.TypeMatch)
	}
}

func TestCompare_UntranslatedOnlyForSharedKeys(t *testing.T) {
	ref := parseDoc(t, "- name: a\n  tag: mo\n  replace: [t: \"x\"]\n", "en/general.yaml")
	tr := parseDoc(t, `- name: extra
  tag: mo
  replace:
  - t: "only here"
- name: a
  tag: mo
  replace:
  - t: "still english"
  - ot: "and this"
`, "de/general.yaml")

	result := Compare(ref, tr, AllIssues())

	if got := ruleKeys(result.ExtraRules); !reflect.DeepEqual(got, []string{"extra|mo"}) {
		t.Errorf("ExtraRules = %v, want [extra|mo]", got)
	}
	if len(result.Untranslated) != 1 {
		t.Fatalf("len(Untranslated) = %d, want 1", len(result.Untranslated))
	}
	u := result.Untranslated[0]
	if u.Rule.Key != "a|mo" {
		t.Errorf("Untranslated[0].Rule.Key = %q, want %q", u.Rule.Key, "a|mo")
	}
	if got := u.Rule.UntranslatedTexts(); !reflect.DeepEqual(got, []string{"still english", "and this"}) {
		t.Errorf("untranslated texts = %v", got)
	}
	if result.UntranslatedTextCount() != 2 {
		t.Errorf("UntranslatedTextCount() = %d, want 2", result.UntranslatedTextCount())
	}
}

func TestCompare_IgnoreFlag(t *testing.T) {
	ref := parseDoc(t, fracReference, "en/general.yaml")
	tr := parseDoc(t, `- name: frac  # audit-ignore
  tag: mfrac
  match: "self::m:mo"
  replace:
  - t: "over"
  - test:
      if: "true"
      then: [T: "x"]
`, "de/general.yaml")

	result := Compare(ref, tr, AllIssues())
	if len(result.Untranslated) != 0 {
		t.Errorf("Untranslated = %+v, want none for ignored rule", result.Untranslated)
	}
	if len(result.Differences) != 0 {
		t.Errorf("Differences = %+v, want none for ignored rule", result.Differences)
	}
	if len(result.MissingRules) != 0 || len(result.ExtraRules) != 0 {
		t.Error("ignored rule must still match its reference key")
	}
}

func TestCompare_FilterSuppressesCategories(t *testing.T) {
	ref := parseDoc(t, "- name: a\n  tag: mo\n- name: b\n  tag: mi\n  match: \".\"\n  replace: [T: \"y\"]\n", "en/general.yaml")
	tr := parseDoc(t, "- name: b\n  tag: mi\n  match: \"*\"\n  replace: [t: \"x\"]\n- name: c\n  tag: mn\n", "de/general.yaml")

	all := Compare(ref, tr, AllIssues())
	if len(all.MissingRules) != 1 || len(all.ExtraRules) != 1 || len(all.Untranslated) != 1 || len(all.Differences) != 1 {
		t.Fatalf("unfiltered counts = %d/%d/%d/%d, want 1/1/1/1",
			len(all.MissingRules), len(all.ExtraRules), len(all.Untranslated), len(all.Differences))
	}

	only := Compare(ref, tr, NewIssueFilter(CategoryMissing, CategoryDiffs))
	if len(only.MissingRules) != 1 || len(only.Differences) != 1 {
		t.Errorf("selected categories changed: missing=%d diffs=%d", len(only.MissingRules), len(only.Differences))
	}
	if len(only.ExtraRules) != 0 || len(only.Untranslated) != 0 {
		t.Errorf("excluded categories reported: extra=%d untranslated=%d", len(only.ExtraRules), len(only.Untranslated))
	}
}

func TestCompareFiles_MissingTranslation(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"en/general.yaml": "- name: a\n  tag: mo\n- name: b\n  tag: mi\n",
	})

	result, err := CompareFiles(
		filepath.Join(root, "en", "general.yaml"),
		filepath.Join(root, "de", "general.yaml"),
		"",
		AllIssues(),
	)
	if err != nil {
		t.Fatalf("CompareFiles() error = %v", err)
	}
	if result.TranslatedFound {
		t.Error("TranslatedFound = true, want false")
	}
	if got := ruleKeys(result.MissingRules); !reflect.DeepEqual(got, []string{"a|mo", "b|mi"}) {
		t.Errorf("MissingRules = %v, want every reference rule", got)
	}
}

func TestCompareFiles_RegionOverlay(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"en/general.yaml": "- name: a\n  tag: mo\n  replace: [t: \"x\"]\n- name: c\n  tag: mn\n",
		"zz/general.yaml": "- name: a\n  tag: mo\n  replace: [t: \"base\"]\n",
		"zz/aa/general.yaml": "- name: a\n  tag: mo\n  replace: [T: \"regional\"]\n" +
			"- name: c\n  tag: mn\n",
	})

	result, err := CompareFiles(
		filepath.Join(root, "en", "general.yaml"),
		filepath.Join(root, "zz", "general.yaml"),
		filepath.Join(root, "zz", "aa", "general.yaml"),
		AllIssues(),
	)
	if err != nil {
		t.Fatalf("CompareFiles() error = %v", err)
	}
	if len(result.MissingRules) != 0 {
		t.Errorf("MissingRules = %v, want none (region-only key included)", ruleKeys(result.MissingRules))
	}
	if len(result.Untranslated) != 0 {
		t.Errorf("Untranslated = %+v, want none (region version wins)", result.Untranslated)
	}
	if result.TranslatedRuleCount != 2 {
		t.Errorf("TranslatedRuleCount = %d, want 2", result.TranslatedRuleCount)
	}
}

func TestCompareFiles_RegionOnly(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"en/region.yaml":    "- name: a\n  tag: mo\n",
		"zz/aa/region.yaml": "- name: a\n  tag: mo\n",
	})

	result, err := CompareFiles(
		filepath.Join(root, "en", "region.yaml"),
		filepath.Join(root, "zz", "region.yaml"),
		filepath.Join(root, "zz", "aa", "region.yaml"),
		AllIssues(),
	)
	if err != nil {
		t.Fatalf("CompareFiles() error = %v", err)
	}
	if !result.TranslatedFound {
		t.Error("TranslatedFound = false, want true when only the region file exists")
	}
	if result.HasIssues() {
		t.Error("HasIssues() = true, want false")
	}
}

func TestCompareFiles_ReferenceErrors(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"en/bad.yaml": "- name: [unclosed\n",
		"de/bad.yaml": "- name: a\n",
	})

	if _, err := CompareFiles(filepath.Join(root, "en", "none.yaml"), filepath.Join(root, "de", "none.yaml"), "", AllIssues()); err == nil {
		t.Error("CompareFiles(missing reference) error = nil")
	}
	if _, err := CompareFiles(filepath.Join(root, "en", "bad.yaml"), filepath.Join(root, "de", "bad.yaml"), "", AllIssues()); err == nil {
		t.Error("CompareFiles(invalid reference) error = nil")
	}
}

func TestCompareFiles_TabsReplacedNamesDocument(t *testing.T) {
	const tabbed = "- name: a\n  tag: mo\n  replace:\n\t- t: \"x\"\n"
	const plain = "- name: a\n  tag: mo\n  replace: [T: \"x\"]\n"

	tests := []struct {
		name     string
		files    map[string]string
		region   bool
		wantFile string
	}{
		{
			name:     "reference",
			files:    map[string]string{"en/general.yaml": tabbed, "de/general.yaml": plain},
			wantFile: "en/general.yaml",
		},
		{
			name:     "translation",
			files:    map[string]string{"en/general.yaml": plain, "de/general.yaml": tabbed},
			wantFile: "de/general.yaml",
		},
		{
			name: "region",
			files: map[string]string{
				"en/general.yaml":    plain,
				"de/general.yaml":    plain,
				"de/aa/general.yaml": tabbed,
			},
			region:   true,
			wantFile: "de/aa/general.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, tt.files)

			var logs bytes.Buffer
			c := NewComparator(nil, slog.New(slog.NewTextHandler(&logs, nil)))
			regionPath := ""
			if tt.region {
				regionPath = filepath.Join(root, "de", "aa", "general.yaml")
			}

			result, err := c.CompareFiles(
				filepath.Join(root, "en", "general.yaml"),
				filepath.Join(root, "de", "general.yaml"),
				regionPath,
				AllIssues(),
			)
			if err != nil {
				t.Fatalf("CompareFiles() error = %v", err)
			}

			want := filepath.Join(root, filepath.FromSlash(tt.wantFile))
			if !reflect.DeepEqual(result.TabsReplaced, []string{want}) {
				t.Errorf("TabsReplaced = %v, want [%s]", result.TabsReplaced, want)
			}
			var line string
			for _, l := range strings.Split(logs.String(), "\n") {
				if strings.Contains(l, "tab characters replaced") {
					line = l
				}
			}
			if !strings.Contains(line, "file="+want) {
				t.Errorf("tab warning = %q, want file=%s", line, want)
			}
		})
	}
}
