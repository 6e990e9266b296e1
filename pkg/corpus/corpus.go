// Package corpus locates rule documents on disk.
//
// A corpus is a directory with one sub-directory per language. The
// reference language (en by default) is the source of truth; every other
// directory is a translation. A translation may carry region
// sub-directories whose files overlay the parent language:
//
//	Rules/Languages/
//	    en/                 reference
//	        SharedRules/
//	    de/                 language "de"
//	    zz/                 language "zz"
//	        aa/             region, selected as "zz-aa"
//
// The audited files of a language are the *.yaml files directly in its
// directory (except prefs.yaml) plus those in the shared sub-directories.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	rulesErrors "mathcat/langaudit/pkg/rules/errors"
)

// Defaults for corpus layout.
var (
	DefaultReference  = "en"
	DefaultSharedDirs = []string{"SharedRules"}
	DefaultSkipFiles  = []string{"prefs.yaml"}
)

// Corpus describes the on-disk layout of the rule corpus.
type Corpus struct {
	Root       string
	Reference  string
	SharedDirs []string
	SkipFiles  []string
}

// New creates a corpus rooted at root with default layout settings.
func New(root string) *Corpus {
	return &Corpus{
		Root:       root,
		Reference:  DefaultReference,
		SharedDirs: append([]string(nil), DefaultSharedDirs...),
		SkipFiles:  append([]string(nil), DefaultSkipFiles...),
	}
}

// Target is a resolved language selection.
type Target struct {
	// Code is the selector as given ("de" or "zz-aa").
	Code string

	// Language is the base language code; Region is empty without a region.
	Language string
	Region   string

	ReferenceDir string
	LanguageDir  string
	RegionDir    string
}

// HasRegion returns true if the target selects a region overlay.
func (t *Target) HasRegion() bool {
	return t.RegionDir != ""
}

// NotFoundError reports a missing corpus directory. It is always fatal.
type NotFoundError struct {
	What       string // "reference directory", "language", ...
	Path       string
	Suggestion string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s not found: %s", e.What, e.Path)
	if e.Suggestion != "" {
		msg += " (" + e.Suggestion + ")"
	}
	return msg
}

// ReferenceDir returns the path of the reference language.
func (c *Corpus) ReferenceDir() string {
	return filepath.Join(c.Root, c.Reference)
}

// Resolve turns a language selector into directories, checking that they
// exist. A selector "xx-rr" selects region rr of language xx.
func (c *Corpus) Resolve(code string) (*Target, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("language code is required")
	}

	refDir := c.ReferenceDir()
	if !isDir(refDir) {
		return nil, &NotFoundError{What: "reference rules directory", Path: refDir}
	}

	lang, region, _ := strings.Cut(code, "-")
	if lang == c.Reference && region == "" {
		return nil, fmt.Errorf("%q is the reference language and cannot be audited against itself", code)
	}

	t := &Target{
		Code:         code,
		Language:     lang,
		Region:       region,
		ReferenceDir: refDir,
		LanguageDir:  filepath.Join(c.Root, lang),
	}

	if !isDir(t.LanguageDir) {
		return nil, &NotFoundError{
			What:       "translation directory",
			Path:       t.LanguageDir,
			Suggestion: c.suggest(code),
		}
	}

	if region != "" {
		t.RegionDir = c.regionDir(t.LanguageDir, region)
		if t.RegionDir == "" {
			return nil, &NotFoundError{
				What:       "region directory",
				Path:       filepath.Join(t.LanguageDir, region),
				Suggestion: c.suggest(code),
			}
		}
	}

	return t, nil
}

// regionDir finds a region directory, matching its name case-insensitively.
func (c *Corpus) regionDir(langDir, region string) string {
	exact := filepath.Join(langDir, region)
	if isDir(exact) {
		return exact
	}
	entries, err := os.ReadDir(langDir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.IsDir() && strings.EqualFold(e.Name(), region) {
			return filepath.Join(langDir, e.Name())
		}
	}
	return ""
}

func (c *Corpus) suggest(code string) string {
	langs, err := c.Languages()
	if err != nil || len(langs) == 0 {
		return ""
	}
	codes := make([]string, 0, len(langs))
	for _, l := range langs {
		codes = append(codes, l.Code)
	}
	return rulesErrors.SuggestName(code, codes)
}

// Files returns the audited YAML files found in dirs, as slash-separated
// paths relative to each dir. Files present in several dirs are listed once.
func (c *Corpus) Files(dirs ...string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(rel string) {
		rel = filepath.ToSlash(rel)
		if !seen[rel] {
			seen[rel] = true
			files = append(files, rel)
		}
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		direct, err := c.yamlFiles(dir)
		if err != nil {
			return nil, err
		}
		for _, name := range direct {
			if c.skipped(name) {
				continue
			}
			add(name)
		}
		for _, shared := range c.SharedDirs {
			sharedDir := filepath.Join(dir, shared)
			if !isDir(sharedDir) {
				continue
			}
			names, err := c.yamlFiles(sharedDir)
			if err != nil {
				return nil, err
			}
			for _, name := range names {
				add(filepath.Join(shared, name))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

func (c *Corpus) yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func (c *Corpus) skipped(name string) bool {
	for _, s := range c.SkipFiles {
		if name == s {
			return true
		}
	}
	return false
}

func (c *Corpus) isShared(name string) bool {
	for _, s := range c.SharedDirs {
		if name == s {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
