package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Language describes one auditable language or region variant.
type Language struct {
	Code      string `json:"code"`
	Region    bool   `json:"region"`
	FileCount int    `json:"file_count"`
}

// Languages lists every translation in the corpus, followed by each of
// its region variants as "lang-region", sorted by code. The reference
// language is not listed.
func (c *Corpus) Languages() ([]Language, error) {
	entries, err := os.ReadDir(c.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages in %s: %w", c.Root, err)
	}

	var langs []Language
	for _, e := range entries {
		if !e.IsDir() || e.Name() == c.Reference || e.Name()[0] == '.' {
			continue
		}
		langDir := filepath.Join(c.Root, e.Name())
		files, err := c.Files(langDir)
		if err != nil {
			return nil, err
		}
		langs = append(langs, Language{Code: e.Name(), FileCount: len(files)})

		regions, err := c.regions(langDir)
		if err != nil {
			return nil, err
		}
		for _, region := range regions {
			files, err := c.Files(langDir, filepath.Join(langDir, region))
			if err != nil {
				return nil, err
			}
			langs = append(langs, Language{
				Code:      e.Name() + "-" + region,
				Region:    true,
				FileCount: len(files),
			})
		}
	}

	sort.Slice(langs, func(i, j int) bool { return langs[i].Code < langs[j].Code })
	return langs, nil
}

// regions returns the names of a language's region sub-directories.
func (c *Corpus) regions(langDir string) ([]string, error) {
	entries, err := os.ReadDir(langDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", langDir, err)
	}
	var regions []string
	for _, e := range entries {
		if !e.IsDir() || c.isShared(e.Name()) || e.Name()[0] == '.' {
			continue
		}
		regions = append(regions, e.Name())
	}
	return regions, nil
}
