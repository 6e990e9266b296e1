package translate

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Glossary is a static phrase table keyed by language code.
//
// File format:
//
//	languages:
//	  de:
//	    "the square root of": "die Quadratwurzel von"
//	    "fraction": "Bruch"
//	  zz-aa:
//	    "fraction": "fraction-aa"
//
// Lookups for a region code ("zz-aa") fall back to the base language
// ("zz"). Keys are matched after trimming and case folding.
type Glossary struct {
	entries map[string]map[string]string
}

type glossaryFile struct {
	Languages map[string]map[string]string `yaml:"languages"`
}

// NewGlossary creates a glossary from language → phrase → translation tables.
func NewGlossary(tables map[string]map[string]string) *Glossary {
	g := &Glossary{entries: make(map[string]map[string]string, len(tables))}
	for lang, phrases := range tables {
		lang = strings.ToLower(strings.TrimSpace(lang))
		table := g.entries[lang]
		if table == nil {
			table = make(map[string]string, len(phrases))
			g.entries[lang] = table
		}
		for phrase, translation := range phrases {
			table[normalize(phrase)] = translation
		}
	}
	return g
}

// LoadGlossary reads a glossary file.
func LoadGlossary(path string) (*Glossary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read glossary %s: %w", path, err)
	}

	var file glossaryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse glossary %s: %w", path, err)
	}

	return NewGlossary(file.Languages), nil
}

// Translate implements Translator.
func (g *Glossary) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := normalize(text)
	lang := strings.ToLower(strings.TrimSpace(targetLanguage))
	for lang != "" {
		if translation, ok := g.entries[lang][key]; ok {
			return translation, nil
		}
		base, _, found := strings.Cut(lang, "-")
		if !found {
			break
		}
		lang = base
	}

	return "", ErrNoTranslation
}

// Len returns the number of phrases across all languages.
func (g *Glossary) Len() int {
	n := 0
	for _, table := range g.entries {
		n += len(table)
	}
	return n
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
