// Package translate defines the translator collaborator used to suggest
// translations for untranslated rule text, and a static glossary
// implementation of it.
//
// The audit never writes suggestions back into rule files; they are only
// attached to untranslated_text issues.
package translate

import (
	"context"
	"errors"
)

// ErrNoTranslation is returned when a translator has nothing to offer for a text.
var ErrNoTranslation = errors.New("no translation available")

// Translator proposes a translation of text into targetLanguage.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// TranslatorFunc adapts a function to the Translator interface.
type TranslatorFunc func(ctx context.Context, text, targetLanguage string) (string, error)

// Translate calls f(ctx, text, targetLanguage).
func (f TranslatorFunc) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	return f(ctx, text, targetLanguage)
}
