package audit

import (
	"context"
	"errors"
	"fmt"

	"mathcat/langaudit/pkg/translate"
)

// Suggest asks tr for a translation of every untranslated text and stores
// it in the issue's Suggestion field. Texts the translator cannot handle
// are left without a suggestion. It returns the number of suggestions made.
func Suggest(ctx context.Context, issues []Issue, tr translate.Translator, language string) (int, error) {
	if tr == nil {
		return 0, nil
	}

	made := 0
	for i := range issues {
		issue := &issues[i]
		if issue.IssueType != IssueUntranslatedText || len(issue.UntranslatedTexts) == 0 {
			continue
		}

		suggestion, err := tr.Translate(ctx, issue.UntranslatedTexts[0], language)
		if errors.Is(err, translate.ErrNoTranslation) {
			continue
		}
		if err != nil {
			return made, fmt.Errorf("failed to translate %q: %w", issue.UntranslatedTexts[0], err)
		}
		issue.Suggestion = suggestion
		made++
	}

	return made, nil
}
