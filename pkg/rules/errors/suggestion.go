package errors

import (
	"fmt"
	"strings"
)

// SuggestName returns a hint for an unknown name: the closest valid name
// when one is near, otherwise the list of valid names.
func SuggestName(unknown string, valid []string) string {
	if len(valid) == 0 {
		return ""
	}

	best, bestDist := "", -1
	for _, name := range valid {
		if d := levenshteinDistance(unknown, name); bestDist < 0 || d < bestDist {
			best, bestDist = name, d
		}
	}

	// Codes and format names are short; more than two edits is a different word.
	if bestDist < 3 {
		return fmt.Sprintf("Did you mean '%s'?", best)
	}

	if len(valid) > 8 {
		return fmt.Sprintf("Valid values include: %s, ...", strings.Join(valid[:8], ", "))
	}
	return fmt.Sprintf("Valid values: %s", strings.Join(valid, ", "))
}

// SuggestTabFix is the suggestion attached to YAML errors caused by tabs.
func SuggestTabFix(tabWidth int) string {
	return fmt.Sprintf("Replace tab characters with %d spaces (YAML does not allow tabs for indentation)", tabWidth)
}

// levenshteinDistance counts single-rune edits between s1 and s2, keeping
// only two rows of the table.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}
	a, b := []rune(s1), []rune(s2)

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
