// Package verify independently confirms that a submitted application is
// recorded in the site's application history, with a search-based fallback
// when the history view is restricted.
package verify

import "strings"

// TitleVariations generates the lowercased matching variants for a job
// title: the exact title, the title with spaces removed, and the prefixes
// before a " - " separator and a " (" parenthetical. Duplicates collapse,
// preserving first-seen order.
func TitleVariations(title string) []string {
	lower := strings.ToLower(title)

	candidates := []string{
		lower,
		strings.ReplaceAll(lower, " ", ""),
	}
	if idx := strings.Index(lower, " - "); idx >= 0 {
		candidates = append(candidates, lower[:idx])
	}
	if idx := strings.Index(lower, " ("); idx >= 0 {
		candidates = append(candidates, lower[:idx])
	}

	seen := make(map[string]bool, len(candidates))
	variations := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		variations = append(variations, c)
	}
	return variations
}
