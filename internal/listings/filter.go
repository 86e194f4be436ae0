package listings

import "strings"

// allowKeywords is the fixed relevance allow-list: a listing title must
// contain at least one of these (case-insensitive) to be considered.
var allowKeywords = []string{
	"data",
	"ai",
	"engineer",
	"scientist",
	"tech",
	"lead",
	"analyst",
}

// Relevant reports whether the title passes the fixed keyword allow-list.
func Relevant(title string) bool {
	lower := strings.ToLower(title)
	for _, keyword := range allowKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// Excluded reports whether the title contains any configured exclude
// keyword (case-insensitive). An empty exclude list excludes nothing.
func Excluded(title string, excludeKeywords []string) bool {
	lower := strings.ToLower(title)
	for _, keyword := range excludeKeywords {
		if keyword != "" && strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
