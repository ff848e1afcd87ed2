package connectors

import (
	"strings"
	"unicode/utf8"
)

// MaxSnippetRunes bounds snippet length across providers.
const MaxSnippetRunes = 300

// Snippet collapses whitespace and truncates text to MaxSnippetRunes,
// appending an ellipsis when cut.
func Snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= MaxSnippetRunes {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:MaxSnippetRunes-1])) + "…"
}

// FirstNonEmpty returns the first argument that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
