package services

import (
	"strings"
	"unicode"
)

// minKeywordLength is the shortest token kept as a keyword.
const minKeywordLength = 3

// StopWords are dropped from queries before keyword matching.
// Tokens of two characters or fewer are dropped regardless.
var StopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true, "not": true,
	"you": true, "all": true, "any": true, "can": true, "was": true, "our": true,
	"out": true, "how": true, "its": true, "who": true, "did": true, "get": true,
	"has": true, "let": true, "too": true, "use": true, "her": true, "his": true,
	"him": true, "she": true, "they": true, "them": true, "their": true,
	"what": true, "when": true, "where": true, "which": true, "with": true,
	"this": true, "that": true, "these": true, "those": true, "from": true,
	"have": true, "will": true, "your": true, "about": true, "into": true,
	"just": true, "also": true, "some": true, "there": true, "then": true,
	"than": true, "been": true, "were": true, "does": true, "would": true,
	"could": true, "should": true, "please": true, "mine": true,
	"show": true, "find": true, "search": true, "give": true, "list": true,
	"want": true, "need": true, "look": true, "looking": true, "fetch": true,
	"display": true, "tell": true, "see": true,
}

// KeywordExpansion adds canonical domain terms when a trigger substring occurs.
// Every term of a group is also one of its triggers, so expanding an already
// expanded keyword list adds nothing new.
type KeywordExpansion struct {
	Triggers []string
	Terms    []string
}

// KeywordExpansions is the domain-term expansion table.
var KeywordExpansions = []KeywordExpansion{
	{Triggers: []string{"offer", "letter"}, Terms: []string{"offer", "letter"}},
	{Triggers: []string{"resume", "cv"}, Terms: []string{"resume", "cv"}},
	{Triggers: []string{"pdf", "document"}, Terms: []string{"pdf", "document"}},
	{Triggers: []string{"image", "photo"}, Terms: []string{"image", "photo"}},
}

// normaliseQuery lowercases and replaces punctuation with whitespace.
func normaliseQuery(query string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, query)
}

// ExtractKeywords maps a free-text query to its salient lowercase keywords.
// The result is deduplicated in first-seen order. Pure and deterministic.
func ExtractKeywords(query string) []string {
	normalised := normaliseQuery(query)
	keywords := make([]string, 0)
	seen := make(map[string]bool)

	add := func(kw string) {
		if seen[kw] {
			return
		}
		seen[kw] = true
		keywords = append(keywords, kw)
	}

	for _, token := range strings.Fields(normalised) {
		if len([]rune(token)) < minKeywordLength || StopWords[token] {
			continue
		}
		add(token)
	}

	for _, exp := range KeywordExpansions {
		if !containsAny(normalised, exp.Triggers) {
			continue
		}
		for _, term := range exp.Terms {
			add(term)
		}
	}

	return keywords
}

// QueryTokens returns every whitespace token of the normalised query,
// including short tokens and stop words. Adapters use it for their loosest
// name-only fallback.
func QueryTokens(query string) []string {
	return strings.Fields(normaliseQuery(query))
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
