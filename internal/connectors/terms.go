package connectors

import (
	"strings"

	"github.com/custodia-labs/sercha-unified/internal/core/services"
)

// GenericTerms are keywords that name a provider or a kind of item rather
// than content. They are dropped from native text clauses, and a query made
// only of them lists recent items instead of searching.
var GenericTerms = map[string]bool{
	"all": true, "everything": true, "recent": true, "latest": true, "new": true,
	"files": true, "file": true, "documents": true, "document": true, "docs": true,
	"items": true, "stuff": true, "things": true,
	"issues": true, "issue": true, "tickets": true, "ticket": true, "tasks": true,
	"pages": true, "page": true, "notes": true, "databases": true,
	"repos": true, "repositories": true, "repository": true,
	"jira": true, "atlassian": true, "drive": true, "google": true, "gdrive": true,
	"notion": true, "github": true,
}

// shortStopWords are two-letter tokens never useful in a name match.
var shortStopWords = map[string]bool{
	"me": true, "my": true, "to": true, "of": true, "in": true, "on": true,
	"at": true, "is": true, "it": true, "an": true, "or": true, "by": true,
	"we": true, "us": true, "be": true, "do": true, "so": true,
}

// Terms is the query analysis shared by adapters.
type Terms struct {
	// Raw is the trimmed query.
	Raw string
	// Keywords are the extracted keywords with generic terms removed.
	Keywords []string
	// Tokens are every normalised token of at least two runes, for name-only fallbacks.
	Tokens []string
	// General marks a list-everything query with no content keywords.
	General bool
}

// Analyse splits a query into the parts adapters translate.
func Analyse(query string) Terms {
	t := Terms{Raw: strings.TrimSpace(query)}

	for _, kw := range services.ExtractKeywords(t.Raw) {
		if !GenericTerms[kw] {
			t.Keywords = append(t.Keywords, kw)
		}
	}
	for _, tok := range services.QueryTokens(t.Raw) {
		if len([]rune(tok)) >= 2 && !GenericTerms[tok] && !services.StopWords[tok] && !shortStopWords[tok] {
			t.Tokens = append(t.Tokens, tok)
		}
	}
	t.General = len(t.Keywords) == 0
	return t
}

// Ladder drops blank and repeated native queries, keeping order.
// Adapters run the result as primary, keywords-only, then name-only.
func Ladder(queries ...string) []string {
	out := make([]string, 0, len(queries))
	seen := make(map[string]bool, len(queries))
	for _, q := range queries {
		if strings.TrimSpace(q) == "" || seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out
}
