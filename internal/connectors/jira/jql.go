package jira

import (
	"strings"

	"github.com/custodia-labs/sercha-unified/internal/connectors"
	"github.com/custodia-labs/sercha-unified/internal/core/services"
)

const orderByUpdated = " ORDER BY updated DESC"

// recentBound keeps list-everything queries bounded; the search endpoint
// rejects unbounded JQL.
const recentBound = "updated >= -30d"

// Filter maps query phrases to a structured JQL clause.
type Filter struct {
	// Phrases are matched against the normalised query with word boundaries.
	Phrases []string
	// Clause is the JQL restriction added when a phrase matches.
	Clause string
	// Consumes are keywords removed from the text clause when the filter applies.
	Consumes []string
}

// Filters is the phrase-to-JQL table, applied in order.
var Filters = []Filter{
	{
		Phrases:  []string{"assigned to me", "my", "mine"},
		Clause:   "assignee = currentUser()",
		Consumes: []string{"assigned"},
	},
	{
		Phrases:  []string{"bug", "bugs"},
		Clause:   "issuetype = Bug",
		Consumes: []string{"bug", "bugs"},
	},
	{
		Phrases:  []string{"open", "unresolved", "todo", "in progress"},
		Clause:   "statusCategory != Done",
		Consumes: []string{"open", "unresolved", "todo", "progress"},
	},
	{
		Phrases:  []string{"done", "closed", "resolved"},
		Clause:   "statusCategory = Done",
		Consumes: []string{"done", "closed", "resolved"},
	},
}

// quote renders a JQL string literal.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// BuildJQL returns the JQL statements to try in order: all keywords as one
// text search, any keyword, then any token in the summary. Structured
// filters apply to every stage. A general query yields a single statement.
func BuildJQL(t connectors.Terms) []string {
	padded := " " + strings.Join(services.QueryTokens(t.Raw), " ") + " "

	var filters []string
	consumed := make(map[string]bool)
	for _, f := range Filters {
		for _, p := range f.Phrases {
			if strings.Contains(padded, " "+p+" ") {
				filters = append(filters, f.Clause)
				for _, c := range f.Consumes {
					consumed[c] = true
				}
				break
			}
		}
	}

	var keywords []string
	for _, kw := range t.Keywords {
		if !consumed[kw] {
			keywords = append(keywords, kw)
		}
	}
	var tokens []string
	for _, tok := range t.Tokens {
		if !consumed[tok] && tok != "assigned" && tok != "mine" {
			tokens = append(tokens, tok)
		}
	}

	if len(keywords) == 0 {
		if len(filters) == 0 {
			filters = []string{recentBound}
		}
		return []string{strings.Join(filters, " AND ") + orderByUpdated}
	}

	anyText := make([]string, len(keywords))
	for i, kw := range keywords {
		anyText[i] = "text ~ " + quote(kw)
	}
	anySummary := make([]string, len(tokens))
	for i, tok := range tokens {
		anySummary[i] = "summary ~ " + quote(tok)
	}

	return connectors.Ladder(
		statement(filters, "text ~ "+quote(strings.Join(keywords, " "))),
		statement(filters, group(anyText)),
		statement(filters, group(anySummary)),
	)
}

func group(clauses []string) string {
	switch len(clauses) {
	case 0:
		return ""
	case 1:
		return clauses[0]
	default:
		return "(" + strings.Join(clauses, " OR ") + ")"
	}
}

func statement(filters []string, text string) string {
	if text == "" {
		return ""
	}
	parts := append(append([]string(nil), filters...), text)
	return strings.Join(parts, " AND ") + orderByUpdated
}
