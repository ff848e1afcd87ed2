package github

import (
	"strings"

	"github.com/custodia-labs/sercha-unified/internal/connectors"
	"github.com/custodia-labs/sercha-unified/internal/core/services"
)

// Qualifier maps query phrases to a GitHub search qualifier.
type Qualifier struct {
	Phrases  []string
	Value    string
	Consumes []string
}

// Qualifiers is the phrase-to-qualifier table. The first matching entry of
// each group wins, so "assigned to me" takes precedence over "my".
var Qualifiers = [][]Qualifier{
	{
		{Phrases: []string{"assigned to me"}, Value: "assignee:@me", Consumes: []string{"assigned"}},
		{Phrases: []string{"my", "mine"}, Value: "involves:@me"},
	},
	{
		{Phrases: []string{"pull request", "pull requests", "pr", "prs"}, Value: "is:pr",
			Consumes: []string{"pull", "request", "requests", "prs"}},
	},
	{
		{Phrases: []string{"open"}, Value: "is:open", Consumes: []string{"open"}},
		{Phrases: []string{"closed", "merged"}, Value: "is:closed", Consumes: []string{"closed", "merged"}},
	},
}

// Query is a parsed search: free-text stages plus shared qualifiers.
type Query struct {
	// Qualifiers restrict every stage, scope included.
	Qualifiers []string
	// Stages are the free-text parts to try in order. A general query has
	// one empty stage.
	Stages []string
	// Keywords are the content keywords left after qualifiers consumed theirs.
	Keywords []string
}

// BuildQuery parses a query. org scopes the search when non-empty,
// otherwise items involving the authenticated user are searched.
func BuildQuery(t connectors.Terms, org string) Query {
	padded := " " + strings.Join(services.QueryTokens(t.Raw), " ") + " "

	var q Query
	consumed := make(map[string]bool)
	involvesMe := false
	for _, group := range Qualifiers {
	match:
		for _, qual := range group {
			for _, p := range qual.Phrases {
				if strings.Contains(padded, " "+p+" ") {
					q.Qualifiers = append(q.Qualifiers, qual.Value)
					involvesMe = involvesMe || strings.HasSuffix(qual.Value, "@me")
					for _, c := range qual.Consumes {
						consumed[c] = true
					}
					break match
				}
			}
		}
	}

	switch {
	case org != "":
		q.Qualifiers = append(q.Qualifiers, "org:"+org)
	case !involvesMe:
		q.Qualifiers = append(q.Qualifiers, "involves:@me")
	}

	for _, kw := range t.Keywords {
		if !consumed[kw] {
			q.Keywords = append(q.Keywords, kw)
		}
	}
	var tokens []string
	for _, tok := range t.Tokens {
		if !consumed[tok] && tok != "assigned" && tok != "pr" {
			tokens = append(tokens, tok)
		}
	}

	if len(q.Keywords) == 0 {
		q.Stages = []string{""}
		return q
	}

	inTitle := make([]string, len(tokens))
	for i, tok := range tokens {
		inTitle[i] = tok + " in:title"
	}
	q.Stages = connectors.Ladder(
		strings.Join(q.Keywords, " "),
		strings.Join(q.Keywords, " OR "),
		strings.Join(inTitle, " OR "),
	)
	return q
}

// Issues renders the issue search strings, one per stage.
func (q Query) Issues() []string {
	out := make([]string, len(q.Stages))
	for i, stage := range q.Stages {
		out[i] = render(stage, q.Qualifiers)
	}
	return out
}

// Repositories renders the repository search string. Issue-only qualifiers
// are dropped. It returns "" when there is nothing to search for.
func (q Query) Repositories() string {
	var quals []string
	for _, qual := range q.Qualifiers {
		if strings.HasPrefix(qual, "org:") {
			quals = append(quals, qual)
		}
	}
	if len(quals) == 0 || len(q.Keywords) == 0 {
		return ""
	}
	return render(strings.Join(q.Keywords, " OR "), quals)
}

func render(text string, qualifiers []string) string {
	parts := make([]string, 0, len(qualifiers)+1)
	if text != "" {
		parts = append(parts, text)
	}
	parts = append(parts, qualifiers...)
	return strings.Join(parts, " ")
}
