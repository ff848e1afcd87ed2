package drive

import (
	"strings"

	"github.com/custodia-labs/sercha-unified/internal/connectors"
)

// notTrashed excludes deleted files from every query.
const notTrashed = "trashed = false"

// escape quotes a value for the Drive query language.
func escape(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `'`, `\'`)
}

func nameOrText(term string) string {
	v := escape(term)
	return "name contains '" + v + "' or fullText contains '" + v + "'"
}

// BuildQueries returns the Drive queries to try in order: every keyword
// must match, then any keyword may match, then any token in the name.
// A general query only lists recent files.
func BuildQueries(t connectors.Terms) []string {
	if t.General {
		return []string{notTrashed}
	}

	all := make([]string, len(t.Keywords))
	anyOf := make([]string, len(t.Keywords))
	for i, kw := range t.Keywords {
		all[i] = "(" + nameOrText(kw) + ")"
		anyOf[i] = nameOrText(kw)
	}

	names := make([]string, len(t.Tokens))
	for i, tok := range t.Tokens {
		names[i] = "name contains '" + escape(tok) + "'"
	}

	return connectors.Ladder(
		withTrash(strings.Join(all, " and ")),
		withTrash("("+strings.Join(anyOf, " or ")+")"),
		withTrash(joinOr(names)),
	)
}

func joinOr(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return "(" + strings.Join(clauses, " or ") + ")"
}

func withTrash(clause string) string {
	if clause == "" || clause == "()" {
		return ""
	}
	return clause + " and " + notTrashed
}

// usesFullText reports whether q contains a fullText term. Drive rejects
// orderBy on such queries.
func usesFullText(q string) bool {
	return strings.Contains(q, "fullText contains")
}
