package services

import (
	"strings"
	"time"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

// ScoreWeights holds the additive relevance constants.
// The values are hand-tuned for ranking parity, not derived from a model;
// treat them as a tuning surface.
type ScoreWeights struct {
	ExactTitle        float64
	KeywordInTitle    float64
	QueryInTitle      float64
	KeywordInSnippet  float64
	QueryInSnippet    float64
	FileTypeMatch     float64
	RecentWeek        float64
	RecentMonth       float64
	ProviderMentioned float64
	ProviderDomain    float64
	PersonMatch       float64
	WorkspaceMatch    float64
}

// DefaultScoreWeights returns the standard weights.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		ExactTitle:        50,
		KeywordInTitle:    20,
		QueryInTitle:      15,
		KeywordInSnippet:  10,
		QueryInSnippet:    5,
		FileTypeMatch:     10,
		RecentWeek:        3,
		RecentMonth:       1,
		ProviderMentioned: 25,
		ProviderDomain:    20,
		PersonMatch:       50,
		WorkspaceMatch:    40,
	}
}

// FileTypeHint links a query word to a MIME type predicate.
type FileTypeHint struct {
	Term    string
	Matches func(mimeType string) bool
}

// FileTypeHints are the file-type words the scorer recognises in queries.
var FileTypeHints = []FileTypeHint{
	{Term: "pdf", Matches: func(m string) bool { return strings.Contains(m, "pdf") }},
	{Term: "image", Matches: func(m string) bool { return strings.HasPrefix(m, "image/") }},
	{Term: "video", Matches: func(m string) bool { return strings.HasPrefix(m, "video/") }},
}

// SourceBonus lists the words that tie a query to one provider.
type SourceBonus struct {
	// Mentions name the provider itself ("jira", "google drive").
	Mentions []string
	// DomainTerms are provider-specific concepts ("dashboard", "task").
	DomainTerms []string
}

// SourceBonuses is the per-provider bonus table.
var SourceBonuses = map[domain.SourceName]SourceBonus{
	domain.SourceJira: {
		Mentions:    []string{"jira", "atlassian"},
		DomainTerms: []string{"dashboard", "task", "issue"},
	},
	domain.SourceGoogleDrive: {
		Mentions:    []string{"google drive", "gdrive", "drive"},
		DomainTerms: []string{"file", "folder", "spreadsheet"},
	},
	domain.SourceNotion: {
		Mentions:    []string{"notion"},
		DomainTerms: []string{"page", "wiki", "notes"},
	},
	domain.SourceGitHub: {
		Mentions:    []string{"github"},
		DomainTerms: []string{"repo", "pull request", "commit"},
	},
}

// personKeys are metadata fields holding a person's display name.
var personKeys = []string{domain.MetaAssignee, domain.MetaOwner}

// organisationKeys are metadata fields holding a workspace or organisation name.
var organisationKeys = []string{domain.MetaWorkspace, domain.MetaOrganization, domain.MetaProjectName}

// Scorer assigns explainable additive relevance scores.
type Scorer struct {
	Weights ScoreWeights
	// Now is the clock used for recency bonuses.
	Now func() time.Time
}

// NewScorer returns a scorer with default weights and the wall clock.
func NewScorer() *Scorer {
	return &Scorer{Weights: DefaultScoreWeights(), Now: time.Now}
}

// Score returns the relevance of item for query. keywords must be the
// ExtractKeywords output for query. The result is never negative and is
// not normalised or capped.
func (s *Scorer) Score(item domain.ResultItem, query string, keywords []string) float64 {
	w := s.Weights
	q := strings.ToLower(strings.TrimSpace(query))
	title := strings.ToLower(item.Title)
	snippet := strings.ToLower(item.Snippet)

	var score float64

	if q != "" && title == q {
		score += w.ExactTitle
	}
	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			score += w.KeywordInTitle
		}
	}
	if q != "" && strings.Contains(title, q) {
		score += w.QueryInTitle
	}
	for _, kw := range keywords {
		if strings.Contains(snippet, kw) {
			score += w.KeywordInSnippet
		}
	}
	if q != "" && strings.Contains(snippet, q) {
		score += w.QueryInSnippet
	}

	score += s.fileTypeBonus(item, q)
	score += s.recencyBonus(item)
	score += s.sourceBonus(item, q, keywords)

	return score
}

// fileTypeBonus rewards items whose MIME type matches a file type named in the query.
func (s *Scorer) fileTypeBonus(item domain.ResultItem, q string) float64 {
	mime := strings.ToLower(item.MetaString(domain.MetaMimeType))
	if mime == "" {
		return 0
	}
	var bonus float64
	for _, hint := range FileTypeHints {
		if strings.Contains(q, hint.Term) && hint.Matches(mime) {
			bonus += s.Weights.FileTypeMatch
		}
	}
	return bonus
}

// recencyBonus rewards items modified or updated in the last week or month.
func (s *Scorer) recencyBonus(item domain.ResultItem) float64 {
	best := item.Timestamps.Best()
	if best.IsZero() {
		return 0
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	age := now().Sub(best)
	switch {
	case age <= 7*24*time.Hour:
		return s.Weights.RecentWeek
	case age <= 30*24*time.Hour:
		return s.Weights.RecentMonth
	default:
		return 0
	}
}

// sourceBonus applies provider mention, domain-term, person and workspace bonuses.
func (s *Scorer) sourceBonus(item domain.ResultItem, q string, keywords []string) float64 {
	w := s.Weights
	var bonus float64

	if table, ok := SourceBonuses[item.Source]; ok {
		if containsAny(q, table.Mentions) {
			bonus += w.ProviderMentioned
		}
		if containsAny(q, table.DomainTerms) {
			bonus += w.ProviderDomain
		}
	}

	if matchesPerson(item, keywords) {
		bonus += w.PersonMatch
	}
	if matchesOrganisation(item, q) {
		bonus += w.WorkspaceMatch
	}

	return bonus
}

// matchesPerson reports whether a keyword equals part of an assignee or owner name.
func matchesPerson(item domain.ResultItem, keywords []string) bool {
	for _, key := range personKeys {
		name := strings.ToLower(item.MetaString(key))
		if name == "" {
			continue
		}
		for _, part := range strings.FieldsFunc(name, isNameSeparator) {
			if len(part) < minKeywordLength {
				continue
			}
			for _, kw := range keywords {
				if kw == part {
					return true
				}
			}
		}
	}
	return false
}

// matchesOrganisation reports whether the query names the item's workspace,
// organisation or project.
func matchesOrganisation(item domain.ResultItem, q string) bool {
	if q == "" {
		return false
	}
	for _, key := range organisationKeys {
		name := strings.ToLower(strings.TrimSpace(item.MetaString(key)))
		if len(name) >= minKeywordLength && strings.Contains(q, name) {
			return true
		}
	}
	return false
}

func isNameSeparator(r rune) bool {
	return r == ' ' || r == '.' || r == '_' || r == '-' || r == '@'
}
