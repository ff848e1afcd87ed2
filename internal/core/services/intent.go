package services

import (
	"strings"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

// IntentVocabulary is the term list that signals a query is aimed at one source.
type IntentVocabulary struct {
	Source domain.SourceName
	Terms  []string
}

// IntentVocabularies is the default routing table, in tie-break priority order.
var IntentVocabularies = []IntentVocabulary{
	{
		Source: domain.SourceJira,
		Terms: []string{
			"jira", "issue", "bug", "sprint", "ticket", "board", "epic",
			"story", "backlog", "assigned", "assignee", "kanban", "release",
		},
	},
	{
		Source: domain.SourceGoogleDrive,
		Terms: []string{
			"drive", "file", "folder", "document", "pdf", "spreadsheet",
			"sheet", "slides", "presentation", "image", "photo", "resume",
			"offer letter", "upload",
		},
	},
	{
		Source: domain.SourceNotion,
		Terms: []string{
			"notion", "page", "wiki", "note", "workspace", "database",
			"knowledge base", "meeting notes", "journal",
		},
	},
	{
		Source: domain.SourceGitHub,
		Terms: []string{
			"github", "repo", "repository", "pull request", "commit",
			"branch", "merge",
		},
	},
}

// IntentClassifier routes queries using keyword-overlap scoring.
type IntentClassifier struct {
	vocabularies []IntentVocabulary
}

// NewIntentClassifier returns a classifier over the given vocabularies.
// Order matters: earlier vocabularies win ties. A nil table uses IntentVocabularies.
func NewIntentClassifier(vocabularies []IntentVocabulary) *IntentClassifier {
	if vocabularies == nil {
		vocabularies = IntentVocabularies
	}
	return &IntentClassifier{vocabularies: vocabularies}
}

// Classify returns the single source the query is aimed at, or IntentAll
// when no vocabulary term occurs in the query.
func (c *IntentClassifier) Classify(query string) domain.Intent {
	lower := strings.ToLower(query)
	best := domain.IntentAll
	maxScore := 0

	for _, vocab := range c.vocabularies {
		score := 0
		for _, term := range vocab.Terms {
			if strings.Contains(lower, term) {
				score++
			}
		}
		// Strictly greater keeps the earlier vocabulary on ties.
		if score > maxScore {
			maxScore = score
			best = domain.IntentFor(vocab.Source)
		}
	}

	return best
}

// Scores returns the overlap count per source, for diagnostics.
func (c *IntentClassifier) Scores(query string) map[domain.SourceName]int {
	lower := strings.ToLower(query)
	scores := make(map[domain.SourceName]int, len(c.vocabularies))
	for _, vocab := range c.vocabularies {
		for _, term := range vocab.Terms {
			if strings.Contains(lower, term) {
				scores[vocab.Source]++
			}
		}
	}
	return scores
}

// ClassifyIntent classifies a query with the default vocabularies.
func ClassifyIntent(query string) domain.Intent {
	return NewIntentClassifier(nil).Classify(query)
}
