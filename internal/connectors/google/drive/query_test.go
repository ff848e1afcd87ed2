package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/sercha-unified/internal/connectors"
)

func TestBuildQueries_SingleKeywordCollapses(t *testing.T) {
	got := BuildQueries(connectors.Analyse("budget"))

	assert.Equal(t, []string{
		"(name contains 'budget' or fullText contains 'budget') and trashed = false",
		"(name contains 'budget') and trashed = false",
	}, got)
}

func TestBuildQueries_General(t *testing.T) {
	assert.Equal(t, []string{notTrashed}, BuildQueries(connectors.Analyse("recent files")))
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `o\'neil`, escape("o'neil"))
	assert.Equal(t, `a\\b`, escape(`a\b`))
}

func TestUsesFullText(t *testing.T) {
	assert.True(t, usesFullText("fullText contains 'x'"))
	assert.False(t, usesFullText("name contains 'x'"))
}
