package connectors

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSnippet(t *testing.T) {
	assert.Equal(t, "a b c", Snippet("  a\n\tb   c "))
	assert.Equal(t, "", Snippet(""))

	long := strings.Repeat("word ", 200)
	got := Snippet(long)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), MaxSnippetRunes)
	assert.True(t, strings.HasSuffix(got, "…"))

	exact := strings.Repeat("é", MaxSnippetRunes)
	assert.Equal(t, exact, Snippet(exact))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", FirstNonEmpty("", "  ", "b", "c"))
	assert.Equal(t, "", FirstNonEmpty())
}
