package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain text untouched", input: "  Quarterly plan  ", expected: "Quarterly plan"},
		{name: "paragraphs become lines", input: "<p>First</p><p>Second</p>", expected: "First\nSecond"},
		{name: "inline tags removed", input: "Ship <b>before</b> <em>Friday</em>", expected: "Ship before Friday"},
		{name: "entities decoded", input: "R&amp;D &lt;draft&gt;", expected: "R&D <draft>"},
		{name: "script and style dropped", input: "<style>p{}</style>Hello<script>alert(1)</script>", expected: "Hello"},
		{name: "comments dropped", input: "<!-- template -->Steps", expected: "Steps"},
		{name: "br splits lines", input: "one<br/>two<br>three", expected: "one\ntwo\nthree"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StripHTML(tc.input))
		})
	}
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "headings", input: "## Steps to reproduce\nClick pay", expected: "Steps to reproduce\nClick pay"},
		{name: "links keep text", input: "See [the runbook](https://x.test/rb)", expected: "See the runbook"},
		{name: "images dropped", input: "Before ![screenshot](a.png) after", expected: "Before after"},
		{name: "emphasis", input: "This is **very** ~~not~~ __important__", expected: "This is very not important"},
		{name: "inline code keeps content", input: "Call `retry()` twice", expected: "Call retry() twice"},
		{name: "fenced code keeps content", input: "```go\nx := 1\n```", expected: "x := 1"},
		{name: "lists", input: "- one\n* two\n1. three", expected: "one\ntwo\nthree"},
		{name: "task lists", input: "- [ ] write tests\n- [x] ship", expected: "write tests\nship"},
		{name: "blockquote", input: "> quoted reply", expected: "quoted reply"},
		{name: "horizontal rule", input: "above\n---\nbelow", expected: "above\nbelow"},
		{name: "template comments", input: "<!-- Describe the bug -->\nCards declined", expected: "Cards declined"},
		{name: "embedded html", input: "<details><summary>Logs</summary>timeout</details>", expected: "Logs\ntimeout"},
		{name: "snake case survives", input: "set max_retries to 3", expected: "set max_retries to 3"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StripMarkdown(tc.input))
		})
	}
}
