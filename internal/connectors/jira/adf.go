package jira

import (
	"encoding/json"
	"strings"
)

// adfNode is one node of an Atlassian Document Format tree.
type adfNode struct {
	Type    string          `json:"type"`
	Text    string          `json:"text"`
	Attrs   json.RawMessage `json:"attrs"`
	Content []adfNode       `json:"content"`
}

// blockTypes end with a line break when flattened.
var blockTypes = map[string]bool{
	"paragraph": true, "heading": true, "listItem": true, "blockquote": true,
	"codeBlock": true, "rule": true, "tableRow": true, "panel": true,
}

// FlattenDescription converts a description field to plain text.
// JIRA v3 returns ADF; older payloads and some apps return a plain string.
// Undecodable input yields "".
func FlattenDescription(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var root adfNode
	if err := json.Unmarshal(raw, &root); err != nil {
		return ""
	}

	var b strings.Builder
	flatten(&b, root)
	return strings.TrimSpace(b.String())
}

func flatten(b *strings.Builder, n adfNode) {
	switch n.Type {
	case "text":
		b.WriteString(n.Text)
		return
	case "hardBreak":
		b.WriteByte('\n')
		return
	case "mention", "emoji", "inlineCard":
		if label := attrText(n.Attrs); label != "" {
			b.WriteString(label)
		}
		return
	}

	for _, child := range n.Content {
		flatten(b, child)
	}
	if blockTypes[n.Type] {
		b.WriteByte('\n')
	}
}

// attrText extracts the display text of inline nodes.
func attrText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var attrs struct {
		Text      string `json:"text"`
		ShortName string `json:"shortName"`
		URL       string `json:"url"`
	}
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return ""
	}
	switch {
	case attrs.Text != "":
		return attrs.Text
	case attrs.ShortName != "":
		return attrs.ShortName
	default:
		return attrs.URL
	}
}
