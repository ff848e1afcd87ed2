// Package markup reduces provider-authored markup to plain text for snippets.
//
// GitHub issue bodies arrive as markdown, often with HTML comments left by
// issue templates; Drive descriptions are sometimes pasted HTML. Both are
// converted before they reach connectors.Snippet.
package markup

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// blockTags become line breaks; skipTags are dropped with their contents.
var (
	blockTags = map[string]bool{
		"p": true, "div": true, "br": true, "hr": true, "li": true, "ul": true, "ol": true,
		"tr": true, "table": true, "blockquote": true, "pre": true, "details": true, "summary": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	}
	skipTags = map[string]bool{"script": true, "style": true, "noscript": true}
)

var (
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)

	fencedCode   = regexp.MustCompile("(?s)```[^\\n]*\\n?(.*?)```")
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	images       = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasis     = regexp.MustCompile(`(\*\*|__|~~)(.+?)(\*\*|__|~~)`)
	blockquote   = regexp.MustCompile(`(?m)^>\s?`)
	horizontal   = regexp.MustCompile(`(?m)^\s*[-*_]{3,}\s*$`)
	taskMarkers  = regexp.MustCompile(`(?m)^\s*[-*+]\s+\[[ xX]\]\s+`)
	listMarkers  = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedList = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
)

// StripHTML removes tags, comments, scripts and styles, and decodes entities.
// Block elements become line breaks.
func StripHTML(content string) string {
	if !strings.ContainsAny(content, "<&") {
		return tidy(content)
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(content))
	skipping := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return tidy(b.String())
		case html.TextToken:
			if skipping == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skipTags[tag] {
				skipping++
			} else if blockTags[tag] {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skipTags[tag] && skipping > 0 {
				skipping--
			} else if blockTags[tag] {
				b.WriteByte('\n')
			}
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockTags[string(name)] {
				b.WriteByte('\n')
			}
		}
	}
}

// StripMarkdown removes markdown syntax, keeping link text and code contents.
// Embedded HTML is stripped as well.
func StripMarkdown(content string) string {
	content = htmlComments.ReplaceAllString(content, "")
	content = fencedCode.ReplaceAllString(content, "$1")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "$2")
	content = blockquote.ReplaceAllString(content, "")
	content = horizontal.ReplaceAllString(content, "")
	content = taskMarkers.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")
	return StripHTML(content)
}

// tidy collapses runs of spaces and drops blank lines.
func tidy(content string) string {
	content = multiSpaces.ReplaceAllString(content, " ")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
