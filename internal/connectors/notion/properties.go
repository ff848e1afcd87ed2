package notion

import (
	"sort"
	"strings"

	"github.com/jomei/notionapi"
)

// PlainText joins the plain text of rich text segments.
func PlainText(rt []notionapi.RichText) string {
	var b strings.Builder
	for _, seg := range rt {
		b.WriteString(seg.PlainText)
	}
	return strings.TrimSpace(b.String())
}

// PageTitle returns the text of a page's title property.
func PageTitle(props notionapi.Properties) string {
	for _, prop := range props {
		if t, ok := prop.(*notionapi.TitleProperty); ok {
			return PlainText(t.Title)
		}
	}
	return ""
}

// PageSummary renders the text-bearing properties of a page as
// "Name: value" pairs in property-name order. Titles are skipped.
func PageSummary(props notionapi.Properties) string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	var parts []string
	for _, name := range names {
		if value := propertyText(props[name]); value != "" {
			parts = append(parts, name+": "+value)
		}
	}
	return strings.Join(parts, " · ")
}

// PageOwners returns the names from people properties in property-name order.
func PageOwners(props notionapi.Properties) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	var owners []string
	for _, name := range names {
		if p, ok := props[name].(*notionapi.PeopleProperty); ok {
			owners = append(owners, userNames(p.People)...)
		}
	}
	return owners
}

func propertyText(prop notionapi.Property) string {
	switch p := prop.(type) {
	case *notionapi.RichTextProperty:
		return PlainText(p.RichText)
	case *notionapi.SelectProperty:
		return p.Select.Name
	case *notionapi.MultiSelectProperty:
		names := make([]string, 0, len(p.MultiSelect))
		for _, opt := range p.MultiSelect {
			if opt.Name != "" {
				names = append(names, opt.Name)
			}
		}
		return strings.Join(names, ", ")
	case *notionapi.PeopleProperty:
		return strings.Join(userNames(p.People), ", ")
	}
	return ""
}

func userNames(users []notionapi.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		if u.Name != "" {
			out = append(out, u.Name)
		}
	}
	return out
}
