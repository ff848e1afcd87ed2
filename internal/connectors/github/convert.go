package github

import (
	"strconv"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/sercha-unified/internal/connectors"
	"github.com/custodia-labs/sercha-unified/internal/connectors/markup"
	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

// IssueToItem converts an issue search hit to a result item.
// Pull requests come back from issue search too and keep their own type.
func IssueToItem(issue *gh.Issue) domain.ResultItem {
	repo := RepositoryFullName(issue.GetRepositoryURL())
	pr := issue.IsPullRequest()

	itemType, noun := domain.ItemTypeIssue, "Issue"
	if pr {
		itemType, noun = domain.ItemTypePullRequest, "Pull request"
	}

	meta := map[string]any{
		"number":            issue.GetNumber(),
		domain.MetaStatus:   issue.GetState(),
		"repository":        repo,
		domain.MetaOwner:    issue.GetUser().GetLogin(),
		domain.MetaAssignee: issue.GetAssignee().GetLogin(),
	}
	if owner, _, ok := strings.Cut(repo, "/"); ok {
		meta[domain.MetaOrganization] = owner
	}
	if labels := labelNames(issue.Labels); len(labels) > 0 {
		meta["labels"] = labels
	}
	for k, v := range meta {
		if s, ok := v.(string); ok && s == "" {
			delete(meta, k)
		}
	}

	snippet := connectors.Snippet(markup.StripMarkdown(issue.GetBody()))
	if snippet == "" {
		snippet = strings.TrimSpace(noun + " #" + strconv.Itoa(issue.GetNumber()) + " in " + repo + " · " + issue.GetState())
	}

	id := repo + "#" + strconv.Itoa(issue.GetNumber())
	if repo == "" {
		id = strconv.FormatInt(issue.GetID(), 10)
	}

	return domain.ResultItem{
		ID:       id,
		Title:    issue.GetTitle(),
		Source:   domain.SourceGitHub,
		ItemType: itemType,
		URL:      connectors.FirstNonEmpty(issue.GetHTMLURL(), ResolveWebURL(repo, issue.GetNumber(), pr)),
		Snippet:  snippet,
		Timestamps: domain.Timestamps{
			Created: issue.GetCreatedAt().Time,
			Updated: issue.GetUpdatedAt().Time,
		},
		Metadata: meta,
	}
}

// RepositoryToItem converts a repository search hit to a result item.
func RepositoryToItem(repo *gh.Repository) domain.ResultItem {
	owner := repo.GetOwner().GetLogin()

	meta := map[string]any{"stars": repo.GetStargazersCount()}
	if owner != "" {
		meta[domain.MetaOwner] = owner
		meta[domain.MetaOrganization] = owner
	}
	if lang := repo.GetLanguage(); lang != "" {
		meta["language"] = lang
	}
	if repo.GetPrivate() {
		meta["private"] = true
	}

	snippet := connectors.Snippet(repo.GetDescription())
	if snippet == "" {
		snippet = "Repository owned by " + owner
		if lang := repo.GetLanguage(); lang != "" {
			snippet += " · " + lang
		}
	}

	return domain.ResultItem{
		ID:       repo.GetFullName(),
		Title:    repo.GetFullName(),
		Source:   domain.SourceGitHub,
		ItemType: domain.ItemTypeRepository,
		URL:      connectors.FirstNonEmpty(repo.GetHTMLURL(), ResolveWebURL(repo.GetFullName(), 0, false)),
		Snippet:  snippet,
		Timestamps: domain.Timestamps{
			Created:  repo.GetCreatedAt().Time,
			Modified: repo.GetPushedAt().Time,
			Updated:  repo.GetUpdatedAt().Time,
		},
		Metadata: meta,
	}
}

func labelNames(labels []*gh.Label) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if name := l.GetName(); name != "" {
			out = append(out, name)
		}
	}
	return out
}
