package github

import (
	"strconv"
	"strings"
)

// RepositoryFullName extracts "owner/repo" from a REST repository URL.
// https://api.github.com/repos/owner/repo -> owner/repo
func RepositoryFullName(apiURL string) string {
	_, rest, ok := strings.Cut(apiURL, "/repos/")
	if !ok {
		return ""
	}
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return ""
	}
	return parts[0] + "/" + parts[1]
}

// ResolveWebURL builds the web URL of an issue or pull request.
// owner/repo, 123, false -> https://github.com/owner/repo/issues/123
func ResolveWebURL(fullName string, number int, pullRequest bool) string {
	if fullName == "" {
		return ""
	}
	kind := "issues"
	if pullRequest {
		kind = "pull"
	}
	if number <= 0 {
		return "https://github.com/" + fullName
	}
	return "https://github.com/" + fullName + "/" + kind + "/" + strconv.Itoa(number)
}
