package services

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

// CacheKey derives the result-cache key for a query and connected provider set.
// The query is trimmed and lowercased; source order does not matter. The key
// ends with a fingerprint of the credentials used for those sources, so one
// caller's results are never served to another.
func CacheKey(query string, sources []domain.SourceName, creds map[domain.SourceName]domain.Credentials) string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = string(s)
	}
	sort.Strings(names)

	return strings.ToLower(strings.TrimSpace(query)) + "|" + strings.Join(names, ",") +
		"|" + credentialFingerprint(names, creds)
}

// credentialFingerprint hashes the credential fields of the named sources.
// names must be sorted.
func credentialFingerprint(names []string, creds map[domain.SourceName]domain.Credentials) string {
	h := sha256.New()
	for _, name := range names {
		c := creds[domain.SourceName(name)]
		for _, field := range []string{name, c.AccessToken, c.CloudID, c.SiteURL, c.Workspace} {
			h.Write([]byte(field))
			h.Write([]byte{0})
		}
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}
