package notion

import (
	"context"
	"net/http"
	"time"

	"github.com/jomei/notionapi"
	"golang.org/x/oauth2"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Searcher is the part of the notionapi client the adapter uses.
type Searcher interface {
	Do(ctx context.Context, request *notionapi.SearchRequest) (*notionapi.SearchResponse, error)
}

// SearcherFactory builds a Searcher for one access token.
type SearcherFactory func(ctx context.Context, accessToken string) Searcher

// NewSearcherFactory returns a factory backed by notionapi clients.
// base supplies the underlying transport when non-nil.
func NewSearcherFactory(base *http.Client) SearcherFactory {
	return func(ctx context.Context, accessToken string) Searcher {
		return NewClient(ctx, accessToken, base).Search
	}
}

// NewClient creates a notionapi client with a bearer HTTP client.
// The token is sent both by notionapi and by the oauth2 transport; they agree.
func NewClient(ctx context.Context, accessToken string, base *http.Client) *notionapi.Client {
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	hc := oauth2.NewClient(ctx, ts)
	hc.Timeout = DefaultTimeout

	return notionapi.NewClient(
		notionapi.Token(accessToken),
		notionapi.WithHTTPClient(hc),
		notionapi.WithRetry(0),
	)
}
