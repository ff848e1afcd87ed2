package google

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// requestTimeout bounds a single HTTP round trip to a Google API.
const requestTimeout = 30 * time.Second

// NewHTTPClient builds a bearer-token HTTP client for one access token.
// A non-nil base client supplies the underlying transport.
func NewHTTPClient(ctx context.Context, accessToken string, base *http.Client) *http.Client {
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	client := oauth2.NewClient(ctx, ts)
	client.Timeout = requestTimeout
	return client
}

// NewDriveService creates a Google Drive API service for one access token.
// Extra options such as option.WithEndpoint are applied after the
// authenticated client.
func NewDriveService(
	ctx context.Context, accessToken string, base *http.Client, opts ...option.ClientOption,
) (*drive.Service, error) {
	all := append([]option.ClientOption{
		option.WithHTTPClient(NewHTTPClient(ctx, accessToken, base)),
	}, opts...)

	svc, err := drive.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return svc, nil
}
