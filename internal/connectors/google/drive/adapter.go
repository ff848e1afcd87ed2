// Package drive implements the Google Drive search adapter.
package drive

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/sercha-unified/internal/connectors"
	"github.com/custodia-labs/sercha-unified/internal/connectors/google"
	"github.com/custodia-labs/sercha-unified/internal/connectors/ratelimit"
	"github.com/custodia-labs/sercha-unified/internal/core/domain"
	"github.com/custodia-labs/sercha-unified/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-unified/internal/logger"
)

// Ensure Adapter implements the interface.
var (
	_ driven.ProviderAdapter = (*Adapter)(nil)
	_ driven.PageSizer       = (*Adapter)(nil)
)

// DefaultPageSize is the number of files requested per query.
const DefaultPageSize = 25

// listFields limits the Drive response to what FileToItem reads.
const listFields googleapi.Field = "files(id,name,mimeType,description,webViewLink," +
	"createdTime,modifiedTime,size,owners(displayName,emailAddress))"

var log = logger.For(string(domain.SourceGoogleDrive))

// Config holds Drive adapter configuration.
type Config struct {
	// PageSize is the number of files requested per query.
	PageSize int64
	// Endpoint overrides the API base URL (optional).
	Endpoint string
	// HTTPClient supplies the base transport (optional).
	HTTPClient *http.Client
}

// Adapter searches Google Drive.
type Adapter struct {
	cfg      Config
	pageSize *connectors.PageSize
	limiter  *ratelimit.Limiter
}

// NewAdapter creates a Drive adapter.
func NewAdapter(cfg Config) *Adapter {
	return &Adapter{
		cfg:      cfg,
		pageSize: connectors.NewPageSize(int(cfg.PageSize), DefaultPageSize),
		limiter:  ratelimit.For(domain.SourceGoogleDrive),
	}
}

// SetPageSize changes the number of results requested by later searches.
func (a *Adapter) SetPageSize(n int) {
	a.pageSize.Set(n)
}

// SetLimiter replaces the rate limiter.
func (a *Adapter) SetLimiter(l *ratelimit.Limiter) {
	a.limiter = l
}

// Source returns the provider this adapter serves.
func (a *Adapter) Source() domain.SourceName {
	return domain.SourceGoogleDrive
}

// Search translates the query into Drive query language and runs the
// broadening ladder until a stage returns files.
func (a *Adapter) Search(ctx context.Context, query string, creds domain.Credentials) (domain.AdapterResult, error) {
	if !creds.Connected() {
		return domain.AdapterResult{}, domain.NewProviderError(domain.SourceGoogleDrive, domain.ProviderErrorAuth,
			errors.New("missing access token"))
	}

	var opts []option.ClientOption
	if a.cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(a.cfg.Endpoint))
	}
	svc, err := google.NewDriveService(ctx, creds.AccessToken, a.cfg.HTTPClient, opts...)
	if err != nil {
		return domain.AdapterResult{}, domain.NewProviderError(domain.SourceGoogleDrive, domain.ProviderErrorTransport, err)
	}

	terms := connectors.Analyse(query)
	stages := BuildQueries(terms)

	for i, q := range stages {
		files, err := a.list(ctx, svc, q)
		if err != nil {
			return domain.AdapterResult{}, google.WrapError(domain.SourceGoogleDrive, err)
		}
		if len(files) > 0 {
			log.Debug("stage %d/%d matched %d files", i+1, len(stages), len(files))
			return toResult(files), nil
		}
		log.Debug("stage %d/%d matched nothing: %s", i+1, len(stages), q)
	}

	return domain.AdapterResult{Items: []domain.ResultItem{}}, nil
}

func (a *Adapter) list(ctx context.Context, svc *drive.Service, q string) ([]*drive.File, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	call := svc.Files.List().
		Q(q).
		Fields(listFields).
		PageSize(int64(a.pageSize.Get())).
		Context(ctx)
	if !usesFullText(q) {
		call = call.OrderBy("modifiedTime desc")
	}

	resp, err := call.Do()
	if err != nil {
		if google.IsRateLimited(err) {
			a.limiter.Backoff(google.RetryAfter(err))
		}
		return nil, err
	}
	return resp.Files, nil
}

func toResult(files []*drive.File) domain.AdapterResult {
	items := make([]domain.ResultItem, 0, len(files))
	for _, f := range files {
		if f == nil {
			continue
		}
		items = append(items, FileToItem(f))
	}
	return domain.AdapterResult{Items: items, TotalFound: len(items)}
}
