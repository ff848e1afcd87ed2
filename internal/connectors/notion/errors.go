package notion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

// Notion error codes that map to specific provider error kinds.
const (
	codeUnauthorized   = "unauthorized"
	codeRestricted     = "restricted_resource"
	codeRateLimited    = "rate_limited"
	codeServiceTimeout = "gateway_timeout"
)

// apiError returns the notionapi error in the chain, if any.
func apiError(err error) (*notionapi.Error, bool) {
	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	apiErr, ok := apiError(err)
	if !ok {
		return false
	}
	code := string(apiErr.Code)
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden ||
		code == codeUnauthorized || code == codeRestricted
}

// IsRateLimited checks if the error indicates rate limiting.
// With retries disabled notionapi reports a 429 as a plain error mentioning the status.
func IsRateLimited(err error) bool {
	if apiErr, ok := apiError(err); ok {
		return apiErr.Status == http.StatusTooManyRequests || string(apiErr.Code) == codeRateLimited
	}
	return err != nil && strings.Contains(err.Error(), "429")
}

// WrapError converts a notionapi failure into a *domain.ProviderError.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return pe
	}

	kind := domain.ProviderErrorTransport
	var netErr net.Error
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case IsUnauthorized(err):
		kind = domain.ProviderErrorAuth
	case IsRateLimited(err):
		kind = domain.ProviderErrorRateLimited
	case errors.Is(err, context.DeadlineExceeded):
		kind = domain.ProviderErrorTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = domain.ProviderErrorTimeout
	case isCode(err, codeServiceTimeout):
		kind = domain.ProviderErrorTimeout
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr),
		errors.Is(err, io.ErrUnexpectedEOF):
		kind = domain.ProviderErrorMalformed
	}

	return domain.NewProviderError(domain.SourceNotion, kind, err)
}

func isCode(err error, code string) bool {
	apiErr, ok := apiError(err)
	return ok && string(apiErr.Code) == code
}
