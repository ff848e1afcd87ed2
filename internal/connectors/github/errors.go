package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// APIError represents a GitHub API error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsForbidden checks if the error indicates a forbidden resource.
func IsForbidden(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}

// WrapError converts a client failure into a *domain.ProviderError.
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
	case IsRateLimited(err):
		kind = domain.ProviderErrorRateLimited
	case IsUnauthorized(err), IsForbidden(err):
		kind = domain.ProviderErrorAuth
	case errors.Is(err, context.DeadlineExceeded):
		kind = domain.ProviderErrorTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = domain.ProviderErrorTimeout
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		kind = domain.ProviderErrorMalformed
	}

	return domain.NewProviderError(domain.SourceGitHub, kind, err)
}
