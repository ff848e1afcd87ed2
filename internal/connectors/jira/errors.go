package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

// ErrMissingCloudID indicates credentials without a JIRA cloud id.
var ErrMissingCloudID = errors.New("jira: cloud id is required")

// APIError represents a JIRA REST error response.
type APIError struct {
	StatusCode int
	Messages   []string
	URL        string
}

func (e *APIError) Error() string {
	msg := strings.Join(e.Messages, "; ")
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("jira: API error %d: %s (URL: %s)", e.StatusCode, msg, e.URL)
}

// errorBody is the JIRA error envelope.
type errorBody struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
	Message       string            `json:"message"`
}

func (b errorBody) messages() []string {
	out := append([]string(nil), b.ErrorMessages...)
	for field, msg := range b.Errors {
		out = append(out, field+": "+msg)
	}
	if b.Message != "" {
		out = append(out, b.Message)
	}
	return out
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
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
	var apiErr *APIError
	var netErr net.Error
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, ErrMissingCloudID), IsUnauthorized(err):
		kind = domain.ProviderErrorAuth
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		// Unknown cloud id.
		kind = domain.ProviderErrorAuth
	case IsRateLimited(err):
		kind = domain.ProviderErrorRateLimited
	case errors.Is(err, context.DeadlineExceeded):
		kind = domain.ProviderErrorTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = domain.ProviderErrorTimeout
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		kind = domain.ProviderErrorMalformed
	}

	return domain.NewProviderError(domain.SourceJira, kind, err)
}
