package google

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/sercha-unified/internal/connectors/ratelimit"
	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	return hasCode(err, http.StatusUnauthorized)
}

// IsForbidden returns true if the error indicates insufficient permissions.
func IsForbidden(err error) bool {
	return hasCode(err, http.StatusForbidden)
}

// IsRateLimited returns true if the error indicates rate limiting.
// Drive reports per-user quota exhaustion as 403 with a rate-limit reason.
func IsRateLimited(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	if gerr.Code == http.StatusTooManyRequests {
		return true
	}
	if gerr.Code == http.StatusForbidden {
		for _, item := range gerr.Errors {
			switch item.Reason {
			case "rateLimitExceeded", "userRateLimitExceeded":
				return true
			}
		}
	}
	return false
}

func hasCode(err error, code int) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == code
	}
	return false
}

// RetryAfter returns the Retry-After hint of a Google API error, or zero.
func RetryAfter(err error) time.Duration {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	return ratelimit.ParseRetryAfter(gerr.Header.Get("Retry-After"), time.Now())
}

// WrapError converts a Google API error into a *domain.ProviderError.
// Returns nil for a nil error.
func WrapError(source domain.SourceName, err error) error {
	if err == nil {
		return nil
	}

	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return pe
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.NewProviderError(source, domain.ProviderErrorTimeout, err)
	case IsRateLimited(err):
		return domain.NewProviderError(source, domain.ProviderErrorRateLimited, err)
	case IsUnauthorized(err), IsForbidden(err):
		return domain.NewProviderError(source, domain.ProviderErrorAuth, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.NewProviderError(source, domain.ProviderErrorTimeout, err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return domain.NewProviderError(source, domain.ProviderErrorMalformed, err)
	}

	return domain.NewProviderError(source, domain.ProviderErrorTransport, err)
}
