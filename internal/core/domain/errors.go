package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownSource indicates a provider key that is not recognised.
	// Aggregation ignores such keys; this is only returned by explicit lookups.
	ErrUnknownSource = errors.New("unknown source")

	// ErrSearchFailed indicates the aggregator itself could not run.
	// It is the only error surfaced to the HTTP boundary.
	ErrSearchFailed = errors.New("search failed, please retry")

	// Provider Errors.

	// ErrProviderAuth indicates missing, expired or invalid provider credentials.
	ErrProviderAuth = errors.New("provider authentication failed")

	// ErrProviderTransport indicates a network or upstream server failure.
	ErrProviderTransport = errors.New("provider transport failure")

	// ErrProviderMalformed indicates a provider response that could not be decoded.
	ErrProviderMalformed = errors.New("provider response malformed")

	// ErrProviderTimeout indicates the provider did not answer within its deadline.
	ErrProviderTimeout = errors.New("provider timed out")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// ProviderErrorKind classifies adapter failures.
type ProviderErrorKind string

const (
	ProviderErrorAuth        ProviderErrorKind = "auth"
	ProviderErrorTransport   ProviderErrorKind = "transport"
	ProviderErrorMalformed   ProviderErrorKind = "malformed"
	ProviderErrorTimeout     ProviderErrorKind = "timeout"
	ProviderErrorRateLimited ProviderErrorKind = "rate_limited"
)

// sentinel returns the sentinel error matching the kind.
func (k ProviderErrorKind) sentinel() error {
	switch k {
	case ProviderErrorAuth:
		return ErrProviderAuth
	case ProviderErrorMalformed:
		return ErrProviderMalformed
	case ProviderErrorTimeout:
		return ErrProviderTimeout
	case ProviderErrorRateLimited:
		return ErrRateLimited
	default:
		return ErrProviderTransport
	}
}

// ProviderError is the distinguishable failure raised by provider adapters.
// errors.Is matches both the kind sentinel and the wrapped cause.
type ProviderError struct {
	Source SourceName
	Kind   ProviderErrorKind
	Err    error
}

// NewProviderError wraps err as a provider failure of the given kind.
func NewProviderError(source SourceName, kind ProviderErrorKind, err error) *ProviderError {
	return &ProviderError{Source: source, Kind: kind, Err: err}
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Source, e.Kind.sentinel())
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind.sentinel(), e.Err)
}

// Unwrap exposes the kind sentinel and the cause.
func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}
