package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnknownSource", ErrUnknownSource},
		{"ErrSearchFailed", ErrSearchFailed},
		{"ErrProviderAuth", ErrProviderAuth},
		{"ErrProviderTransport", ErrProviderTransport},
		{"ErrProviderMalformed", ErrProviderMalformed},
		{"ErrProviderTimeout", ErrProviderTimeout},
		{"ErrRateLimited", ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrSearchFailed_Message(t *testing.T) {
	assert.Equal(t, "search failed, please retry", ErrSearchFailed.Error())
}

func TestProviderError_IsKindSentinel(t *testing.T) {
	tests := []struct {
		kind ProviderErrorKind
		want error
	}{
		{ProviderErrorAuth, ErrProviderAuth},
		{ProviderErrorTransport, ErrProviderTransport},
		{ProviderErrorMalformed, ErrProviderMalformed},
		{ProviderErrorTimeout, ErrProviderTimeout},
		{ProviderErrorRateLimited, ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := NewProviderError(SourceJira, tt.kind, errors.New("boom"))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestProviderError_UnknownKindIsTransport(t *testing.T) {
	err := NewProviderError(SourceNotion, ProviderErrorKind("weird"), nil)
	assert.ErrorIs(t, err, ErrProviderTransport)
	assert.Equal(t, "notion: provider transport failure", err.Error())
}

func TestProviderError_WrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewProviderError(SourceGoogleDrive, ProviderErrorTransport, cause)
	wrapped := fmt.Errorf("adapter: %w", err)

	assert.ErrorIs(t, wrapped, cause)
	assert.ErrorIs(t, wrapped, ErrProviderTransport)
	assert.NotErrorIs(t, wrapped, ErrProviderAuth)

	var perr *ProviderError
	assert.True(t, errors.As(wrapped, &perr))
	assert.Equal(t, SourceGoogleDrive, perr.Source)
	assert.Contains(t, err.Error(), "google_drive")
	assert.Contains(t, err.Error(), "connection reset")
}
