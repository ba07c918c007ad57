package provider

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewErrorRetryable(t *testing.T) {
	tests := []struct {
		category  ErrorCategory
		retryable bool
	}{
		{ErrorTimeout, true},
		{ErrorProviderOutage, true},
		{ErrorRateLimited, true},
		{ErrorBadData, false},
		{ErrorNotFound, false},
		{ErrorInternal, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			err := NewError(tt.category, "afip", "boom", nil)
			assert.Equal(t, tt.retryable, err.Retryable)
			assert.Equal(t, tt.retryable, IsRetryable(err))
		})
	}
}

func TestGetCategoryThroughWrapping(t *testing.T) {
	err := NewError(ErrorRateLimited, "arca", "Rate limit exceeded", nil)
	wrapped := fmt.Errorf("batch item: %w", err)

	assert.Equal(t, ErrorRateLimited, GetCategory(wrapped))
	assert.True(t, IsRetryable(wrapped))
	assert.Equal(t, "Rate limit exceeded", GetMessage(wrapped))
}

func TestGetCategoryPlainError(t *testing.T) {
	assert.Equal(t, ErrorInternal, GetCategory(errors.New("plain")))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestErrorString(t *testing.T) {
	err := NewError(ErrorProviderOutage, "websearch", "WEB_CAIDA", errors.New("dial tcp"))
	assert.Contains(t, err.Error(), "websearch")
	assert.Contains(t, err.Error(), "provider_outage")
	assert.True(t, errors.Is(err, err.Underlying) || errors.As(err, new(*Error)))
}
