package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glucolog-health/glucolog-engine/pkg/models"
	"github.com/glucolog-health/glucolog-engine/pkg/providers"
)

func TestClassifyProviderError_QuotaStatuses(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode models.ErrorCode
	}{
		{"429 is rate limited", &providers.APIError{StatusCode: 429, Message: "Too Many Requests"}, models.ErrCodeRateLimited},
		{"402 is rate limited", &providers.APIError{StatusCode: 402, Message: "Payment Required"}, models.ErrCodeRateLimited},
		{"403 with quota message is rate limited", &providers.APIError{StatusCode: 403, Message: "quota exceeded for quota metric"}, models.ErrCodeRateLimited},
		{"403 without quota message is api error", &providers.APIError{StatusCode: 403, Message: "forbidden"}, models.ErrCodeAPIError},
		{"500 is api error", &providers.APIError{StatusCode: 500, Message: "internal"}, models.ErrCodeAPIError},
		{"400 is api error", &providers.APIError{StatusCode: 400, Message: "bad request"}, models.ErrCodeAPIError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serr := classifyProviderError(tt.err)
			assert.Equal(t, tt.wantCode, serr.Code)
		})
	}
}

func TestClassifyProviderError_WrappedAPIError(t *testing.T) {
	wrapped := fmt.Errorf("video search failed: %w", &providers.APIError{StatusCode: 429, Message: "slow down"})
	serr := classifyProviderError(wrapped)
	assert.Equal(t, models.ErrCodeRateLimited, serr.Code)
	assert.Equal(t, "slow down", serr.Message)
}

func TestClassifyProviderError_NetworkErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"deadline exceeded", context.DeadlineExceeded},
		{"canceled", context.Canceled},
		{"wrapped deadline", fmt.Errorf("request failed: %w", context.DeadlineExceeded)},
		{"url error", &url.Error{Op: "Get", URL: "https://example.com", Err: errors.New("connection refused")}},
		{"net error", &net.DNSError{Err: "no such host", Name: "api.example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serr := classifyProviderError(tt.err)
			assert.Equal(t, models.ErrCodeNetworkError, serr.Code)
		})
	}
}

func TestClassifyProviderError_QuotaSubstringFallback(t *testing.T) {
	serr := classifyProviderError(errors.New("daily quota exhausted"))
	assert.Equal(t, models.ErrCodeRateLimited, serr.Code)
}

func TestClassifyProviderError_Default(t *testing.T) {
	serr := classifyProviderError(errors.New("something unexpected"))
	assert.Equal(t, models.ErrCodeAPIError, serr.Code)
	assert.Equal(t, "something unexpected", serr.Message)
}
