package services

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/glucolog-health/glucolog-engine/pkg/models"
	"github.com/glucolog-health/glucolog-engine/pkg/providers"
)

// classifyProviderError maps an outbound call failure onto the closed
// error taxonomy. Quota exhaustion is detected primarily from the
// provider's HTTP status (429, 402, or 403 with a quota message); the
// "quota" substring check is only a fallback for errors that carry no
// status. Transport failures map to NETWORK_ERROR. Nothing escapes
// unclassified.
func classifyProviderError(err error) *models.ServiceError {
	var apiErr *providers.APIError
	if errors.As(err, &apiErr) {
		if isQuotaStatus(apiErr) {
			return models.NewServiceError(models.ErrCodeRateLimited, apiErr.Message)
		}
		return models.NewServiceError(models.ErrCodeAPIError, apiErr.Message)
	}

	if isNetworkError(err) {
		return models.NewServiceError(models.ErrCodeNetworkError, "provider unreachable: "+err.Error())
	}

	if strings.Contains(err.Error(), "quota") {
		return models.NewServiceError(models.ErrCodeRateLimited, err.Error())
	}

	return models.NewServiceError(models.ErrCodeAPIError, err.Error())
}

// isQuotaStatus reports whether a provider response indicates quota or
// rate-limit exhaustion. The video provider signals exhausted quota as
// 403 with a quota message; the recipe provider uses 402.
func isQuotaStatus(apiErr *providers.APIError) bool {
	switch apiErr.StatusCode {
	case 429, 402:
		return true
	case 403:
		return strings.Contains(apiErr.Message, "quota")
	default:
		return false
	}
}

// isNetworkError reports whether the error is transport-level: DNS
// failure, timeout, connection reset, or a canceled/expired context.
func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
