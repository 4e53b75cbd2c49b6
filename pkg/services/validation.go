// Package services contains the proxy pipeline and the domain services
// built on top of it.
package services

import (
	"fmt"

	"github.com/glucolog-health/glucolog-engine/pkg/models"
)

// requiredParams declares, per (service, action), the params that must be
// present and non-empty. Pairs not listed here pass the service-aware
// check with no error.
var requiredParams = map[string]map[string][]string{
	models.ServiceVideo: {
		"search":  {"query"},
		"details": {"videoIds"},
	},
	models.ServiceRecipe: {
		"search":  {"query"},
		"details": {"id"},
	},
}

// ValidateRequest checks a decoded request body and returns the normalized
// ServiceRequest. It runs two passes: a generic shape check, then a
// data-driven service-aware check from requiredParams. Both run before any
// credential lookup or network call.
func ValidateRequest(body any) (*models.ServiceRequest, *models.ServiceError) {
	obj, ok := body.(map[string]any)
	if !ok || obj == nil {
		return nil, models.NewServiceError(models.ErrCodeInvalidParams, "request body must be a JSON object")
	}

	service, ok := obj["service"].(string)
	if !ok || service == "" {
		return nil, models.NewServiceError(models.ErrCodeInvalidParams, "service is required")
	}
	if !models.IsValidService(service) {
		return nil, models.NewServiceError(models.ErrCodeInvalidService,
			fmt.Sprintf("unsupported service %q", service))
	}

	action, ok := obj["action"].(string)
	if !ok || action == "" {
		return nil, models.NewServiceError(models.ErrCodeInvalidParams, "action is required")
	}

	params := map[string]any{}
	if rawParams, present := obj["params"]; present && rawParams != nil {
		params, ok = rawParams.(map[string]any)
		if !ok {
			return nil, models.NewServiceError(models.ErrCodeInvalidParams, "params must be an object")
		}
	}

	for _, name := range requiredParams[service][action] {
		if !hasParam(params, name) {
			return nil, models.NewServiceError(models.ErrCodeInvalidParams,
				fmt.Sprintf("%s %s requires param %q", service, action, name))
		}
	}

	return &models.ServiceRequest{
		Service: service,
		Action:  action,
		Params:  params,
	}, nil
}

// hasParam reports whether a param is present and non-empty. Strings must
// be non-empty; arrays must have at least one element; anything else
// counts as present.
func hasParam(params map[string]any, name string) bool {
	value, ok := params[name]
	if !ok || value == nil {
		return false
	}
	switch v := value.(type) {
	case string:
		return v != ""
	case []any:
		return len(v) > 0
	default:
		return true
	}
}
