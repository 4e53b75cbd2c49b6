package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glucolog-health/glucolog-engine/pkg/models"
)

func TestValidateRequest_Valid(t *testing.T) {
	req, verr := ValidateRequest(map[string]any{
		"service": "youtube",
		"action":  "search",
		"params":  map[string]any{"query": "diabetes diet"},
	})

	require.Nil(t, verr)
	require.NotNil(t, req)
	assert.Equal(t, "youtube", req.Service)
	assert.Equal(t, "search", req.Action)
	assert.Equal(t, "diabetes diet", req.Params["query"])
}

func TestValidateRequest_NormalizesMissingParams(t *testing.T) {
	req, verr := ValidateRequest(map[string]any{
		"service": "spoonacular",
		"action":  "random",
	})

	require.Nil(t, verr)
	require.NotNil(t, req.Params)
	assert.Empty(t, req.Params)
}

func TestValidateRequest_NilParamsNormalized(t *testing.T) {
	req, verr := ValidateRequest(map[string]any{
		"service": "youtube",
		"action":  "categories",
		"params":  nil,
	})

	require.Nil(t, verr)
	require.NotNil(t, req.Params)
}

func TestValidateRequest_ShapeErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		wantCode models.ErrorCode
	}{
		{"non-object body", "not an object", models.ErrCodeInvalidParams},
		{"nil body", nil, models.ErrCodeInvalidParams},
		{"missing service", map[string]any{"action": "search"}, models.ErrCodeInvalidParams},
		{"empty service", map[string]any{"service": "", "action": "search"}, models.ErrCodeInvalidParams},
		{"non-string service", map[string]any{"service": 42, "action": "search"}, models.ErrCodeInvalidParams},
		{"unknown service", map[string]any{"service": "netflix", "action": "search"}, models.ErrCodeInvalidService},
		{"missing action", map[string]any{"service": "youtube"}, models.ErrCodeInvalidParams},
		{"empty action", map[string]any{"service": "youtube", "action": ""}, models.ErrCodeInvalidParams},
		{"params not object", map[string]any{"service": "youtube", "action": "search", "params": "query"}, models.ErrCodeInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, verr := ValidateRequest(tt.body)
			assert.Nil(t, req)
			require.NotNil(t, verr)
			assert.Equal(t, tt.wantCode, verr.Code)
		})
	}
}

func TestValidateRequest_RequiredParams(t *testing.T) {
	tests := []struct {
		name    string
		service string
		action  string
		params  map[string]any
		wantOK  bool
	}{
		{"video search without query", "youtube", "search", map[string]any{}, false},
		{"video search with empty query", "youtube", "search", map[string]any{"query": ""}, false},
		{"video search with query", "youtube", "search", map[string]any{"query": "x"}, true},
		{"video details without ids", "youtube", "details", map[string]any{}, false},
		{"video details with empty array", "youtube", "details", map[string]any{"videoIds": []any{}}, false},
		{"video details with array", "youtube", "details", map[string]any{"videoIds": []any{"abc"}}, true},
		{"video details with csv string", "youtube", "details", map[string]any{"videoIds": "a,b"}, true},
		{"recipe search without query", "spoonacular", "search", map[string]any{}, false},
		{"recipe details without id", "spoonacular", "details", map[string]any{}, false},
		{"recipe details with numeric id", "spoonacular", "details", map[string]any{"id": float64(7)}, true},
		{"unlisted action passes", "youtube", "healthVideos", map[string]any{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, verr := ValidateRequest(map[string]any{
				"service": tt.service,
				"action":  tt.action,
				"params":  tt.params,
			})
			if tt.wantOK {
				assert.Nil(t, verr)
				assert.NotNil(t, req)
			} else {
				require.NotNil(t, verr)
				assert.Equal(t, models.ErrCodeInvalidParams, verr.Code)
			}
		})
	}
}

// Service name must be rejected as INVALID_SERVICE even when the rest of
// the request is malformed too; unknown service wins over missing params.
func TestValidateRequest_UnknownServiceBeforeParams(t *testing.T) {
	_, verr := ValidateRequest(map[string]any{
		"service": "netflix",
		"action":  "search",
	})
	require.NotNil(t, verr)
	assert.Equal(t, models.ErrCodeInvalidService, verr.Code)
}
