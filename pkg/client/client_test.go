package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glucolog-health/glucolog-engine/pkg/models"
)

func proxyStub(t *testing.T, handler func(req models.ServiceRequest) *models.ServiceResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/functions/call-service", r.URL.Path)

		var req models.ServiceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := handler(req)
		if resp.Error != nil {
			w.WriteHeader(http.StatusBadRequest)
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestClient_CallService(t *testing.T) {
	server := proxyStub(t, func(req models.ServiceRequest) *models.ServiceResponse {
		assert.Equal(t, "youtube", req.Service)
		assert.Equal(t, "search", req.Action)
		assert.Equal(t, "diabetes", req.Params["query"])
		return models.SuccessResponse([]models.Video{{ID: "abc", Title: "Managing Type 2"}})
	})
	defer server.Close()

	c := New(server.URL)
	data, err := c.CallService(context.Background(), "youtube", "search", map[string]any{"query": "diabetes"})
	require.NoError(t, err)

	var videos []models.Video
	require.NoError(t, json.Unmarshal(data, &videos))
	require.Len(t, videos, 1)
	assert.Equal(t, "abc", videos[0].ID)
}

func TestClient_ErrorEnvelope(t *testing.T) {
	server := proxyStub(t, func(models.ServiceRequest) *models.ServiceResponse {
		return models.ErrorResponse(models.NewServiceError(models.ErrCodeKeyNotFound, "service temporarily unavailable"))
	})
	defer server.Close()

	c := New(server.URL)
	_, err := c.CallService(context.Background(), "youtube", "search", map[string]any{"query": "x"})
	require.Error(t, err)

	var callErr *ServiceCallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, models.ErrCodeKeyNotFound, callErr.Code)
	assert.Equal(t, "service temporarily unavailable", callErr.Message)
}

func TestClient_AuthTokenAttached(t *testing.T) {
	var sawAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(models.SuccessResponse([]models.Video{}))
	}))
	defer server.Close()

	c := New(server.URL, WithAuthToken("tok123"))
	_, err := c.CallService(context.Background(), "youtube", "categories", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", sawAuth)
}

func TestClient_VideoWrapper(t *testing.T) {
	server := proxyStub(t, func(req models.ServiceRequest) *models.ServiceResponse {
		switch req.Action {
		case "search":
			assert.Equal(t, float64(3), req.Params["maxResults"])
			return models.SuccessResponse([]models.Video{{ID: "v1"}})
		case "categories":
			return models.SuccessResponse([]models.VideoCategory{{Key: "diabetes", Label: "Diabetes Management"}})
		default:
			t.Fatalf("unexpected action %q", req.Action)
			return nil
		}
	})
	defer server.Close()

	c := New(server.URL)

	videos, err := c.Video().Search(context.Background(), "diet", 3)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "v1", videos[0].ID)

	categories, err := c.Video().Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "diabetes", categories[0].Key)
}

func TestClient_RecipeWrapper(t *testing.T) {
	server := proxyStub(t, func(req models.ServiceRequest) *models.ServiceResponse {
		switch req.Action {
		case "search":
			assert.Equal(t, "diabetic", req.Params["diet"])
			return models.SuccessResponse([]models.Recipe{{ID: 7, Title: "Oat Bowl"}})
		case "details":
			assert.Equal(t, float64(7), req.Params["id"])
			return models.SuccessResponse(models.Recipe{ID: 7, Title: "Oat Bowl"})
		default:
			t.Fatalf("unexpected action %q", req.Action)
			return nil
		}
	})
	defer server.Close()

	c := New(server.URL)

	recipes, err := c.Recipes().Search(context.Background(), "oats", map[string]any{"diet": "diabetic"})
	require.NoError(t, err)
	require.Len(t, recipes, 1)

	recipe, err := c.Recipes().Details(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Oat Bowl", recipe.Title)
}

func TestClient_NetworkFailure(t *testing.T) {
	c := New("http://127.0.0.1:1")
	_, err := c.CallService(context.Background(), "youtube", "search", map[string]any{"query": "x"})
	assert.Error(t, err)
}
