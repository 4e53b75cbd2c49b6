package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/glucolog-health/glucolog-engine/pkg/models"
)

// DefaultTimeout bounds a single proxy call.
const DefaultTimeout = 30 * time.Second

// callServicePath is the engine's service-proxy endpoint.
const callServicePath = "/functions/call-service"

// Client is a thin SDK around the engine's service-proxy endpoint. It
// speaks the proxy envelope only and never sees raw provider payloads.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAuthToken attaches a bearer token to every request.
func WithAuthToken(token string) Option {
	return func(c *Client) {
		c.authToken = token
	}
}

// New creates a Client pointed at the given engine base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ServiceCallError is a structured proxy-side failure, carrying the
// envelope's error code so callers can branch on it.
type ServiceCallError struct {
	Code    models.ErrorCode
	Message string
}

func (e *ServiceCallError) Error() string {
	return fmt.Sprintf("service call failed (%s): %s", e.Code, e.Message)
}

// CallService invokes the proxy for the given service and action. On a
// success envelope the raw Data payload is returned; on an error
// envelope a *ServiceCallError is returned.
func (c *Client) CallService(ctx context.Context, service, action string, params map[string]any) (json.RawMessage, error) {
	reqBody, err := json.Marshal(models.ServiceRequest{
		Service: service,
		Action:  action,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+callServicePath, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Data  json.RawMessage      `json:"data"`
		Error *models.ServiceError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if envelope.Error != nil {
		return nil, &ServiceCallError{Code: envelope.Error.Code, Message: envelope.Error.Message}
	}
	return envelope.Data, nil
}

// Video returns a scoped wrapper for the video service.
func (c *Client) Video() *VideoAPI {
	return &VideoAPI{client: c}
}

// Recipes returns a scoped wrapper for the recipe service.
func (c *Client) Recipes() *RecipeAPI {
	return &RecipeAPI{client: c}
}

// VideoAPI exposes typed video-service calls.
type VideoAPI struct {
	client *Client
}

// Search runs a video search.
func (v *VideoAPI) Search(ctx context.Context, query string, maxResults int) ([]models.Video, error) {
	params := map[string]any{"query": query}
	if maxResults > 0 {
		params["maxResults"] = maxResults
	}
	data, err := v.client.CallService(ctx, models.ServiceVideo, "search", params)
	if err != nil {
		return nil, err
	}
	return decodeVideos(data)
}

// HealthVideos fetches curated videos for a health category.
func (v *VideoAPI) HealthVideos(ctx context.Context, category string, maxResults int) ([]models.Video, error) {
	params := map[string]any{"category": category}
	if maxResults > 0 {
		params["maxResults"] = maxResults
	}
	data, err := v.client.CallService(ctx, models.ServiceVideo, "healthVideos", params)
	if err != nil {
		return nil, err
	}
	return decodeVideos(data)
}

// Details fetches full metadata for the given video IDs.
func (v *VideoAPI) Details(ctx context.Context, videoIDs []string) ([]models.Video, error) {
	data, err := v.client.CallService(ctx, models.ServiceVideo, "details", map[string]any{"videoIds": videoIDs})
	if err != nil {
		return nil, err
	}
	return decodeVideos(data)
}

// Categories lists the supported health video categories.
func (v *VideoAPI) Categories(ctx context.Context) ([]models.VideoCategory, error) {
	data, err := v.client.CallService(ctx, models.ServiceVideo, "categories", nil)
	if err != nil {
		return nil, err
	}
	var categories []models.VideoCategory
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

// RecipeAPI exposes typed recipe-service calls.
type RecipeAPI struct {
	client *Client
}

// Search runs a recipe search. Extra filters (diet, maxCarbs, ...) pass
// through unchanged.
func (r *RecipeAPI) Search(ctx context.Context, query string, filters map[string]any) ([]models.Recipe, error) {
	params := map[string]any{"query": query}
	for k, v := range filters {
		params[k] = v
	}
	data, err := r.client.CallService(ctx, models.ServiceRecipe, "search", params)
	if err != nil {
		return nil, err
	}
	return decodeRecipes(data)
}

// Details fetches one recipe by ID.
func (r *RecipeAPI) Details(ctx context.Context, id int) (*models.Recipe, error) {
	data, err := r.client.CallService(ctx, models.ServiceRecipe, "details", map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	var recipe models.Recipe
	if err := json.Unmarshal(data, &recipe); err != nil {
		return nil, fmt.Errorf("failed to decode recipe: %w", err)
	}
	return &recipe, nil
}

// Random fetches random recipes, optionally constrained by tags.
func (r *RecipeAPI) Random(ctx context.Context, number int, tags string) ([]models.Recipe, error) {
	params := map[string]any{}
	if number > 0 {
		params["number"] = number
	}
	if tags != "" {
		params["tags"] = tags
	}
	data, err := r.client.CallService(ctx, models.ServiceRecipe, "random", params)
	if err != nil {
		return nil, err
	}
	return decodeRecipes(data)
}

func decodeVideos(data json.RawMessage) ([]models.Video, error) {
	var videos []models.Video
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, fmt.Errorf("failed to decode videos: %w", err)
	}
	return videos, nil
}

func decodeRecipes(data json.RawMessage) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}
	return recipes, nil
}
