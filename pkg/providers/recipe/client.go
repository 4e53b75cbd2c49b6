// Package recipe provides a client for the external recipe search API.
package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/glucolog-health/glucolog-engine/pkg/providers"
)

// Defaults applied when the caller omits parameters.
const (
	DefaultSearchNumber = 10
	DefaultRandomNumber = 5
)

// SearchParams are the supported recipe search filters.
type SearchParams struct {
	Query        string
	Number       int    // defaults to DefaultSearchNumber
	Diet         string // e.g. "diabetic", "vegetarian"; empty means any
	MaxReadyTime int    // minutes; 0 means no limit
}

// Nutrient is one entry in the provider's flat nutrient list.
type Nutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Information is one raw recipe record from the provider.
type Information struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Image          string   `json:"image"`
	ReadyInMinutes int      `json:"readyInMinutes"`
	Servings       int      `json:"servings"`
	SourceURL      string   `json:"sourceUrl"`
	DishTypes      []string `json:"dishTypes"`
	Nutrition      struct {
		Nutrients []Nutrient `json:"nutrients"`
	} `json:"nutrition"`
}

// SearchResponse is the raw provider payload for a search call.
type SearchResponse struct {
	Results []Information `json:"results"`
}

// RandomResponse is the raw provider payload for a random call.
type RandomResponse struct {
	Recipes []Information `json:"recipes"`
}

// apiErrorBody is the provider's error envelope.
type apiErrorBody struct {
	Message string `json:"message"`
}

// Client calls the external recipe search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new recipe API client. The timeout bounds each call.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("recipe"),
	}
}

// Search performs a recipe search with nutrition included.
func (c *Client) Search(ctx context.Context, key string, p SearchParams) (*SearchResponse, error) {
	if p.Number <= 0 {
		p.Number = DefaultSearchNumber
	}

	q := url.Values{}
	q.Set("query", p.Query)
	q.Set("number", strconv.Itoa(p.Number))
	q.Set("addRecipeNutrition", "true")
	q.Set("addRecipeInformation", "true")
	if p.Diet != "" {
		q.Set("diet", p.Diet)
	}
	if p.MaxReadyTime > 0 {
		q.Set("maxReadyTime", strconv.Itoa(p.MaxReadyTime))
	}
	q.Set("apiKey", key)

	var resp SearchResponse
	if err := c.get(ctx, "/recipes/complexSearch", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Details fetches one recipe by ID with nutrition included.
func (c *Client) Details(ctx context.Context, key string, id int) (*Information, error) {
	q := url.Values{}
	q.Set("includeNutrition", "true")
	q.Set("apiKey", key)

	var resp Information
	if err := c.get(ctx, fmt.Sprintf("/recipes/%d/information", id), q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Random fetches random recipes, optionally filtered by tags.
func (c *Client) Random(ctx context.Context, key string, number int, tags string) (*RandomResponse, error) {
	if number <= 0 {
		number = DefaultRandomNumber
	}

	q := url.Values{}
	q.Set("number", strconv.Itoa(number))
	q.Set("includeNutrition", "true")
	if tags != "" {
		q.Set("tags", tags)
	}
	q.Set("apiKey", key)

	var resp RandomResponse
	if err := c.get(ctx, "/recipes/random", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// get executes one GET call and decodes the JSON payload into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("recipe provider call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		message := providerMessage(body)
		c.logger.Warn("Recipe provider returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("path", path))
		return &providers.APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// providerMessage extracts the human message from an error payload,
// falling back to the raw body.
func providerMessage(body []byte) string {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return strings.TrimSpace(string(body))
}
