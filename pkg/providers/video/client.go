// Package video provides a client for the external video search API.
package video

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

// Defaults applied when the caller omits search parameters.
const (
	DefaultMaxResults = 10
	DefaultOrder      = "relevance"
)

// SearchParams are the supported video search filters.
type SearchParams struct {
	Query      string
	MaxResults int    // defaults to DefaultMaxResults
	Order      string // defaults to DefaultOrder
	Duration   string // "short", "medium", "long"; empty means any
}

// SearchItem is one raw search hit from the provider.
type SearchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet Snippet `json:"snippet"`
}

// Snippet holds the descriptive fields shared by search and details payloads.
type Snippet struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
	Thumbnails   struct {
		Medium struct {
			URL string `json:"url"`
		} `json:"medium"`
		Default struct {
			URL string `json:"url"`
		} `json:"default"`
	} `json:"thumbnails"`
}

// SearchResponse is the raw provider payload for a search call.
type SearchResponse struct {
	Items []SearchItem `json:"items"`
}

// DetailsItem is one raw record from the details endpoint, with duration
// and statistics populated.
type DetailsItem struct {
	ID             string  `json:"id"`
	Snippet        Snippet `json:"snippet"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
	Statistics struct {
		ViewCount string `json:"viewCount"`
		LikeCount string `json:"likeCount"`
	} `json:"statistics"`
}

// DetailsResponse is the raw provider payload for a details call.
type DetailsResponse struct {
	Items []DetailsItem `json:"items"`
}

// apiErrorBody is the provider's error envelope.
type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client calls the external video search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new video API client. The timeout bounds each call.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("video"),
	}
}

// Search performs a basic video search. The API key is passed as a query
// credential and never logged.
func (c *Client) Search(ctx context.Context, key string, p SearchParams) (*SearchResponse, error) {
	if p.MaxResults <= 0 {
		p.MaxResults = DefaultMaxResults
	}
	if p.Order == "" {
		p.Order = DefaultOrder
	}

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("q", p.Query)
	q.Set("maxResults", strconv.Itoa(p.MaxResults))
	q.Set("order", p.Order)
	if p.Duration != "" {
		q.Set("videoDuration", p.Duration)
	}
	q.Set("key", key)

	var resp SearchResponse
	if err := c.get(ctx, "/search", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Details fetches duration and statistics for the given video IDs.
func (c *Client) Details(ctx context.Context, key string, ids []string) (*DetailsResponse, error) {
	q := url.Values{}
	q.Set("part", "snippet,contentDetails,statistics")
	q.Set("id", strings.Join(ids, ","))
	q.Set("key", key)

	var resp DetailsResponse
	if err := c.get(ctx, "/videos", q, &resp); err != nil {
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
		return fmt.Errorf("video provider call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		message := providerMessage(body)
		c.logger.Warn("Video provider returned error",
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
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return strings.TrimSpace(string(body))
}
