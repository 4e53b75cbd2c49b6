package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/glucolog-health/glucolog-engine/pkg/apperrors"
	"github.com/glucolog-health/glucolog-engine/pkg/models"
	"github.com/glucolog-health/glucolog-engine/pkg/providers/recipe"
	"github.com/glucolog-health/glucolog-engine/pkg/providers/video"
)

// VideoAPI is the outbound surface of the video provider client.
type VideoAPI interface {
	Search(ctx context.Context, key string, p video.SearchParams) (*video.SearchResponse, error)
	Details(ctx context.Context, key string, ids []string) (*video.DetailsResponse, error)
}

// RecipeAPI is the outbound surface of the recipe provider client.
type RecipeAPI interface {
	Search(ctx context.Context, key string, p recipe.SearchParams) (*recipe.SearchResponse, error)
	Details(ctx context.Context, key string, id int) (*recipe.Information, error)
	Random(ctx context.Context, key string, number int, tags string) (*recipe.RandomResponse, error)
}

// ServiceProxy is the single entry point for proxied provider calls:
// validate, resolve the credential, dispatch, transform. It never
// returns an error across its boundary - every outcome is an envelope.
type ServiceProxy interface {
	Call(ctx context.Context, body any) *models.ServiceResponse
}

type serviceProxy struct {
	resolver   KeyResolver
	videoAPI   VideoAPI
	recipeAPI  RecipeAPI
	categories *CategoryTable
	logger     *zap.Logger
}

// NewServiceProxy creates the proxy from its collaborators.
func NewServiceProxy(
	resolver KeyResolver,
	videoAPI VideoAPI,
	recipeAPI RecipeAPI,
	categories *CategoryTable,
	logger *zap.Logger,
) ServiceProxy {
	return &serviceProxy{
		resolver:   resolver,
		videoAPI:   videoAPI,
		recipeAPI:  recipeAPI,
		categories: categories,
		logger:     logger.Named("proxy"),
	}
}

// Call runs one request through the pipeline. Validation failures return
// before any credential lookup or network call happens.
func (p *serviceProxy) Call(ctx context.Context, body any) *models.ServiceResponse {
	req, verr := ValidateRequest(body)
	if verr != nil {
		return models.ErrorResponse(verr)
	}

	key, err := p.resolver.ResolveKey(ctx, req.Service)
	if err != nil {
		if errors.Is(err, apperrors.ErrKeyNotFound) {
			return models.ErrorResponse(models.NewServiceError(
				models.ErrCodeKeyNotFound, "service temporarily unavailable"))
		}
		p.logger.Error("Credential resolution failed",
			zap.String("service", req.Service),
			zap.Error(err))
		return models.ErrorResponse(models.NewServiceError(
			models.ErrCodeAPIError, "failed to resolve service credential"))
	}

	switch req.Service {
	case models.ServiceVideo:
		return p.dispatchVideo(ctx, req, key)
	case models.ServiceRecipe:
		return p.dispatchRecipe(ctx, req, key)
	default:
		// Unreachable after validation; kept so the envelope invariant
		// holds even if the service set grows.
		return models.ErrorResponse(models.NewServiceError(
			models.ErrCodeInvalidService, fmt.Sprintf("unsupported service %q", req.Service)))
	}
}

// dispatchVideo routes video-service actions.
func (p *serviceProxy) dispatchVideo(ctx context.Context, req *models.ServiceRequest, key string) *models.ServiceResponse {
	switch req.Action {
	case "search":
		return p.videoSearch(ctx, key, video.SearchParams{
			Query:      stringParam(req.Params, "query"),
			MaxResults: intParam(req.Params, "maxResults", 0),
			Order:      stringParam(req.Params, "order"),
			Duration:   stringParam(req.Params, "videoDuration"),
		})

	case "healthVideos":
		query := p.categories.Query(stringParam(req.Params, "category"))
		return p.videoSearch(ctx, key, video.SearchParams{
			Query:      query,
			MaxResults: intParam(req.Params, "maxResults", 0),
		})

	case "details":
		ids := idListParam(req.Params, "videoIds")
		resp, err := p.videoAPI.Details(ctx, key, ids)
		if err != nil {
			return models.ErrorResponse(classifyProviderError(err))
		}
		return models.SuccessResponse(video.TransformDetails(resp))

	case "categories":
		return models.SuccessResponse(p.categories.All())

	default:
		return models.ErrorResponse(models.NewServiceError(models.ErrCodeInvalidParams,
			fmt.Sprintf("unknown action %q for service %q", req.Action, req.Service)))
	}
}

// videoSearch performs the composite search: basic hits first, then a
// details call to enrich duration and statistics. If enrichment fails
// the basic transform is returned instead of failing the request.
func (p *serviceProxy) videoSearch(ctx context.Context, key string, params video.SearchParams) *models.ServiceResponse {
	searchResp, err := p.videoAPI.Search(ctx, key, params)
	if err != nil {
		return models.ErrorResponse(classifyProviderError(err))
	}

	ids := make([]string, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}

	if len(ids) == 0 {
		return models.SuccessResponse(video.TransformSearch(searchResp))
	}

	detailsResp, err := p.videoAPI.Details(ctx, key, ids)
	if err != nil {
		p.logger.Warn("Video enrichment failed, returning basic results",
			zap.Int("hits", len(ids)),
			zap.Error(err))
		return models.SuccessResponse(video.TransformSearch(searchResp))
	}

	return models.SuccessResponse(video.TransformDetails(detailsResp))
}

// dispatchRecipe routes recipe-service actions.
func (p *serviceProxy) dispatchRecipe(ctx context.Context, req *models.ServiceRequest, key string) *models.ServiceResponse {
	switch req.Action {
	case "search":
		resp, err := p.recipeAPI.Search(ctx, key, recipe.SearchParams{
			Query:        stringParam(req.Params, "query"),
			Number:       intParam(req.Params, "number", 0),
			Diet:         stringParam(req.Params, "diet"),
			MaxReadyTime: intParam(req.Params, "maxReadyTime", 0),
		})
		if err != nil {
			return models.ErrorResponse(classifyProviderError(err))
		}
		return models.SuccessResponse(recipe.TransformAll(resp.Results))

	case "details":
		id := intParam(req.Params, "id", 0)
		if id <= 0 {
			return models.ErrorResponse(models.NewServiceError(
				models.ErrCodeInvalidParams, "id must be a positive number"))
		}
		info, err := p.recipeAPI.Details(ctx, key, id)
		if err != nil {
			return models.ErrorResponse(classifyProviderError(err))
		}
		return models.SuccessResponse(recipe.Transform(info))

	case "random":
		resp, err := p.recipeAPI.Random(ctx, key,
			intParam(req.Params, "number", recipe.DefaultRandomNumber),
			stringParam(req.Params, "tags"))
		if err != nil {
			return models.ErrorResponse(classifyProviderError(err))
		}
		return models.SuccessResponse(recipe.TransformAll(resp.Recipes))

	default:
		return models.ErrorResponse(models.NewServiceError(models.ErrCodeInvalidParams,
			fmt.Sprintf("unknown action %q for service %q", req.Action, req.Service)))
	}
}

// stringParam reads a string param, returning "" when absent or not a string.
func stringParam(params map[string]any, name string) string {
	if v, ok := params[name].(string); ok {
		return v
	}
	return ""
}

// intParam reads a numeric param. JSON numbers decode as float64; numeric
// strings are accepted too. Absent or unparseable values return def.
func intParam(params map[string]any, name string, def int) int {
	switch v := params[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// idListParam reads a list of IDs given either as a comma-separated
// string or a JSON array of strings.
func idListParam(params map[string]any, name string) []string {
	switch v := params[name].(type) {
	case string:
		var ids []string
		for _, id := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(id); trimmed != "" {
				ids = append(ids, trimmed)
			}
		}
		return ids
	case []any:
		var ids []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				ids = append(ids, s)
			}
		}
		return ids
	default:
		return nil
	}
}

// Ensure serviceProxy implements ServiceProxy at compile time.
var _ ServiceProxy = (*serviceProxy)(nil)
