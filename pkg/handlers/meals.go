package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/glucolog-health/glucolog-engine/pkg/apperrors"
	"github.com/glucolog-health/glucolog-engine/pkg/auth"
	"github.com/glucolog-health/glucolog-engine/pkg/models"
	"github.com/glucolog-health/glucolog-engine/pkg/repositories"
	"github.com/glucolog-health/glucolog-engine/pkg/services"
)

// MealsHandler handles meal logging, saved recipes and recommendations.
type MealsHandler struct {
	meals          repositories.MealRepository
	recommendation services.MealRecommendationService
	authMW         *auth.Middleware
	logger         *zap.Logger
}

// NewMealsHandler creates a new meals handler.
func NewMealsHandler(
	meals repositories.MealRepository,
	recommendation services.MealRecommendationService,
	authMW *auth.Middleware,
	logger *zap.Logger,
) *MealsHandler {
	return &MealsHandler{
		meals:          meals,
		recommendation: recommendation,
		authMW:         authMW,
		logger:         logger,
	}
}

// RegisterRoutes registers the handler's routes on the given mux.
// All routes require an authenticated user.
func (h *MealsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/meals", h.authMW.RequireAuth(h.CreateMeal))
	mux.HandleFunc("GET /api/meals/recommendations", h.authMW.RequireAuth(h.Recommendations))
	mux.HandleFunc("POST /api/recipes/saved", h.authMW.RequireAuth(h.SaveRecipe))
	mux.HandleFunc("GET /api/recipes/saved", h.authMW.RequireAuth(h.ListSavedRecipes))
}

// createMealRequest is the POST /api/meals body.
type createMealRequest struct {
	Name     string     `json:"name"`
	Calories float64    `json:"calories"`
	Carbs    float64    `json:"carbs"`
	Protein  float64    `json:"protein"`
	Fat      float64    `json:"fat"`
	Fiber    float64    `json:"fiber"`
	EatenAt  *time.Time `json:"eaten_at,omitempty"`
}

// CreateMeal handles POST /api/meals.
func (h *MealsHandler) CreateMeal(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req createMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid JSON body")
		return
	}
	if req.Name == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Meal name is required")
		return
	}
	if req.Calories < 0 || req.Carbs < 0 || req.Protein < 0 || req.Fat < 0 || req.Fiber < 0 {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Macro values must not be negative")
		return
	}

	eatenAt := time.Now().UTC()
	if req.EatenAt != nil {
		eatenAt = req.EatenAt.UTC()
	}

	meal := &models.Meal{
		UserID:   userID,
		Name:     req.Name,
		Calories: req.Calories,
		Carbs:    req.Carbs,
		Protein:  req.Protein,
		Fat:      req.Fat,
		Fiber:    req.Fiber,
		EatenAt:  eatenAt,
	}
	if err := h.meals.InsertMeal(r.Context(), meal); err != nil {
		h.logger.Error("Failed to insert meal", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to store meal")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, meal); err != nil {
		h.logger.Error("Failed to encode meal response", zap.Error(err))
	}
}

// Recommendations handles GET /api/meals/recommendations.
// Optional query parameters override the default daily targets.
func (h *MealsHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	targets := models.DefaultMacroTargets
	q := r.URL.Query()
	for name, dst := range map[string]*float64{
		"calories": &targets.Calories,
		"carbs":    &targets.Carbs,
		"protein":  &targets.Protein,
		"fat":      &targets.Fat,
	} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", name+" must be a non-negative number")
			return
		}
		*dst = v
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "limit must be a non-negative integer")
			return
		}
	}

	recs, err := h.recommendation.Recommend(r.Context(), userID, &targets, limit)
	if err != nil {
		h.logger.Error("Failed to build meal recommendations", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to build recommendations")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"recommendations": recs}); err != nil {
		h.logger.Error("Failed to encode recommendations response", zap.Error(err))
	}
}

// SaveRecipe handles POST /api/recipes/saved.
func (h *MealsHandler) SaveRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var recipe models.Recipe
	if err := json.NewDecoder(r.Body).Decode(&recipe); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid JSON body")
		return
	}
	if recipe.ID == 0 || recipe.Title == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Recipe id and title are required")
		return
	}

	if err := h.meals.SaveRecipe(r.Context(), userID, &recipe); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			_ = ErrorResponse(w, http.StatusConflict, "conflict", "Recipe already saved")
			return
		}
		h.logger.Error("Failed to save recipe", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to save recipe")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, recipe); err != nil {
		h.logger.Error("Failed to encode recipe response", zap.Error(err))
	}
}

// ListSavedRecipes handles GET /api/recipes/saved.
func (h *MealsHandler) ListSavedRecipes(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	recipes, err := h.meals.ListSavedRecipes(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list saved recipes", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to list saved recipes")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"recipes": recipes}); err != nil {
		h.logger.Error("Failed to encode recipes response", zap.Error(err))
	}
}
