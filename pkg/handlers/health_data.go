package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/glucolog-health/glucolog-engine/pkg/auth"
	"github.com/glucolog-health/glucolog-engine/pkg/models"
	"github.com/glucolog-health/glucolog-engine/pkg/repositories"
	"github.com/glucolog-health/glucolog-engine/pkg/services"
)

// HealthDataHandler handles reading log and summary endpoints.
type HealthDataHandler struct {
	readings    repositories.HealthReadingRepository
	aggregation services.HealthAggregationService
	authMW      *auth.Middleware
	logger      *zap.Logger
}

// NewHealthDataHandler creates a new health data handler.
func NewHealthDataHandler(
	readings repositories.HealthReadingRepository,
	aggregation services.HealthAggregationService,
	authMW *auth.Middleware,
	logger *zap.Logger,
) *HealthDataHandler {
	return &HealthDataHandler{
		readings:    readings,
		aggregation: aggregation,
		authMW:      authMW,
		logger:      logger,
	}
}

// RegisterRoutes registers the handler's routes on the given mux.
// All routes require an authenticated user.
func (h *HealthDataHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/health/readings", h.authMW.RequireAuth(h.CreateReading))
	mux.HandleFunc("GET /api/health/summary", h.authMW.RequireAuth(h.Summary))
}

// createReadingRequest is the POST /api/health/readings body.
type createReadingRequest struct {
	Kind  string  `json:"kind"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// CreateReading handles POST /api/health/readings.
func (h *HealthDataHandler) CreateReading(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req createReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid JSON body")
		return
	}

	if !models.IsValidReadingKind(req.Kind) {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Unknown reading kind")
		return
	}
	if req.Value <= 0 {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Value must be positive")
		return
	}

	reading := &models.HealthReading{
		UserID: userID,
		Kind:   req.Kind,
		Value:  req.Value,
		Unit:   req.Unit,
	}
	if err := h.readings.Insert(r.Context(), reading); err != nil {
		h.logger.Error("Failed to insert reading", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to store reading")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, reading); err != nil {
		h.logger.Error("Failed to encode reading response", zap.Error(err))
	}
}

// Summary handles GET /api/health/summary?days=30.
func (h *HealthDataHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 0 {
			_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "days must be a non-negative integer")
			return
		}
	}

	summary, err := h.aggregation.Summarize(r.Context(), userID, days)
	if err != nil {
		h.logger.Error("Failed to build health summary", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to build summary")
		return
	}

	if err := WriteJSON(w, http.StatusOK, summary); err != nil {
		h.logger.Error("Failed to encode summary response", zap.Error(err))
	}
}
