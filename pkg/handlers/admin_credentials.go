package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/glucolog-health/glucolog-engine/pkg/auth"
	"github.com/glucolog-health/glucolog-engine/pkg/models"
	"github.com/glucolog-health/glucolog-engine/pkg/services"
)

// AdminCredentialsHandler exposes service-credential management.
// Every route requires a service-role token.
type AdminCredentialsHandler struct {
	admin  services.CredentialAdminService
	authMW *auth.Middleware
	logger *zap.Logger
}

// NewAdminCredentialsHandler creates a new admin credentials handler.
func NewAdminCredentialsHandler(admin services.CredentialAdminService, authMW *auth.Middleware, logger *zap.Logger) *AdminCredentialsHandler {
	return &AdminCredentialsHandler{
		admin:  admin,
		authMW: authMW,
		logger: logger,
	}
}

// RegisterRoutes registers the handler's routes on the given mux.
func (h *AdminCredentialsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /admin/service-credentials", h.authMW.RequireServiceRole(h.Rotate))
	mux.HandleFunc("DELETE /admin/service-credentials", h.authMW.RequireServiceRole(h.Deactivate))
	mux.HandleFunc("GET /admin/service-credentials", h.authMW.RequireServiceRole(h.List))
}

// rotateRequest is the POST /admin/service-credentials body. The plaintext
// key is encrypted before it touches the database and never appears in the
// response.
type rotateRequest struct {
	Service string `json:"service"`
	Name    string `json:"name"`
	Key     string `json:"key"`
}

// Rotate handles POST /admin/service-credentials.
func (h *AdminCredentialsHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	var req rotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid JSON body")
		return
	}
	if req.Key == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Key is required")
		return
	}
	if !models.IsValidService(req.Service) {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Unknown service")
		return
	}

	cred, err := h.admin.Rotate(r.Context(), req.Service, req.Name, req.Key)
	if err != nil {
		h.logger.Error("Failed to rotate credential",
			zap.String("service", req.Service),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to rotate credential")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, cred); err != nil {
		h.logger.Error("Failed to encode credential response", zap.Error(err))
	}
}

// Deactivate handles DELETE /admin/service-credentials?service=...&name=...
func (h *AdminCredentialsHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	service := r.URL.Query().Get("service")
	name := r.URL.Query().Get("name")
	if !models.IsValidService(service) {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Unknown service")
		return
	}

	count, err := h.admin.Deactivate(r.Context(), service, name)
	if err != nil {
		h.logger.Error("Failed to deactivate credential",
			zap.String("service", service),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to deactivate credential")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"deactivated": count}); err != nil {
		h.logger.Error("Failed to encode deactivate response", zap.Error(err))
	}
}

// List handles GET /admin/service-credentials?service=...
// Encrypted key material is never serialized.
func (h *AdminCredentialsHandler) List(w http.ResponseWriter, r *http.Request) {
	service := r.URL.Query().Get("service")
	if service != "" && !models.IsValidService(service) {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Unknown service")
		return
	}

	creds, err := h.admin.List(r.Context(), service)
	if err != nil {
		h.logger.Error("Failed to list credentials", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to list credentials")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"credentials": creds}); err != nil {
		h.logger.Error("Failed to encode credentials response", zap.Error(err))
	}
}
