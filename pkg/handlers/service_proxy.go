package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/glucolog-health/glucolog-engine/pkg/models"
	"github.com/glucolog-health/glucolog-engine/pkg/services"
)

// ServiceProxyHandler exposes the service proxy at a single endpoint.
// When the proxy is nil the server is misconfigured (no credential store
// or no encryption key); every POST then returns a generic 500 envelope
// that does not leak configuration details.
type ServiceProxyHandler struct {
	proxy  services.ServiceProxy
	logger *zap.Logger
}

// NewServiceProxyHandler creates a new proxy handler. proxy may be nil
// when the server failed to configure the credential pipeline.
func NewServiceProxyHandler(proxy services.ServiceProxy, logger *zap.Logger) *ServiceProxyHandler {
	return &ServiceProxyHandler{proxy: proxy, logger: logger}
}

// RegisterRoutes registers the proxy endpoint on the given mux.
func (h *ServiceProxyHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/functions/call-service", h.CallService)
}

// CallService handles all methods on the proxy endpoint. Every POST
// outcome is a well-formed envelope; the handler never writes an
// unstructured error body.
func (h *ServiceProxyHandler) CallService(w http.ResponseWriter, r *http.Request) {
	writeCORSHeaders(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
		h.handlePost(w, r)
		return
	default:
		h.writeEnvelope(w, http.StatusMethodNotAllowed, models.ErrorResponse(
			models.NewServiceError(models.ErrCodeInvalidParams, "only POST is supported")))
		return
	}
}

func (h *ServiceProxyHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	// Unexpected panics anywhere in the pipeline still produce a
	// structured envelope, never a stack trace.
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("Panic in service proxy", zap.Any("panic", rec))
			h.writeEnvelope(w, http.StatusBadRequest, models.ErrorResponse(
				models.NewServiceError(models.ErrCodeAPIError, "internal error")))
		}
	}()

	if h.proxy == nil {
		h.writeEnvelope(w, http.StatusInternalServerError, models.ErrorResponse(
			models.NewServiceError(models.ErrCodeAPIError, "server configuration error")))
		return
	}

	var body any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeEnvelope(w, http.StatusBadRequest, models.ErrorResponse(
			models.NewServiceError(models.ErrCodeInvalidParams, "request body must be valid JSON")))
		return
	}

	resp := h.proxy.Call(r.Context(), body)
	h.writeEnvelope(w, statusFor(resp), resp)
}

// statusFor maps an envelope onto its HTTP status: 200 for success, 429
// for rate limiting, 400 for every other error code.
func statusFor(resp *models.ServiceResponse) int {
	if resp.Error == nil {
		return http.StatusOK
	}
	if resp.Error.Code == models.ErrCodeRateLimited {
		return http.StatusTooManyRequests
	}
	return http.StatusBadRequest
}

func (h *ServiceProxyHandler) writeEnvelope(w http.ResponseWriter, status int, resp *models.ServiceResponse) {
	if err := WriteJSON(w, status, resp); err != nil {
		h.logger.Error("Failed to encode proxy response", zap.Error(err))
	}
}

// writeCORSHeaders sets the permissive CORS policy the mobile and web
// clients rely on.
func writeCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, content-type, apikey")
}
