package models

// Service identifies an external API the proxy can call.
// The wire values match the provider names used by the mobile clients.
const (
	ServiceVideo  = "youtube"
	ServiceRecipe = "spoonacular"
)

// ValidServices contains all supported service names.
var ValidServices = []string{ServiceVideo, ServiceRecipe}

// IsValidService checks if the given service name is supported.
func IsValidService(service string) bool {
	for _, s := range ValidServices {
		if s == service {
			return true
		}
	}
	return false
}

// ServiceRequest is the inbound envelope for the service proxy.
// Params is service- and action-dependent; it is normalized to an empty
// map when absent so handlers never see a nil map.
type ServiceRequest struct {
	Service string         `json:"service"`
	Action  string         `json:"action"`
	Params  map[string]any `json:"params"`
}

// ErrorCode classifies a proxy failure. The set is closed: every failure
// returned across the proxy boundary carries exactly one of these codes.
type ErrorCode string

const (
	ErrCodeInvalidService ErrorCode = "INVALID_SERVICE"
	ErrCodeInvalidParams  ErrorCode = "INVALID_PARAMS"
	ErrCodeAPIError       ErrorCode = "API_ERROR"
	ErrCodeRateLimited    ErrorCode = "RATE_LIMITED"
	ErrCodeKeyNotFound    ErrorCode = "KEY_NOT_FOUND"
	ErrCodeNetworkError   ErrorCode = "NETWORK_ERROR"
)

// ServiceError is the error half of the proxy envelope.
type ServiceError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// NewServiceError builds a ServiceError with the given code and message.
func NewServiceError(code ErrorCode, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

// ServiceResponse is the outbound envelope for the service proxy.
// Both keys are always serialized; exactly one is non-null, so clients
// can branch on a strict error == null check.
type ServiceResponse struct {
	Data  any           `json:"data"`
	Error *ServiceError `json:"error"`
}

// SuccessResponse wraps data in a success envelope.
func SuccessResponse(data any) *ServiceResponse {
	return &ServiceResponse{Data: data}
}

// ErrorResponse wraps a ServiceError in a failure envelope.
func ErrorResponse(err *ServiceError) *ServiceResponse {
	return &ServiceResponse{Error: err}
}
