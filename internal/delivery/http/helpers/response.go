package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"healthconsultant/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest         = "bad_request"
	ErrCodeNotFound           = "not_found"
	ErrCodeRateLimited        = "rate_limited"
	ErrCodeUpstreamError      = "upstream_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeInternalError      = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// Fields carries per-field messages for validation failures.
// swagger:model APIError
type APIError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// ErrorStatus maps a service error to an HTTP status, an error code and a
// message safe to show to the user.
func ErrorStatus(err error) (status int, code, message string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrCodeBadRequest, strings.Join(verr.Messages(), "; ")
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrCodeBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound, "not found"
	case errors.Is(err, domain.ErrSummaryUnavailable):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "AI service is temporarily unavailable."
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeUpstreamError, "the consultation service did not answer in time"
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, ErrCodeUpstreamError, "the consultation service returned an error"
	default:
		return http.StatusInternalServerError, ErrCodeInternalError, "internal error"
	}
}

// WriteDomainError writes err as a JSON envelope. Server-side failures are
// logged; client errors are not.
func WriteDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code, message := ErrorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	body := APIResponse{Error: &APIError{Code: code, Message: message}}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body.Error.Fields = verr.Fields
	}
	writeJSON(w, status, body)
}
