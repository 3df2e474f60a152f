package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
)

// Response is the standard JSON response envelope.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse represents an error in the standard response format.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes a 200 response wrapping v in the data envelope.
func WriteData(w http.ResponseWriter, v any) {
	WriteJSON(w, http.StatusOK, Response{Data: v})
}

// WriteError writes a standardized error response. Validation and not-found
// failures are user-facing and logged at warn/info; anything else is logged
// as an error and masked as INTERNAL_ERROR. The request-scoped logger set by
// the RequestLogger middleware is preferred over fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}
	requestID := logger.CorrelationIDFromContext(r.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Status < http.StatusInternalServerError {
		l.InfoContext(r.Context(), "request rejected",
			slog.String("code", appErr.Code),
			slog.String("message", appErr.Message),
		)
		WriteJSON(w, appErr.Status, Response{
			Error: &ErrorResponse{Code: appErr.Code, Message: appErr.Message, Fields: appErr.Fields, RequestID: requestID},
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	code := "INTERNAL_ERROR"
	message := "an internal error occurred"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code, message = "NOT_FOUND", "resource not found"
	case errors.Is(err, apperrors.ErrInvalidInput):
		code, message = "INVALID_INPUT", err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		code, message = "UNAUTHORIZED", "authentication required"
	case errors.Is(err, apperrors.ErrServiceUnavail):
		code, message = "SERVICE_UNAVAILABLE", "service temporarily unavailable"
	}

	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}

	WriteJSON(w, status, Response{
		Error: &ErrorResponse{Code: code, Message: message, RequestID: requestID},
	})
}
