package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer for chi/render.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// NewAPIError creates a new APIError.
func NewAPIError(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// ToAPIError maps an application error to its HTTP representation.
func ToAPIError(err error) *APIError {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return NewAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
	}

	switch appErr.Type {
	case ErrTypeMissingProcessed, ErrTypeMissingInput:
		return NewAPIError(http.StatusServiceUnavailable, string(appErr.Type), appErr.Message)
	case ErrTypeNotFound:
		return NewAPIError(http.StatusNotFound, string(appErr.Type), appErr.Message)
	case ErrTypeValidation:
		return NewAPIError(http.StatusBadRequest, string(appErr.Type), appErr.Message)
	default:
		return NewAPIError(http.StatusInternalServerError, string(appErr.Type), appErr.Message)
	}
}

// RenderError writes err as a JSON error response.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	render.Render(w, r, ToAPIError(err))
}
