package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clouddocs/server/internal/logger"
	"github.com/clouddocs/server/internal/model"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// HandleError maps service errors to HTTP status codes. Every token
// failure is already collapsed to ErrUnauthorized before it gets here,
// so clients see one undifferentiated 401.
func HandleError(w http.ResponseWriter, l *logger.Logger, err error) {
	l.Error("request error", "error", err)

	switch {
	case errors.Is(err, model.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, "unauthorized", "Invalid or missing token")
	case errors.Is(err, model.ErrInvalidArgument):
		WriteError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, model.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "File not found")
	case errors.Is(err, model.ErrInconsistentState):
		WriteError(w, http.StatusInternalServerError, "inconsistent_state", "Stores diverged, manual reconciliation required")
	case errors.Is(err, model.ErrStorage):
		WriteError(w, http.StatusBadGateway, "storage_error", "Storage operation failed")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}
