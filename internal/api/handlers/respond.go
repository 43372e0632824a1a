package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	apperrors "github.com/mentorloop/backend/pkg/errors"
)

// envelope is the response shape shared by every endpoint.
type envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Cached    *bool       `json:"cached,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	respond(w, statusCode, envelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func respondWithCached(w http.ResponseWriter, statusCode int, data interface{}, cached bool) {
	respond(w, statusCode, envelope{
		Success:   true,
		Data:      data,
		Cached:    &cached,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respond(w, statusCode, envelope{
		Success:   false,
		Error:     message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// respondWithAppError maps the error taxonomy onto HTTP statuses. Internal
// details never leak; the client sees the typed message only.
func respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeConflict:
		// The provider's rejection reason rides along as a 400.
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeUnauthorized:
		respondWithError(w, http.StatusUnauthorized, appErr.Message)
	case apperrors.ErrorTypeUpstream, apperrors.ErrorTypeRateLimited:
		respondWithError(w, http.StatusBadGateway, appErr.Message)
	case apperrors.ErrorTypeTimeout:
		respondWithError(w, http.StatusGatewayTimeout, appErr.Message)
	default:
		respondWithError(w, http.StatusInternalServerError, appErr.Message)
	}
}

func respond(w http.ResponseWriter, statusCode int, body envelope) {
	respondRaw(w, statusCode, body)
}

// respondRaw writes a response without the shared envelope; the webhook and
// sync endpoints document their own top-level shapes.
func respondRaw(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
