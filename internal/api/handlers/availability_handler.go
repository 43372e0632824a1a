package handlers

import (
	"context"
	"net/http"

	"github.com/mentorloop/backend/internal/domain/entities"
	apperrors "github.com/mentorloop/backend/pkg/errors"
)

// AvailabilityService defines the interface for availability queries
type AvailabilityService interface {
	GetMonth(ctx context.Context, appointmentTypeID, timezone, month string) ([]string, bool, error)
	GetDay(ctx context.Context, appointmentTypeID, timezone, date string) ([]string, bool, error)
	GetRange(ctx context.Context, appointmentTypeID, timezone, startDate, endDate string) (*entities.AvailabilityWindow, error)
}

// AvailabilityHandler handles availability requests
type AvailabilityHandler struct {
	service AvailabilityService
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(service AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// GetMonth handles GET /api/availability/month
func (h *AvailabilityHandler) GetMonth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	appointmentTypeID, timezone := availabilityParams(r)
	month := r.URL.Query().Get("month")
	if month == "" {
		respondWithAppError(w, apperrors.NewValidationError("month query parameter is required"))
		return
	}

	dates, cached, err := h.service.GetMonth(r.Context(), appointmentTypeID, timezone, month)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if dates == nil {
		dates = []string{}
	}
	respondWithCached(w, http.StatusOK, dates, cached)
}

// GetDay handles GET /api/availability/day
func (h *AvailabilityHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	appointmentTypeID, timezone := availabilityParams(r)
	date := r.URL.Query().Get("date")
	if date == "" {
		respondWithAppError(w, apperrors.NewValidationError("date query parameter is required"))
		return
	}

	times, cached, err := h.service.GetDay(r.Context(), appointmentTypeID, timezone, date)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if times == nil {
		times = []string{}
	}
	respondWithCached(w, http.StatusOK, times, cached)
}

// GetRange handles GET /api/availability/range
func (h *AvailabilityHandler) GetRange(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	appointmentTypeID, timezone := availabilityParams(r)
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")
	if startDate == "" || endDate == "" {
		respondWithAppError(w, apperrors.NewValidationError("startDate and endDate query parameters are required"))
		return
	}

	window, err := h.service.GetRange(r.Context(), appointmentTypeID, timezone, startDate, endDate)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, window)
}

func availabilityParams(r *http.Request) (appointmentTypeID, timezone string) {
	q := r.URL.Query()
	return q.Get("appointmentTypeId"), q.Get("timezone")
}
