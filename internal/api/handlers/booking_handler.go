package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mentorloop/backend/internal/application/services"
	"github.com/mentorloop/backend/internal/domain/entities"
	apperrors "github.com/mentorloop/backend/pkg/errors"
)

// BookingService defines the interface for booking operations
type BookingService interface {
	Book(ctx context.Context, req *services.BookingRequest) (*entities.BookingRecord, error)
	Cancel(ctx context.Context, bookingID string) error
	GetByID(ctx context.Context, bookingID string) (*entities.BookingRecord, error)
	ListForMentee(ctx context.Context, menteeID string) ([]*entities.BookingRecord, error)
}

// BookingHandler handles booking requests
type BookingHandler struct {
	service BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(service BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Create handles POST /api/bookings
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithAppError(w, apperrors.NewValidationError("invalid request payload"))
		return
	}

	record, err := h.service.Book(r.Context(), &req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, record)
}

// Get handles GET /api/bookings/{id}
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, record)
}

// Cancel handles POST /api/bookings/{id}/cancel
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.service.Cancel(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(entities.BookingStatusCancelled)})
}

// List handles GET /api/bookings?menteeId=
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	menteeID := r.URL.Query().Get("menteeId")
	records, err := h.service.ListForMentee(r.Context(), menteeID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if records == nil {
		records = []*entities.BookingRecord{}
	}
	respondWithJSON(w, http.StatusOK, records)
}
