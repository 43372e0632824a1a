package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mentorloop/backend/internal/domain/entities"
	"github.com/mentorloop/backend/internal/infrastructure/observability"
	apperrors "github.com/mentorloop/backend/pkg/errors"
)

// Reconciler defines the interface for webhook-driven reconciliation
type Reconciler interface {
	ReconcileAppointment(ctx context.Context, appt *entities.ProviderAppointment) (*entities.BookingRecord, bool, error)
}

// WebhookHandler ingests appointment events pushed by the scheduling provider.
type WebhookHandler struct {
	reconciler Reconciler
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(reconciler Reconciler) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler}
}

// webhookAppointment is the provider's native appointment shape: camelCase
// keys, numeric id and duration. It is decoded at the boundary and mapped to
// the internal entity, the same way the REST client treats list responses.
type webhookAppointment struct {
	ID                json.Number `json:"id"`
	AppointmentTypeID json.Number `json:"appointmentTypeID"`
	Datetime          string      `json:"datetime"`
	Duration          json.Number `json:"duration"`
	Email             string      `json:"email"`
	FirstName         string      `json:"firstName"`
	LastName          string      `json:"lastName"`
	Timezone          string      `json:"timezone"`
	Notes             string      `json:"notes"`
}

func (a webhookAppointment) toEntity() entities.ProviderAppointment {
	duration := 0
	if d, err := a.Duration.Int64(); err == nil {
		duration = int(d)
	}
	return entities.ProviderAppointment{
		ID:                a.ID.String(),
		AppointmentTypeID: a.AppointmentTypeID.String(),
		Datetime:          a.Datetime,
		DurationMinutes:   duration,
		Email:             a.Email,
		FirstName:         a.FirstName,
		LastName:          a.LastName,
		Timezone:          a.Timezone,
		Notes:             a.Notes,
	}
}

// webhookEvent is the provider's push payload.
type webhookEvent struct {
	Action      string             `json:"action"`
	Appointment webhookAppointment `json:"appointment"`
}

// webhookResponse is flat rather than envelope-wrapped; the provider's
// delivery machinery only inspects the status code and these top-level keys.
type webhookResponse struct {
	Success   bool   `json:"success"`
	BookingID string `json:"bookingId,omitempty"`
	Status    string `json:"status,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

// HandleAppointmentEvent handles POST /api/webhooks/appointment. Only the
// "scheduled" action is processed; every other action is acknowledged with a
// 200 so the provider does not retry deliveries we deliberately ignore.
func (h *WebhookHandler) HandleAppointmentEvent(w http.ResponseWriter, r *http.Request) {
	var event webhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondWithAppError(w, apperrors.NewValidationError("invalid webhook payload"))
		return
	}

	if event.Action != "scheduled" {
		observability.LoggerFromContext(r.Context()).Debug().
			Str("action", event.Action).
			Msg("ignoring webhook action")
		h.respond(w, webhookResponse{Success: true, Message: "Ignored"})
		return
	}

	appt := event.Appointment.toEntity()
	record, created, err := h.reconciler.ReconcileAppointment(r.Context(), &appt)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if record == nil {
		// Attendee or appointment type outside the system.
		h.respond(w, webhookResponse{Success: true, Status: "skipped"})
		return
	}

	status := "already_synced"
	if created {
		status = "synced"
	}
	h.respond(w, webhookResponse{Success: true, BookingID: record.ID, Status: status})
}

func (h *WebhookHandler) respond(w http.ResponseWriter, body webhookResponse) {
	body.Timestamp = time.Now().UTC().Format(time.RFC3339)
	respondRaw(w, http.StatusOK, body)
}
