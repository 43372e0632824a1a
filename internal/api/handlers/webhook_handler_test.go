package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mentorloop/backend/internal/api/handlers"
	"github.com/mentorloop/backend/internal/domain/entities"
	apperrors "github.com/mentorloop/backend/pkg/errors"
)

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) ReconcileAppointment(ctx context.Context, appt *entities.ProviderAppointment) (*entities.BookingRecord, bool, error) {
	args := m.Called(ctx, appt)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entities.BookingRecord), args.Bool(1), args.Error(2)
}

// webhookBody builds a delivery in the provider's native shape: camelCase
// keys, numeric id and duration.
func webhookBody(t *testing.T, action string) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"action": action,
		"appointment": map[string]interface{}{
			"id":                12345,
			"appointmentTypeID": 4412,
			"datetime":          "2026-09-01T15:00:00-0400",
			"duration":          30,
			"email":             "mentee@example.com",
			"notes":             "intro session",
		},
	})
	assert.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestWebhookHandler_HandleAppointmentEvent(t *testing.T) {
	t.Run("native payload decodes fully and returns the booking id", func(t *testing.T) {
		rec := new(MockReconciler)
		handler := handlers.NewWebhookHandler(rec)
		rec.On("ReconcileAppointment", mock.Anything, mock.MatchedBy(func(a *entities.ProviderAppointment) bool {
			return a.ID == "12345" &&
				a.AppointmentTypeID == "4412" &&
				a.DurationMinutes == 30 &&
				a.Email == "mentee@example.com" &&
				a.Datetime == "2026-09-01T15:00:00-0400"
		})).Return(&entities.BookingRecord{ID: "booking-1"}, true, nil)

		req := httptest.NewRequest("POST", "/api/webhooks/appointment", webhookBody(t, "scheduled"))
		w := httptest.NewRecorder()
		handler.HandleAppointmentEvent(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeEnvelope(t, w)
		assert.Equal(t, true, resp["success"])
		assert.Equal(t, "booking-1", resp["bookingId"])
		assert.Equal(t, "synced", resp["status"])
		rec.AssertExpectations(t)
	})

	t.Run("redelivery reports already_synced with the same id", func(t *testing.T) {
		rec := new(MockReconciler)
		handler := handlers.NewWebhookHandler(rec)
		rec.On("ReconcileAppointment", mock.Anything, mock.Anything).
			Return(&entities.BookingRecord{ID: "booking-1"}, false, nil)

		req := httptest.NewRequest("POST", "/api/webhooks/appointment", webhookBody(t, "scheduled"))
		w := httptest.NewRecorder()
		handler.HandleAppointmentEvent(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeEnvelope(t, w)
		assert.Equal(t, "booking-1", resp["bookingId"])
		assert.Equal(t, "already_synced", resp["status"])
	})

	t.Run("non-scheduled actions are acknowledged and ignored", func(t *testing.T) {
		rec := new(MockReconciler)
		handler := handlers.NewWebhookHandler(rec)

		req := httptest.NewRequest("POST", "/api/webhooks/appointment", webhookBody(t, "canceled"))
		w := httptest.NewRecorder()
		handler.HandleAppointmentEvent(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeEnvelope(t, w)
		assert.Equal(t, "Ignored", resp["message"])
		rec.AssertNotCalled(t, "ReconcileAppointment", mock.Anything, mock.Anything)
	})

	t.Run("appointment outside the system is skipped", func(t *testing.T) {
		rec := new(MockReconciler)
		handler := handlers.NewWebhookHandler(rec)
		rec.On("ReconcileAppointment", mock.Anything, mock.Anything).Return(nil, false, nil)

		req := httptest.NewRequest("POST", "/api/webhooks/appointment", webhookBody(t, "scheduled"))
		w := httptest.NewRecorder()
		handler.HandleAppointmentEvent(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeEnvelope(t, w)
		assert.Equal(t, "skipped", resp["status"])
	})

	t.Run("reconciliation failure fails loudly", func(t *testing.T) {
		rec := new(MockReconciler)
		handler := handlers.NewWebhookHandler(rec)
		rec.On("ReconcileAppointment", mock.Anything, mock.Anything).
			Return(nil, false, apperrors.NewInternalError("insert failed", nil))

		req := httptest.NewRequest("POST", "/api/webhooks/appointment", webhookBody(t, "scheduled"))
		w := httptest.NewRecorder()
		handler.HandleAppointmentEvent(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("malformed payload is a 400", func(t *testing.T) {
		rec := new(MockReconciler)
		handler := handlers.NewWebhookHandler(rec)

		req := httptest.NewRequest("POST", "/api/webhooks/appointment", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		handler.HandleAppointmentEvent(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
