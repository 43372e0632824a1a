package scheduling_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorloop/backend/internal/adapters/providers/scheduling"
	"github.com/mentorloop/backend/internal/domain/entities"
	apperrors "github.com/mentorloop/backend/pkg/errors"
)

func TestAcuityAdapter_ListDates(t *testing.T) {
	t.Run("parses dates and sends credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, key, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "user-1", user)
			assert.Equal(t, "key-1", key)
			assert.Equal(t, "/availability/dates", r.URL.Path)
			assert.Equal(t, "type-9", r.URL.Query().Get("appointmentTypeID"))
			assert.Equal(t, "2025-08", r.URL.Query().Get("month"))

			json.NewEncoder(w).Encode([]map[string]string{
				{"date": "2025-08-05"},
				{"date": "2025-08-12"},
			})
		}))
		defer server.Close()

		adapter := scheduling.NewAcuityAdapter("user-1", "key-1", server.URL, 5*time.Second)
		dates, err := adapter.ListDates(context.Background(), "type-9", "2025-08", "America/New_York")

		require.NoError(t, err)
		assert.Equal(t, []string{"2025-08-05", "2025-08-12"}, dates)
	})

	t.Run("treats HTML body as upstream error with raw text preserved", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html><body>maintenance</body></html>"))
		}))
		defer server.Close()

		adapter := scheduling.NewAcuityAdapter("u", "k", server.URL, 5*time.Second)
		_, err := adapter.ListDates(context.Background(), "type-9", "2025-08", "UTC")

		require.Error(t, err)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeUpstream, appErr.Type)
		assert.Contains(t, appErr.Body, "maintenance")
	})

	t.Run("non-2xx becomes upstream error carrying status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"boom"}`))
		}))
		defer server.Close()

		adapter := scheduling.NewAcuityAdapter("u", "k", server.URL, 5*time.Second)
		_, err := adapter.ListDates(context.Background(), "type-9", "2025-08", "UTC")

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeUpstream, appErr.Type)
		assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
	})

	t.Run("retries rate-limited responses and recovers", func(t *testing.T) {
		var calls int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt64(&calls, 1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			json.NewEncoder(w).Encode([]map[string]string{{"date": "2025-08-05"}})
		}))
		defer server.Close()

		adapter := scheduling.NewAcuityAdapter("u", "k", server.URL, 5*time.Second)
		dates, err := adapter.ListDates(context.Background(), "type-9", "2025-08", "UTC")

		require.NoError(t, err)
		assert.Equal(t, []string{"2025-08-05"}, dates)
		assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
	})

	t.Run("timeout maps to timeout error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		defer server.Close()

		adapter := scheduling.NewAcuityAdapter("u", "k", server.URL, 50*time.Millisecond)
		_, err := adapter.ListDates(context.Background(), "type-9", "2025-08", "UTC")

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTimeout))
	})
}

func TestAcuityAdapter_ListTimes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/availability/times", r.URL.Path)
		assert.Equal(t, "2025-08-20", r.URL.Query().Get("date"))
		json.NewEncoder(w).Encode([]map[string]string{
			{"time": "2025-08-20T15:00:00-0400"},
			{"time": "2025-08-20T16:00:00-0400"},
		})
	}))
	defer server.Close()

	adapter := scheduling.NewAcuityAdapter("u", "k", server.URL, 5*time.Second)
	times, err := adapter.ListTimes(context.Background(), "type-9", "2025-08-20", "America/New_York")

	require.NoError(t, err)
	// Raw provider offsets pass through; the aggregator normalizes them.
	assert.Equal(t, []string{"2025-08-20T15:00:00-0400", "2025-08-20T16:00:00-0400"}, times)
}

func TestAcuityAdapter_ValidateSlot(t *testing.T) {
	t.Run("valid slot", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/availability/check-times", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]string{"datetime": "2025-08-20T15:00:00-0400"})
		}))
		defer server.Close()

		adapter := scheduling.NewAcuityAdapter("u", "k", server.URL, 5*time.Second)
		validation, err := adapter.ValidateSlot(context.Background(), "type-9", "2025-08-20T15:00:00-0400", "America/New_York")

		require.NoError(t, err)
		assert.True(t, validation.Valid)
	})

	t.Run("rejected slot carries the provider reason", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"error":   "invalid_datetime",
				"message": "That time is no longer available.",
			})
		}))
		defer server.Close()

		adapter := scheduling.NewAcuityAdapter("u", "k", server.URL, 5*time.Second)
		validation, err := adapter.ValidateSlot(context.Background(), "type-9", "2025-08-20T15:00:00-0400", "America/New_York")

		require.NoError(t, err)
		assert.False(t, validation.Valid)
		assert.Equal(t, "That time is no longer available.", validation.Reason)
	})
}

func TestAcuityAdapter_CreateAppointment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/appointments", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "jane@example.com", payload["email"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":                12345,
			"appointmentTypeID": 99,
			"datetime":          "2025-08-20T15:00:00-0400",
			"duration":          "60",
			"email":             "jane@example.com",
			"firstName":         "Jane",
			"lastName":          "Doe",
		})
	}))
	defer server.Close()

	adapter := scheduling.NewAcuityAdapter("u", "k", server.URL, 5*time.Second)
	created, err := adapter.CreateAppointment(context.Background(), &entities.AppointmentRequest{
		AppointmentTypeID: "99",
		Datetime:          "2025-08-20T15:00:00-0400",
		Timezone:          "America/New_York",
		FirstName:         "Jane",
		LastName:          "Doe",
		Email:             "jane@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "12345", created.ID)
	assert.Equal(t, "99", created.AppointmentTypeID)
	assert.Equal(t, 60, created.DurationMinutes)
}

func TestAcuityAdapter_ListAppointments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-07-01", r.URL.Query().Get("minDate"))
		assert.Equal(t, "2025-09-01", r.URL.Query().Get("maxDate"))
		assert.Equal(t, "jane@example.com", r.URL.Query().Get("email"))

		json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"id":                777,
				"appointmentTypeID": 99,
				"datetime":          "2025-08-20T15:00:00-0400",
				"email":             "jane@example.com",
			},
		})
	}))
	defer server.Close()

	adapter := scheduling.NewAcuityAdapter("u", "k", server.URL, 5*time.Second)
	appointments, err := adapter.ListAppointments(context.Background(), "2025-07-01", "2025-09-01", "jane@example.com")

	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, "777", appointments[0].ID)
	// Absent duration stays zero; the synchronizer applies the default.
	assert.Equal(t, 0, appointments[0].DurationMinutes)
}
