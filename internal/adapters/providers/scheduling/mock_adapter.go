package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mentorloop/backend/internal/domain/entities"
	"github.com/mentorloop/backend/internal/domain/providers"
)

// MockAdapter is a deterministic in-memory provider for development and
// tests; it reports three open weekdays per month with two morning slots.
// Every call warns so fabricated data is never mistaken for the real
// provider's answers.
type MockAdapter struct{}

// NewMockAdapter creates a mock scheduling provider
func NewMockAdapter() providers.SchedulingProvider {
	return &MockAdapter{}
}

func (m *MockAdapter) warn(op string) {
	log.Warn().
		Str("operation", op).
		Msg("scheduling provider credentials not configured; serving mock data")
}

func (m *MockAdapter) ListDates(ctx context.Context, appointmentTypeID, month, timezone string) ([]string, error) {
	m.warn("ListDates")
	return []string{
		month + "-05",
		month + "-12",
		month + "-19",
	}, nil
}

func (m *MockAdapter) ListTimes(ctx context.Context, appointmentTypeID, date, timezone string) ([]string, error) {
	m.warn("ListTimes")
	return []string{
		date + "T09:00:00-0400",
		date + "T10:00:00-0400",
	}, nil
}

func (m *MockAdapter) ValidateSlot(ctx context.Context, appointmentTypeID, datetime, timezone string) (*entities.SlotValidation, error) {
	m.warn("ValidateSlot")
	return &entities.SlotValidation{Valid: true}, nil
}

func (m *MockAdapter) CreateAppointment(ctx context.Context, req *entities.AppointmentRequest) (*entities.ProviderAppointment, error) {
	m.warn("CreateAppointment")
	return &entities.ProviderAppointment{
		ID:                fmt.Sprintf("mock-%d", time.Now().UnixNano()),
		AppointmentTypeID: req.AppointmentTypeID,
		Datetime:          req.Datetime,
		DurationMinutes:   60,
		Email:             req.Email,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Timezone:          req.Timezone,
		Notes:             req.Notes,
	}, nil
}

func (m *MockAdapter) ListAppointments(ctx context.Context, minDate, maxDate, emailFilter string) ([]entities.ProviderAppointment, error) {
	m.warn("ListAppointments")
	return nil, nil
}
