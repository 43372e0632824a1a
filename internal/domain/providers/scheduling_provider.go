package providers

import (
	"context"

	"github.com/mentorloop/backend/internal/domain/entities"
)

// SchedulingProvider defines the interface for the external scheduling
// service that owns the ground-truth appointment calendar.
type SchedulingProvider interface {
	// ListDates returns the dates (YYYY-MM-DD) with open slots in a month
	// (YYYY-MM) for an appointment type, evaluated in the given timezone.
	ListDates(ctx context.Context, appointmentTypeID, month, timezone string) ([]string, error)

	// ListTimes returns the raw slot instants for one date. Offsets come
	// back in the provider's four-digit form; normalization is the
	// aggregator's job.
	ListTimes(ctx context.Context, appointmentTypeID, date, timezone string) ([]string, error)

	// ValidateSlot asks the provider whether a slot is still bookable.
	ValidateSlot(ctx context.Context, appointmentTypeID, datetime, timezone string) (*entities.SlotValidation, error)

	// CreateAppointment books an appointment on the provider's calendar.
	CreateAppointment(ctx context.Context, req *entities.AppointmentRequest) (*entities.ProviderAppointment, error)

	// ListAppointments returns the appointments in [minDate, maxDate]
	// (YYYY-MM-DD), optionally filtered to one attendee email.
	ListAppointments(ctx context.Context, minDate, maxDate, emailFilter string) ([]entities.ProviderAppointment, error)
}
