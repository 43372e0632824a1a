package repositories

import (
	"context"

	"github.com/mentorloop/backend/internal/domain/entities"
)

// MentorRepository exposes the read-only appointment-type mapping table.
type MentorRepository interface {
	// GetByMentorID retrieves the mapping for an internal mentor id.
	// Returns nil (no error) when the mentor is not mapped.
	GetByMentorID(ctx context.Context, humanMentorID string) (*entities.AppointmentTypeMapping, error)

	// GetByAppointmentTypeID retrieves the mapping for a provider
	// appointment type id. Returns nil (no error) when unmapped.
	GetByAppointmentTypeID(ctx context.Context, appointmentTypeID string) (*entities.AppointmentTypeMapping, error)

	// List retrieves every bookable mentor mapping.
	List(ctx context.Context) ([]*entities.AppointmentTypeMapping, error)
}
