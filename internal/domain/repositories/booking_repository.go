package repositories

import (
	"context"

	"github.com/mentorloop/backend/internal/domain/entities"
)

// BookingRepository defines the interface for booking record operations
type BookingRepository interface {
	// Create persists a new booking record
	Create(ctx context.Context, booking *entities.BookingRecord) error

	// GetByID retrieves a booking record by id
	GetByID(ctx context.Context, id string) (*entities.BookingRecord, error)

	// GetByExternalEventID retrieves the booking record carrying the given
	// provider event id, matching either the canonical column or the legacy
	// one, regardless of status. Returns nil (no error) when none exists.
	GetByExternalEventID(ctx context.Context, externalEventID string) (*entities.BookingRecord, error)

	// Update updates a booking record
	Update(ctx context.Context, booking *entities.BookingRecord) error

	// Cancel transitions a booking record to cancelled. One-way.
	Cancel(ctx context.Context, id string) error

	// ListByMentee retrieves all booking records for a mentee
	ListByMentee(ctx context.Context, menteeID string) ([]*entities.BookingRecord, error)
}
