package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/mentorloop/backend/internal/domain/entities"
	"github.com/mentorloop/backend/internal/domain/repositories"
	"github.com/mentorloop/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/mentorloop/backend/pkg/errors"
)

var bookingColumns = []interface{}{
	"id", "mentee_id", "human_mentor_id", "scheduled_at", "duration_minutes",
	"timezone", "meeting_type", "session_goals", "status",
	"external_event_id", "calendly_event_id", "created_at", "updated_at",
}

// BookingAdapter implements the BookingRepository interface
type BookingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBookingAdapter creates a new booking adapter
func NewBookingAdapter(client *postgres.Client) repositories.BookingRepository {
	return &BookingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a new booking record
func (a *BookingAdapter) Create(ctx context.Context, booking *entities.BookingRecord) error {
	now := time.Now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	record := goqu.Record{
		"id":                booking.ID,
		"mentee_id":         booking.MenteeID,
		"human_mentor_id":   booking.HumanMentorID,
		"scheduled_at":      booking.ScheduledAt,
		"duration_minutes":  booking.DurationMinutes,
		"timezone":          booking.Timezone,
		"meeting_type":      booking.MeetingType,
		"session_goals":     booking.SessionGoals,
		"status":            booking.Status,
		"external_event_id": booking.ExternalEventID,
		"calendly_event_id": booking.LegacyEventID,
		"created_at":        booking.CreatedAt,
		"updated_at":        booking.UpdatedAt,
	}

	query, args, err := a.db.Insert("booking_records").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create booking record", err)
	}

	return nil
}

// GetByID retrieves a booking record by id
func (a *BookingAdapter) GetByID(ctx context.Context, id string) (*entities.BookingRecord, error) {
	query, args, err := a.db.Select(bookingColumns...).
		From("booking_records").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	booking, err := a.scanBooking(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking record with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get booking record", err)
	}
	return booking, nil
}

// GetByExternalEventID retrieves the record carrying the given provider event
// id. The legacy column written by the previous integration is matched too,
// and status is deliberately ignored so a cancelled record still counts as
// "already synced".
func (a *BookingAdapter) GetByExternalEventID(ctx context.Context, externalEventID string) (*entities.BookingRecord, error) {
	query, args, err := a.db.Select(bookingColumns...).
		From("booking_records").
		Where(goqu.Or(
			goqu.Ex{"external_event_id": externalEventID},
			goqu.Ex{"calendly_event_id": externalEventID},
		)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	booking, err := a.scanBooking(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get booking record by external event id", err)
	}
	return booking, nil
}

// Update updates a booking record
func (a *BookingAdapter) Update(ctx context.Context, booking *entities.BookingRecord) error {
	booking.UpdatedAt = time.Now()

	record := goqu.Record{
		"scheduled_at":      booking.ScheduledAt,
		"duration_minutes":  booking.DurationMinutes,
		"timezone":          booking.Timezone,
		"meeting_type":      booking.MeetingType,
		"session_goals":     booking.SessionGoals,
		"status":            booking.Status,
		"external_event_id": booking.ExternalEventID,
		"updated_at":        booking.UpdatedAt,
	}

	query, args, err := a.db.Update("booking_records").
		Set(record).
		Where(goqu.Ex{"id": booking.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update booking record", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("booking record with id %s not found", booking.ID))
	}

	return nil
}

// Cancel transitions a booking record to cancelled. One-way transition only.
func (a *BookingAdapter) Cancel(ctx context.Context, id string) error {
	query, args, err := a.db.Update("booking_records").
		Set(goqu.Record{
			"status":     entities.BookingStatusCancelled,
			"updated_at": time.Now(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build cancel query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to cancel booking record", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("booking record with id %s not found", id))
	}

	return nil
}

// ListByMentee retrieves all booking records for a mentee
func (a *BookingAdapter) ListByMentee(ctx context.Context, menteeID string) ([]*entities.BookingRecord, error) {
	query, args, err := a.db.Select(bookingColumns...).
		From("booking_records").
		Where(goqu.Ex{"mentee_id": menteeID}).
		Order(goqu.I("scheduled_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list booking records", err)
	}
	defer rows.Close()

	var bookings []*entities.BookingRecord
	for rows.Next() {
		booking, err := a.scanBooking(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan booking record", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate booking records", err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (a *BookingAdapter) scanBooking(row rowScanner) (*entities.BookingRecord, error) {
	booking := &entities.BookingRecord{}
	var externalEventID, legacyEventID sql.NullString

	err := row.Scan(
		&booking.ID,
		&booking.MenteeID,
		&booking.HumanMentorID,
		&booking.ScheduledAt,
		&booking.DurationMinutes,
		&booking.Timezone,
		&booking.MeetingType,
		&booking.SessionGoals,
		&booking.Status,
		&externalEventID,
		&legacyEventID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if externalEventID.Valid {
		booking.ExternalEventID = &externalEventID.String
	}
	if legacyEventID.Valid {
		booking.LegacyEventID = &legacyEventID.String
	}
	return booking, nil
}
