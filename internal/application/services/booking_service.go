package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mentorloop/backend/internal/domain/entities"
	"github.com/mentorloop/backend/internal/domain/providers"
	"github.com/mentorloop/backend/internal/domain/repositories"
	"github.com/mentorloop/backend/internal/infrastructure/observability"
	apperrors "github.com/mentorloop/backend/pkg/errors"
)

// BookingRequest is the caller's input to Book.
type BookingRequest struct {
	MenteeID      string `json:"menteeId"`
	HumanMentorID string `json:"humanMentorId"`
	// Datetime is the requested slot instant, ISO-8601 with explicit offset.
	Datetime     string `json:"datetime"`
	Timezone     string `json:"timezone"`
	MeetingType  string `json:"meetingType"`
	SessionGoals string `json:"sessionGoals"`
}

// BookingService creates bookings: validate the slot with the provider,
// create the external appointment, then persist the internal record. It never
// rolls back a created external appointment when persistence fails; the
// resulting orphan is adopted by the next sync pass.
type BookingService struct {
	provider providers.SchedulingProvider
	bookings repositories.BookingRepository
	users    repositories.UserRepository
	mentors  repositories.MentorRepository
}

// NewBookingService creates a new booking service.
func NewBookingService(
	provider providers.SchedulingProvider,
	bookings repositories.BookingRepository,
	users repositories.UserRepository,
	mentors repositories.MentorRepository,
) *BookingService {
	return &BookingService{
		provider: provider,
		bookings: bookings,
		users:    users,
		mentors:  mentors,
	}
}

// Book runs the booking flow end to end and returns the persisted record.
func (s *BookingService) Book(ctx context.Context, req *BookingRequest) (*entities.BookingRecord, error) {
	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}

	mentee, err := s.users.GetByID(ctx, req.MenteeID)
	if err != nil {
		return nil, err
	}

	// The mentor must resolve to a provider appointment type before any
	// provider call is made.
	mapping, err := s.mentors.GetByMentorID(ctx, req.HumanMentorID)
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("mentor %s is not bookable", req.HumanMentorID))
	}

	validation, err := s.provider.ValidateSlot(ctx, mapping.AppointmentTypeID, req.Datetime, req.Timezone)
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		reason := validation.Reason
		if reason == "" {
			reason = "slot is no longer available"
		}
		return nil, apperrors.NewConflictError(reason)
	}

	appointment, err := s.provider.CreateAppointment(ctx, &entities.AppointmentRequest{
		AppointmentTypeID: mapping.AppointmentTypeID,
		Datetime:          req.Datetime,
		Timezone:          req.Timezone,
		FirstName:         mentee.FirstName,
		LastName:          mentee.LastName,
		Email:             mentee.Email,
		Notes:             req.SessionGoals,
	})
	if err != nil {
		return nil, err
	}

	scheduledAt, err := parseProviderInstant(appointment.Datetime)
	if err != nil {
		// The provider accepted the slot; fall back to the caller's instant.
		scheduledAt, err = parseProviderInstant(req.Datetime)
		if err != nil {
			return nil, err
		}
	}

	duration := appointment.DurationMinutes
	if duration <= 0 {
		duration = mapping.DefaultDurationMinutes
	}
	if duration <= 0 {
		duration = defaultDurationMinutes
	}

	externalID := appointment.ID
	record := &entities.BookingRecord{
		ID:              uuid.New().String(),
		MenteeID:        mentee.ID,
		HumanMentorID:   mapping.HumanMentorID,
		ScheduledAt:     scheduledAt,
		DurationMinutes: duration,
		Timezone:        req.Timezone,
		MeetingType:     req.MeetingType,
		SessionGoals:    req.SessionGoals,
		Status:          entities.BookingStatusConfirmed,
		ExternalEventID: &externalID,
	}

	if err := s.bookings.Create(ctx, record); err != nil {
		// The external appointment exists but the ledger write failed. The
		// orphan is indistinguishable from a direct provider booking and is
		// adopted by the next reconciliation pass.
		observability.LoggerFromContext(ctx).Error().
			Str("external_event_id", externalID).
			Str("mentee_id", mentee.ID).
			Err(err).
			Msg("booking persisted externally but failed to write internal record")
		return nil, apperrors.NewInternalError("appointment was created externally but could not be recorded", err)
	}

	return record, nil
}

// Cancel transitions a booking to cancelled. The transition is one-way; a
// later sync pass that sees the same external event treats the cancelled
// record as already synced and never resurrects it.
func (s *BookingService) Cancel(ctx context.Context, bookingID string) error {
	if strings.TrimSpace(bookingID) == "" {
		return apperrors.NewValidationError("booking id is required")
	}

	record, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if record.Status == entities.BookingStatusCancelled {
		return nil
	}
	return s.bookings.Cancel(ctx, bookingID)
}

// GetByID returns one booking record.
func (s *BookingService) GetByID(ctx context.Context, bookingID string) (*entities.BookingRecord, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, apperrors.NewValidationError("booking id is required")
	}
	return s.bookings.GetByID(ctx, bookingID)
}

// ListForMentee returns every booking record for one mentee.
func (s *BookingService) ListForMentee(ctx context.Context, menteeID string) ([]*entities.BookingRecord, error) {
	if strings.TrimSpace(menteeID) == "" {
		return nil, apperrors.NewValidationError("menteeId is required")
	}
	return s.bookings.ListByMentee(ctx, menteeID)
}

func validateBookingRequest(req *BookingRequest) error {
	if req == nil {
		return apperrors.NewValidationError("request body is required")
	}
	var missing []string
	if strings.TrimSpace(req.MenteeID) == "" {
		missing = append(missing, "menteeId")
	}
	if strings.TrimSpace(req.HumanMentorID) == "" {
		missing = append(missing, "humanMentorId")
	}
	if strings.TrimSpace(req.Datetime) == "" {
		missing = append(missing, "datetime")
	}
	if strings.TrimSpace(req.Timezone) == "" {
		missing = append(missing, "timezone")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError(fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
	}
	if _, err := parseProviderInstant(req.Datetime); err != nil {
		return apperrors.NewValidationError("datetime must be an ISO-8601 instant with explicit offset")
	}
	return nil
}
