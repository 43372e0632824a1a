package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mentorloop/backend/internal/domain/entities"
	"github.com/mentorloop/backend/internal/domain/providers"
	"github.com/mentorloop/backend/internal/domain/repositories"
	"github.com/mentorloop/backend/internal/infrastructure/observability"
	"github.com/mentorloop/backend/pkg/config"
	apperrors "github.com/mentorloop/backend/pkg/errors"
)

const defaultDurationMinutes = 60

// defaultSyncNotes marks records adopted from the provider rather than booked
// through this service.
const defaultSyncNotes = "Imported from scheduling provider"

// SyncService reconciles external appointments into the booking ledger. One
// reconciliation primitive serves all three ingestion paths: webhook push,
// the rolling bulk pull, and the per-mentee pull.
type SyncService struct {
	provider providers.SchedulingProvider
	bookings repositories.BookingRepository
	users    repositories.UserRepository
	mentors  repositories.MentorRepository
	metrics  *observability.Metrics

	windowBack    time.Duration
	windowForward time.Duration
	now           func() time.Time
}

// NewSyncService creates a new sync service. metrics may be nil.
func NewSyncService(
	provider providers.SchedulingProvider,
	bookings repositories.BookingRepository,
	users repositories.UserRepository,
	mentors repositories.MentorRepository,
	syncCfg *config.SyncConfig,
	metrics *observability.Metrics,
) *SyncService {
	back, forward := 30, 30
	if syncCfg != nil {
		if syncCfg.WindowDaysBack > 0 {
			back = syncCfg.WindowDaysBack
		}
		if syncCfg.WindowDaysForward > 0 {
			forward = syncCfg.WindowDaysForward
		}
	}
	return &SyncService{
		provider:      provider,
		bookings:      bookings,
		users:         users,
		mentors:       mentors,
		metrics:       metrics,
		windowBack:    time.Duration(back) * 24 * time.Hour,
		windowForward: time.Duration(forward) * 24 * time.Hour,
		now:           time.Now,
	}
}

// WithClock overrides the clock used to derive bulk windows. Tests only.
func (s *SyncService) WithClock(now func() time.Time) *SyncService {
	s.now = now
	return s
}

// ReconcileAppointment maps one raw external appointment to at most one
// booking record. The returned flag reports whether a new record was created;
// a nil record with a nil error means the appointment was skipped (attendee
// or appointment type outside the system).
func (s *SyncService) ReconcileAppointment(ctx context.Context, appt *entities.ProviderAppointment) (*entities.BookingRecord, bool, error) {
	if appt == nil || appt.ID == "" {
		return nil, false, apperrors.NewValidationError("appointment payload is missing an id")
	}

	log := observability.LoggerFromContext(ctx)

	if strings.TrimSpace(appt.Email) == "" {
		log.Debug().Str("external_event_id", appt.ID).Msg("skipping appointment without attendee email")
		return nil, false, nil
	}
	mentee, err := s.users.GetByEmail(ctx, appt.Email)
	if err != nil {
		return nil, false, err
	}
	if mentee == nil {
		// Appointments may belong to people outside the system.
		log.Debug().Str("external_event_id", appt.ID).Str("email", appt.Email).Msg("skipping appointment for unknown attendee")
		return nil, false, nil
	}

	mapping, err := s.mentors.GetByAppointmentTypeID(ctx, appt.AppointmentTypeID)
	if err != nil {
		return nil, false, err
	}
	if mapping == nil {
		log.Debug().Str("external_event_id", appt.ID).Str("appointment_type_id", appt.AppointmentTypeID).Msg("skipping appointment with unmapped type")
		return nil, false, nil
	}

	// The lookup matches both the canonical and the legacy event id column,
	// regardless of status: a cancelled record counts as already synced, so
	// it is never resurrected.
	existing, err := s.bookings.GetByExternalEventID(ctx, appt.ID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	scheduledAt, err := parseProviderInstant(appt.Datetime)
	if err != nil {
		return nil, false, apperrors.NewValidationError(fmt.Sprintf("appointment %s carries an unparseable datetime %q", appt.ID, appt.Datetime))
	}

	duration := appt.DurationMinutes
	if duration <= 0 {
		duration = defaultDurationMinutes
	}
	notes := appt.Notes
	if strings.TrimSpace(notes) == "" {
		notes = defaultSyncNotes
	}

	externalID := appt.ID
	record := &entities.BookingRecord{
		ID:              uuid.New().String(),
		MenteeID:        mentee.ID,
		HumanMentorID:   mapping.HumanMentorID,
		ScheduledAt:     scheduledAt,
		DurationMinutes: duration,
		Timezone:        appt.Timezone,
		MeetingType:     "video",
		SessionGoals:    notes,
		Status:          entities.BookingStatusConfirmed,
		ExternalEventID: &externalID,
	}
	if err := s.bookings.Create(ctx, record); err != nil {
		return nil, false, err
	}

	log.Info().
		Str("external_event_id", appt.ID).
		Str("booking_id", record.ID).
		Str("mentee_id", mentee.ID).
		Msg("adopted external appointment into booking ledger")
	return record, true, nil
}

// SyncBulk reconciles every appointment in the rolling window around now.
func (s *SyncService) SyncBulk(ctx context.Context) (*entities.SyncSummary, error) {
	scope := s.rollingScope("")
	return s.syncScope(ctx, "bulk", scope)
}

// SyncUser reconciles the appointments of one mentee, matched by email.
func (s *SyncService) SyncUser(ctx context.Context, email string) (*entities.SyncSummary, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperrors.NewValidationError("email is required")
	}
	scope := s.rollingScope(email)
	return s.syncScope(ctx, "user", scope)
}

func (s *SyncService) rollingScope(emailFilter string) entities.SyncScope {
	now := s.now()
	return entities.SyncScope{
		MinDate:     now.Add(-s.windowBack),
		MaxDate:     now.Add(s.windowForward),
		EmailFilter: emailFilter,
	}
}

// syncScope lists the appointments in scope and reconciles each. One
// appointment's failure is counted and logged, never aborts the batch.
func (s *SyncService) syncScope(ctx context.Context, path string, scope entities.SyncScope) (*entities.SyncSummary, error) {
	appointments, err := s.provider.ListAppointments(
		ctx,
		scope.MinDate.Format(dateKeyLayout),
		scope.MaxDate.Format(dateKeyLayout),
		scope.EmailFilter,
	)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx)
	summary := &entities.SyncSummary{TotalAppointments: len(appointments)}

	for i := range appointments {
		appt := appointments[i]
		_, created, err := s.ReconcileAppointment(ctx, &appt)
		switch {
		case err != nil:
			summary.ErrorCount++
			log.Warn().
				Str("external_event_id", appt.ID).
				Str("path", path).
				Err(err).
				Msg("failed to reconcile appointment")
		case created:
			summary.SyncedAppointments++
		default:
			summary.SkippedAppointments++
		}
	}

	if s.metrics != nil {
		observability.RecordSyncOutcome(ctx, s.metrics, path, summary.SyncedAppointments, summary.SkippedAppointments, summary.ErrorCount)
	}
	log.Info().
		Str("path", path).
		Int("total", summary.TotalAppointments).
		Int("synced", summary.SyncedAppointments).
		Int("skipped", summary.SkippedAppointments).
		Int("errors", summary.ErrorCount).
		Msg("reconciliation pass complete")
	return summary, nil
}
