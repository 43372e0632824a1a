package entities

import (
	"time"
)

// BookingStatus represents the status of a booking record
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// BookingRecord represents one mentorship session on the internal ledger.
// At most one non-cancelled record may carry a given non-null ExternalEventID;
// cancellation is a status transition, never a deletion, so a cancelled record
// keeps blocking its external event id from being re-adopted by a sync pass.
type BookingRecord struct {
	ID              string        `json:"id" db:"id"`
	MenteeID        string        `json:"mentee_id" db:"mentee_id"`
	HumanMentorID   string        `json:"human_mentor_id" db:"human_mentor_id"`
	ScheduledAt     time.Time     `json:"scheduled_at" db:"scheduled_at"`
	DurationMinutes int           `json:"duration_minutes" db:"duration_minutes"`
	Timezone        string        `json:"timezone" db:"timezone"`
	MeetingType     string        `json:"meeting_type" db:"meeting_type"`
	SessionGoals    string        `json:"session_goals" db:"session_goals"`
	Status          BookingStatus `json:"status" db:"status"`

	// ExternalEventID is the scheduling provider's appointment id; nil for
	// records that never reached the provider.
	ExternalEventID *string `json:"external_event_id" db:"external_event_id"`
	// LegacyEventID is the deduplication key written by the previous
	// integration. Read-only; matched during sync, never written.
	LegacyEventID *string `json:"legacy_event_id,omitempty" db:"calendly_event_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the record still occupies its slot.
func (b *BookingRecord) IsActive() bool {
	return b.Status != BookingStatusCancelled
}
