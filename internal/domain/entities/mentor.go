package entities

import (
	"time"
)

// AppointmentTypeMapping links a scheduling provider appointment type to an
// internal mentor. Mentors without a mapping cannot be booked through this
// subsystem.
type AppointmentTypeMapping struct {
	AppointmentTypeID      string    `json:"appointment_type_id" db:"appointment_type_id"`
	HumanMentorID          string    `json:"human_mentor_id" db:"human_mentor_id"`
	MentorName             string    `json:"mentor_name" db:"mentor_name"`
	DefaultDurationMinutes int       `json:"default_duration_minutes" db:"default_duration_minutes"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}
