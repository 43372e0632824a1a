package entities

import (
	"time"
)

// SyncScope parameterizes one reconciliation pass: a date window and an
// optional mentee-email filter. It never persists; each pass derives its own
// window relative to now.
type SyncScope struct {
	MinDate     time.Time
	MaxDate     time.Time
	EmailFilter string
}

// SyncSummary is the primary observability signal of an unattended
// reconciliation pass.
type SyncSummary struct {
	TotalAppointments   int `json:"totalAppointments"`
	SyncedAppointments  int `json:"syncedAppointments"`
	SkippedAppointments int `json:"skippedAppointments"`
	ErrorCount          int `json:"errorCount"`
}
