package entities

// ProviderAppointment is one appointment as reported by the scheduling
// provider, either from a list call or a webhook push.
type ProviderAppointment struct {
	ID                string `json:"id"`
	AppointmentTypeID string `json:"appointment_type_id"`
	// Datetime is the provider's raw instant string; offsets may arrive
	// without a colon (e.g. -0400).
	Datetime        string `json:"datetime"`
	DurationMinutes int    `json:"duration_minutes"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Timezone        string `json:"timezone"`
	Notes           string `json:"notes"`
}

// SlotValidation is the provider's verdict on a requested slot.
type SlotValidation struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// AppointmentRequest carries everything the provider needs to create an
// appointment.
type AppointmentRequest struct {
	AppointmentTypeID string
	Datetime          string
	Timezone          string
	FirstName         string
	LastName          string
	Email             string
	Notes             string
}
