package entities

// AvailabilityWindow is the ephemeral result of a ranged availability query:
// the dates with open slots inside the window, plus the normalized time-slot
// instants per date. Dates with no (or failed) time lookups map to an empty
// slice, never a missing key.
type AvailabilityWindow struct {
	Dates []string            `json:"dates"`
	Times map[string][]string `json:"times"`
}
