package services

import (
	"regexp"
	"time"

	apperrors "github.com/mentorloop/backend/pkg/errors"
)

// fourDigitOffset matches a trailing numeric UTC offset without a colon,
// the form the scheduling provider emits (e.g. -0400).
var fourDigitOffset = regexp.MustCompile(`([+-]\d{2})(\d{2})$`)

// NormalizeOffset rewrites a provider instant's trailing four-digit offset
// into the colon-delimited extended form: "-0400" becomes "-04:00". Values
// already carrying a colon, or ending in Z, pass through unchanged.
func NormalizeOffset(instant string) string {
	return fourDigitOffset.ReplaceAllString(instant, "$1:$2")
}

// parseProviderInstant parses a provider datetime in either offset form.
func parseProviderInstant(instant string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, NormalizeOffset(instant))
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("invalid scheduled datetime: " + instant)
	}
	return t, nil
}
