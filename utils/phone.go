package utils

import (
	"errors"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// Customers are keyed by 10-digit Indian mobile numbers on the central API.
const phoneRegion = "IN"

var ErrorInvalidPhone = errors.New("invalid phone number")

// NormalizePhone10 reduces whatever the cashier typed ("+91 98765 43210",
// "098765-43210", ...) to the bare 10-digit national number the remote
// customer endpoints expect. Falls back to the last 10 digits when the
// input does not parse as a phone number at all.
func NormalizePhone10(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrorInvalidPhone
	}

	if num, err := libphonenumber.Parse(raw, phoneRegion); err == nil {
		national := libphonenumber.GetNationalSignificantNumber(num)
		if len(national) == 10 {
			return national, nil
		}
	}

	digits := keepDigits(raw)
	if len(digits) < 10 {
		return "", ErrorInvalidPhone
	}
	return digits[len(digits)-10:], nil
}

// IsValidPhone10 reports whether the input normalizes to a plausible
// 10-digit mobile number. Used by the gin binding validator.
func IsValidPhone10(raw string) bool {
	normalized, err := NormalizePhone10(raw)
	if err != nil {
		return false
	}
	num, err := libphonenumber.Parse(normalized, phoneRegion)
	if err != nil {
		return false
	}
	return libphonenumber.IsPossibleNumber(num)
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
