package utils

import (
	"errors"
	"strings"
)

var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone returns an E.164 number. Separators are dropped first; a number
// that already carries a +<country code> is kept, a bare 10-digit national number
// gets defaultCountryCode, anything else is rejected.
func NormalizePhone(raw, defaultCountryCode string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.', '\t':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	if strings.HasPrefix(cleaned, "+") {
		digits := cleaned[1:]
		if len(digits) < 8 || len(digits) > 15 || !allDigits(digits) {
			return "", ErrInvalidPhone
		}
		return cleaned, nil
	}

	if len(cleaned) == 10 && allDigits(cleaned) {
		return defaultCountryCode + cleaned, nil
	}
	return "", ErrInvalidPhone
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
