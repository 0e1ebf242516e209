package utils

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("invalid request")
	ErrNoFileProvided      = errors.New("no file uploaded")
	ErrUnsupportedFileType = errors.New("only PDF, CSV, JSON files allowed")
	ErrFileTooLarge        = errors.New("file too large")
	ErrCsvParse            = errors.New("could not parse CSV")
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrProvider            = errors.New("provider error")
	ErrDatabaseError       = errors.New("database error")
)

var (
	ErrItineraryNotFound = fmt.Errorf("itinerary %w", ErrNotFound)
	ErrTravelerNotFound  = fmt.Errorf("traveler %w", ErrNotFound)
	ErrAccountNotFound   = fmt.Errorf("user %w", ErrNotFound)
)

// ValidationError wraps ErrValidation with a client-facing detail.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IsClientError reports whether err should be answered with 400.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNoFileProvided) ||
		errors.Is(err, ErrUnsupportedFileType) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrCsvParse) ||
		errors.Is(err, ErrInvalidCredentials)
}
