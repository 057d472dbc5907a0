package service

import "errors"

// Sentinel errors returned by the services. The HTTP layer maps them to
// status codes with errors.Is.
var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrDuplicateEmail         = errors.New("email already registered")
	ErrDuplicatePhone         = errors.New("phone already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUnauthenticated        = errors.New("unauthenticated")
	ErrInvalidExternalSession = errors.New("invalid external session")
	ErrProviderUnavailable    = errors.New("identity provider unavailable")

	ErrVehicleNotFound     = errors.New("vehicle not found")
	ErrVehicleUnavailable  = errors.New("vehicle not available")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInvalidTransition   = errors.New("invalid status transition")

	ErrNotificationNotFound = errors.New("notification not found")
)

// ValidationError describes rejected input. It matches ErrInvalidInput
// under errors.Is.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }
