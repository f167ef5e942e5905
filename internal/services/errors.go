package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. Handlers map it to an HTTP status.
type Kind string

const (
	KindValidation             Kind = "validation"
	KindSlotUnavailable        Kind = "slot_unavailable"
	KindNotFoundOrUnauthorized Kind = "not_found_or_unauthorized"
	KindNotFound               Kind = "not_found"
	KindConflict               Kind = "conflict"
	KindUnauthorized           Kind = "unauthorized"
	KindPersistence            Kind = "persistence"
)

// Messages shared with API clients.
const (
	MsgMissingRequiredFields = "Missing required fields"
	MsgSlotUnavailable       = "Time slot is already booked"
	MsgBookingNotFoundOrAuth = "Booking not found or unauthorized"
	MsgInvalidCredentials    = "Invalid email or password"
	MsgInternal              = "Internal server error"
)

// Error is the typed failure returned by every service method.
// Err carries the underlying cause for logging and is never shown to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func validationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func persistenceError(cause error) *Error {
	return &Error{Kind: KindPersistence, Message: MsgInternal, Err: cause}
}

// KindOf returns the kind of err; unknown errors count as persistence failures.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindPersistence
}

// asServiceError passes *Error values through and wraps anything else as persistence.
func asServiceError(err error) error {
	if err == nil {
		return nil
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return persistenceError(err)
}
