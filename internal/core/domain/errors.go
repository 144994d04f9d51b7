package domain

import (
	"errors"
	"fmt"
)

// Authentication and authorization failures.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("not authorized")
	ErrForbidden          = errors.New("access forbidden")
)

// Lookup and validation failures.
var (
	ErrNotFound          = errors.New("not found")
	ErrUserNotFound      = notFound("user not found")
	ErrLawyerNotFound    = notFound("lawyer not found")
	ErrSectorNotFound    = notFound("sector not found")
	ErrBookingNotFound   = notFound("booking not found")
	ErrDuplicateSector   = errors.New("sector already exists")
	ErrValidation        = errors.New("validation failed")
	ErrLawyerUnavailable = errors.New("lawyer is not accepting bookings")

	// ErrIdempotencyConflict means another request holding the same
	// Idempotency-Key has not finished yet.
	ErrIdempotencyConflict = errors.New("a request with this idempotency key is still in progress")

	// ErrNotProfileOwner is a Forbidden variant with a more specific message.
	ErrNotProfileOwner = fmt.Errorf("%w: you can only update your own profession", ErrForbidden)
)

// notFoundError lets every specific not-found error also match ErrNotFound.
type notFoundError struct{ msg string }

func notFound(msg string) error { return &notFoundError{msg: msg} }

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }
