package utils

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service wraps exactly one of these,
// HandleServiceError picks the HTTP status from the kind.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrUnavailable   = errors.New("upstream unavailable")
	ErrDatabaseError = errors.New("database error")
)

var (
	ErrInvalidCredentials  = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrInvalidToken        = fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	ErrProfileAccessDenied = fmt.Errorf("%w: access denied", ErrUnauthorized)

	ErrEmailAlreadyExists  = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrProfileLimitReached = fmt.Errorf("%w: profile limit reached", ErrConflict)
	ErrLastProfile         = fmt.Errorf("%w: cannot delete the last profile", ErrConflict)

	ErrAccountNotFound = fmt.Errorf("%w: account not found", ErrNotFound)
	ErrProfileNotFound = fmt.Errorf("%w: profile not found", ErrNotFound)

	ErrUnknownPlan       = fmt.Errorf("%w: unknown subscription plan", ErrBadRequest)
	ErrInvalidName       = fmt.Errorf("%w: profile name must be 1-50 characters", ErrBadRequest)
	ErrInvalidContentID  = fmt.Errorf("%w: content id is required", ErrBadRequest)
	ErrInvalidDuration   = fmt.Errorf("%w: watched duration must not be negative", ErrBadRequest)
	ErrInvalidGenre      = fmt.Errorf("%w: genre id must be a positive integer", ErrBadRequest)
	ErrInvalidMovieID    = fmt.Errorf("%w: movie id must be a positive integer", ErrBadRequest)
	ErrInvalidIdentifier = fmt.Errorf("%w: malformed identifier", ErrBadRequest)
)

// UnavailableError reports a failed call to the external catalog.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("catalog %s: %v", e.Op, ErrUnavailable)
	}
	return fmt.Sprintf("catalog %s: %v: %v", e.Op, ErrUnavailable, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

func NewUnavailableError(op string, err error) error {
	return &UnavailableError{Op: op, Err: err}
}
