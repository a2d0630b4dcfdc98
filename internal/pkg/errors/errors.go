package errors

import (
	"errors"
	"fmt"
)

// Engine error taxonomy. Handlers map these onto HTTP statuses via
// platform/apierr; services wrap them with context but never mask the kind.
var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidSchedule marks an event whose date/time cannot be parsed.
	// Never defaulted to an open or closed window; the check-in is refused.
	ErrInvalidSchedule = errors.New("invalid event schedule")

	ErrUserInactiveOrUnknown = errors.New("user inactive or unknown")
	ErrUnknownIdentifier     = errors.New("unknown identifier")

	ErrWindowClosed = errors.New("check-in window closed")
	ErrTooEarly     = fmt.Errorf("%w: event has not started", ErrWindowClosed)
	ErrTooLate      = fmt.Errorf("%w: grace period elapsed", ErrWindowClosed)

	ErrLocationRejected     = errors.New("reported location out of range")
	ErrLocationUnverifiable = errors.New("location could not be verified")

	ErrDeviceMismatch = errors.New("device id does not match")

	// ErrDuplicateCheckIn reports an idempotent re-check-in. The record
	// already persisted is returned alongside it; nothing was written.
	ErrDuplicateCheckIn = errors.New("already checked in")

	// ErrStorageConflict means a concurrent writer won the uniqueness race.
	// The authorizer converges it to ErrDuplicateCheckIn after a re-read.
	ErrStorageConflict = errors.New("storage conflict")

	// ErrUnavailable wraps a storage failure that survived the bounded retry.
	ErrUnavailable = errors.New("storage unavailable")
)

func Is(err, target error) bool { return errors.Is(err, target) }
