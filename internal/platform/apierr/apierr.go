package apierr

import (
	"fmt"
	"net/http"

	pkgerrors "github.com/ushersync/attendance-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// From maps an engine error onto the HTTP status and stable code the
// response envelope carries. Unknown errors become 500/internal_error.
func From(err error) *Error {
	switch {
	case err == nil:
		return nil
	case pkgerrors.Is(err, pkgerrors.ErrDuplicateCheckIn):
		// Idempotent outcome, not a failure to the caller's intent.
		return New(http.StatusOK, "already_checked_in", err)
	case pkgerrors.Is(err, pkgerrors.ErrInvalidSchedule):
		return New(http.StatusConflict, "invalid_event_schedule", err)
	case pkgerrors.Is(err, pkgerrors.ErrUserInactiveOrUnknown):
		return New(http.StatusForbidden, "user_inactive_or_unknown", err)
	case pkgerrors.Is(err, pkgerrors.ErrUnknownIdentifier):
		return New(http.StatusNotFound, "unknown_identifier", err)
	case pkgerrors.Is(err, pkgerrors.ErrTooEarly):
		return New(http.StatusConflict, "window_not_open", err)
	case pkgerrors.Is(err, pkgerrors.ErrTooLate):
		return New(http.StatusConflict, "window_closed", err)
	case pkgerrors.Is(err, pkgerrors.ErrWindowClosed):
		return New(http.StatusConflict, "window_closed", err)
	case pkgerrors.Is(err, pkgerrors.ErrLocationRejected):
		return New(http.StatusForbidden, "location_rejected", err)
	case pkgerrors.Is(err, pkgerrors.ErrLocationUnverifiable):
		return New(http.StatusForbidden, "location_unverifiable", err)
	case pkgerrors.Is(err, pkgerrors.ErrDeviceMismatch):
		return New(http.StatusForbidden, "device_mismatch", err)
	case pkgerrors.Is(err, pkgerrors.ErrStorageConflict):
		return New(http.StatusConflict, "conflict", err)
	case pkgerrors.Is(err, pkgerrors.ErrNotFound):
		return New(http.StatusNotFound, "not_found", err)
	case pkgerrors.Is(err, pkgerrors.ErrInvalidArgument):
		return New(http.StatusBadRequest, "invalid_argument", err)
	case pkgerrors.Is(err, pkgerrors.ErrUnavailable):
		return New(http.StatusServiceUnavailable, "storage_unavailable", err)
	default:
		return New(http.StatusInternalServerError, "internal_error", err)
	}
}
