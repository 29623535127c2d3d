package service

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrRoomNotFound         = errors.New("room not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrForbidden            = errors.New("operation not permitted")
	ErrRoomUnavailable      = errors.New("room is not available for the requested time")
	ErrBookingChanged       = errors.New("booking status changed concurrently")
	ErrConfirmationRequired = errors.New("cancellation requires confirmation")
	ErrNotCancellable       = errors.New("booking cannot be cancelled")
	ErrInvalidEntry         = errors.New("invalid timetable entry")
	ErrEntryNotFound        = errors.New("timetable entry not found")
	ErrInvalidRole          = errors.New("invalid role")
)
