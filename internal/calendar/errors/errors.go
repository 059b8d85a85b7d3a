package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrTimeConflict = errors.New("target slot conflicts with an existing booking")

	ErrGestureActive = errors.New("another gesture is already in progress")

	ErrNoGesture = errors.New("no gesture in progress")

	ErrGestureMismatch = errors.New("event does not match the active gesture")

	ErrBelowMinDuration = errors.New("resized duration is below the minimum slot length")

	ErrInvalidResize = errors.New("invalid resize geometry")

	ErrOutsideDay = errors.New("target slot falls outside calendar hours")

	ErrInvalidView = errors.New("unknown calendar view mode")
)
