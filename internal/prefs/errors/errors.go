package errors

import "errors"

var (
	ErrNotFound = errors.New("calendar preferences not found")
)
