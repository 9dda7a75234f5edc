package errors

import "errors"

var (
	ErrNotFound = errors.New("meeting not found")

	ErrInvalidID = errors.New("invalid meeting ID format")

	ErrHoldNotFound = errors.New("hold not found")

	ErrHoldConflict = errors.New("slot already held")
)
