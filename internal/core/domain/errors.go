package domain

import "errors"

// ErrNotFound is returned when a trip, location or photo does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports an invalid user-supplied field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}
