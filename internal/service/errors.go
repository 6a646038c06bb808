package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDataProvided is returned when a request payload fails
	// validation before any storage work happens.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrMalformedSequenceState is returned when the startup resync finds a
	// persisted display id that does not parse under the identifier scheme.
	// Allocation fails closed on this error: restarting a counter at 1 would
	// hand out colliding ids.
	ErrMalformedSequenceState = errors.New("persisted display id does not match identifier scheme")

	// ErrAllocationExhausted is returned when repeated display-id allocation
	// attempts keep colliding. With the atomic counter this signals a
	// persistent problem rather than ordinary contention.
	ErrAllocationExhausted = errors.New("display id allocation retries exhausted")
)

// ValidationError reports a rejected field so the transport layer can name
// the offending attribute. Matches [ErrInvalidDataProvided] under
// [errors.Is].
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidDataProvided
}

// invalidField constructs a *ValidationError.
func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
