package models

import (
	"errors"
	"fmt"
)

var (
	// ErrBookingConflict is returned when a car's dates are taken by another
	// confirmed or active booking.
	ErrBookingConflict = errors.New("car is not available for the selected dates")

	// ErrInvalidTransition is returned for booking status changes the state
	// machine does not permit. It always indicates a caller bug or an
	// authorization hole upstream, never a recoverable condition.
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

// InvalidTransitionError carries the rejected from/to pair.
type InvalidTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid booking status transition: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
