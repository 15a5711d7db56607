package period

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned when a period ends before it starts.
	ErrInvalidRange = errors.New("invalid period: end before start")

	// ErrWeekOutOfRange is returned for a week index the period does not have.
	ErrWeekOutOfRange = errors.New("week index out of range")

	// ErrNegativeAmount is returned when a recorded figure is below zero.
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// InvalidRangeError carries the offending dates.
type InvalidRangeError struct {
	Start Date
	End   Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid period: end %s is before start %s", e.End, e.Start)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// WeekIndexError reports a 0-based index outside [0, Weeks).
type WeekIndexError struct {
	Index int
	Weeks int
}

func (e *WeekIndexError) Error() string {
	return fmt.Sprintf("week index %d out of range (period has %d weeks)", e.Index, e.Weeks)
}

func (e *WeekIndexError) Unwrap() error { return ErrWeekOutOfRange }

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrWeekOutOfRange) ||
		errors.Is(err, ErrNegativeAmount)
}
