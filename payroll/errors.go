/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Errors are values: the engine never panics for control flow and never
  retries (it is deterministic, a retry reproduces the same result).

ERROR CATEGORIES:
  1. Validation errors - Missing/non-positive rates, empty shift lists
  2. Precondition errors - No default shift, unknown employment type
  3. Shift list errors - Index out of range during editing

USAGE:
  if err := payroll.Validate(emp, in); err != nil {
      var verrs payroll.ValidationErrors
      if errors.As(err, &verrs) {
          for _, v := range verrs { ... v.Field, v.Reason ... }
      }
  }

SEE ALSO:
  - validate.go: Produces ValidationErrors
  - shifts.go: Produces NoDefaultShiftError
  - period/errors.go: Range and week-index errors
*/
package payroll

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation wraps every ValidationErrors value.
	ErrValidation = errors.New("validation failed")

	// ErrNoDefaultShift is returned when a non-empty shift list has no default.
	// This is a caller precondition violation; it is never auto-repaired here.
	ErrNoDefaultShift = errors.New("no default shift")

	// ErrMultipleDefaultShifts is returned when more than one shift is default.
	ErrMultipleDefaultShifts = errors.New("more than one default shift")

	// ErrShiftIndexOutOfRange is returned by shift list edits on a bad index.
	ErrShiftIndexOutOfRange = errors.New("shift index out of range")

	// ErrUnknownEmploymentType is returned for a tag outside EmploymentTypes.
	ErrUnknownEmploymentType = errors.New("unknown employment type")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError is one field-level problem.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationErrors is the full list returned by Validate.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (es ValidationErrors) Unwrap() error { return ErrValidation }

// NoDefaultShiftError reports which employee violated the default-shift rule.
type NoDefaultShiftError struct {
	EmployeeID EmployeeID
	ShiftCount int
}

func (e *NoDefaultShiftError) Error() string {
	return fmt.Sprintf("employee %q has %d shifts but none is marked default", e.EmployeeID, e.ShiftCount)
}

func (e *NoDefaultShiftError) Unwrap() error { return ErrNoDefaultShift }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNoDefaultShift) ||
		errors.Is(err, ErrMultipleDefaultShifts) ||
		errors.Is(err, ErrShiftIndexOutOfRange) ||
		errors.Is(err, ErrUnknownEmploymentType)
}
