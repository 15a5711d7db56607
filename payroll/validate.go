package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// INPUT VALIDATOR
// =============================================================================

// Validate checks an employee/input pair for business completeness before a
// calculation. It returns nil when valid, otherwise a ValidationErrors value
// listing every problem found. It has no side effects.
//
// Rules:
//   - Hourly/Daily/Weekly/Monthly: the matching rate is present and > 0.
//   - ShiftBased: the shift list is non-empty. Per-shift rates are checked
//     by ShiftList.Validate when the list is edited, not here.
//   - Input amounts are never negative; shift entries name known shifts.
func Validate(emp Employee, in PayrollInput) error {
	var errs ValidationErrors

	switch emp.Type {
	case Hourly, Daily, Weekly, Monthly:
		rate := emp.Rate()
		field := emp.Type.RateField()
		switch {
		case rate == nil:
			errs = append(errs, ValidationError{Field: field, Reason: "is required for " + string(emp.Type) + " employees"})
		case !rate.IsPositive():
			errs = append(errs, ValidationError{Field: field, Reason: "must be greater than zero"})
		}
	case ShiftBased:
		if len(emp.Shifts) == 0 {
			errs = append(errs, ValidationError{Field: "shifts", Reason: "at least one shift is required for shift_based employees"})
		}
		for i, entry := range in.Shifts {
			field := fmt.Sprintf("input.shifts[%d]", i)
			if _, ok := emp.Shifts.Find(entry.Shift); !ok {
				errs = append(errs, ValidationError{Field: field + ".shift", Reason: fmt.Sprintf("unknown shift %q", entry.Shift)})
			}
			if entry.Occurrences < 0 {
				errs = append(errs, ValidationError{Field: field + ".occurrences", Reason: "must not be negative"})
			}
			if entry.ExtraHours.IsNegative() {
				errs = append(errs, ValidationError{Field: field + ".extra_hours", Reason: "must not be negative"})
			}
		}
	default:
		errs = append(errs, ValidationError{Field: "employment_type", Reason: fmt.Sprintf("unknown employment type %q", emp.Type)})
	}

	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"input.hours_worked", in.HoursWorked},
		{"input.days_worked", in.DaysWorked},
		{"input.other_allowances", in.OtherAllowances},
		{"input.other_deductions", in.OtherDeductions},
	} {
		if f.value.IsNegative() {
			errs = append(errs, ValidationError{Field: f.name, Reason: "must not be negative"})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
