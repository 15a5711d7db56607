/*
Package payroll provides the pay calculation engine.

PURPOSE:
  This package turns an employee's rate configuration plus a worked-time
  input into gross pay, statutory (NIS) contributions and net pay. It is
  pure: no I/O, no shared state, no retries. Hosts pass plain values in and
  get plain values out.

KEY CONCEPTS IN THIS FILE (types.go):
  - EmploymentType: Closed set of pay structures (hourly ... shift-based)
  - Employee: Identity plus the rate field its EmploymentType requires
  - ShiftConfig: One named, flat-rated shift of a shift-based employee
  - PayrollInput: Worked time and ad-hoc allowances/deductions
  - Result: Gross, weekly wage, contributions and net pay

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for every amount and rate
  2. Closed dispatch: Every switch over EmploymentType is exhaustive
  3. Injection: Rates and conversion constants come from the caller
  4. Auditability: Results keep every component of net pay

USAGE:
  calc := payroll.NewCalculator(payroll.FlatSchedule{
      EmployeeRate: payroll.MustParseDecimal("0.056"),
      EmployerRate: payroll.MustParseDecimal("0.084"),
  }, payroll.DefaultWagePolicy())

  result, err := calc.Calculate(employee, payroll.PayrollInput{
      HoursWorked: payroll.MustParseDecimal("40"),
  })

SEE ALSO:
  - validate.go: Input Validator
  - resolver.go: Gross Pay Resolver
  - contribution.go: Contribution schedules and calculator
  - calculator.go: Result assembler
  - shifts.go: Shift list editing with the default-shift invariant
*/
package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - decimal helpers (always 2 places once rounded)
// =============================================================================

// MoneyPlaces is the number of decimal places of the currency's minor unit.
const MoneyPlaces = 2

// MustParseDecimal parses s and panics on malformed input. Use it for
// literals; parse caller data with decimal.NewFromString.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("payroll: invalid decimal %q: %v", s, err))
	}
	return d
}

// RoundMoney rounds to the minor unit, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal { return d.Round(MoneyPlaces) }

// FormatMoney renders d with exactly 2 places and no thousands separator.
func FormatMoney(d decimal.Decimal) string { return d.StringFixed(MoneyPlaces) }

// =============================================================================
// EMPLOYMENT TYPE
// =============================================================================

type EmploymentType string

const (
	Hourly     EmploymentType = "hourly"
	Daily      EmploymentType = "daily"
	Weekly     EmploymentType = "weekly"
	Monthly    EmploymentType = "monthly"
	ShiftBased EmploymentType = "shift_based"
)

// EmploymentTypes lists every variant. Adding one here must be followed by
// a review of every switch in this package and in period.
var EmploymentTypes = []EmploymentType{Hourly, Daily, Weekly, Monthly, ShiftBased}

// ParseEmploymentType accepts the wire names used by the API and regime files.
func ParseEmploymentType(s string) (EmploymentType, error) {
	for _, t := range EmploymentTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEmploymentType, s)
}

// RateField names the Employee field a type requires. ShiftBased has none.
func (t EmploymentType) RateField() string {
	switch t {
	case Hourly:
		return "hourly_rate"
	case Daily:
		return "daily_rate"
	case Weekly:
		return "weekly_rate"
	case Monthly:
		return "monthly_salary"
	case ShiftBased:
		return "shifts"
	}
	return ""
}

// =============================================================================
// EMPLOYEE
// =============================================================================

type EmployeeID string

// Employee is owned by the caller and passed by value.
// Only the rate that matches Type is consulted; the others may be nil.
type Employee struct {
	ID   EmployeeID
	Name string
	Type EmploymentType

	HourlyRate    *decimal.Decimal
	DailyRate     *decimal.Decimal
	WeeklyRate    *decimal.Decimal
	MonthlySalary *decimal.Decimal

	// Shifts is required (non-empty) for ShiftBased.
	Shifts ShiftList
}

// Rate returns the rate field for the employee's type, nil when absent.
func (e Employee) Rate() *decimal.Decimal {
	switch e.Type {
	case Hourly:
		return e.HourlyRate
	case Daily:
		return e.DailyRate
	case Weekly:
		return e.WeeklyRate
	case Monthly:
		return e.MonthlySalary
	case ShiftBased:
		return nil
	}
	return nil
}

// DecimalPtr is a convenience for building Employee literals.
func DecimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

// =============================================================================
// SHIFT CONFIG
// =============================================================================

// ShiftConfig is one recurring shift. BaseRate is paid per occurrence;
// HourlyRate, when set, bills hours beyond the shift.
type ShiftConfig struct {
	Name       string
	Hours      string // display label, e.g. "07:00-15:00"
	BaseRate   decimal.Decimal
	HourlyRate *decimal.Decimal
	IsDefault  bool
}

// =============================================================================
// PAYROLL INPUT
// =============================================================================

// ShiftEntry records worked occurrences of one named shift.
type ShiftEntry struct {
	Shift       string
	Occurrences int
	ExtraHours  decimal.Decimal
}

// PayrollInput carries worked time for one calculation. Only the fields
// relevant to the employee's type are read.
type PayrollInput struct {
	HoursWorked     decimal.Decimal
	DaysWorked      decimal.Decimal
	Shifts          []ShiftEntry
	OtherAllowances decimal.Decimal
	OtherDeductions decimal.Decimal
}

// =============================================================================
// RESULT
// =============================================================================

// Result is the assembled calculation. Every amount is rounded to the minor
// unit and NetPay = GrossPay + OtherAllowances - NISEmployee - OtherDeductions.
// NISEmployer is an employer cost and never reduces NetPay.
type Result struct {
	GrossPay        decimal.Decimal
	WeeklyWage      decimal.Decimal
	NISEmployee     decimal.Decimal
	NISEmployer     decimal.Decimal
	OtherAllowances decimal.Decimal
	OtherDeductions decimal.Decimal
	NetPay          decimal.Decimal
}

// TotalNIS is the combined employee and employer contribution.
func (r Result) TotalNIS() decimal.Decimal { return r.NISEmployee.Add(r.NISEmployer) }

// PayLessNIS is gross pay after the employee contribution only.
func (r Result) PayLessNIS() decimal.Decimal { return r.GrossPay.Sub(r.NISEmployee) }
