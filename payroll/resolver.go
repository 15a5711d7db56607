/*
resolver.go - Gross Pay Resolver

PURPOSE:
  Converts an employee's type-specific rate plus worked time into gross pay,
  and derives the weekly-equivalent wage used as the contribution base.

KEY INSIGHT:
  The weekly wage comes from the RATE, never from worked time. An hourly
  employee who logged 10 hours still has a 40-hour weekly wage, because the
  statutory liability follows the employment relationship's nominal wage.

FORMULAS (p = WagePolicy):
  Hourly:     gross = hours x rate        weekly = rate x p.StandardWeekHours
  Daily:      gross = days x rate         weekly = rate x p.WorkingDaysPerWeek
  Weekly:     gross = rate                weekly = rate
  Monthly:    gross = salary              weekly = salary x p.MonthsPerYear / p.WeeksPerYear
  ShiftBased: gross = sum(occ x base + hourly x extra)
              weekly = default.base x p.WorkingDaysPerWeek

DAILY RATE (8-hour equivalent, used by the period generator):
  Hourly: rate x p.HoursPerDay     Daily: rate
  Weekly: rate / p.WorkingDaysPerWeek
  Monthly: salary / p.DaysPerMonth ShiftBased: default.base
*/
package payroll

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// GrossPay is the resolver output. Both values are unrounded.
type GrossPay struct {
	Gross      decimal.Decimal
	WeeklyWage decimal.Decimal
}

// Resolve computes gross pay and the weekly-equivalent wage. The input is
// assumed to have passed Validate; the only error it reports on its own is a
// shift list without exactly one default.
func Resolve(emp Employee, in PayrollInput, policy WagePolicy) (GrossPay, error) {
	switch emp.Type {
	case Hourly:
		rate := deref(emp.HourlyRate)
		return GrossPay{
			Gross:      in.HoursWorked.Mul(rate),
			WeeklyWage: rate.Mul(policy.StandardWeekHours),
		}, nil

	case Daily:
		rate := deref(emp.DailyRate)
		return GrossPay{
			Gross:      in.DaysWorked.Mul(rate),
			WeeklyWage: rate.Mul(policy.WorkingDaysPerWeek),
		}, nil

	case Weekly:
		rate := deref(emp.WeeklyRate)
		return GrossPay{Gross: rate, WeeklyWage: rate}, nil

	case Monthly:
		salary := deref(emp.MonthlySalary)
		return GrossPay{
			Gross:      salary,
			WeeklyWage: salary.Mul(policy.MonthsPerYear).Div(policy.WeeksPerYear),
		}, nil

	case ShiftBased:
		def, err := defaultShift(emp)
		if err != nil {
			return GrossPay{}, err
		}
		gross := decimal.Zero
		for _, entry := range in.Shifts {
			shift, ok := emp.Shifts.Find(entry.Shift)
			if !ok {
				continue
			}
			gross = gross.Add(shiftPay(shift, entry))
		}
		return GrossPay{
			Gross:      gross,
			WeeklyWage: def.BaseRate.Mul(policy.WorkingDaysPerWeek),
		}, nil
	}
	return GrossPay{}, fmt.Errorf("%w: %q", ErrUnknownEmploymentType, emp.Type)
}

// DailyRate8Hr is the 8-hour-equivalent daily rate of an employee, unrounded.
func DailyRate8Hr(emp Employee, policy WagePolicy) (decimal.Decimal, error) {
	switch emp.Type {
	case Hourly:
		return deref(emp.HourlyRate).Mul(policy.HoursPerDay), nil
	case Daily:
		return deref(emp.DailyRate), nil
	case Weekly:
		return deref(emp.WeeklyRate).Div(policy.WorkingDaysPerWeek), nil
	case Monthly:
		return deref(emp.MonthlySalary).Div(policy.DaysPerMonth), nil
	case ShiftBased:
		def, err := defaultShift(emp)
		if err != nil {
			return decimal.Zero, err
		}
		return def.BaseRate, nil
	}
	return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownEmploymentType, emp.Type)
}

func shiftPay(shift ShiftConfig, entry ShiftEntry) decimal.Decimal {
	pay := shift.BaseRate.Mul(decimal.NewFromInt(int64(entry.Occurrences)))
	if shift.HourlyRate != nil && entry.ExtraHours.IsPositive() {
		pay = pay.Add(shift.HourlyRate.Mul(entry.ExtraHours))
	}
	return pay
}

func defaultShift(emp Employee) (ShiftConfig, error) {
	def, err := emp.Shifts.Default()
	if err != nil {
		var nd *NoDefaultShiftError
		if errors.As(err, &nd) {
			nd.EmployeeID = emp.ID
		}
		return ShiftConfig{}, err
	}
	return def, nil
}

func deref(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
