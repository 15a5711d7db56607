/*
contribution.go - Contribution schedules and the Contribution Calculator

PURPOSE:
  Applies a statutory contribution schedule (NIS) to the weekly-equivalent
  wage. The schedule is always supplied by the host so one engine can serve
  several regimes.

CONTRACT:
  The calculator's contract is "wage in, two amounts out". Schedules decide
  HOW the amounts come out of the wage:

  FlatSchedule:
    employee = wage x EmployeeRate, employer = wage x EmployerRate
    (wage first capped at InsurableCeiling when one is set)

  BandedSchedule:
    the first band whose UpTo >= wage (or the open last band) supplies the
    two rates, applied to the whole wage

ROUNDING:
  Each amount is rounded to 2 places independently (half-up). The total is
  the sum of the two rounded amounts, so it never depends on the order the
  amounts were computed in.
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// ContributionSchedule turns a weekly wage into unrounded employee and
// employer contribution amounts.
type ContributionSchedule interface {
	Contributions(weeklyWage decimal.Decimal) (employee, employer decimal.Decimal)
}

// =============================================================================
// FLAT SCHEDULE
// =============================================================================

// FlatSchedule applies two fixed fractions of the wage.
type FlatSchedule struct {
	EmployeeRate decimal.Decimal
	EmployerRate decimal.Decimal

	// InsurableCeiling caps the wage contributions are charged on. Nil = no cap.
	InsurableCeiling *decimal.Decimal
}

func (s FlatSchedule) Contributions(wage decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if s.InsurableCeiling != nil && wage.GreaterThan(*s.InsurableCeiling) {
		wage = *s.InsurableCeiling
	}
	return wage.Mul(s.EmployeeRate), wage.Mul(s.EmployerRate)
}

// =============================================================================
// BANDED SCHEDULE
// =============================================================================

// Band is one row of a banded table. A nil UpTo is open-ended.
type Band struct {
	UpTo         *decimal.Decimal
	EmployeeRate decimal.Decimal
	EmployerRate decimal.Decimal
}

// BandedSchedule picks the rates by wage band. Bands are expected in
// ascending UpTo order with at most the last one open-ended.
type BandedSchedule struct {
	Bands []Band
}

func (s BandedSchedule) Contributions(wage decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	for _, b := range s.Bands {
		if b.UpTo == nil || wage.LessThanOrEqual(*b.UpTo) {
			return wage.Mul(b.EmployeeRate), wage.Mul(b.EmployerRate)
		}
	}
	// Wage above every closed band: the highest band applies.
	if n := len(s.Bands); n > 0 {
		last := s.Bands[n-1]
		return wage.Mul(last.EmployeeRate), wage.Mul(last.EmployerRate)
	}
	return decimal.Zero, decimal.Zero
}

// =============================================================================
// CONTRIBUTION CALCULATOR
// =============================================================================

// Contribution is the rounded pair produced for one wage.
type Contribution struct {
	Employee decimal.Decimal
	Employer decimal.Decimal
}

// Total is Employee + Employer, both already rounded.
func (c Contribution) Total() decimal.Decimal { return c.Employee.Add(c.Employer) }

// CalculateContributions applies schedule to weeklyWage and rounds each
// amount to the minor unit.
func CalculateContributions(weeklyWage decimal.Decimal, schedule ContributionSchedule) Contribution {
	if schedule == nil {
		return Contribution{Employee: decimal.Zero, Employer: decimal.Zero}
	}
	employee, employer := schedule.Contributions(weeklyWage)
	return Contribution{
		Employee: RoundMoney(employee),
		Employer: RoundMoney(employer),
	}
}
