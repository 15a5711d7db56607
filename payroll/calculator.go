package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CALCULATOR - Payroll Result Assembler
// =============================================================================

// Calculator assembles a Result from the resolver and the contribution
// schedule. It holds no mutable state and is safe to share between
// goroutines.
type Calculator struct {
	Schedule ContributionSchedule
	Policy   WagePolicy
}

// NewCalculator creates a calculator. Zero policy fields fall back to
// DefaultWagePolicy.
func NewCalculator(schedule ContributionSchedule, policy WagePolicy) *Calculator {
	return &Calculator{Schedule: schedule, Policy: policy.WithDefaults()}
}

// Calculate validates the pair, then resolves gross pay, computes
// contributions on the weekly wage and assembles the result.
//
// NetPay = GrossPay + OtherAllowances - NISEmployee - OtherDeductions.
// A negative NetPay is a valid result and is never clamped.
func (c *Calculator) Calculate(emp Employee, in PayrollInput) (Result, error) {
	if err := Validate(emp, in); err != nil {
		return Result{}, err
	}

	gp, err := Resolve(emp, in, c.Policy)
	if err != nil {
		return Result{}, err
	}

	weeklyWage := RoundMoney(gp.WeeklyWage)
	contrib := CalculateContributions(weeklyWage, c.Schedule)

	return Assemble(RoundMoney(gp.Gross), weeklyWage, contrib, in.OtherAllowances, in.OtherDeductions), nil
}

// Assemble combines already-resolved figures into a Result, rounding the
// ad-hoc amounts and enforcing the net-pay identity.
func Assemble(gross, weeklyWage decimal.Decimal, contrib Contribution, allowances, deductions decimal.Decimal) Result {
	allowances = RoundMoney(allowances)
	deductions = RoundMoney(deductions)
	return Result{
		GrossPay:        gross,
		WeeklyWage:      weeklyWage,
		NISEmployee:     contrib.Employee,
		NISEmployer:     contrib.Employer,
		OtherAllowances: allowances,
		OtherDeductions: deductions,
		NetPay:          gross.Add(allowances).Sub(contrib.Employee).Sub(deductions),
	}
}

// DailyRate8Hr returns the employee's 8-hour daily rate under this
// calculator's policy, rounded to the minor unit.
func (c *Calculator) DailyRate8Hr(emp Employee) (decimal.Decimal, error) {
	rate, err := DailyRate8Hr(emp, c.Policy)
	if err != nil {
		return decimal.Zero, err
	}
	return RoundMoney(rate), nil
}
