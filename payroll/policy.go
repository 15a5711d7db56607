/*
policy.go - Wage conversion policy

PURPOSE:
  Holds the conventions used to normalize native pay cadences into a
  weekly-equivalent wage and an 8-hour daily rate. These are policy
  choices of the statutory regime, not truths, so they are injected with
  the contribution schedule instead of being written into the formulas.

DEFAULTS:
  StandardWeekHours:  40  (hourly rate x 40 = weekly wage)
  WorkingDaysPerWeek:  6  (daily rate x 6; default shift x 6)
  MonthsPerYear/WeeksPerYear: 12/52 (monthly salary x 12 / 52)
  HoursPerDay:         8  (hourly rate x 8 = daily rate)
  DaysPerMonth:       30  (monthly salary / 30 = daily rate)

SEE ALSO:
  - resolver.go: Uses the policy for weekly wage and daily rate
  - factory/regime.go: Loads a policy from a regime file
*/
package payroll

import "github.com/shopspring/decimal"

// WagePolicy holds every conversion constant used by the resolver.
type WagePolicy struct {
	StandardWeekHours  decimal.Decimal
	WorkingDaysPerWeek decimal.Decimal
	MonthsPerYear      decimal.Decimal
	WeeksPerYear       decimal.Decimal
	HoursPerDay        decimal.Decimal
	DaysPerMonth       decimal.Decimal
}

// DefaultWagePolicy returns the conventions the calculation utilities use.
func DefaultWagePolicy() WagePolicy {
	return WagePolicy{
		StandardWeekHours:  decimal.NewFromInt(40),
		WorkingDaysPerWeek: decimal.NewFromInt(6),
		MonthsPerYear:      decimal.NewFromInt(12),
		WeeksPerYear:       decimal.NewFromInt(52),
		HoursPerDay:        decimal.NewFromInt(8),
		DaysPerMonth:       decimal.NewFromInt(30),
	}
}

// WithDefaults fills zero fields from DefaultWagePolicy, so a partially
// specified regime file still yields usable divisors.
func (p WagePolicy) WithDefaults() WagePolicy {
	d := DefaultWagePolicy()
	pick := func(v, fallback decimal.Decimal) decimal.Decimal {
		if v.IsPositive() {
			return v
		}
		return fallback
	}
	return WagePolicy{
		StandardWeekHours:  pick(p.StandardWeekHours, d.StandardWeekHours),
		WorkingDaysPerWeek: pick(p.WorkingDaysPerWeek, d.WorkingDaysPerWeek),
		MonthsPerYear:      pick(p.MonthsPerYear, d.MonthsPerYear),
		WeeksPerYear:       pick(p.WeeksPerYear, d.WeeksPerYear),
		HoursPerDay:        pick(p.HoursPerDay, d.HoursPerDay),
		DaysPerMonth:       pick(p.DaysPerMonth, d.DaysPerMonth),
	}
}
