/*
aggregate.go - Week recalculation, overrides and period totals

PURPOSE:
  Applies the payroll calculation to one week at a time and folds all weeks
  into period totals.

KEY INSIGHT:
  CalculatedPay and RecordedPay are two fields, not one. The formula writes
  CalculatedPay every time a week is recalculated; RecordedPay follows it
  only until someone records what was actually paid. A reconciliation can
  then show "what the formula says" next to "what was paid".

TOTALS:
  Aggregate re-folds every week on every call. Correcting a single week can
  therefore never leave a stale or double-counted total behind.

EXAMPLE:
  p, _ = period.OverrideRecordedPay(p, 0, payroll.MustParseDecimal("950"))
  p, _ = period.RecalculateWeek(p, 0, emp, input, calc)
  // p.Weeks[0].CalculatedPay == 1000 (new formula value)
  // p.Weeks[0].RecordedPay   ==  950 (override kept)
  totals := period.Aggregate(p)
*/
package period

import (
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// WEEK OPERATIONS - each returns an updated copy
// =============================================================================

// RecalculateWeek runs the payroll calculation for the week at index using
// in, stores the calculated figures and marks the week Complete. RecordedPay
// is set to the calculated pay only when no override exists. A non-zero
// in.DaysWorked is stored as the week's recorded days.
func RecalculateWeek(p PayPeriod, index int, emp payroll.Employee, in payroll.PayrollInput, calc *payroll.Calculator) (PayPeriod, error) {
	if _, err := p.Week(index); err != nil {
		return p, err
	}

	result, err := calc.Calculate(emp, in)
	if err != nil {
		return p, err
	}

	out := p.Clone()
	w := &out.Weeks[index]
	w.CalculatedPay = result.GrossPay
	w.NISEmployee = result.NISEmployee
	w.NISEmployer = result.NISEmployer
	w.NetPay = result.NetPay
	if !w.PayOverridden {
		w.RecordedPay = result.GrossPay
	}
	if !in.DaysWorked.IsZero() {
		w.RecordedDaysWorked = in.DaysWorked
	}
	w.Status = StatusComplete
	return out, nil
}

// OverrideRecordedPay records the pay actually made for a week and marks it
// Complete. It never changes CalculatedPay.
func OverrideRecordedPay(p PayPeriod, index int, amount decimal.Decimal) (PayPeriod, error) {
	if _, err := p.Week(index); err != nil {
		return p, err
	}
	if amount.IsNegative() {
		return p, ErrNegativeAmount
	}

	out := p.Clone()
	w := &out.Weeks[index]
	w.RecordedPay = payroll.RoundMoney(amount)
	w.PayOverridden = true
	w.Status = StatusComplete
	return out, nil
}

// ClearOverride drops a pay override; RecordedPay follows CalculatedPay again.
func ClearOverride(p PayPeriod, index int) (PayPeriod, error) {
	if _, err := p.Week(index); err != nil {
		return p, err
	}

	out := p.Clone()
	w := &out.Weeks[index]
	w.RecordedPay = w.CalculatedPay
	w.PayOverridden = false
	return out, nil
}

// RecordDaysWorked stores the actual days worked in a week.
func RecordDaysWorked(p PayPeriod, index int, days decimal.Decimal) (PayPeriod, error) {
	if _, err := p.Week(index); err != nil {
		return p, err
	}
	if days.IsNegative() {
		return p, ErrNegativeAmount
	}

	out := p.Clone()
	w := &out.Weeks[index]
	w.RecordedDaysWorked = days
	if w.Status == StatusCalculated {
		w.Status = StatusRecorded
	}
	return out, nil
}

// =============================================================================
// TOTALS
// =============================================================================

// Totals is the period-level fold of every week.
type Totals struct {
	Weeks           int
	CompleteWeeks   int
	OverriddenWeeks int

	CalculatedPay      decimal.Decimal
	RecordedPay        decimal.Decimal
	NISEmployee        decimal.Decimal
	NISEmployer        decimal.Decimal
	TotalNIS           decimal.Decimal
	NetPay             decimal.Decimal
	RecordedDaysWorked decimal.Decimal

	// Variance is RecordedPay - CalculatedPay across the period.
	Variance decimal.Decimal
}

// Aggregate folds every week of p into Totals. It is recomputed from the
// current week values each time it is called.
func Aggregate(p PayPeriod) Totals {
	t := Totals{
		Weeks:              len(p.Weeks),
		CalculatedPay:      decimal.Zero,
		RecordedPay:        decimal.Zero,
		NISEmployee:        decimal.Zero,
		NISEmployer:        decimal.Zero,
		NetPay:             decimal.Zero,
		RecordedDaysWorked: decimal.Zero,
	}

	for _, w := range p.Weeks {
		t.CalculatedPay = t.CalculatedPay.Add(w.CalculatedPay)
		t.RecordedPay = t.RecordedPay.Add(w.RecordedPay)
		t.NISEmployee = t.NISEmployee.Add(w.NISEmployee)
		t.NISEmployer = t.NISEmployer.Add(w.NISEmployer)
		t.NetPay = t.NetPay.Add(w.NetPay)
		t.RecordedDaysWorked = t.RecordedDaysWorked.Add(w.RecordedDaysWorked)

		if w.Status == StatusComplete {
			t.CompleteWeeks++
		}
		if w.PayOverridden {
			t.OverriddenWeeks++
		}
	}

	t.TotalNIS = t.NISEmployee.Add(t.NISEmployer)
	t.Variance = t.RecordedPay.Sub(t.CalculatedPay)
	return t
}
