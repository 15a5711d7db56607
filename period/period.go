/*
Package period decomposes a date range into weekly pay records and keeps
their calculated and recorded figures.

PURPOSE:
  A PayPeriod is created once from a date range, then updated week by week
  as actuals are entered. Every operation here takes a period value and
  returns an updated copy; nothing is retained between calls.

KEY CONCEPTS:
  - Date: A calendar day (UTC midnight)
  - PayPeriod: [Start, End] plus an ordered list of WeeklyRecord
  - WeeklyRecord: One Monday-to-Sunday week with its pay day (week end + 7)
  - Calculated vs Recorded: the formula's pay and the pay actually made are
    separate fields; overriding one never rewrites the other
  - Totals: a full re-fold over every week, never a running sum

WEEK LAYOUT:
  generate(Wed 2024-01-10, Sat 2024-01-20):

    #1  Mon 01-08 .. Sun 01-14   pay day Sun 01-21
    #2  Mon 01-15 .. Sun 01-21   pay day Sun 01-28
    (Mon 01-22 is after Sat 01-20, generation stops)

  The first and last weeks may extend past the requested dates; the union
  of weeks always covers [Start, End] without gaps or overlaps.

STATUS:
  Calculated -> Recorded   days worked entered, not yet recalculated
  Calculated -> Complete   RecalculateWeek ran, or recorded pay overridden
  Recorded   -> Complete   same

CONCURRENCY:
  Periods are independent values. Callers that share one across goroutines
  synchronize themselves; RecalculateBatch processes separate periods in
  parallel with no coordination between them.

SEE ALSO:
  - aggregate.go: RecalculateWeek, overrides, Totals
  - batch.go: Parallel recalculation of many periods
  - payroll/calculator.go: The per-week calculation
*/
package period

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/teambition/rrule-go"

	"github.com/warp/payroll-engine/payroll"
)

// PayLag is how far the pay day trails the end of the worked week.
const PayLag = 7

// =============================================================================
// WEEKLY RECORD
// =============================================================================

type Status string

const (
	StatusCalculated Status = "calculated"
	StatusRecorded   Status = "recorded"
	StatusComplete   Status = "complete"
)

// WeeklyRecord is one Monday-to-Sunday week of a pay period.
type WeeklyRecord struct {
	WeekNumber int // 1-based
	WeekStart  Date
	WeekEnd    Date
	PayDay     Date

	DailyRate8Hr       decimal.Decimal
	RecordedDaysWorked decimal.Decimal

	// CalculatedPay is what the formula says; RecordedPay is what was paid.
	// RecordedPay follows CalculatedPay until PayOverridden is set.
	CalculatedPay decimal.Decimal
	RecordedPay   decimal.Decimal
	PayOverridden bool

	NISEmployee decimal.Decimal
	NISEmployer decimal.Decimal
	NetPay      decimal.Decimal

	Status Status
}

// PayLessNIS is the calculated pay after the employee contribution.
func (w WeeklyRecord) PayLessNIS() decimal.Decimal { return w.CalculatedPay.Sub(w.NISEmployee) }

// TotalNIS is the employee plus employer contribution.
func (w WeeklyRecord) TotalNIS() decimal.Decimal { return w.NISEmployee.Add(w.NISEmployer) }

// =============================================================================
// PAY PERIOD
// =============================================================================

// PayPeriod is a contiguous range decomposed into weekly records.
// ID is assigned by whoever persists the period.
type PayPeriod struct {
	ID         string
	EmployeeID payroll.EmployeeID
	StartDate  Date
	EndDate    Date
	Weeks      []WeeklyRecord
}

// Clone returns a copy whose Weeks slice is independent of p's.
func (p PayPeriod) Clone() PayPeriod {
	out := p
	out.Weeks = make([]WeeklyRecord, len(p.Weeks))
	copy(out.Weeks, p.Weeks)
	return out
}

// Week returns the record at a 0-based index.
func (p PayPeriod) Week(index int) (WeeklyRecord, error) {
	if index < 0 || index >= len(p.Weeks) {
		return WeeklyRecord{}, &WeekIndexError{Index: index, Weeks: len(p.Weeks)}
	}
	return p.Weeks[index], nil
}

// IndexOfWeek maps a 1-based week number to its index.
func (p PayPeriod) IndexOfWeek(number int) (int, error) {
	for i, w := range p.Weeks {
		if w.WeekNumber == number {
			return i, nil
		}
	}
	return -1, &WeekIndexError{Index: number - 1, Weeks: len(p.Weeks)}
}

// =============================================================================
// GENERATOR
// =============================================================================

// Generate decomposes [start, end] into Monday-start weeks for emp.
//
// Weeks begin at the Monday on or before start and continue until a week
// would start after end. Each week's pay day is its Sunday plus PayLag days
// and its 8-hour daily rate comes from the employee's rate under policy.
// Everything else starts at zero with StatusCalculated.
func Generate(start, end Date, emp payroll.Employee, policy payroll.WagePolicy) (PayPeriod, error) {
	if start.IsZero() || end.IsZero() || start.After(end) {
		return PayPeriod{}, &InvalidRangeError{Start: start, End: end}
	}

	rate, err := payroll.DailyRate8Hr(emp, policy.WithDefaults())
	if err != nil {
		return PayPeriod{}, fmt.Errorf("daily rate for %s: %w", emp.ID, err)
	}
	rate = payroll.RoundMoney(rate)

	mondays, err := weekStarts(start, end)
	if err != nil {
		return PayPeriod{}, err
	}

	weeks := make([]WeeklyRecord, len(mondays))
	for i, monday := range mondays {
		weekEnd := monday.AddDays(6)
		weeks[i] = WeeklyRecord{
			WeekNumber:         i + 1,
			WeekStart:          monday,
			WeekEnd:            weekEnd,
			PayDay:             weekEnd.AddDays(PayLag),
			DailyRate8Hr:       rate,
			RecordedDaysWorked: decimal.Zero,
			CalculatedPay:      decimal.Zero,
			RecordedPay:        decimal.Zero,
			NISEmployee:        decimal.Zero,
			NISEmployer:        decimal.Zero,
			NetPay:             decimal.Zero,
			Status:             StatusCalculated,
		}
	}

	return PayPeriod{
		EmployeeID: emp.ID,
		StartDate:  start,
		EndDate:    end,
		Weeks:      weeks,
	}, nil
}

// weekStarts lists every Monday from the one on or before start up to end,
// using a weekly recurrence anchored on that Monday.
func weekStarts(start, end Date) ([]Date, error) {
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.WEEKLY,
		Dtstart: start.MondayOnOrBefore().Time,
		Until:   end.Time,
	})
	if err != nil {
		return nil, fmt.Errorf("build weekly recurrence: %w", err)
	}
	occurrences := rule.All()
	out := make([]Date, len(occurrences))
	for i, t := range occurrences {
		out[i] = DateOf(t)
	}
	return out, nil
}
