package period_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/period"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal { return payroll.MustParseDecimal(s) }

func money(d decimal.Decimal) string { return payroll.FormatMoney(d) }

func date(y int, m time.Month, d int) period.Date { return period.NewDate(y, m, d) }

func hourly() payroll.Employee {
	return payroll.Employee{ID: "emp-1", Name: "Hourly", Type: payroll.Hourly, HourlyRate: payroll.DecimalPtr(dec("25"))}
}

func monthly() payroll.Employee {
	return payroll.Employee{ID: "emp-2", Name: "Monthly", Type: payroll.Monthly, MonthlySalary: payroll.DecimalPtr(dec("5000"))}
}

func calc() *payroll.Calculator {
	return payroll.NewCalculator(payroll.FlatSchedule{EmployeeRate: dec("0.03"), EmployerRate: dec("0.0625")}, payroll.DefaultWagePolicy())
}

// =============================================================================
// GENERATOR
// =============================================================================

func TestGenerate_WednesdayToSaturday(t *testing.T) {
	// GIVEN: Wed 2024-01-10 .. Sat 2024-01-20
	// THEN: weeks start Mon 01-08 and end Sun 01-21
	// Mon 01-08 .. Sun 01-21 is two weeks; a third record would start after the end date.
	p, err := period.Generate(date(2024, 1, 10), date(2024, 1, 20), hourly(), payroll.DefaultWagePolicy())
	require.NoError(t, err)

	require.Len(t, p.Weeks, 2)
	assert.Equal(t, "2024-01-08", p.Weeks[0].WeekStart.String())
	assert.Equal(t, "2024-01-14", p.Weeks[0].WeekEnd.String())
	assert.Equal(t, "2024-01-15", p.Weeks[1].WeekStart.String())
	assert.Equal(t, "2024-01-21", p.Weeks[1].WeekEnd.String())
	assert.Equal(t, "2024-01-21", p.Weeks[0].PayDay.String())
	assert.Equal(t, "2024-01-28", p.Weeks[1].PayDay.String())
	assert.Equal(t, payroll.EmployeeID("emp-1"), p.EmployeeID)
}

func TestGenerate_MonthlyDailyRate(t *testing.T) {
	p, err := period.Generate(date(2024, 3, 1), date(2024, 3, 31), monthly(), payroll.DefaultWagePolicy())
	require.NoError(t, err)

	for _, w := range p.Weeks {
		assert.Equal(t, "166.67", money(w.DailyRate8Hr))
		assert.Equal(t, period.StatusCalculated, w.Status)
		assert.True(t, w.CalculatedPay.IsZero())
		assert.True(t, w.RecordedPay.IsZero())
		assert.False(t, w.PayOverridden)
	}
}

func TestGenerate_HourlyDailyRate(t *testing.T) {
	p, err := period.Generate(date(2024, 3, 4), date(2024, 3, 4), hourly(), payroll.DefaultWagePolicy())
	require.NoError(t, err)

	require.Len(t, p.Weeks, 1)
	assert.Equal(t, "200.00", money(p.Weeks[0].DailyRate8Hr))
}

func TestGenerate_SingleDayRanges(t *testing.T) {
	// A Monday, a Sunday: each yields exactly the one week containing it.
	for _, d := range []period.Date{date(2024, 1, 8), date(2024, 1, 14)} {
		p, err := period.Generate(d, d, hourly(), payroll.DefaultWagePolicy())
		require.NoError(t, err)
		require.Len(t, p.Weeks, 1, d.String())
		assert.Equal(t, "2024-01-08", p.Weeks[0].WeekStart.String())
	}
}

func TestGenerate_InvalidRange(t *testing.T) {
	_, err := period.Generate(date(2024, 2, 1), date(2024, 1, 31), hourly(), payroll.DefaultWagePolicy())

	var rangeErr *period.InvalidRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.ErrorIs(t, err, period.ErrInvalidRange)
	assert.True(t, period.IsClientError(err))
}

func TestGenerate_ShiftBasedWithoutDefaultFails(t *testing.T) {
	emp := payroll.Employee{ID: "s", Type: payroll.ShiftBased, Shifts: payroll.ShiftList{{Name: "Day", BaseRate: dec("250")}}}

	_, err := period.Generate(date(2024, 1, 1), date(2024, 1, 31), emp, payroll.DefaultWagePolicy())

	assert.ErrorIs(t, err, payroll.ErrNoDefaultShift)
}

func TestGenerate_CoverageWithoutGapsOrOverlaps(t *testing.T) {
	// Property: for many ranges, weeks tile [start, end] exactly, numbers are
	// sequential and every pay day is week end + 7.
	base := date(2023, 12, 20)
	for offset := 0; offset < 14; offset++ {
		for length := 0; length < 70; length += 3 {
			start := base.AddDays(offset)
			end := start.AddDays(length)

			p, err := period.Generate(start, end, hourly(), payroll.DefaultWagePolicy())
			require.NoError(t, err)
			require.NotEmpty(t, p.Weeks)

			first, last := p.Weeks[0], p.Weeks[len(p.Weeks)-1]
			assert.True(t, first.WeekStart.BeforeOrEqual(start), "first week must start on/before %s", start)
			assert.True(t, last.WeekEnd.AfterOrEqual(end), "last week must end on/after %s", end)
			assert.True(t, last.WeekStart.BeforeOrEqual(end))

			for i, w := range p.Weeks {
				assert.Equal(t, i+1, w.WeekNumber)
				assert.Equal(t, time.Monday, w.WeekStart.Weekday())
				assert.Equal(t, time.Sunday, w.WeekEnd.Weekday())
				assert.Equal(t, 6, period.DaysBetween(w.WeekStart, w.WeekEnd))
				assert.True(t, w.PayDay.Equal(w.WeekEnd.AddDays(7)))
				if i > 0 {
					assert.True(t, w.WeekStart.Equal(p.Weeks[i-1].WeekEnd.AddDays(1)), "gap or overlap before week %d", w.WeekNumber)
				}
			}
		}
	}
}

func TestGenerate_AcrossYearBoundary(t *testing.T) {
	p, err := period.Generate(date(2024, 12, 25), date(2025, 1, 8), hourly(), payroll.DefaultWagePolicy())
	require.NoError(t, err)

	require.Len(t, p.Weeks, 3)
	assert.Equal(t, "2024-12-23", p.Weeks[0].WeekStart.String())
	assert.Equal(t, "2025-01-06", p.Weeks[2].WeekStart.String())
	assert.Equal(t, "2025-01-19", p.Weeks[2].PayDay.String())
}

// =============================================================================
// DATE
// =============================================================================

func TestDate_Formats(t *testing.T) {
	d := date(2024, 1, 8)
	assert.Equal(t, "2024-01-08", d.String())
	assert.Equal(t, "08/01/2024", d.ExportString())

	parsed, err := period.ParseDate("2024-01-08")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(d))

	_, err = period.ParseDate("08/01/2024")
	assert.Error(t, err)
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := date(2024, 2, 29)
	data, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-02-29"`, string(data))

	var back period.Date
	require.NoError(t, back.UnmarshalJSON(data))
	assert.True(t, back.Equal(d))
}
