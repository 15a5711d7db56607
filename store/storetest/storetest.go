// Package storetest holds the behaviour every store.Store must share.
// Implementations call Run from their own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/period"
	"github.com/warp/payroll-engine/store"
)

// Run exercises s. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("EmployeeRoundTrip", func(t *testing.T) { testEmployeeRoundTrip(t, newStore(t)) })
	t.Run("EmployeeUpsertAndList", func(t *testing.T) { testEmployeeUpsertAndList(t, newStore(t)) })
	t.Run("EmployeeNotFound", func(t *testing.T) { testEmployeeNotFound(t, newStore(t)) })
	t.Run("PeriodRoundTrip", func(t *testing.T) { testPeriodRoundTrip(t, newStore(t)) })
	t.Run("PeriodSaveReplacesWeeks", func(t *testing.T) { testPeriodSaveReplacesWeeks(t, newStore(t)) })
	t.Run("ListPeriods", func(t *testing.T) { testListPeriods(t, newStore(t)) })
	t.Run("PeriodRequiresEmployee", func(t *testing.T) { testPeriodRequiresEmployee(t, newStore(t)) })
	t.Run("SavePeriodsAllOrNothing", func(t *testing.T) { testSavePeriodsAllOrNothing(t, newStore(t)) })
	t.Run("DeleteEmployeeCascades", func(t *testing.T) { testDeleteEmployeeCascades(t, newStore(t)) })
	t.Run("Reset", func(t *testing.T) { testReset(t, newStore(t)) })
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func shiftEmployee() payroll.Employee {
	var shifts payroll.ShiftList
	shifts.Add(payroll.ShiftConfig{Name: "Day", Hours: "07:00-15:00", BaseRate: dec("250"), HourlyRate: payroll.DecimalPtr(dec("35"))})
	shifts.Add(payroll.ShiftConfig{Name: "Night", BaseRate: dec("300")})
	return payroll.Employee{ID: "s1", Name: "Shift Worker", Type: payroll.ShiftBased, Shifts: shifts}
}

func hourlyEmployee() payroll.Employee {
	return payroll.Employee{ID: "h1", Name: "Hourly Worker", Type: payroll.Hourly, HourlyRate: payroll.DecimalPtr(dec("25.50"))}
}

func calculatedPeriod(t *testing.T, id string, start period.Date) period.PayPeriod {
	t.Helper()
	emp := hourlyEmployee()
	calc := payroll.NewCalculator(payroll.FlatSchedule{EmployeeRate: dec("0.03"), EmployerRate: dec("0.0625")}, payroll.DefaultWagePolicy())

	p, err := period.Generate(start, start.AddDays(13), emp, payroll.DefaultWagePolicy())
	require.NoError(t, err)
	p.ID = id
	p, err = period.RecalculateWeek(p, 0, emp, payroll.PayrollInput{HoursWorked: dec("40"), DaysWorked: dec("5")}, calc)
	require.NoError(t, err)
	p, err = period.OverrideRecordedPay(p, 1, dec("99.99"))
	require.NoError(t, err)
	return p
}

func testEmployeeRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	emp := shiftEmployee()

	require.NoError(t, s.SaveEmployee(ctx, emp))
	got, err := s.GetEmployee(ctx, emp.ID)
	require.NoError(t, err)

	assert.Equal(t, emp.Name, got.Name)
	assert.Equal(t, payroll.ShiftBased, got.Type)
	require.Len(t, got.Shifts, 2)
	assert.True(t, got.Shifts[0].IsDefault)
	assert.False(t, got.Shifts[1].IsDefault)
	assert.Equal(t, "07:00-15:00", got.Shifts[0].Hours)
	require.NotNil(t, got.Shifts[0].HourlyRate)
	assert.True(t, got.Shifts[0].HourlyRate.Equal(dec("35")))
	assert.Nil(t, got.Shifts[1].HourlyRate)
	assert.Nil(t, got.HourlyRate)

	// The stored copy is independent of the caller's slice.
	emp.Shifts[0].Name = "Changed"
	again, err := s.GetEmployee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Day", again.Shifts[0].Name)
}

func testEmployeeUpsertAndList(t *testing.T, s store.Store) {
	ctx := context.Background()
	h := hourlyEmployee()
	require.NoError(t, s.SaveEmployee(ctx, h))
	require.NoError(t, s.SaveEmployee(ctx, shiftEmployee()))

	h.HourlyRate = payroll.DecimalPtr(dec("30"))
	require.NoError(t, s.SaveEmployee(ctx, h))

	list, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Hourly Worker", list[0].Name)
	assert.Equal(t, "Shift Worker", list[1].Name)
	require.NotNil(t, list[0].HourlyRate)
	assert.True(t, list[0].HourlyRate.Equal(dec("30")))
}

func testEmployeeNotFound(t *testing.T, s store.Store) {
	_, err := s.GetEmployee(context.Background(), "missing")

	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.True(t, store.IsNotFound(err))
}

func testPeriodRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, hourlyEmployee()))
	p := calculatedPeriod(t, "p1", period.NewDate(2024, time.January, 10))

	require.NoError(t, s.SavePeriod(ctx, p))
	got, err := s.GetPeriod(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, p.EmployeeID, got.EmployeeID)
	assert.True(t, got.StartDate.Equal(p.StartDate))
	assert.True(t, got.EndDate.Equal(p.EndDate))
	require.Len(t, got.Weeks, len(p.Weeks))
	for i, w := range p.Weeks {
		g := got.Weeks[i]
		assert.Equal(t, w.WeekNumber, g.WeekNumber)
		assert.True(t, w.WeekStart.Equal(g.WeekStart))
		assert.True(t, w.PayDay.Equal(g.PayDay))
		assert.True(t, w.DailyRate8Hr.Equal(g.DailyRate8Hr))
		assert.True(t, w.RecordedDaysWorked.Equal(g.RecordedDaysWorked))
		assert.True(t, w.CalculatedPay.Equal(g.CalculatedPay))
		assert.True(t, w.RecordedPay.Equal(g.RecordedPay))
		assert.True(t, w.NISEmployee.Equal(g.NISEmployee))
		assert.True(t, w.NISEmployer.Equal(g.NISEmployer))
		assert.True(t, w.NetPay.Equal(g.NetPay))
		assert.Equal(t, w.PayOverridden, g.PayOverridden)
		assert.Equal(t, w.Status, g.Status)
	}
	assert.Equal(t, "99.99", payroll.FormatMoney(got.Weeks[1].RecordedPay))

	_, err = s.GetPeriod(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testPeriodSaveReplacesWeeks(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, hourlyEmployee()))
	p := calculatedPeriod(t, "p1", period.NewDate(2024, time.January, 1))
	require.NoError(t, s.SavePeriod(ctx, p))

	p.Weeks = p.Weeks[:1]
	require.NoError(t, s.SavePeriod(ctx, p))

	got, err := s.GetPeriod(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, got.Weeks, 1)
}

func testListPeriods(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, hourlyEmployee()))
	other := shiftEmployee()
	require.NoError(t, s.SaveEmployee(ctx, other))

	later := calculatedPeriod(t, "later", period.NewDate(2024, time.March, 4))
	earlier := calculatedPeriod(t, "earlier", period.NewDate(2024, time.January, 1))
	foreign := calculatedPeriod(t, "foreign", period.NewDate(2024, time.February, 5))
	foreign.EmployeeID = other.ID
	for _, p := range []period.PayPeriod{later, earlier, foreign} {
		require.NoError(t, s.SavePeriod(ctx, p))
	}

	mine, err := s.ListPeriods(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "earlier", mine[0].ID)
	assert.Equal(t, "later", mine[1].ID)
	assert.Len(t, mine[0].Weeks, 2)

	all, err := s.ListPeriods(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, s.DeletePeriod(ctx, "later"))
	mine, err = s.ListPeriods(ctx, "h1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func testPeriodRequiresEmployee(t *testing.T, s store.Store) {
	p := calculatedPeriod(t, "orphan", period.NewDate(2024, time.January, 1))

	err := s.SavePeriod(context.Background(), p)

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testSavePeriodsAllOrNothing(t *testing.T, s store.Store) {
	// GIVEN: two periods, the second belonging to an unknown employee
	// WHEN: both are saved together
	// THEN: the call fails and neither period is stored
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, hourlyEmployee()))
	good := calculatedPeriod(t, "p1", period.NewDate(2024, time.January, 1))
	orphan := calculatedPeriod(t, "p2", period.NewDate(2024, time.February, 5))
	orphan.EmployeeID = "nobody"

	err := s.SavePeriods(ctx, []period.PayPeriod{good, orphan})

	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetPeriod(ctx, "p1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.SavePeriods(ctx, []period.PayPeriod{good}))
	got, err := s.GetPeriod(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, got.Weeks, len(good.Weeks))
}

func testDeleteEmployeeCascades(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, hourlyEmployee()))
	require.NoError(t, s.SavePeriod(ctx, calculatedPeriod(t, "p1", period.NewDate(2024, time.January, 1))))

	require.NoError(t, s.DeleteEmployee(ctx, "h1"))

	_, err := s.GetEmployee(ctx, "h1")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetPeriod(ctx, "p1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testReset(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, hourlyEmployee()))
	require.NoError(t, s.SavePeriod(ctx, calculatedPeriod(t, "p1", period.NewDate(2024, time.January, 1))))

	require.NoError(t, s.Reset(ctx))

	employees, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees)
	periods, err := s.ListPeriods(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, periods)
}
