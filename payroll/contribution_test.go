package payroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/payroll-engine/payroll"
)

func TestFlatSchedule_DoublingWageDoublesContributions(t *testing.T) {
	schedule := nisSchedule()
	for _, wage := range []string{"100", "1000", "1153.85", "4321.10"} {
		single := payroll.CalculateContributions(dec(wage), schedule)
		double := payroll.CalculateContributions(dec(wage).Mul(dec("2")), schedule)

		// Allow one minor unit of rounding drift on the doubled side.
		assert.True(t, single.Employee.Mul(dec("2")).Sub(double.Employee).Abs().LessThanOrEqual(dec("0.01")),
			"employee %s: %s vs %s", wage, single.Employee, double.Employee)
		assert.True(t, single.Employer.Mul(dec("2")).Sub(double.Employer).Abs().LessThanOrEqual(dec("0.01")),
			"employer %s: %s vs %s", wage, single.Employer, double.Employer)
	}
}

func TestFlatSchedule_ExactLinearityOnWholeWages(t *testing.T) {
	single := payroll.CalculateContributions(dec("1000"), nisSchedule())
	double := payroll.CalculateContributions(dec("2000"), nisSchedule())

	assertMoney(t, "30.00", single.Employee)
	assertMoney(t, "60.00", double.Employee)
	assertMoney(t, "62.50", single.Employer)
	assertMoney(t, "125.00", double.Employer)
}

func TestFlatSchedule_InsurableCeiling(t *testing.T) {
	schedule := nisSchedule()
	schedule.InsurableCeiling = ptr("1500")

	c := payroll.CalculateContributions(dec("4000"), schedule)

	assertMoney(t, "45.00", c.Employee)
	assertMoney(t, "93.75", c.Employer)
}

func TestCalculateContributions_RoundsHalfUpPerAmount(t *testing.T) {
	// 0.03 x 100.50 = 3.015 -> 3.02 ; 0.0625 x 100.50 = 6.28125 -> 6.28
	c := payroll.CalculateContributions(dec("100.50"), nisSchedule())

	assertMoney(t, "3.02", c.Employee)
	assertMoney(t, "6.28", c.Employer)
	assertMoney(t, "9.30", c.Total())
}

func TestBandedSchedule_PicksBandByWage(t *testing.T) {
	// GIVEN: a banded table replacing the flat schedule
	// WHEN: the same calculator is used
	// THEN: no call site changes, only the amounts
	banded := payroll.BandedSchedule{Bands: []payroll.Band{
		{UpTo: ptr("500"), EmployeeRate: dec("0.02"), EmployerRate: dec("0.04")},
		{UpTo: ptr("1500"), EmployeeRate: dec("0.03"), EmployerRate: dec("0.0625")},
		{EmployeeRate: dec("0.04"), EmployerRate: dec("0.08")},
	}}

	low := payroll.CalculateContributions(dec("400"), banded)
	assertMoney(t, "8.00", low.Employee)
	assertMoney(t, "16.00", low.Employer)

	edge := payroll.CalculateContributions(dec("500"), banded)
	assertMoney(t, "10.00", edge.Employee)

	mid := payroll.CalculateContributions(dec("1000"), banded)
	assertMoney(t, "30.00", mid.Employee)
	assertMoney(t, "62.50", mid.Employer)

	high := payroll.CalculateContributions(dec("2000"), banded)
	assertMoney(t, "80.00", high.Employee)
	assertMoney(t, "160.00", high.Employer)

	calc := payroll.NewCalculator(banded, payroll.DefaultWagePolicy())
	r, err := calc.Calculate(hourlyEmployee("25"), payroll.PayrollInput{HoursWorked: dec("40")})
	assert.NoError(t, err)
	assertMoney(t, "30.00", r.NISEmployee)
}

func TestBandedSchedule_AboveAllClosedBandsUsesLast(t *testing.T) {
	banded := payroll.BandedSchedule{Bands: []payroll.Band{
		{UpTo: ptr("500"), EmployeeRate: dec("0.02"), EmployerRate: dec("0.04")},
		{UpTo: ptr("1000"), EmployeeRate: dec("0.05"), EmployerRate: dec("0.05")},
	}}

	c := payroll.CalculateContributions(dec("2000"), banded)

	assertMoney(t, "100.00", c.Employee)
}

func TestCalculateContributions_NilScheduleIsZero(t *testing.T) {
	c := payroll.CalculateContributions(dec("1000"), nil)

	assert.True(t, c.Employee.IsZero())
	assert.True(t, c.Employer.IsZero())
}
