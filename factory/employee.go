package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
)

// EmployeeJSON is the wire and storage representation of an employee.
type EmployeeJSON struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	EmploymentType string           `json:"employment_type"`
	HourlyRate     *decimal.Decimal `json:"hourly_rate,omitempty"`
	DailyRate      *decimal.Decimal `json:"daily_rate,omitempty"`
	WeeklyRate     *decimal.Decimal `json:"weekly_rate,omitempty"`
	MonthlySalary  *decimal.Decimal `json:"monthly_salary,omitempty"`
	Shifts         []ShiftJSON      `json:"shifts,omitempty"`
}

// ShiftJSON is one shift configuration.
type ShiftJSON struct {
	Name       string           `json:"name"`
	Hours      string           `json:"hours,omitempty"`
	BaseRate   decimal.Decimal  `json:"base_rate"`
	HourlyRate *decimal.Decimal `json:"hourly_rate,omitempty"`
	IsDefault  bool             `json:"is_default"`
}

// ParseEmployee parses a JSON employee document.
func ParseEmployee(data []byte) (payroll.Employee, error) {
	var ej EmployeeJSON
	if err := json.Unmarshal(data, &ej); err != nil {
		return payroll.Employee{}, fmt.Errorf("failed to parse employee JSON: %w", err)
	}
	return EmployeeFromJSON(ej)
}

// EmployeeFromJSON converts ej. Shift default flags are kept as given; an
// invalid combination is reported by payroll.Validate, not repaired here.
func EmployeeFromJSON(ej EmployeeJSON) (payroll.Employee, error) {
	typ, err := payroll.ParseEmploymentType(ej.EmploymentType)
	if err != nil {
		return payroll.Employee{}, err
	}

	emp := payroll.Employee{
		ID:            payroll.EmployeeID(ej.ID),
		Name:          ej.Name,
		Type:          typ,
		HourlyRate:    ej.HourlyRate,
		DailyRate:     ej.DailyRate,
		WeeklyRate:    ej.WeeklyRate,
		MonthlySalary: ej.MonthlySalary,
	}
	for _, sj := range ej.Shifts {
		emp.Shifts = append(emp.Shifts, ShiftFromJSON(sj))
	}
	return emp, nil
}

// ShiftFromJSON converts one shift.
func ShiftFromJSON(sj ShiftJSON) payroll.ShiftConfig {
	return payroll.ShiftConfig{
		Name:       sj.Name,
		Hours:      sj.Hours,
		BaseRate:   sj.BaseRate,
		HourlyRate: sj.HourlyRate,
		IsDefault:  sj.IsDefault,
	}
}

// EmployeeToJSON converts emp to its wire form.
func EmployeeToJSON(emp payroll.Employee) EmployeeJSON {
	ej := EmployeeJSON{
		ID:             string(emp.ID),
		Name:           emp.Name,
		EmploymentType: string(emp.Type),
		HourlyRate:     emp.HourlyRate,
		DailyRate:      emp.DailyRate,
		WeeklyRate:     emp.WeeklyRate,
		MonthlySalary:  emp.MonthlySalary,
	}
	for _, s := range emp.Shifts {
		ej.Shifts = append(ej.Shifts, ShiftToJSON(s))
	}
	return ej
}

// ShiftToJSON converts one shift to its wire form.
func ShiftToJSON(s payroll.ShiftConfig) ShiftJSON {
	return ShiftJSON{
		Name:       s.Name,
		Hours:      s.Hours,
		BaseRate:   s.BaseRate,
		HourlyRate: s.HourlyRate,
		IsDefault:  s.IsDefault,
	}
}
