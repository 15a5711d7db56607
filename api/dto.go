/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine types from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Request amounts accept JSON numbers or strings ("25.50"). Response
  amounts are strings with exactly 2 decimal places so clients never see
  float rounding.

VALIDATION:
  Shape rules (required fields, enumerations, date formats) are struct
  tags checked by go-playground/validator. Business rules (rates present
  and positive, shift references, negative amounts) stay in
  payroll.Validate so every caller of the engine gets the same answer.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/employee.go: EmployeeJSON wire form
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/period"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// CreateEmployeeRequest is the request to create or replace an employee.
// An empty ID is assigned by the server.
type CreateEmployeeRequest struct {
	ID             string           `json:"id" validate:"omitempty,max=64"`
	Name           string           `json:"name" validate:"required,max=200"`
	EmploymentType string           `json:"employment_type" validate:"required,oneof=hourly daily weekly monthly shift_based"`
	HourlyRate     *decimal.Decimal `json:"hourly_rate,omitempty"`
	DailyRate      *decimal.Decimal `json:"daily_rate,omitempty"`
	WeeklyRate     *decimal.Decimal `json:"weekly_rate,omitempty"`
	MonthlySalary  *decimal.Decimal `json:"monthly_salary,omitempty"`
	Shifts         []ShiftRequest   `json:"shifts,omitempty" validate:"omitempty,dive"`
}

// ShiftRequest adds one shift to an employee.
type ShiftRequest struct {
	Name       string           `json:"name" validate:"required,max=100"`
	Hours      string           `json:"hours,omitempty" validate:"max=100"`
	BaseRate   decimal.Decimal  `json:"base_rate"`
	HourlyRate *decimal.Decimal `json:"hourly_rate,omitempty"`
	IsDefault  bool             `json:"is_default"`
}

func (r ShiftRequest) toShift() payroll.ShiftConfig {
	return factory.ShiftFromJSON(factory.ShiftJSON{
		Name:       r.Name,
		Hours:      r.Hours,
		BaseRate:   r.BaseRate,
		HourlyRate: r.HourlyRate,
		IsDefault:  r.IsDefault,
	})
}

// EmployeeDTO is an employee in API responses.
type EmployeeDTO = factory.EmployeeJSON

// =============================================================================
// CALCULATION
// =============================================================================

// PayrollInputRequest carries worked time for one calculation.
type PayrollInputRequest struct {
	HoursWorked     decimal.Decimal     `json:"hours_worked"`
	DaysWorked      decimal.Decimal     `json:"days_worked"`
	Shifts          []ShiftEntryRequest `json:"shifts,omitempty" validate:"omitempty,dive"`
	OtherAllowances decimal.Decimal     `json:"other_allowances"`
	OtherDeductions decimal.Decimal     `json:"other_deductions"`
}

// ShiftEntryRequest records occurrences of one named shift.
type ShiftEntryRequest struct {
	Shift       string          `json:"shift" validate:"required"`
	Occurrences int             `json:"occurrences"`
	ExtraHours  decimal.Decimal `json:"extra_hours"`
}

func (r PayrollInputRequest) toInput() payroll.PayrollInput {
	in := payroll.PayrollInput{
		HoursWorked:     r.HoursWorked,
		DaysWorked:      r.DaysWorked,
		OtherAllowances: r.OtherAllowances,
		OtherDeductions: r.OtherDeductions,
	}
	for _, s := range r.Shifts {
		in.Shifts = append(in.Shifts, payroll.ShiftEntry{
			Shift:       s.Shift,
			Occurrences: s.Occurrences,
			ExtraHours:  s.ExtraHours,
		})
	}
	return in
}

// ResultDTO is a calculation result.
type ResultDTO struct {
	EmployeeID      string `json:"employee_id"`
	GrossPay        string `json:"gross_pay"`
	WeeklyWage      string `json:"weekly_wage"`
	NISEmployee     string `json:"nis_employee"`
	NISEmployer     string `json:"nis_employer"`
	TotalNIS        string `json:"total_nis"`
	PayLessNIS      string `json:"pay_less_nis"`
	OtherAllowances string `json:"other_allowances"`
	OtherDeductions string `json:"other_deductions"`
	NetPay          string `json:"net_pay"`
}

func toResultDTO(id payroll.EmployeeID, r payroll.Result) ResultDTO {
	return ResultDTO{
		EmployeeID:      string(id),
		GrossPay:        payroll.FormatMoney(r.GrossPay),
		WeeklyWage:      payroll.FormatMoney(r.WeeklyWage),
		NISEmployee:     payroll.FormatMoney(r.NISEmployee),
		NISEmployer:     payroll.FormatMoney(r.NISEmployer),
		TotalNIS:        payroll.FormatMoney(r.TotalNIS()),
		PayLessNIS:      payroll.FormatMoney(r.PayLessNIS()),
		OtherAllowances: payroll.FormatMoney(r.OtherAllowances),
		OtherDeductions: payroll.FormatMoney(r.OtherDeductions),
		NetPay:          payroll.FormatMoney(r.NetPay),
	}
}

// ValidationDTO answers POST /employees/{id}/validate.
type ValidationDTO struct {
	Valid  bool            `json:"valid"`
	Errors []FieldErrorDTO `json:"errors,omitempty"`
}

// =============================================================================
// PERIODS
// =============================================================================

// CreatePeriodRequest generates a period for an employee.
type CreatePeriodRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// RecordedPayRequest overrides a week's recorded pay.
type RecordedPayRequest struct {
	Amount *decimal.Decimal `json:"amount" validate:"required"`
}

// DaysWorkedRequest records a week's actual days.
type DaysWorkedRequest struct {
	Days *decimal.Decimal `json:"days" validate:"required"`
}

// BatchRecalculateRequest recalculates weeks of many periods at once.
type BatchRecalculateRequest struct {
	Jobs []BatchJobRequest `json:"jobs" validate:"required,min=1,dive"`
}

// BatchJobRequest is the work for one period.
type BatchJobRequest struct {
	PeriodID string             `json:"period_id" validate:"required"`
	Weeks    []WeekInputRequest `json:"weeks" validate:"required,min=1,dive"`
}

// WeekInputRequest is one week's input inside a batch job.
type WeekInputRequest struct {
	Week  int                 `json:"week" validate:"required,min=1"`
	Input PayrollInputRequest `json:"input"`
}

// WeekDTO is a weekly record.
type WeekDTO struct {
	WeekNumber         int    `json:"week_number"`
	WeekStart          string `json:"week_start"`
	WeekEnd            string `json:"week_end"`
	PayDay             string `json:"pay_day"`
	DailyRate8Hr       string `json:"daily_rate_8hr"`
	RecordedDaysWorked string `json:"recorded_days_worked"`
	CalculatedPay      string `json:"calculated_pay"`
	RecordedPay        string `json:"recorded_pay"`
	PayOverridden      bool   `json:"pay_overridden"`
	NISEmployee        string `json:"nis_employee"`
	NISEmployer        string `json:"nis_employer"`
	TotalNIS           string `json:"total_nis"`
	PayLessNIS         string `json:"pay_less_nis"`
	NetPay             string `json:"net_pay"`
	Status             string `json:"status"`
}

// TotalsDTO is a period aggregate.
type TotalsDTO struct {
	Weeks              int    `json:"weeks"`
	CompleteWeeks      int    `json:"complete_weeks"`
	OverriddenWeeks    int    `json:"overridden_weeks"`
	CalculatedPay      string `json:"calculated_pay"`
	RecordedPay        string `json:"recorded_pay"`
	Variance           string `json:"variance"`
	NISEmployee        string `json:"nis_employee"`
	NISEmployer        string `json:"nis_employer"`
	TotalNIS           string `json:"total_nis"`
	NetPay             string `json:"net_pay"`
	RecordedDaysWorked string `json:"recorded_days_worked"`
}

// PeriodDTO is a period with its weeks and totals.
type PeriodDTO struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Weeks      []WeekDTO `json:"weeks"`
	Totals     TotalsDTO `json:"totals"`
}

func toWeekDTO(w period.WeeklyRecord) WeekDTO {
	return WeekDTO{
		WeekNumber:         w.WeekNumber,
		WeekStart:          w.WeekStart.String(),
		WeekEnd:            w.WeekEnd.String(),
		PayDay:             w.PayDay.String(),
		DailyRate8Hr:       payroll.FormatMoney(w.DailyRate8Hr),
		RecordedDaysWorked: w.RecordedDaysWorked.String(),
		CalculatedPay:      payroll.FormatMoney(w.CalculatedPay),
		RecordedPay:        payroll.FormatMoney(w.RecordedPay),
		PayOverridden:      w.PayOverridden,
		NISEmployee:        payroll.FormatMoney(w.NISEmployee),
		NISEmployer:        payroll.FormatMoney(w.NISEmployer),
		TotalNIS:           payroll.FormatMoney(w.TotalNIS()),
		PayLessNIS:         payroll.FormatMoney(w.PayLessNIS()),
		NetPay:             payroll.FormatMoney(w.NetPay),
		Status:             string(w.Status),
	}
}

func toTotalsDTO(t period.Totals) TotalsDTO {
	return TotalsDTO{
		Weeks:              t.Weeks,
		CompleteWeeks:      t.CompleteWeeks,
		OverriddenWeeks:    t.OverriddenWeeks,
		CalculatedPay:      payroll.FormatMoney(t.CalculatedPay),
		RecordedPay:        payroll.FormatMoney(t.RecordedPay),
		Variance:           payroll.FormatMoney(t.Variance),
		NISEmployee:        payroll.FormatMoney(t.NISEmployee),
		NISEmployer:        payroll.FormatMoney(t.NISEmployer),
		TotalNIS:           payroll.FormatMoney(t.TotalNIS),
		NetPay:             payroll.FormatMoney(t.NetPay),
		RecordedDaysWorked: t.RecordedDaysWorked.String(),
	}
}

func toPeriodDTO(p period.PayPeriod) PeriodDTO {
	weeks := make([]WeekDTO, len(p.Weeks))
	for i, w := range p.Weeks {
		weeks[i] = toWeekDTO(w)
	}
	return PeriodDTO{
		ID:         p.ID,
		EmployeeID: string(p.EmployeeID),
		StartDate:  p.StartDate.String(),
		EndDate:    p.EndDate.String(),
		Weeks:      weeks,
		Totals:     toTotalsDTO(period.Aggregate(p)),
	}
}

// =============================================================================
// REGIME, SCENARIOS, ERRORS
// =============================================================================

// ScheduleDTO is the active regime.
type ScheduleDTO = factory.RegimeJSON

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// FieldErrorDTO is one field-level problem.
type FieldErrorDTO struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string          `json:"error"`
	Details string          `json:"details,omitempty"`
	Fields  []FieldErrorDTO `json:"fields,omitempty"`
}
