/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built scenarios that populate the store with worked payroll
  examples. Each scenario creates one employee and one period and runs the
  engine over it, so the UI has something real to show.

AVAILABLE SCENARIOS:
  hourly-worker:     Hourly 25.00 x 40h, flat 3% / 6.25%
  monthly-salary:    Monthly 5000.00, 8-hour daily rate 166.67
  shift-worker:      Day (250, default) and Night (300) shifts, 5 Day shifts
  mid-week-period:   Period from Wed 2024-01-10 to Sat 2024-01-20
  heavy-deductions:  Deductions above net pay, negative result kept

HOW SCENARIOS WORK:
 1. Reset store (clear all data)
 2. Create employee
 3. Generate period with a fixed ID
 4. Recalculate weeks with the scenario input

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "shift-worker"}

NOTE:
  Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Period handlers used to inspect the result
*/
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/period"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "hourly-worker",
		Name:        "Hourly Worker",
		Description: "Hourly rate 25.00, 40 hours in one week",
	},
	{
		ID:          "monthly-salary",
		Name:        "Monthly Salary",
		Description: "Monthly salary 5000.00 over March 2024",
	},
	{
		ID:          "shift-worker",
		Name:        "Shift Worker",
		Description: "Day and Night shifts, five Day shifts worked",
	},
	{
		ID:          "mid-week-period",
		Name:        "Mid-Week Period",
		Description: "Period starting on a Wednesday, aligned to Monday weeks",
	},
	{
		ID:          "heavy-deductions",
		Name:        "Heavy Deductions",
		Description: "Deductions larger than pay, net pay goes negative",
	},
}

var scenarioLoaders = map[string]func(*Handler, context.Context) error{
	"hourly-worker":    (*Handler).loadHourlyWorkerScenario,
	"monthly-salary":   (*Handler).loadMonthlySalaryScenario,
	"shift-worker":     (*Handler).loadShiftWorkerScenario,
	"mid-week-period":  (*Handler).loadMidWeekPeriodScenario,
	"heavy-deductions": (*Handler).loadHeavyDeductionsScenario,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the store and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !h.decode(w, r, &req) {
		return
	}
	load, ok := scenarioLoaders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario %q", req.ScenarioID), nil)
		return
	}

	ctx := r.Context()
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	h.currentScenario = ""

	if err := load(h, ctx); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}
	h.currentScenario = req.ScenarioID
	log.Printf("[Scenario] Loaded %s", req.ScenarioID)

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	h.currentScenario = ""

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadHourlyWorkerScenario(ctx context.Context) error {
	emp := payroll.Employee{
		ID:         "emp-hourly",
		Name:       "Alice Johnson",
		Type:       payroll.Hourly,
		HourlyRate: payroll.DecimalPtr(payroll.MustParseDecimal("25.00")),
	}
	return h.seed(ctx, emp, "period-hourly",
		period.NewDate(2024, time.January, 8), period.NewDate(2024, time.January, 14),
		map[int]payroll.PayrollInput{
			0: {HoursWorked: payroll.MustParseDecimal("40"), DaysWorked: payroll.MustParseDecimal("5")},
		})
}

func (h *Handler) loadMonthlySalaryScenario(ctx context.Context) error {
	emp := payroll.Employee{
		ID:            "emp-monthly",
		Name:          "Bob Smith",
		Type:          payroll.Monthly,
		MonthlySalary: payroll.DecimalPtr(payroll.MustParseDecimal("5000.00")),
	}
	return h.seed(ctx, emp, "period-monthly",
		period.NewDate(2024, time.March, 1), period.NewDate(2024, time.March, 31),
		map[int]payroll.PayrollInput{0: {}, 1: {}})
}

func (h *Handler) loadShiftWorkerScenario(ctx context.Context) error {
	emp := payroll.Employee{
		ID:   "emp-shift",
		Name: "Carol White",
		Type: payroll.ShiftBased,
	}
	emp.Shifts.Add(payroll.ShiftConfig{Name: "Day", Hours: "07:00-15:00", BaseRate: payroll.MustParseDecimal("250"), IsDefault: true})
	emp.Shifts.Add(payroll.ShiftConfig{Name: "Night", Hours: "23:00-07:00", BaseRate: payroll.MustParseDecimal("300")})

	return h.seed(ctx, emp, "period-shift",
		period.NewDate(2024, time.February, 5), period.NewDate(2024, time.February, 11),
		map[int]payroll.PayrollInput{
			0: {DaysWorked: payroll.MustParseDecimal("5"), Shifts: []payroll.ShiftEntry{{Shift: "Day", Occurrences: 5}}},
		})
}

func (h *Handler) loadMidWeekPeriodScenario(ctx context.Context) error {
	emp := payroll.Employee{
		ID:        "emp-daily",
		Name:      "Dan Brown",
		Type:      payroll.Daily,
		DailyRate: payroll.DecimalPtr(payroll.MustParseDecimal("180.00")),
	}
	return h.seed(ctx, emp, "period-mid-week",
		period.NewDate(2024, time.January, 10), period.NewDate(2024, time.January, 20),
		nil)
}

func (h *Handler) loadHeavyDeductionsScenario(ctx context.Context) error {
	emp := payroll.Employee{
		ID:         "emp-deductions",
		Name:       "Eve Davis",
		Type:       payroll.Hourly,
		HourlyRate: payroll.DecimalPtr(payroll.MustParseDecimal("25.00")),
	}
	return h.seed(ctx, emp, "period-deductions",
		period.NewDate(2024, time.January, 8), period.NewDate(2024, time.January, 14),
		map[int]payroll.PayrollInput{
			0: {HoursWorked: payroll.MustParseDecimal("40"), OtherDeductions: payroll.MustParseDecimal("1500")},
		})
}

// seed saves emp, generates a period with a fixed ID and recalculates the
// weeks named in inputs (0-based index).
func (h *Handler) seed(ctx context.Context, emp payroll.Employee, periodID string, start, end period.Date, inputs map[int]payroll.PayrollInput) error {
	if err := h.Store.SaveEmployee(ctx, emp); err != nil {
		return fmt.Errorf("save employee: %w", err)
	}

	p, err := period.Generate(start, end, emp, h.Regime.Policy)
	if err != nil {
		return err
	}
	p.ID = periodID

	for index := 0; index < len(p.Weeks); index++ {
		in, ok := inputs[index]
		if !ok {
			continue
		}
		if p, err = period.RecalculateWeek(p, index, emp, in, h.Calculator); err != nil {
			return fmt.Errorf("week %d: %w", index+1, err)
		}
	}

	return h.Store.SavePeriod(ctx, p)
}
