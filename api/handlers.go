/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization and persistence, and delegates every calculation to
  the pure payroll and period packages.

ENDPOINTS:
  Regime:
    GET    /api/schedule                                  Active regime

  Employees:
    GET    /api/employees                                 List employees
    POST   /api/employees                                 Create employee
    GET    /api/employees/{id}                            Employee details
    POST   /api/employees/{id}/shifts                     Add shift
    DELETE /api/employees/{id}/shifts/{index}             Remove shift
    POST   /api/employees/{id}/shifts/{index}/default     Set default shift
    POST   /api/employees/{id}/validate                   Validate an input
    POST   /api/employees/{id}/calculate                  Calculate pay

  Periods:
    POST   /api/employees/{id}/periods                    Generate period
    GET    /api/employees/{id}/periods                    List periods
    GET    /api/periods/{id}                              Period + totals
    POST   /api/periods/{id}/weeks/{week}/recalculate     Recalculate a week
    PUT    /api/periods/{id}/weeks/{week}/recorded-pay    Override recorded pay
    DELETE /api/periods/{id}/weeks/{week}/recorded-pay    Clear override
    PUT    /api/periods/{id}/weeks/{week}/days-worked     Record days worked
    GET    /api/periods/{id}/totals                       Totals only
    GET    /api/periods/{id}/export.csv                   CSV export
    GET    /api/periods/{id}/export.pdf                   PDF report
    POST   /api/periods/recalculate                       Batch recalculation

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: employee and period persistence
  - Calculator: built from the regime loaded at startup
  - BatchWorkers: parallelism of batch recalculation

  Period mutations are load -> pure engine call -> save. The handler
  serializes them with a mutex so two requests editing one period cannot
  lose each other's week.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed body, validation errors (with field list), bad ranges
  - 404: Unknown employee, period or week
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/warp/payroll-engine/export"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/period"
	"github.com/warp/payroll-engine/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store        store.Store
	Regime       factory.Regime
	Calculator   *payroll.Calculator
	BatchWorkers int

	validate *validator.Validate
	regimes  *factory.RegimeFactory

	// Serializes read-modify-write of employees and periods
	mu sync.Mutex

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a handler that calculates under regime.
func NewHandler(s store.Store, regime factory.Regime, batchWorkers int) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		Store:        s,
		Regime:       regime,
		Calculator:   payroll.NewCalculator(regime.Schedule, regime.Policy),
		BatchWorkers: batchWorkers,
		validate:     v,
		regimes:      factory.NewRegimeFactory(),
	}
}

// =============================================================================
// REGIME
// =============================================================================

// GetSchedule returns the active contribution regime.
// GET /api/schedule
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.regimes.ToJSON(h.Regime))
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = factory.EmployeeToJSON(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), payroll.EmployeeID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.EmployeeToJSON(emp))
}

// CreateEmployee creates or replaces an employee. Shifts are added in order
// through the shift-list editor, so the first shift becomes the default
// unless another is flagged.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	typ, err := payroll.ParseEmploymentType(req.EmploymentType)
	if err != nil {
		writeDomainError(w, "Invalid employment type", err)
		return
	}

	emp := payroll.Employee{
		ID:            payroll.EmployeeID(req.ID),
		Name:          req.Name,
		Type:          typ,
		HourlyRate:    req.HourlyRate,
		DailyRate:     req.DailyRate,
		WeeklyRate:    req.WeeklyRate,
		MonthlySalary: req.MonthlySalary,
	}
	if emp.ID == "" {
		emp.ID = payroll.EmployeeID(uuid.NewString())
	}
	for _, s := range req.Shifts {
		emp.Shifts.Add(s.toShift())
	}

	if err := validateEmployee(emp); err != nil {
		writeDomainError(w, "Invalid employee", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}

	writeJSON(w, http.StatusCreated, factory.EmployeeToJSON(emp))
}

// AddShift appends a shift to an employee.
// POST /api/employees/{id}/shifts
func (h *Handler) AddShift(w http.ResponseWriter, r *http.Request) {
	var req ShiftRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.editShifts(w, r, func(shifts *payroll.ShiftList) error {
		shifts.Add(req.toShift())
		return nil
	})
}

// RemoveShift deletes a shift; removing the default promotes the first
// remaining shift.
// DELETE /api/employees/{id}/shifts/{index}
func (h *Handler) RemoveShift(w http.ResponseWriter, r *http.Request) {
	index, ok := intParam(w, r, "index")
	if !ok {
		return
	}
	h.editShifts(w, r, func(shifts *payroll.ShiftList) error {
		return shifts.Remove(index)
	})
}

// SetDefaultShift marks one shift as the default.
// POST /api/employees/{id}/shifts/{index}/default
func (h *Handler) SetDefaultShift(w http.ResponseWriter, r *http.Request) {
	index, ok := intParam(w, r, "index")
	if !ok {
		return
	}
	h.editShifts(w, r, func(shifts *payroll.ShiftList) error {
		return shifts.SetDefault(index)
	})
}

func (h *Handler) editShifts(w http.ResponseWriter, r *http.Request, edit func(*payroll.ShiftList) error) {
	ctx := r.Context()
	id := payroll.EmployeeID(chi.URLParam(r, "id"))

	h.mu.Lock()
	defer h.mu.Unlock()

	emp, err := h.Store.GetEmployee(ctx, id)
	if err != nil {
		writeDomainError(w, "Failed to get employee", err)
		return
	}
	if err := edit(&emp.Shifts); err != nil {
		writeDomainError(w, "Failed to edit shifts", err)
		return
	}
	if err := validateEmployee(emp); err != nil {
		writeDomainError(w, "Invalid shift", err)
		return
	}
	if err := h.Store.SaveEmployee(ctx, emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.EmployeeToJSON(emp))
}

// ValidateInput checks an input against the employee without calculating.
// POST /api/employees/{id}/validate
func (h *Handler) ValidateInput(w http.ResponseWriter, r *http.Request) {
	var req PayrollInputRequest
	if !h.decode(w, r, &req) {
		return
	}
	emp, err := h.Store.GetEmployee(r.Context(), payroll.EmployeeID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "Failed to get employee", err)
		return
	}

	err = payroll.Validate(emp, req.toInput())
	var verrs payroll.ValidationErrors
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, ValidationDTO{Valid: true})
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusOK, ValidationDTO{Valid: false, Errors: fieldErrors(verrs)})
	default:
		writeDomainError(w, "Failed to validate input", err)
	}
}

// Calculate computes gross pay, contributions and net pay for one input.
// POST /api/employees/{id}/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req PayrollInputRequest
	if !h.decode(w, r, &req) {
		return
	}
	emp, err := h.Store.GetEmployee(r.Context(), payroll.EmployeeID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "Failed to get employee", err)
		return
	}

	result, err := h.Calculator.Calculate(emp, req.toInput())
	if err != nil {
		writeDomainError(w, "Calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toResultDTO(emp.ID, result))
}

// =============================================================================
// PERIOD HANDLERS
// =============================================================================

// CreatePeriod generates weekly records for a date range.
// POST /api/employees/{id}/periods
func (h *Handler) CreatePeriod(w http.ResponseWriter, r *http.Request) {
	var req CreatePeriodRequest
	if !h.decode(w, r, &req) {
		return
	}
	start, err := period.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	end, err := period.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
		return
	}

	ctx := r.Context()
	emp, err := h.Store.GetEmployee(ctx, payroll.EmployeeID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "Failed to get employee", err)
		return
	}

	p, err := period.Generate(start, end, emp, h.Regime.Policy)
	if err != nil {
		writeDomainError(w, "Failed to generate period", err)
		return
	}
	p.ID = uuid.NewString()

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.Store.SavePeriod(ctx, p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save period", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPeriodDTO(p))
}

// ListPeriods returns an employee's periods.
// GET /api/employees/{id}/periods
func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := payroll.EmployeeID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetEmployee(ctx, id); err != nil {
		writeDomainError(w, "Failed to get employee", err)
		return
	}

	periods, err := h.Store.ListPeriods(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list periods", err)
		return
	}
	dtos := make([]PeriodDTO, len(periods))
	for i, p := range periods {
		dtos[i] = toPeriodDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPeriod returns a period with weeks and totals.
// GET /api/periods/{id}
func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetPeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get period", err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodDTO(p))
}

// GetTotals returns only the aggregate of a period.
// GET /api/periods/{id}/totals
func (h *Handler) GetTotals(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetPeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get period", err)
		return
	}
	writeJSON(w, http.StatusOK, toTotalsDTO(period.Aggregate(p)))
}

// RecalculateWeek runs the calculation for one week and stores the result.
// POST /api/periods/{id}/weeks/{week}/recalculate
func (h *Handler) RecalculateWeek(w http.ResponseWriter, r *http.Request) {
	var req PayrollInputRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.editWeek(w, r, func(p period.PayPeriod, index int, emp payroll.Employee) (period.PayPeriod, error) {
		return period.RecalculateWeek(p, index, emp, req.toInput(), h.Calculator)
	})
}

// OverrideRecordedPay sets the pay actually made for a week.
// PUT /api/periods/{id}/weeks/{week}/recorded-pay
func (h *Handler) OverrideRecordedPay(w http.ResponseWriter, r *http.Request) {
	var req RecordedPayRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.editWeek(w, r, func(p period.PayPeriod, index int, _ payroll.Employee) (period.PayPeriod, error) {
		return period.OverrideRecordedPay(p, index, *req.Amount)
	})
}

// ClearOverride drops a recorded-pay override.
// DELETE /api/periods/{id}/weeks/{week}/recorded-pay
func (h *Handler) ClearOverride(w http.ResponseWriter, r *http.Request) {
	h.editWeek(w, r, func(p period.PayPeriod, index int, _ payroll.Employee) (period.PayPeriod, error) {
		return period.ClearOverride(p, index)
	})
}

// RecordDaysWorked stores the actual days worked in a week.
// PUT /api/periods/{id}/weeks/{week}/days-worked
func (h *Handler) RecordDaysWorked(w http.ResponseWriter, r *http.Request) {
	var req DaysWorkedRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.editWeek(w, r, func(p period.PayPeriod, index int, _ payroll.Employee) (period.PayPeriod, error) {
		return period.RecordDaysWorked(p, index, *req.Days)
	})
}

type weekEdit func(p period.PayPeriod, index int, emp payroll.Employee) (period.PayPeriod, error)

func (h *Handler) editWeek(w http.ResponseWriter, r *http.Request, edit weekEdit) {
	ctx := r.Context()
	week, ok := intParam(w, r, "week")
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	p, err := h.Store.GetPeriod(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get period", err)
		return
	}
	index, err := p.IndexOfWeek(week)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Week %d not found", week), err)
		return
	}
	emp, err := h.Store.GetEmployee(ctx, p.EmployeeID)
	if err != nil {
		writeDomainError(w, "Failed to get employee", err)
		return
	}

	updated, err := edit(p, index, emp)
	if err != nil {
		writeDomainError(w, "Failed to update week", err)
		return
	}
	if err := h.Store.SavePeriod(ctx, updated); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save period", err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodDTO(updated))
}

// RecalculateBatch recalculates weeks across many periods in parallel.
// Jobs naming the same period are merged into one job, so each period is
// recalculated once from its stored state. All periods are saved together or
// not at all.
// POST /api/periods/recalculate
func (h *Handler) RecalculateBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRecalculateRequest
	if !h.decode(w, r, &req) {
		return
	}
	ctx := r.Context()

	h.mu.Lock()
	defer h.mu.Unlock()

	jobs := make([]period.Job, 0, len(req.Jobs))
	jobIndex := make(map[string]int, len(req.Jobs))
	for _, jr := range req.Jobs {
		i, seen := jobIndex[jr.PeriodID]
		if !seen {
			p, err := h.Store.GetPeriod(ctx, jr.PeriodID)
			if err != nil {
				writeDomainError(w, "Failed to get period", err)
				return
			}
			emp, err := h.Store.GetEmployee(ctx, p.EmployeeID)
			if err != nil {
				writeDomainError(w, "Failed to get employee", err)
				return
			}
			i = len(jobs)
			jobIndex[jr.PeriodID] = i
			jobs = append(jobs, period.Job{Period: p, Employee: emp, Inputs: make(map[int]payroll.PayrollInput)})
		}

		job := jobs[i]
		for _, wk := range jr.Weeks {
			index, err := job.Period.IndexOfWeek(wk.Week)
			if err != nil {
				writeError(w, http.StatusNotFound, fmt.Sprintf("Week %d of period %s not found", wk.Week, job.Period.ID), err)
				return
			}
			if _, dup := job.Inputs[index]; dup {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("Week %d of period %s listed more than once", wk.Week, job.Period.ID), nil)
				return
			}
			job.Inputs[index] = wk.Input.toInput()
		}
	}

	results, err := period.RecalculateBatch(ctx, h.Calculator, jobs, h.BatchWorkers)
	if err != nil {
		writeDomainError(w, "Batch recalculation failed", err)
		return
	}
	if err := h.Store.SavePeriods(ctx, results); err != nil {
		writeDomainError(w, "Failed to save periods", err)
		return
	}

	dtos := make([]PeriodDTO, len(results))
	for i, p := range results {
		dtos[i] = toPeriodDTO(p)
	}
	log.Printf("[Batch] Recalculated %d periods with %d workers", len(results), h.BatchWorkers)
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// EXPORT HANDLERS
// =============================================================================

// ExportCSV streams the period as CSV.
// GET /api/periods/{id}/export.csv
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetPeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get period", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(p, "csv")))
	if err := export.WriteCSV(w, p); err != nil {
		log.Printf("[Export] CSV for period %s failed: %v", p.ID, err)
	}
}

// ExportPDF renders the period report.
// GET /api/periods/{id}/export.pdf
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := h.Store.GetPeriod(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get period", err)
		return
	}
	emp, err := h.Store.GetEmployee(ctx, p.EmployeeID)
	if err != nil {
		writeDomainError(w, "Failed to get employee", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(p, "pdf")))
	if err := export.WritePDF(w, emp, p, period.Aggregate(p)); err != nil {
		log.Printf("[Export] PDF for period %s failed: %v", p.ID, err)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// decode reads a JSON body into dst and runs struct validation. It writes
// the 400 reply itself and returns false on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]FieldErrorDTO, len(verrs))
			for i, fe := range verrs {
				fields[i] = FieldErrorDTO{Field: fieldPath(fe), Reason: fe.Tag()}
			}
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error(), Fields: fields})
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request", err)
		return false
	}
	return true
}

// fieldPath drops the top-level struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validateEmployee(emp payroll.Employee) error {
	var errs payroll.ValidationErrors
	if err := payroll.Validate(emp, payroll.PayrollInput{}); err != nil {
		var verrs payroll.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		errs = append(errs, verrs...)
	}
	if len(emp.Shifts) > 0 {
		errs = append(errs, emp.Shifts.Validate()...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s %q", name, raw), err)
		return 0, false
	}
	return n, true
}

func fieldErrors(errs payroll.ValidationErrors) []FieldErrorDTO {
	out := make([]FieldErrorDTO, len(errs))
	for i, e := range errs {
		out[i] = FieldErrorDTO{Field: e.Field, Reason: e.Reason}
	}
	return out
}

// writeDomainError maps engine and store errors to HTTP status.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	var verrs payroll.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Details: err.Error(), Fields: fieldErrors(verrs)})
	case store.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case payroll.IsClientError(err) || period.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
