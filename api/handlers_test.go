/*
handlers_test.go - HTTP tests for the payroll API

Tests drive the chi router end to end against the in-memory store:
- Employee creation, validation errors and shift editing
- Calculation results
- Period generation, week edits and totals
- Export and batch recalculation
*/
package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/store/memory"
)

func newTestRouter(t *testing.T) (*Handler, *chi.Mux) {
	t.Helper()
	h := NewHandler(memory.New(), factory.DefaultRegime(), 2)
	return h, NewRouter(h, []string{"http://localhost:5173"})
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createHourly(t *testing.T, router http.Handler, id string) {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/employees", map[string]any{
		"id":              id,
		"name":            "Alice Johnson",
		"employment_type": "hourly",
		"hourly_rate":     "25.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func createPeriod(t *testing.T, router http.Handler, empID, start, end string) PeriodDTO {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/employees/"+empID+"/periods", map[string]any{
		"start_date": start,
		"end_date":   end,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[PeriodDTO](t, rec)
}

var fortyHours = map[string]any{"hours_worked": "40", "days_worked": "5"}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestCreateEmployee_AssignsID(t *testing.T) {
	_, router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/employees", map[string]any{
		"name":            "No ID",
		"employment_type": "daily",
		"daily_rate":      200,
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	emp := decodeBody[EmployeeDTO](t, rec)
	assert.NotEmpty(t, emp.ID)

	list := decodeBody[[]EmployeeDTO](t, do(t, router, http.MethodGet, "/api/employees", nil))
	require.Len(t, list, 1)
	assert.Equal(t, emp.ID, list[0].ID)
}

func TestCreateEmployee_MissingRate(t *testing.T) {
	// GIVEN: an hourly employee without an hourly rate
	// WHEN: it is created
	// THEN: 400 with the rate field named
	_, router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/employees", map[string]any{
		"name":            "Rateless",
		"employment_type": "hourly",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	require.NotEmpty(t, resp.Fields)
	assert.Equal(t, "hourly_rate", resp.Fields[0].Field)
}

func TestCreateEmployee_ShapeErrors(t *testing.T) {
	_, router := newTestRouter(t)

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{name: "missing name", body: map[string]any{"employment_type": "hourly", "hourly_rate": 10}, field: "name"},
		{name: "unknown type", body: map[string]any{"name": "X", "employment_type": "piecework"}, field: "employment_type"},
		{name: "unnamed shift", body: map[string]any{"name": "X", "employment_type": "shift_based", "shifts": []map[string]any{{"base_rate": 100}}}, field: "shifts[0].name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/employees", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeBody[ErrorResponse](t, rec)
			require.NotEmpty(t, resp.Fields)
			assert.Equal(t, tt.field, resp.Fields[0].Field)
		})
	}
}

func TestGetEmployee_NotFound(t *testing.T) {
	_, router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/employees/ghost", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShiftEditing_KeepsOneDefault(t *testing.T) {
	// GIVEN: a shift worker with Day (default) and Night
	// WHEN: Night becomes default and is then removed
	// THEN: Day is promoted back to default
	_, router := newTestRouter(t)
	rec := do(t, router, http.MethodPost, "/api/employees", map[string]any{
		"id":              "emp-shift",
		"name":            "Carol",
		"employment_type": "shift_based",
		"shifts": []map[string]any{
			{"name": "Day", "base_rate": "250"},
			{"name": "Night", "base_rate": "300"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	emp := decodeBody[EmployeeDTO](t, rec)
	require.Len(t, emp.Shifts, 2)
	assert.True(t, emp.Shifts[0].IsDefault)

	rec = do(t, router, http.MethodPost, "/api/employees/emp-shift/shifts/1/default", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	emp = decodeBody[EmployeeDTO](t, rec)
	assert.False(t, emp.Shifts[0].IsDefault)
	assert.True(t, emp.Shifts[1].IsDefault)

	rec = do(t, router, http.MethodDelete, "/api/employees/emp-shift/shifts/1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	emp = decodeBody[EmployeeDTO](t, rec)
	require.Len(t, emp.Shifts, 1)
	assert.True(t, emp.Shifts[0].IsDefault)

	rec = do(t, router, http.MethodPost, "/api/employees/emp-shift/shifts", map[string]any{"name": "Swing", "base_rate": "275", "is_default": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	emp = decodeBody[EmployeeDTO](t, rec)
	require.Len(t, emp.Shifts, 2)
	assert.False(t, emp.Shifts[0].IsDefault)
	assert.True(t, emp.Shifts[1].IsDefault)
}

func TestRemoveShift_LastShiftOfShiftWorker(t *testing.T) {
	// GIVEN: a shift worker with a single shift
	// WHEN: that shift is removed
	// THEN: 400 naming shifts, and the stored employee still has its shift
	_, router := newTestRouter(t)
	rec := do(t, router, http.MethodPost, "/api/employees", map[string]any{
		"id":              "emp-shift",
		"name":            "Carol",
		"employment_type": "shift_based",
		"shifts":          []map[string]any{{"name": "Day", "base_rate": "250"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodDelete, "/api/employees/emp-shift/shifts/0", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	resp := decodeBody[ErrorResponse](t, rec)
	require.NotEmpty(t, resp.Fields)
	assert.Equal(t, "shifts", resp.Fields[0].Field)

	emp := decodeBody[EmployeeDTO](t, do(t, router, http.MethodGet, "/api/employees/emp-shift", nil))
	assert.Len(t, emp.Shifts, 1)

	rec = do(t, router, http.MethodPost, "/api/employees/emp-shift/calculate", map[string]any{
		"shifts": []map[string]any{{"shift": "Day", "occurrences": 2}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "500.00", decodeBody[ResultDTO](t, rec).GrossPay)
}

func TestRemoveShift_OutOfRange(t *testing.T) {
	_, router := newTestRouter(t)
	createHourly(t, router, "emp-1")

	rec := do(t, router, http.MethodDelete, "/api/employees/emp-1/shifts/3", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// CALCULATION
// =============================================================================

func TestCalculate_HourlyWorker(t *testing.T) {
	// GIVEN: hourly 25.00 under the default 3% / 6.25% regime
	// WHEN: 40 hours are calculated
	// THEN: gross 1000.00, contributions 30.00 / 62.50, net 970.00
	_, router := newTestRouter(t)
	createHourly(t, router, "emp-1")

	rec := do(t, router, http.MethodPost, "/api/employees/emp-1/calculate", map[string]any{"hours_worked": 40})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeBody[ResultDTO](t, rec)
	assert.Equal(t, "1000.00", res.GrossPay)
	assert.Equal(t, "1000.00", res.WeeklyWage)
	assert.Equal(t, "30.00", res.NISEmployee)
	assert.Equal(t, "62.50", res.NISEmployer)
	assert.Equal(t, "92.50", res.TotalNIS)
	assert.Equal(t, "970.00", res.NetPay)
}

func TestCalculate_NegativeNetPayIsKept(t *testing.T) {
	_, router := newTestRouter(t)
	createHourly(t, router, "emp-1")

	rec := do(t, router, http.MethodPost, "/api/employees/emp-1/calculate", map[string]any{
		"hours_worked":     40,
		"other_deductions": 1500,
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "-530.00", decodeBody[ResultDTO](t, rec).NetPay)
}

func TestCalculate_RejectsNegativeHours(t *testing.T) {
	_, router := newTestRouter(t)
	createHourly(t, router, "emp-1")

	rec := do(t, router, http.MethodPost, "/api/employees/emp-1/calculate", map[string]any{"hours_worked": -1})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "input.hours_worked", resp.Fields[0].Field)
}

func TestValidateInput(t *testing.T) {
	_, router := newTestRouter(t)
	rec := do(t, router, http.MethodPost, "/api/employees", map[string]any{
		"id":              "emp-shift",
		"name":            "Carol",
		"employment_type": "shift_based",
		"shifts":          []map[string]any{{"name": "Day", "base_rate": "250"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	t.Run("valid", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/employees/emp-shift/validate", map[string]any{
			"shifts": []map[string]any{{"shift": "Day", "occurrences": 5}},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decodeBody[ValidationDTO](t, rec).Valid)
	})

	t.Run("unknown shift", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/employees/emp-shift/validate", map[string]any{
			"shifts": []map[string]any{{"shift": "Graveyard", "occurrences": 1}},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		got := decodeBody[ValidationDTO](t, rec)
		assert.False(t, got.Valid)
		require.Len(t, got.Errors, 1)
		assert.Equal(t, "input.shifts[0].shift", got.Errors[0].Field)
	})
}

// =============================================================================
// PERIODS
// =============================================================================

func TestCreatePeriod_AlignsToMondays(t *testing.T) {
	_, router := newTestRouter(t)
	createHourly(t, router, "emp-1")

	p := createPeriod(t, router, "emp-1", "2024-01-10", "2024-01-20")

	require.Len(t, p.Weeks, 2)
	assert.Equal(t, "2024-01-08", p.Weeks[0].WeekStart)
	assert.Equal(t, "2024-01-14", p.Weeks[0].WeekEnd)
	assert.Equal(t, "2024-01-21", p.Weeks[0].PayDay)
	assert.Equal(t, "2024-01-21", p.Weeks[1].WeekEnd)
	assert.Equal(t, "200.00", p.Weeks[0].DailyRate8Hr)
	assert.Equal(t, "calculated", p.Weeks[0].Status)
}

func TestCreatePeriod_Errors(t *testing.T) {
	_, router := newTestRouter(t)
	createHourly(t, router, "emp-1")

	tests := []struct {
		name   string
		path   string
		body   map[string]any
		status int
	}{
		{name: "end before start", path: "/api/employees/emp-1/periods", body: map[string]any{"start_date": "2024-02-01", "end_date": "2024-01-01"}, status: http.StatusBadRequest},
		{name: "bad date", path: "/api/employees/emp-1/periods", body: map[string]any{"start_date": "01/02/2024", "end_date": "2024-03-01"}, status: http.StatusBadRequest},
		{name: "unknown employee", path: "/api/employees/ghost/periods", body: map[string]any{"start_date": "2024-01-01", "end_date": "2024-01-31"}, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestWeekEdits_OverrideSurvivesRecalculation(t *testing.T) {
	// GIVEN: a week whose recorded pay was overridden to 950
	// WHEN: the week is recalculated at 40 hours
	// THEN: calculated pay moves to 1000.00, recorded pay stays 950.00
	_, router := newTestRouter(t)
	createHourly(t, router, "emp-1")
	p := createPeriod(t, router, "emp-1", "2024-01-08", "2024-01-21")
	base := "/api/periods/" + p.ID + "/weeks/1"

	rec := do(t, router, http.MethodPut, base+"/recorded-pay", map[string]any{"amount": "950"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[PeriodDTO](t, rec)
	assert.Equal(t, "complete", got.Weeks[0].Status)
	assert.True(t, got.Weeks[0].PayOverridden)

	rec = do(t, router, http.MethodPost, base+"/recalculate", fortyHours)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got = decodeBody[PeriodDTO](t, rec)
	assert.Equal(t, "1000.00", got.Weeks[0].CalculatedPay)
	assert.Equal(t, "950.00", got.Weeks[0].RecordedPay)
	assert.Equal(t, "5", got.Weeks[0].RecordedDaysWorked)
	assert.Equal(t, "-50.00", got.Totals.Variance)

	rec = do(t, router, http.MethodDelete, base+"/recorded-pay", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got = decodeBody[PeriodDTO](t, rec)
	assert.False(t, got.Weeks[0].PayOverridden)
	assert.Equal(t, "1000.00", got.Weeks[0].RecordedPay)

	totals := decodeBody[TotalsDTO](t, do(t, router, http.MethodGet, "/api/periods/"+p.ID+"/totals", nil))
	assert.Equal(t, 2, totals.Weeks)
	assert.Equal(t, 1, totals.CompleteWeeks)
	assert.Equal(t, "1000.00", totals.CalculatedPay)
	assert.Equal(t, "92.50", totals.TotalNIS)
	assert.Equal(t, "0.00", totals.Variance)
}

func TestWeekEdits_DaysWorkedMarksRecorded(t *testing.T) {
	_, router := newTestRouter(t)
	createHourly(t, router, "emp-1")
	p := createPeriod(t, router, "emp-1", "2024-01-08", "2024-01-14")

	rec := do(t, router, http.MethodPut, "/api/periods/"+p.ID+"/weeks/1/days-worked", map[string]any{"days": "4.5"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[PeriodDTO](t, rec)
	assert.Equal(t, "4.5", got.Weeks[0].RecordedDaysWorked)
	assert.Equal(t, "recorded", got.Weeks[0].Status)
}

func TestWeekEdits_Errors(t *testing.T) {
	_, router := newTestRouter(t)
	createHourly(t, router, "emp-1")
	p := createPeriod(t, router, "emp-1", "2024-01-08", "2024-01-14")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{name: "week out of range", method: http.MethodPut, path: "/api/periods/" + p.ID + "/weeks/9/recorded-pay", body: map[string]any{"amount": 1}, status: http.StatusNotFound},
		{name: "week not a number", method: http.MethodPut, path: "/api/periods/" + p.ID + "/weeks/one/recorded-pay", body: map[string]any{"amount": 1}, status: http.StatusBadRequest},
		{name: "negative override", method: http.MethodPut, path: "/api/periods/" + p.ID + "/weeks/1/recorded-pay", body: map[string]any{"amount": -5}, status: http.StatusBadRequest},
		{name: "missing amount", method: http.MethodPut, path: "/api/periods/" + p.ID + "/weeks/1/recorded-pay", body: map[string]any{}, status: http.StatusBadRequest},
		{name: "negative days", method: http.MethodPut, path: "/api/periods/" + p.ID + "/weeks/1/days-worked", body: map[string]any{"days": -1}, status: http.StatusBadRequest},
		{name: "unknown period", method: http.MethodPost, path: "/api/periods/nope/weeks/1/recalculate", body: fortyHours, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestListPeriods(t *testing.T) {
	_, router := newTestRouter(t)
	createHourly(t, router, "emp-1")
	createPeriod(t, router, "emp-1", "2024-02-05", "2024-02-11")
	createPeriod(t, router, "emp-1", "2024-01-08", "2024-01-14")

	rec := do(t, router, http.MethodGet, "/api/employees/emp-1/periods", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]PeriodDTO](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-01-08", list[0].StartDate)
}

// =============================================================================
// EXPORT AND BATCH
// =============================================================================

func TestExportCSV(t *testing.T) {
	_, router := newTestRouter(t)
	createHourly(t, router, "emp-1")
	p := createPeriod(t, router, "emp-1", "2024-01-08", "2024-01-14")
	do(t, router, http.MethodPost, "/api/periods/"+p.ID+"/weeks/1/recalculate", fortyHours)

	rec := do(t, router, http.MethodGet, "/api/periods/"+p.ID+"/export.csv", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "payroll_emp-1_")
	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Week", rows[0][0])
	assert.Equal(t, []string{"1", "08/01/2024", "14/01/2024", "21/01/2024", "200.00", "5", "1000.00", "30.00", "970.00", "1000.00", "62.50", "92.50", "970.00"}, rows[1])
}

func TestExportPDF(t *testing.T) {
	_, router := newTestRouter(t)
	createHourly(t, router, "emp-1")
	p := createPeriod(t, router, "emp-1", "2024-01-08", "2024-01-14")

	rec := do(t, router, http.MethodGet, "/api/periods/"+p.ID+"/export.pdf", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func TestRecalculateBatch(t *testing.T) {
	// GIVEN: two employees with one period each
	// WHEN: both are recalculated in one batch
	// THEN: each period is saved with its week complete
	_, router := newTestRouter(t)
	createHourly(t, router, "emp-1")
	createHourly(t, router, "emp-2")
	p1 := createPeriod(t, router, "emp-1", "2024-01-08", "2024-01-21")
	p2 := createPeriod(t, router, "emp-2", "2024-01-08", "2024-01-14")

	rec := do(t, router, http.MethodPost, "/api/periods/recalculate", map[string]any{
		"jobs": []map[string]any{
			{"period_id": p1.ID, "weeks": []map[string]any{{"week": 1, "input": fortyHours}, {"week": 2, "input": map[string]any{"hours_worked": 20}}}},
			{"period_id": p2.ID, "weeks": []map[string]any{{"week": 1, "input": fortyHours}}},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[[]PeriodDTO](t, rec)
	require.Len(t, got, 2)
	assert.Equal(t, "1500.00", got[0].Totals.CalculatedPay)
	assert.Equal(t, 2, got[0].Totals.CompleteWeeks)

	stored := decodeBody[PeriodDTO](t, do(t, router, http.MethodGet, "/api/periods/"+p2.ID, nil))
	assert.Equal(t, "1000.00", stored.Weeks[0].CalculatedPay)
}

func TestRecalculateBatch_SamePeriodInTwoJobs(t *testing.T) {
	// GIVEN: one period named by two jobs, week 1 in the first, week 2 in the second
	// WHEN: the batch runs
	// THEN: both weeks are recalculated and stored, and the period is returned once
	_, router := newTestRouter(t)
	createHourly(t, router, "emp-1")
	p := createPeriod(t, router, "emp-1", "2024-01-08", "2024-01-21")

	rec := do(t, router, http.MethodPost, "/api/periods/recalculate", map[string]any{
		"jobs": []map[string]any{
			{"period_id": p.ID, "weeks": []map[string]any{{"week": 1, "input": fortyHours}}},
			{"period_id": p.ID, "weeks": []map[string]any{{"week": 2, "input": fortyHours}}},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeBody[[]PeriodDTO](t, rec), 1)

	stored := decodeBody[PeriodDTO](t, do(t, router, http.MethodGet, "/api/periods/"+p.ID, nil))
	for _, wk := range stored.Weeks {
		assert.Equal(t, "1000.00", wk.CalculatedPay, "week %d", wk.WeekNumber)
		assert.Equal(t, "complete", wk.Status, "week %d", wk.WeekNumber)
	}
	assert.Equal(t, "2000.00", stored.Totals.CalculatedPay)
}

func TestRecalculateBatch_SameWeekTwiceIsRejected(t *testing.T) {
	_, router := newTestRouter(t)
	createHourly(t, router, "emp-1")
	p := createPeriod(t, router, "emp-1", "2024-01-08", "2024-01-14")

	rec := do(t, router, http.MethodPost, "/api/periods/recalculate", map[string]any{
		"jobs": []map[string]any{
			{"period_id": p.ID, "weeks": []map[string]any{{"week": 1, "input": fortyHours}}},
			{"period_id": p.ID, "weeks": []map[string]any{{"week": 1, "input": map[string]any{"hours_worked": 10}}}},
		},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	stored := decodeBody[PeriodDTO](t, do(t, router, http.MethodGet, "/api/periods/"+p.ID, nil))
	assert.Equal(t, "calculated", stored.Weeks[0].Status)
}

func TestRecalculateBatch_Errors(t *testing.T) {
	_, router := newTestRouter(t)
	createHourly(t, router, "emp-1")
	p := createPeriod(t, router, "emp-1", "2024-01-08", "2024-01-14")

	t.Run("empty jobs", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/periods/recalculate", map[string]any{"jobs": []any{}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid input fails the batch", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/periods/recalculate", map[string]any{
			"jobs": []map[string]any{{"period_id": p.ID, "weeks": []map[string]any{{"week": 1, "input": map[string]any{"hours_worked": -3}}}}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

		stored := decodeBody[PeriodDTO](t, do(t, router, http.MethodGet, "/api/periods/"+p.ID, nil))
		assert.Equal(t, "calculated", stored.Weeks[0].Status)
	})
}

// =============================================================================
// SCHEDULE AND SCENARIOS
// =============================================================================

func TestGetSchedule(t *testing.T) {
	_, router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/schedule", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[ScheduleDTO](t, rec)
	assert.Equal(t, factory.ScheduleFlat, got.Schedule.Type)
	assert.Equal(t, "0.03", got.Schedule.EmployeeRate.String())
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		id       string
		periodID string
		check    func(t *testing.T, p PeriodDTO)
	}{
		{id: "hourly-worker", periodID: "period-hourly", check: func(t *testing.T, p PeriodDTO) {
			assert.Equal(t, "1000.00", p.Weeks[0].CalculatedPay)
			assert.Equal(t, "970.00", p.Weeks[0].NetPay)
		}},
		{id: "monthly-salary", periodID: "period-monthly", check: func(t *testing.T, p PeriodDTO) {
			assert.Equal(t, "166.67", p.Weeks[0].DailyRate8Hr)
		}},
		{id: "shift-worker", periodID: "period-shift", check: func(t *testing.T, p PeriodDTO) {
			assert.Equal(t, "1250.00", p.Weeks[0].CalculatedPay)
		}},
		{id: "mid-week-period", periodID: "period-mid-week", check: func(t *testing.T, p PeriodDTO) {
			require.Len(t, p.Weeks, 2)
			assert.Equal(t, "2024-01-08", p.Weeks[0].WeekStart)
			assert.Equal(t, "2024-01-21", p.Weeks[1].WeekEnd)
		}},
		{id: "heavy-deductions", periodID: "period-deductions", check: func(t *testing.T, p PeriodDTO) {
			assert.Equal(t, "-530.00", p.Weeks[0].NetPay)
		}},
	}

	h, router := newTestRouter(t)
	require.Len(t, decodeBody[[]ScenarioDTO](t, do(t, router, http.MethodGet, "/api/scenarios", nil)), len(tests))

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/scenarios/load", map[string]any{"scenario_id": tt.id})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.id, h.currentScenario)

			employees := decodeBody[[]EmployeeDTO](t, do(t, router, http.MethodGet, "/api/employees", nil))
			assert.Len(t, employees, 1)

			rec = do(t, router, http.MethodGet, "/api/periods/"+tt.periodID, nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			tt.check(t, decodeBody[PeriodDTO](t, rec))
		})
	}
}

func TestScenarios_UnknownAndReset(t *testing.T) {
	_, router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/scenarios/load", map[string]any{"scenario_id": "payday-loans"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	do(t, router, http.MethodPost, "/api/scenarios/load", map[string]any{"scenario_id": "hourly-worker"})
	current := decodeBody[ScenarioDTO](t, do(t, router, http.MethodGet, "/api/scenarios/current", nil))
	assert.Equal(t, "hourly-worker", current.ID)

	rec = do(t, router, http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]EmployeeDTO](t, do(t, router, http.MethodGet, "/api/employees", nil)))
	assert.Equal(t, "null\n", do(t, router, http.MethodGet, "/api/scenarios/current", nil).Body.String())
}
