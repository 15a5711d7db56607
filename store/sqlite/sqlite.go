/*
Package sqlite provides a SQLite-backed implementation of store.Store.

PURPOSE:
  Persists employees and pay periods between requests. The same schema
  ports to PostgreSQL with minor dialect changes.

KEY TABLES:
  employees:      one row per employee; shift list as JSON
  pay_periods:    period header (employee, requested range)
  weekly_records: one row per week, keyed by (period_id, week_number)

DECIMALS:
  Money, rates and days are stored as TEXT in decimal.String() form and
  parsed back with decimal.NewFromString, so no value passes through a
  float. Dates are stored as YYYY-MM-DD.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SavePeriods writes every period,
  header and weekly records, inside one SQL transaction and first checks
  that each period's employee exists.

WAL MODE:
  File databases are opened with WAL. ":memory:" is pinned to a single
  connection, since every new connection would open an empty database.

USAGE:
  s, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer s.Close()

SEE ALSO:
  - store/store.go: Interface definitions
  - store/memory: In-memory implementation for tests and demo mode
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/period"
	"github.com/warp/payroll-engine/store"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ store.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_foreign_keys=on"
	if dbPath != ":memory:" {
		dsn += "&_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		employment_type TEXT NOT NULL,
		hourly_rate TEXT,
		daily_rate TEXT,
		weekly_rate TEXT,
		monthly_salary TEXT,
		shifts_json TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_name
		ON employees(name);

	CREATE TABLE IF NOT EXISTS pay_periods (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Listing an employee's periods in date order
	CREATE INDEX IF NOT EXISTS idx_pay_periods_employee_start
		ON pay_periods(employee_id, start_date);

	CREATE TABLE IF NOT EXISTS weekly_records (
		period_id TEXT NOT NULL REFERENCES pay_periods(id) ON DELETE CASCADE,
		week_number INTEGER NOT NULL,
		week_start TEXT NOT NULL,
		week_end TEXT NOT NULL,
		pay_day TEXT NOT NULL,
		daily_rate_8hr TEXT NOT NULL,
		recorded_days_worked TEXT NOT NULL,
		calculated_pay TEXT NOT NULL,
		recorded_pay TEXT NOT NULL,
		pay_overridden INTEGER NOT NULL DEFAULT 0,
		nis_employee TEXT NOT NULL,
		nis_employer TEXT NOT NULL,
		net_pay TEXT NOT NULL,
		status TEXT NOT NULL,
		PRIMARY KEY (period_id, week_number)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

// SaveEmployee inserts or updates an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shifts := make([]factory.ShiftJSON, 0, len(emp.Shifts))
	for _, sh := range emp.Shifts {
		shifts = append(shifts, factory.ShiftToJSON(sh))
	}
	shiftsJSON, err := json.Marshal(shifts)
	if err != nil {
		return fmt.Errorf("encode shifts: %w", err)
	}

	query := `
		INSERT INTO employees
		(id, name, employment_type, hourly_rate, daily_rate, weekly_rate, monthly_salary,
		 shifts_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			employment_type = excluded.employment_type,
			hourly_rate = excluded.hourly_rate,
			daily_rate = excluded.daily_rate,
			weekly_rate = excluded.weekly_rate,
			monthly_salary = excluded.monthly_salary,
			shifts_json = excluded.shifts_json,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, query,
		emp.ID, emp.Name, string(emp.Type),
		nullDecimal(emp.HourlyRate),
		nullDecimal(emp.DailyRate),
		nullDecimal(emp.WeeklyRate),
		nullDecimal(emp.MonthlySalary),
		string(shiftsJSON),
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save employee %s: %w", emp.ID, err)
	}
	return nil
}

const employeeColumns = `id, name, employment_type, hourly_rate, daily_rate, weekly_rate, monthly_salary, shifts_json`

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id payroll.EmployeeID) (payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = ?", id)
	emp, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return payroll.Employee{}, fmt.Errorf("employee %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return payroll.Employee{}, err
	}
	return emp, nil
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+employeeColumns+" FROM employees ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []payroll.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes an employee; its periods cascade.
func (s *Store) DeleteEmployee(ctx context.Context, id payroll.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (payroll.Employee, error) {
	var (
		emp                            payroll.Employee
		typ, shiftsJSON                string
		hourly, daily, weekly, monthly sql.NullString
	)
	if err := row.Scan(&emp.ID, &emp.Name, &typ, &hourly, &daily, &weekly, &monthly, &shiftsJSON); err != nil {
		return payroll.Employee{}, err
	}

	emp.Type = payroll.EmploymentType(typ)
	var err error
	if emp.HourlyRate, err = parseNullDecimal(hourly); err != nil {
		return payroll.Employee{}, err
	}
	if emp.DailyRate, err = parseNullDecimal(daily); err != nil {
		return payroll.Employee{}, err
	}
	if emp.WeeklyRate, err = parseNullDecimal(weekly); err != nil {
		return payroll.Employee{}, err
	}
	if emp.MonthlySalary, err = parseNullDecimal(monthly); err != nil {
		return payroll.Employee{}, err
	}

	var shifts []factory.ShiftJSON
	if err := json.Unmarshal([]byte(shiftsJSON), &shifts); err != nil {
		return payroll.Employee{}, fmt.Errorf("decode shifts of %s: %w", emp.ID, err)
	}
	for _, sj := range shifts {
		emp.Shifts = append(emp.Shifts, factory.ShiftFromJSON(sj))
	}
	return emp, nil
}

// =============================================================================
// PERIOD STORE
// =============================================================================

// SavePeriod upserts the period header and replaces its weekly records
// atomically.
func (s *Store) SavePeriod(ctx context.Context, p period.PayPeriod) error {
	return s.SavePeriods(ctx, []period.PayPeriod{p})
}

// SavePeriods saves every period in one transaction; on error none is saved.
func (s *Store) SavePeriods(ctx context.Context, periods []period.PayPeriod) error {
	for _, p := range periods {
		if p.ID == "" {
			return fmt.Errorf("save period: empty id")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, p := range periods {
		if err := savePeriodTx(ctx, sqlTx, p); err != nil {
			return err
		}
	}
	return sqlTx.Commit()
}

func savePeriodTx(ctx context.Context, sqlTx *sql.Tx, p period.PayPeriod) error {
	var one int
	err := sqlTx.QueryRowContext(ctx, "SELECT 1 FROM employees WHERE id = ?", p.EmployeeID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("period %s: employee %s: %w", p.ID, p.EmployeeID, store.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check employee %s: %w", p.EmployeeID, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = sqlTx.ExecContext(ctx, `
		INSERT INTO pay_periods (id, employee_id, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			employee_id = excluded.employee_id,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			updated_at = excluded.updated_at
	`, p.ID, p.EmployeeID, p.StartDate.String(), p.EndDate.String(), now, now)
	if err != nil {
		return fmt.Errorf("failed to save period %s: %w", p.ID, err)
	}

	if _, err := sqlTx.ExecContext(ctx, "DELETE FROM weekly_records WHERE period_id = ?", p.ID); err != nil {
		return fmt.Errorf("failed to clear weeks of %s: %w", p.ID, err)
	}

	insert := `
		INSERT INTO weekly_records
		(period_id, week_number, week_start, week_end, pay_day, daily_rate_8hr,
		 recorded_days_worked, calculated_pay, recorded_pay, pay_overridden,
		 nis_employee, nis_employer, net_pay, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, w := range p.Weeks {
		_, err := sqlTx.ExecContext(ctx, insert,
			p.ID, w.WeekNumber,
			w.WeekStart.String(), w.WeekEnd.String(), w.PayDay.String(),
			w.DailyRate8Hr.String(),
			w.RecordedDaysWorked.String(),
			w.CalculatedPay.String(),
			w.RecordedPay.String(),
			w.PayOverridden,
			w.NISEmployee.String(),
			w.NISEmployer.String(),
			w.NetPay.String(),
			string(w.Status),
		)
		if err != nil {
			return fmt.Errorf("failed to save week %d of %s: %w", w.WeekNumber, p.ID, err)
		}
	}

	return nil
}

// GetPeriod retrieves a period with its weeks.
func (s *Store) GetPeriod(ctx context.Context, id string) (period.PayPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p period.PayPeriod
	var start, end string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, employee_id, start_date, end_date FROM pay_periods WHERE id = ?",
		id,
	).Scan(&p.ID, &p.EmployeeID, &start, &end)
	if errors.Is(err, sql.ErrNoRows) {
		return period.PayPeriod{}, fmt.Errorf("period %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return period.PayPeriod{}, err
	}

	if p.StartDate, err = period.ParseDate(start); err != nil {
		return period.PayPeriod{}, err
	}
	if p.EndDate, err = period.ParseDate(end); err != nil {
		return period.PayPeriod{}, err
	}
	if p.Weeks, err = s.loadWeeks(ctx, p.ID); err != nil {
		return period.PayPeriod{}, err
	}
	return p, nil
}

// ListPeriods returns the employee's periods (all when employeeID is empty)
// ordered by start date.
func (s *Store) ListPeriods(ctx context.Context, employeeID payroll.EmployeeID) ([]period.PayPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, employee_id, start_date, end_date FROM pay_periods"
	var args []any
	if employeeID != "" {
		query += " WHERE employee_id = ?"
		args = append(args, employeeID)
	}
	query += " ORDER BY start_date, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var periods []period.PayPeriod
	for rows.Next() {
		var p period.PayPeriod
		var start, end string
		if err := rows.Scan(&p.ID, &p.EmployeeID, &start, &end); err != nil {
			rows.Close()
			return nil, err
		}
		if p.StartDate, err = period.ParseDate(start); err != nil {
			rows.Close()
			return nil, err
		}
		if p.EndDate, err = period.ParseDate(end); err != nil {
			rows.Close()
			return nil, err
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range periods {
		if periods[i].Weeks, err = s.loadWeeks(ctx, periods[i].ID); err != nil {
			return nil, err
		}
	}
	return periods, nil
}

// DeletePeriod removes a period; its weeks cascade.
func (s *Store) DeletePeriod(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM pay_periods WHERE id = ?", id)
	return err
}

func (s *Store) loadWeeks(ctx context.Context, periodID string) ([]period.WeeklyRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT week_number, week_start, week_end, pay_day, daily_rate_8hr,
		       recorded_days_worked, calculated_pay, recorded_pay, pay_overridden,
		       nis_employee, nis_employer, net_pay, status
		FROM weekly_records
		WHERE period_id = ?
		ORDER BY week_number
	`, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weeks := []period.WeeklyRecord{}
	for rows.Next() {
		var (
			w                                                   period.WeeklyRecord
			start, end, payDay, status                          string
			rate, days, calculated, recorded, nisEe, nisEr, net string
		)
		if err := rows.Scan(&w.WeekNumber, &start, &end, &payDay, &rate,
			&days, &calculated, &recorded, &w.PayOverridden,
			&nisEe, &nisEr, &net, &status); err != nil {
			return nil, err
		}

		dates := []struct {
			dst *period.Date
			src string
		}{{&w.WeekStart, start}, {&w.WeekEnd, end}, {&w.PayDay, payDay}}
		for _, d := range dates {
			if *d.dst, err = period.ParseDate(d.src); err != nil {
				return nil, fmt.Errorf("week %d of %s: %w", w.WeekNumber, periodID, err)
			}
		}

		amounts := []struct {
			dst *decimal.Decimal
			src string
		}{
			{&w.DailyRate8Hr, rate},
			{&w.RecordedDaysWorked, days},
			{&w.CalculatedPay, calculated},
			{&w.RecordedPay, recorded},
			{&w.NISEmployee, nisEe},
			{&w.NISEmployer, nisEr},
			{&w.NetPay, net},
		}
		for _, a := range amounts {
			if *a.dst, err = decimal.NewFromString(a.src); err != nil {
				return nil, fmt.Errorf("week %d of %s: %w", w.WeekNumber, periodID, err)
			}
		}

		w.Status = period.Status(status)
		weeks = append(weeks, w)
	}
	return weeks, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"weekly_records", "pay_periods", "employees"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseNullDecimal(ns sql.NullString) (*decimal.Decimal, error) {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil, fmt.Errorf("invalid decimal %q: %w", ns.String, err)
	}
	return &d, nil
}
