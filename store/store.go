/*
Package store defines persistence for employees and pay periods.

PURPOSE:
  The engine packages (payroll, period) never touch storage. The API
  loads an employee and a period, runs a pure engine operation, and
  saves the returned period back through these interfaces.

IMPLEMENTATIONS:
  store/memory: maps behind a mutex (tests, demo mode)
  store/sqlite: SQLite tables employees, pay_periods, weekly_records

CONTRACT:
  - Get* returns ErrNotFound (wrapped) for unknown IDs
  - Save* is an upsert keyed by ID
  - Saving a period replaces all of its weekly records
  - Saving a period whose employee does not exist fails with ErrNotFound
  - SavePeriods saves all periods or none
  - Deleting an employee deletes its periods
  - Values are copied on the way in and out; callers never share slices
    with the store
*/
package store

import (
	"context"
	"errors"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/period"
)

// ErrNotFound is returned when an employee or period does not exist.
var ErrNotFound = errors.New("not found")

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// EmployeeStore persists employees with their shift lists.
type EmployeeStore interface {
	SaveEmployee(ctx context.Context, emp payroll.Employee) error
	GetEmployee(ctx context.Context, id payroll.EmployeeID) (payroll.Employee, error)
	// ListEmployees returns employees ordered by name.
	ListEmployees(ctx context.Context) ([]payroll.Employee, error)
	DeleteEmployee(ctx context.Context, id payroll.EmployeeID) error
}

// PeriodStore persists pay periods with their weekly records.
type PeriodStore interface {
	SavePeriod(ctx context.Context, p period.PayPeriod) error
	// SavePeriods saves several periods atomically.
	SavePeriods(ctx context.Context, periods []period.PayPeriod) error
	GetPeriod(ctx context.Context, id string) (period.PayPeriod, error)
	// ListPeriods returns the employee's periods ordered by start date.
	// An empty employeeID lists every period.
	ListPeriods(ctx context.Context, employeeID payroll.EmployeeID) ([]period.PayPeriod, error)
	DeletePeriod(ctx context.Context, id string) error
}

// Store is everything the API needs.
type Store interface {
	EmployeeStore
	PeriodStore

	// Reset clears all data (demo scenarios, tests).
	Reset(ctx context.Context) error
}
