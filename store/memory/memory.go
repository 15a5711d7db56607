// Package memory provides an in-memory store.Store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/period"
	"github.com/warp/payroll-engine/store"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/demo)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	employees map[payroll.EmployeeID]payroll.Employee
	periods   map[string]period.PayPeriod
}

var _ store.Store = (*Memory)(nil)

func New() *Memory {
	return &Memory{
		employees: make(map[payroll.EmployeeID]payroll.Employee),
		periods:   make(map[string]period.PayPeriod),
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) SaveEmployee(_ context.Context, emp payroll.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.employees[emp.ID] = cloneEmployee(emp)
	return nil
}

func (m *Memory) GetEmployee(_ context.Context, id payroll.EmployeeID) (payroll.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	emp, ok := m.employees[id]
	if !ok {
		return payroll.Employee{}, fmt.Errorf("employee %s: %w", id, store.ErrNotFound)
	}
	return cloneEmployee(emp), nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]payroll.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]payroll.Employee, 0, len(m.employees))
	for _, emp := range m.employees {
		result = append(result, cloneEmployee(emp))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// DeleteEmployee removes the employee and its periods.
func (m *Memory) DeleteEmployee(_ context.Context, id payroll.EmployeeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.employees, id)
	for pid, p := range m.periods {
		if p.EmployeeID == id {
			delete(m.periods, pid)
		}
	}
	return nil
}

// =============================================================================
// PERIODS
// =============================================================================

func (m *Memory) SavePeriod(ctx context.Context, p period.PayPeriod) error {
	return m.SavePeriods(ctx, []period.PayPeriod{p})
}

// SavePeriods checks every period before storing any of them.
func (m *Memory) SavePeriods(_ context.Context, periods []period.PayPeriod) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range periods {
		if p.ID == "" {
			return fmt.Errorf("save period: empty id")
		}
		if _, ok := m.employees[p.EmployeeID]; !ok {
			return fmt.Errorf("period %s: employee %s: %w", p.ID, p.EmployeeID, store.ErrNotFound)
		}
	}
	for _, p := range periods {
		m.periods[p.ID] = p.Clone()
	}
	return nil
}

func (m *Memory) GetPeriod(_ context.Context, id string) (period.PayPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.periods[id]
	if !ok {
		return period.PayPeriod{}, fmt.Errorf("period %s: %w", id, store.ErrNotFound)
	}
	return p.Clone(), nil
}

func (m *Memory) ListPeriods(_ context.Context, employeeID payroll.EmployeeID) ([]period.PayPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []period.PayPeriod
	for _, p := range m.periods {
		if employeeID == "" || p.EmployeeID == employeeID {
			result = append(result, p.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.Before(result[j].StartDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) DeletePeriod(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.periods, id)
	return nil
}

// Reset clears all data.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.employees = make(map[payroll.EmployeeID]payroll.Employee)
	m.periods = make(map[string]period.PayPeriod)
	return nil
}

func cloneEmployee(emp payroll.Employee) payroll.Employee {
	emp.Shifts = emp.Shifts.Clone()
	return emp
}
