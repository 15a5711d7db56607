/*
Package factory converts regime and employee definitions into engine types.

PURPOSE:
  Converts JSON or YAML regime files into a payroll.ContributionSchedule and
  payroll.WagePolicy, and employee JSON into payroll.Employee. Statutory
  rates change without code changes: the host loads a regime file at
  startup and injects the result into the calculator.

REGIME SCHEMA (JSON shown; YAML uses the same keys):
  {
    "id": "nis-2024",
    "name": "NIS 2024",
    "schedule": {
      "type": "flat",
      "employee_rate": "0.056",
      "employer_rate": "0.084",
      "insurable_ceiling": "64615"
    },
    "policy": {
      "standard_week_hours": 40,
      "working_days_per_week": 6
    }
  }

  A banded schedule replaces the rates with a table:
    "schedule": {
      "type": "banded",
      "bands": [
        {"up_to": "1000", "employee_rate": "0.03", "employer_rate": "0.05"},
        {"employee_rate": "0.05", "employer_rate": "0.08"}
      ]
    }

  Missing policy fields fall back to payroll.DefaultWagePolicy.

USAGE:
  f := factory.NewRegimeFactory()
  regime, err := f.LoadFile("regime.yaml")
  calc := payroll.NewCalculator(regime.Schedule, regime.Policy)

SEE ALSO:
  - payroll/contribution.go: FlatSchedule, BandedSchedule
  - payroll/policy.go: WagePolicy
  - employee.go: Employee JSON conversion
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// SCHEMA TYPES
// =============================================================================

// Schedule types.
const (
	ScheduleFlat   = "flat"
	ScheduleBanded = "banded"
)

// RegimeJSON is the file representation of a statutory regime.
type RegimeJSON struct {
	ID       string       `json:"id" yaml:"id"`
	Name     string       `json:"name" yaml:"name"`
	Schedule ScheduleJSON `json:"schedule" yaml:"schedule"`
	Policy   *PolicyJSON  `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// ScheduleJSON describes either a flat or a banded contribution schedule.
type ScheduleJSON struct {
	Type             string           `json:"type" yaml:"type"`
	EmployeeRate     decimal.Decimal  `json:"employee_rate" yaml:"employee_rate"`
	EmployerRate     decimal.Decimal  `json:"employer_rate" yaml:"employer_rate"`
	InsurableCeiling *decimal.Decimal `json:"insurable_ceiling,omitempty" yaml:"insurable_ceiling,omitempty"`
	Bands            []BandJSON       `json:"bands,omitempty" yaml:"bands,omitempty"`
}

// BandJSON is one row of a banded schedule; UpTo nil is open-ended.
type BandJSON struct {
	UpTo         *decimal.Decimal `json:"up_to,omitempty" yaml:"up_to,omitempty"`
	EmployeeRate decimal.Decimal  `json:"employee_rate" yaml:"employee_rate"`
	EmployerRate decimal.Decimal  `json:"employer_rate" yaml:"employer_rate"`
}

// PolicyJSON overrides the wage conversion constants.
type PolicyJSON struct {
	StandardWeekHours  decimal.Decimal `json:"standard_week_hours,omitempty" yaml:"standard_week_hours,omitempty"`
	WorkingDaysPerWeek decimal.Decimal `json:"working_days_per_week,omitempty" yaml:"working_days_per_week,omitempty"`
	MonthsPerYear      decimal.Decimal `json:"months_per_year,omitempty" yaml:"months_per_year,omitempty"`
	WeeksPerYear       decimal.Decimal `json:"weeks_per_year,omitempty" yaml:"weeks_per_year,omitempty"`
	HoursPerDay        decimal.Decimal `json:"hours_per_day,omitempty" yaml:"hours_per_day,omitempty"`
	DaysPerMonth       decimal.Decimal `json:"days_per_month,omitempty" yaml:"days_per_month,omitempty"`
}

// Regime is a parsed regime ready for injection into a payroll.Calculator.
type Regime struct {
	ID       string
	Name     string
	Schedule payroll.ContributionSchedule
	Policy   payroll.WagePolicy
}

// =============================================================================
// REGIME FACTORY
// =============================================================================

// RegimeFactory converts regime files to engine types.
type RegimeFactory struct{}

// NewRegimeFactory creates a new regime factory.
func NewRegimeFactory() *RegimeFactory {
	return &RegimeFactory{}
}

// ParseJSON parses a JSON regime document.
func (f *RegimeFactory) ParseJSON(data []byte) (Regime, error) {
	var rj RegimeJSON
	if err := json.Unmarshal(data, &rj); err != nil {
		return Regime{}, fmt.Errorf("failed to parse regime JSON: %w", err)
	}
	return f.FromJSON(rj)
}

// ParseYAML parses a YAML regime document.
func (f *RegimeFactory) ParseYAML(data []byte) (Regime, error) {
	var rj RegimeJSON
	if err := yaml.Unmarshal(data, &rj); err != nil {
		return Regime{}, fmt.Errorf("failed to parse regime YAML: %w", err)
	}
	return f.FromJSON(rj)
}

// LoadFile reads a regime file, choosing the decoder by extension
// (.yaml/.yml, otherwise JSON).
func (f *RegimeFactory) LoadFile(path string) (Regime, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Regime{}, fmt.Errorf("read regime %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return f.ParseYAML(data)
	default:
		return f.ParseJSON(data)
	}
}

// FromJSON validates rj and converts it to a Regime.
func (f *RegimeFactory) FromJSON(rj RegimeJSON) (Regime, error) {
	schedule, err := parseSchedule(rj.Schedule)
	if err != nil {
		return Regime{}, fmt.Errorf("regime %q: %w", rj.ID, err)
	}

	policy := payroll.DefaultWagePolicy()
	if rj.Policy != nil {
		policy = payroll.WagePolicy{
			StandardWeekHours:  rj.Policy.StandardWeekHours,
			WorkingDaysPerWeek: rj.Policy.WorkingDaysPerWeek,
			MonthsPerYear:      rj.Policy.MonthsPerYear,
			WeeksPerYear:       rj.Policy.WeeksPerYear,
			HoursPerDay:        rj.Policy.HoursPerDay,
			DaysPerMonth:       rj.Policy.DaysPerMonth,
		}.WithDefaults()
	}

	return Regime{
		ID:       rj.ID,
		Name:     rj.Name,
		Schedule: schedule,
		Policy:   policy,
	}, nil
}

// ToJSON converts a Regime back to its file representation. Schedules other
// than FlatSchedule and BandedSchedule are reported by type only.
func (f *RegimeFactory) ToJSON(r Regime) RegimeJSON {
	rj := RegimeJSON{
		ID:   r.ID,
		Name: r.Name,
		Policy: &PolicyJSON{
			StandardWeekHours:  r.Policy.StandardWeekHours,
			WorkingDaysPerWeek: r.Policy.WorkingDaysPerWeek,
			MonthsPerYear:      r.Policy.MonthsPerYear,
			WeeksPerYear:       r.Policy.WeeksPerYear,
			HoursPerDay:        r.Policy.HoursPerDay,
			DaysPerMonth:       r.Policy.DaysPerMonth,
		},
	}

	switch s := r.Schedule.(type) {
	case payroll.FlatSchedule:
		rj.Schedule = ScheduleJSON{
			Type:             ScheduleFlat,
			EmployeeRate:     s.EmployeeRate,
			EmployerRate:     s.EmployerRate,
			InsurableCeiling: s.InsurableCeiling,
		}
	case payroll.BandedSchedule:
		rj.Schedule = ScheduleJSON{Type: ScheduleBanded}
		for _, b := range s.Bands {
			rj.Schedule.Bands = append(rj.Schedule.Bands, BandJSON{
				UpTo:         b.UpTo,
				EmployeeRate: b.EmployeeRate,
				EmployerRate: b.EmployerRate,
			})
		}
	default:
		rj.Schedule = ScheduleJSON{Type: fmt.Sprintf("%T", s)}
	}
	return rj
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseSchedule(sj ScheduleJSON) (payroll.ContributionSchedule, error) {
	switch strings.ToLower(sj.Type) {
	case "", ScheduleFlat:
		if err := checkRates(sj.EmployeeRate, sj.EmployerRate); err != nil {
			return nil, err
		}
		if sj.InsurableCeiling != nil && !sj.InsurableCeiling.IsPositive() {
			return nil, fmt.Errorf("insurable_ceiling must be positive")
		}
		return payroll.FlatSchedule{
			EmployeeRate:     sj.EmployeeRate,
			EmployerRate:     sj.EmployerRate,
			InsurableCeiling: sj.InsurableCeiling,
		}, nil

	case ScheduleBanded:
		return parseBands(sj.Bands)

	default:
		return nil, fmt.Errorf("unknown schedule type: %s", sj.Type)
	}
}

func parseBands(bands []BandJSON) (payroll.BandedSchedule, error) {
	if len(bands) == 0 {
		return payroll.BandedSchedule{}, fmt.Errorf("banded schedule requires at least one band")
	}

	var out payroll.BandedSchedule
	var prev *decimal.Decimal
	for i, b := range bands {
		if err := checkRates(b.EmployeeRate, b.EmployerRate); err != nil {
			return payroll.BandedSchedule{}, fmt.Errorf("band %d: %w", i+1, err)
		}
		if b.UpTo == nil && i != len(bands)-1 {
			return payroll.BandedSchedule{}, fmt.Errorf("band %d: only the last band may be open-ended", i+1)
		}
		if b.UpTo != nil && prev != nil && !b.UpTo.GreaterThan(*prev) {
			return payroll.BandedSchedule{}, fmt.Errorf("band %d: up_to must be ascending", i+1)
		}
		prev = b.UpTo
		out.Bands = append(out.Bands, payroll.Band{
			UpTo:         b.UpTo,
			EmployeeRate: b.EmployeeRate,
			EmployerRate: b.EmployerRate,
		})
	}
	return out, nil
}

func checkRates(employee, employer decimal.Decimal) error {
	if employee.IsNegative() || employer.IsNegative() {
		return fmt.Errorf("contribution rates must not be negative")
	}
	if employee.GreaterThan(decimal.NewFromInt(1)) || employer.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("contribution rates are fractions and must not exceed 1")
	}
	return nil
}

// =============================================================================
// DEFAULT REGIME
// =============================================================================

// DefaultRegimeJSON is the built-in regime used when no file is configured:
// a flat 3% employee and 6.25% employer schedule with the default policy.
func DefaultRegimeJSON() RegimeJSON {
	return RegimeJSON{
		ID:   "default",
		Name: "Default flat NIS",
		Schedule: ScheduleJSON{
			Type:         ScheduleFlat,
			EmployeeRate: decimal.RequireFromString("0.03"),
			EmployerRate: decimal.RequireFromString("0.0625"),
		},
	}
}

// DefaultRegime is DefaultRegimeJSON converted.
func DefaultRegime() Regime {
	r, err := NewRegimeFactory().FromJSON(DefaultRegimeJSON())
	if err != nil {
		panic(err)
	}
	return r
}
