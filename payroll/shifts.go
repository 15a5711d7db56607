package payroll

import (
	"fmt"
	"strings"
)

// =============================================================================
// SHIFT LIST - Indexed list that owns the default-shift invariant
// =============================================================================

// ShiftList is the ordered shift configuration of one employee.
//
// Invariant: when the list is non-empty exactly one entry has IsDefault.
// Every mutating method below re-establishes it before returning, so callers
// never do their own bookkeeping.
type ShiftList []ShiftConfig

// Add appends cfg. The first shift added always becomes the default; a later
// shift added with IsDefault takes the default over.
func (l *ShiftList) Add(cfg ShiftConfig) {
	makeDefault := cfg.IsDefault || len(*l) == 0
	cfg.IsDefault = false
	*l = append(*l, cfg)
	if makeDefault {
		l.setDefault(len(*l) - 1)
	}
}

// Remove deletes the shift at index. If it was the default, the first
// remaining shift is promoted.
func (l *ShiftList) Remove(index int) error {
	if index < 0 || index >= len(*l) {
		return fmt.Errorf("%w: %d of %d", ErrShiftIndexOutOfRange, index, len(*l))
	}
	wasDefault := (*l)[index].IsDefault
	*l = append((*l)[:index:index], (*l)[index+1:]...)
	if wasDefault && len(*l) > 0 {
		l.setDefault(0)
	}
	return nil
}

// SetDefault marks index as the default and clears every other flag.
func (l *ShiftList) SetDefault(index int) error {
	if index < 0 || index >= len(*l) {
		return fmt.Errorf("%w: %d of %d", ErrShiftIndexOutOfRange, index, len(*l))
	}
	l.setDefault(index)
	return nil
}

func (l *ShiftList) setDefault(index int) {
	for i := range *l {
		(*l)[i].IsDefault = i == index
	}
}

// Default returns the default shift. It does not repair a list that breaks
// the invariant: zero defaults is a NoDefaultShiftError, several is
// ErrMultipleDefaultShifts.
func (l ShiftList) Default() (ShiftConfig, error) {
	found := -1
	for i, s := range l {
		if !s.IsDefault {
			continue
		}
		if found >= 0 {
			return ShiftConfig{}, fmt.Errorf("%w: %q and %q", ErrMultipleDefaultShifts, l[found].Name, s.Name)
		}
		found = i
	}
	if found < 0 {
		return ShiftConfig{}, &NoDefaultShiftError{ShiftCount: len(l)}
	}
	return l[found], nil
}

// DefaultCount is the number of entries flagged default.
func (l ShiftList) DefaultCount() int {
	n := 0
	for _, s := range l {
		if s.IsDefault {
			n++
		}
	}
	return n
}

// Find looks a shift up by name, case-insensitively.
func (l ShiftList) Find(name string) (ShiftConfig, bool) {
	for _, s := range l {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return ShiftConfig{}, false
}

// Clone returns an independent copy.
func (l ShiftList) Clone() ShiftList {
	if l == nil {
		return nil
	}
	out := make(ShiftList, len(l))
	copy(out, l)
	return out
}

// Validate checks the configuration-time rules for every shift. Rate validity
// is enforced here, not when a calculation runs.
func (l ShiftList) Validate() ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool, len(l))
	for i, s := range l {
		field := fmt.Sprintf("shifts[%d]", i)
		name := strings.ToLower(strings.TrimSpace(s.Name))
		if name == "" {
			errs = append(errs, ValidationError{Field: field + ".name", Reason: "is required"})
		} else if seen[name] {
			errs = append(errs, ValidationError{Field: field + ".name", Reason: fmt.Sprintf("duplicate shift name %q", s.Name)})
		}
		seen[name] = true
		if !s.BaseRate.IsPositive() {
			errs = append(errs, ValidationError{Field: field + ".base_rate", Reason: "must be greater than zero"})
		}
		if s.HourlyRate != nil && s.HourlyRate.IsNegative() {
			errs = append(errs, ValidationError{Field: field + ".hourly_rate", Reason: "must not be negative"})
		}
	}
	if len(l) > 0 && l.DefaultCount() != 1 {
		errs = append(errs, ValidationError{Field: "shifts", Reason: "exactly one shift must be the default"})
	}
	return errs
}
