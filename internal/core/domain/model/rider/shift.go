package rider

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	minShiftHour = 0
	maxShiftHour = 23
)

// ErrShiftIsNotConstructed is returned when a zero Shift is used.
var ErrShiftIsNotConstructed = errors.New("Shift must be created via NewShift constructor")

// Shift is a daily working window in local wall-clock hours.
//
// The window is [start, end). When start > end the window wraps past
// midnight (22 to 6 covers 22:00 through 05:59). When start == end the
// rider is always on shift.
type Shift struct {
	start int
	end   int
	guard guard.ConstructorGuard
}

// NewShift validates both hours against 0..23.
//
// Example:
//
//	night, _ := rider.NewShift(22, 6)
//	night.Contains(23) // true
//	night.Contains(12) // false
func NewShift(start, end int) (Shift, error) {
	var errList []error
	if start < minShiftHour || start > maxShiftHour {
		errList = append(errList, errs.NewValueIsOutOfRangeError("shiftStart", start, minShiftHour, maxShiftHour))
	}
	if end < minShiftHour || end > maxShiftHour {
		errList = append(errList, errs.NewValueIsOutOfRangeError("shiftEnd", end, minShiftHour, maxShiftHour))
	}
	if err := errors.Join(errList...); err != nil {
		return Shift{}, err
	}
	return Shift{start: start, end: end, guard: guard.NewConstructorGuard()}, nil
}

func (s Shift) Start() int { return s.start }
func (s Shift) End() int   { return s.end }

func (s Shift) Validate() error {
	return s.guard.Validate(ErrShiftIsNotConstructed)
}

// Contains reports whether hour falls inside the window.
func (s Shift) Contains(hour int) bool {
	switch {
	case s.start == s.end:
		return true
	case s.start < s.end:
		return hour >= s.start && hour < s.end
	default:
		return hour >= s.start || hour < s.end
	}
}

// ContainsTime checks the wall-clock hour of now in now's own location.
func (s Shift) ContainsTime(now time.Time) bool {
	return s.Contains(now.Hour())
}
