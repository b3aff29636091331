package kernel

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// DateLayout is the calendar date format accepted by ParseDate.
const DateLayout = "2006-01-02"

// ErrDateWindowIsNotConstructed is returned when a zero DateWindow is used.
var ErrDateWindowIsNotConstructed = errors.New("DateWindow must be created via NewDateWindow constructor")

// DateWindow is an inclusive range [StartOfDay(date), EndOfDay(endDate)] in a fixed location.
// When no end date is given the window covers the single day of date.
//
// Example:
//
//	day, _ := kernel.ParseDate("2024-01-05", time.UTC)
//	window, err := kernel.NewDateWindow(day, nil, time.UTC)
//	// window.From() == 2024-01-05T00:00:00Z
//	// window.To()   == 2024-01-05T23:59:59.999999999Z
type DateWindow struct {
	from  time.Time
	to    time.Time
	guard guard.ConstructorGuard
}

// NewDateWindow builds a window from date (required) and an optional endDate.
// endDate earlier than date is rejected.
func NewDateWindow(date time.Time, endDate *time.Time, loc *time.Location) (DateWindow, error) {
	if date.IsZero() {
		return DateWindow{}, errs.NewValueIsRequiredError("date")
	}
	if loc == nil {
		loc = time.UTC
	}

	from := StartOfDay(date, loc)
	to := EndOfDay(date, loc)
	if endDate != nil && !endDate.IsZero() {
		to = EndOfDay(*endDate, loc)
		if to.Before(from) {
			return DateWindow{}, errs.NewValueIsInvalidErrorWithCause(
				"endDate",
				fmt.Errorf("%s is before %s", endDate.Format(DateLayout), date.Format(DateLayout)),
			)
		}
	}

	return DateWindow{from: from, to: to, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the window was created through NewDateWindow.
func (w DateWindow) Validate() error {
	return w.guard.Validate(ErrDateWindowIsNotConstructed)
}

// From returns the first instant of the window.
func (w DateWindow) From() time.Time {
	return w.from
}

// To returns the last instant of the window.
func (w DateWindow) To() time.Time {
	return w.to
}

// Contains reports whether t falls inside the window, bounds included.
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.from) && !t.After(w.to)
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns the last nanosecond of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ParseDate parses a DateLayout string as a calendar day in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, errs.NewValueIsRequiredError("date")
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause("date", err)
	}
	return t, nil
}
