package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// BusinessHours is the open interval of a provider for one day of week.
// At most one entry exists per (provider, day of week); a missing entry means closed.
type BusinessHours struct {
	ID         int64
	ProviderID int64
	DayOfWeek  time.Weekday // 0 = Sunday ... 6 = Saturday
	IsOpen     bool
	OpenTime   types.TimeString // empty when closed
	CloseTime  types.TimeString // empty when closed
	UpdatedAt  time.Time
}

// Window returns the open window, or false for a closed day.
func (h *BusinessHours) Window() (TimeWindow, bool) {
	if h == nil || !h.IsOpen || h.OpenTime.IsZero() || h.CloseTime.IsZero() {
		return TimeWindow{}, false
	}
	return TimeWindow{Start: h.OpenTime, End: h.CloseTime}, true
}

// Validate checks start < end for open days.
func (h *BusinessHours) Validate() error {
	if h.DayOfWeek < time.Sunday || h.DayOfWeek > time.Saturday {
		return fmt.Errorf("%w: day of week must be 0..6, got %d", ErrValidation, h.DayOfWeek)
	}
	if !h.IsOpen {
		return nil
	}
	if _, err := NewTimeWindow(h.OpenTime, h.CloseTime); err != nil {
		return fmt.Errorf("business hours for day %d: %w", h.DayOfWeek, err)
	}
	return nil
}

// FindBusinessHours returns the entry for the weekday or nil.
func FindBusinessHours(hours []*BusinessHours, day time.Weekday) *BusinessHours {
	for _, h := range hours {
		if h != nil && h.DayOfWeek == day {
			return h
		}
	}
	return nil
}

// TimeOff is a provider-level closed date range (inclusive), optionally recurring every year.
// StartTime/EndTime narrow it to a part of each covered day; both empty means the whole day.
type TimeOff struct {
	ID                int64
	ProviderID        int64
	StartDate         time.Time
	EndDate           time.Time
	StartTime         types.TimeString
	EndTime           types.TimeString
	RecurringAnnually bool
	Reason            *string
	CreatedAt         time.Time
}

// IsFullDay reports whether the time off blocks whole days.
func (t *TimeOff) IsFullDay() bool {
	return t.StartTime.IsZero() && t.EndTime.IsZero()
}

// Window returns the blocked part of a covered day.
func (t *TimeOff) Window() TimeWindow {
	if t.IsFullDay() {
		return TimeWindow{Start: "00:00", End: types.EndOfDay}
	}
	return TimeWindow{Start: t.StartTime, End: t.EndTime}
}

// Blocks reports whether the time off removes w on the given date.
func (t *TimeOff) Blocks(date time.Time, w TimeWindow) bool {
	if !t.Covers(date) {
		return false
	}
	if t.IsFullDay() {
		return true
	}
	return t.Window().Overlaps(w)
}

// Covers reports whether date falls into the range.
// Recurring entries match by month/day every year starting from StartDate,
// including ranges that wrap over the new year (e.g. Dec 24 - Jan 2).
func (t *TimeOff) Covers(date time.Time) bool {
	day := DateOnly(date)
	start := DateOnly(t.StartDate)
	end := DateOnly(t.EndDate)

	if day.Before(start) {
		return false
	}
	if !t.RecurringAnnually {
		return !day.After(end)
	}

	d := monthDay(day)
	from := monthDay(start)
	to := monthDay(end)
	if from <= to {
		return from <= d && d <= to
	}
	return d >= from || d <= to
}

// Validate checks the time off invariants.
func (t *TimeOff) Validate() error {
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("%w: time off dates are required", ErrValidation)
	}
	if DateOnly(t.EndDate).Before(DateOnly(t.StartDate)) {
		return fmt.Errorf("%w: time off end date is before start date", ErrValidation)
	}
	if t.RecurringAnnually && DateOnly(t.EndDate).Sub(DateOnly(t.StartDate)) >= 365*24*time.Hour {
		return fmt.Errorf("%w: recurring time off must be shorter than a year", ErrValidation)
	}
	if t.StartTime.IsZero() != t.EndTime.IsZero() {
		return fmt.Errorf("%w: time off needs both start and end time or neither", ErrValidation)
	}
	if !t.IsFullDay() {
		if _, err := NewTimeWindow(t.StartTime, t.EndTime); err != nil {
			return err
		}
	}
	if t.Reason != nil && len(*t.Reason) > MaxTimeOffReasonLength {
		return fmt.Errorf("%w: reason is too long", ErrValidation)
	}
	return nil
}

// DateOnly truncates t to a calendar date at UTC midnight.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthDay(t time.Time) int {
	return int(t.Month())*100 + t.Day()
}
