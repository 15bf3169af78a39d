// Package availability turns a provider's schedule into bookable slots.
// Everything here is pure: callers load hours, time off and appointments
// and pass a consistent snapshot in.
package availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Input is a snapshot of everything needed to compute one day of availability.
type Input struct {
	// Date is the calendar date in provider local time.
	Date time.Time
	// DurationMinutes is the service duration; every slot has exactly this length.
	DurationMinutes int
	// GranularityMinutes is the step between candidate starts.
	GranularityMinutes int
	// Hours is the entry for Date's weekday; nil means closed.
	Hours *domain.BusinessHours
	// TimeOff may contain entries that do not cover Date; they are ignored.
	TimeOff []*domain.TimeOff
	// Now is the current instant; it is converted to Location before comparing.
	Now time.Time
	// Location is the provider's timezone. Nil means UTC.
	Location *time.Location
	// MinNoticeMinutes pushes the earliest bookable start forward from Now.
	MinNoticeMinutes int
}

// Calculate returns candidate slots ordered by start time.
// A closed day, a past date or a service longer than the open window yield an empty slice, not an error.
func Calculate(in Input) ([]domain.Slot, error) {
	if in.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d", domain.ErrValidation, in.DurationMinutes)
	}
	if in.GranularityMinutes <= 0 {
		return nil, fmt.Errorf("%w: granularity must be positive, got %d", domain.ErrValidation, in.GranularityMinutes)
	}
	if in.MinNoticeMinutes < 0 {
		return nil, fmt.Errorf("%w: min notice must not be negative", domain.ErrValidation)
	}

	open, ok := in.Hours.Window()
	if !ok {
		return []domain.Slot{}, nil
	}
	if _, err := domain.NewTimeWindow(open.Start, open.End); err != nil {
		return nil, err
	}

	cutoff, ok := earliestStart(in.Date, in.Now, in.Location, in.MinNoticeMinutes)
	if !ok {
		return []domain.Slot{}, nil
	}

	slots := make([]domain.Slot, 0)
	for start := open.Start; ; {
		w, err := domain.WindowFromDuration(start, in.DurationMinutes)
		if errors.Is(err, domain.ErrOutOfRange) {
			break
		}
		if err != nil {
			return nil, err
		}
		if !w.Within(open) {
			break
		}

		if start.Minutes() >= cutoff && !blocked(in.Date, w, in.TimeOff) {
			slots = append(slots, domain.Slot{Start: w.Start, End: w.End})
		}

		next, err := start.AddMinutes(in.GranularityMinutes)
		if err != nil {
			break
		}
		start = next
	}

	return slots, nil
}

// earliestStart returns the first bookable minute of date, or false when the whole date is already gone.
func earliestStart(date, now time.Time, loc *time.Location, noticeMinutes int) (int, bool) {
	if loc == nil {
		loc = time.UTC
	}
	earliest := now.In(loc).Add(time.Duration(noticeMinutes) * time.Minute)

	day := domain.DateOnly(date)
	earliestDay := domain.DateOnly(earliest)

	switch {
	case day.After(earliestDay):
		return 0, true
	case day.Before(earliestDay):
		return 0, false
	}

	// Округляем вверх до целой минуты
	minute := earliest.Hour()*60 + earliest.Minute()
	if earliest.Second() > 0 || earliest.Nanosecond() > 0 {
		minute++
	}
	if minute >= types.MinutesPerDay {
		return 0, false
	}
	return minute, true
}

func blocked(date time.Time, w domain.TimeWindow, timeOff []*domain.TimeOff) bool {
	for _, to := range timeOff {
		if to != nil && to.Blocks(date, w) {
			return true
		}
	}
	return false
}
