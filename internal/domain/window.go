package domain

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// TimeWindow is a half-open interval [Start, End) within one day, in provider local time.
type TimeWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// NewTimeWindow validates and builds a window. End must be strictly after Start.
func NewTimeWindow(start, end types.TimeString) (TimeWindow, error) {
	if err := start.Validate(); err != nil {
		return TimeWindow{}, fmt.Errorf("%w: start: %v", ErrValidation, err)
	}
	if err := end.Validate(); err != nil {
		return TimeWindow{}, fmt.Errorf("%w: end: %v", ErrValidation, err)
	}
	if !start.IsBefore(end) {
		return TimeWindow{}, fmt.Errorf("%w: end %s must be after start %s", ErrValidation, end, start)
	}
	return TimeWindow{Start: start, End: end}, nil
}

// WindowFromDuration builds [start, start+duration).
// Returns ErrOutOfRange when the window would reach or cross midnight.
func WindowFromDuration(start types.TimeString, durationMinutes int) (TimeWindow, error) {
	if durationMinutes <= 0 {
		return TimeWindow{}, fmt.Errorf("%w: duration must be positive, got %d", ErrValidation, durationMinutes)
	}
	end, err := AddMinutes(start, durationMinutes)
	if err != nil {
		return TimeWindow{}, err
	}
	return TimeWindow{Start: start, End: end}, nil
}

// AddMinutes adds d minutes to t, mapping clock errors onto the domain taxonomy.
func AddMinutes(t types.TimeString, d int) (types.TimeString, error) {
	res, err := t.AddMinutes(d)
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, types.ErrOutOfRange):
		return "", fmt.Errorf("%w: %s + %d min", ErrOutOfRange, t, d)
	default:
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
}

// Overlaps reports whether two half-open windows intersect.
// Touching windows (one ends exactly when the other starts) do not overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start.Minutes() < other.End.Minutes() && other.Start.Minutes() < w.End.Minutes()
}

// Within reports whether w lies entirely inside outer.
func (w TimeWindow) Within(outer TimeWindow) bool {
	return outer.Start.Minutes() <= w.Start.Minutes() && w.End.Minutes() <= outer.End.Minutes()
}

// DurationMinutes returns the window length.
func (w TimeWindow) DurationMinutes() int {
	return w.End.Minutes() - w.Start.Minutes()
}

// String formats the window as "HH:MM-HH:MM".
func (w TimeWindow) String() string {
	return w.Start.String() + "-" + w.End.String()
}
