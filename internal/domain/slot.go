package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// Slot is a derived, non-persisted candidate interval of exactly one service duration.
type Slot struct {
	Start types.TimeString
	End   types.TimeString
}

// Window returns the slot as a TimeWindow.
func (s Slot) Window() TimeWindow {
	return TimeWindow{Start: s.Start, End: s.End}
}

// DurationMinutes returns the slot length.
func (s Slot) DurationMinutes() int {
	return s.End.Minutes() - s.Start.Minutes()
}
