package availability

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ResolveConflicts removes every slot that overlaps a blocking appointment.
// Cancelled and no-show appointments are ignored. The input slice is not modified.
func ResolveConflicts(slots []domain.Slot, appointments []*domain.Appointment) []domain.Slot {
	busy := make([]domain.TimeWindow, 0, len(appointments))
	for _, a := range appointments {
		if a == nil || !a.IsBlocking() {
			continue
		}
		busy = append(busy, a.Window())
	}

	result := make([]domain.Slot, 0, len(slots))
	for _, s := range slots {
		if !overlapsAny(s.Window(), busy) {
			result = append(result, s)
		}
	}
	return result
}

// Available runs Calculate and ResolveConflicts in one step.
func Available(in Input, appointments []*domain.Appointment) ([]domain.Slot, error) {
	slots, err := Calculate(in)
	if err != nil {
		return nil, err
	}
	return ResolveConflicts(slots, appointments), nil
}

// Find returns the slot starting at start, if present.
func Find(slots []domain.Slot, start types.TimeString) (domain.Slot, bool) {
	m := start.Minutes()
	for _, s := range slots {
		if s.Start.Minutes() == m {
			return s, true
		}
	}
	return domain.Slot{}, false
}

// IsPastDate reports whether date is before today in loc.
func IsPastDate(date, now time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	return domain.DateOnly(date).Before(domain.DateOnly(now.In(loc)))
}

func overlapsAny(w domain.TimeWindow, busy []domain.TimeWindow) bool {
	for _, b := range busy {
		if w.Overlaps(b) {
			return true
		}
	}
	return false
}
