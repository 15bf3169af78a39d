package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentStatus is the closed set of appointment lifecycle states.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// ParseAppointmentStatus converts a raw string into a known status.
func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	s := AppointmentStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown appointment status %q", ErrValidation, raw)
	}
	return s, nil
}

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// CanTransitionTo encodes the lifecycle:
//
//	scheduled -> confirmed | cancelled | no_show
//	confirmed -> completed | cancelled | no_show
//	completed, cancelled, no_show are terminal
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case StatusScheduled:
		switch next {
		case StatusConfirmed, StatusCancelled, StatusNoShow:
			return true
		}
		return false
	case StatusConfirmed:
		switch next {
		case StatusCompleted, StatusCancelled, StatusNoShow:
			return true
		}
		return false
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return false
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are possible.
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// IsBlocking reports whether an appointment in this status occupies its interval.
func (s AppointmentStatus) IsBlocking() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted:
		return true
	default:
		return false
	}
}

// Appointment is a booked interval of a provider.
// EndTime, DurationMinutes and the service snapshot are fixed at booking time and never recomputed.
type Appointment struct {
	ID         int64
	ProviderID int64
	ServiceID  int64

	ClientUserID *int64
	ClientName   string
	ClientEmail  *string
	ClientPhone  *string

	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Window returns [StartTime, EndTime).
func (a *Appointment) Window() TimeWindow {
	return TimeWindow{Start: a.StartTime, End: a.EndTime}
}

// IsBlocking reports whether the appointment still occupies its interval.
func (a *Appointment) IsBlocking() bool {
	return a.Status.IsBlocking()
}

// CanBeCancelled reports whether cancellation is reachable from the current status.
func (a *Appointment) CanBeCancelled() bool {
	return a.Status.CanTransitionTo(StatusCancelled)
}

// IsClient reports whether userID is the client who booked the appointment.
func (a *Appointment) IsClient(userID int64) bool {
	return a.ClientUserID != nil && *a.ClientUserID == userID
}

// AppointmentsFilter filters provider appointments.
type AppointmentsFilter struct {
	ProviderID      int64              // required
	StartDate       *time.Time         // inclusive, nil = unbounded
	EndDate         *time.Time         // inclusive, nil = unbounded
	Status          *AppointmentStatus // exact status
	IncludeInactive bool               // include cancelled / no_show
}

// IsSingleDay reports whether the filter targets exactly one date.
func (f AppointmentsFilter) IsSingleDay() bool {
	return f.StartDate != nil && f.EndDate != nil && DateOnly(*f.StartDate).Equal(DateOnly(*f.EndDate))
}
