package domain

// Default booking values
const (
	DefaultSlotGranularityMinutes  = 15
	DefaultMinBookingNoticeMinutes = 0
)

// Business validation constants
const (
	MinGranularityMinutes       = 5
	MaxGranularityMinutes       = 240
	MaxServiceDurationMinutes   = 720
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxTimeOffReasonLength      = 255
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses statuses whose interval occupies the provider's schedule.
var BlockingStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusCompleted,
}

// NonBlockingStatuses statuses that release the interval.
var NonBlockingStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusNoShow,
}
