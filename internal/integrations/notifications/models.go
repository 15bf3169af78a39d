package notifications

import "time"

// EventType тип уведомления
type EventType string

const (
	EventAppointmentCreated       EventType = "appointment.created"
	EventAppointmentCancelled     EventType = "appointment.cancelled"
	EventAppointmentStatusChanged EventType = "appointment.status_changed"
)

// Event уведомление о записи, отправляемое после фиксации транзакции
type Event struct {
	EventID       string    `json:"event_id"`
	Type          EventType `json:"type"`
	AppointmentID int64     `json:"appointment_id"`
	ProviderID    int64     `json:"provider_id"`
	Status        string    `json:"status"`
	Date          string    `json:"date"`       // YYYY-MM-DD
	StartTime     string    `json:"start_time"` // HH:MM
	OccurredAt    time.Time `json:"occurred_at"`
}
