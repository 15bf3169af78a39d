package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модели

// BusinessHoursItem рабочие часы одного дня недели
type BusinessHoursItem struct {
	DayOfWeek int              `json:"dayOfWeek"` // 0 = воскресенье ... 6 = суббота
	IsOpen    bool             `json:"isOpen"`
	OpenTime  types.TimeString `json:"openTime,omitempty"`
	CloseTime types.TimeString `json:"closeTime,omitempty"`
}

// UpdateBusinessHoursRequest запрос на замену недельного расписания
type UpdateBusinessHoursRequest struct {
	UserID     int64               `json:"userId"`
	ProviderID int64               `json:"providerId"`
	Hours      []BusinessHoursItem `json:"hours"`
}

// ToDomain конвертирует дни недели в domain модели
func (r *UpdateBusinessHoursRequest) ToDomain() []*domain.BusinessHours {
	hours := make([]*domain.BusinessHours, 0, len(r.Hours))
	for _, item := range r.Hours {
		h := &domain.BusinessHours{
			ProviderID: r.ProviderID,
			DayOfWeek:  time.Weekday(item.DayOfWeek),
			IsOpen:     item.IsOpen,
		}
		if item.IsOpen {
			h.OpenTime = item.OpenTime
			h.CloseTime = item.CloseTime
		}
		hours = append(hours, h)
	}
	return hours
}

// CreateTimeOffRequest запрос на создание отсутствия
type CreateTimeOffRequest struct {
	UserID            int64
	ProviderID        int64
	StartDate         time.Time
	EndDate           time.Time
	StartTime         types.TimeString // пусто = весь день
	EndTime           types.TimeString
	RecurringAnnually bool
	Reason            *string
}

// ToDomain конвертирует request в domain модель
func (r *CreateTimeOffRequest) ToDomain() *domain.TimeOff {
	return &domain.TimeOff{
		ProviderID:        r.ProviderID,
		StartDate:         domain.DateOnly(r.StartDate),
		EndDate:           domain.DateOnly(r.EndDate),
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
		RecurringAnnually: r.RecurringAnnually,
		Reason:            r.Reason,
	}
}

// Response модели

// TimeOffResponse ответ с данными отсутствия
type TimeOffResponse struct {
	ID                int64   `json:"id"`
	StartDate         string  `json:"startDate"`
	EndDate           string  `json:"endDate"`
	StartTime         *string `json:"startTime,omitempty"`
	EndTime           *string `json:"endTime,omitempty"`
	RecurringAnnually bool    `json:"recurringAnnually"`
	Reason            *string `json:"reason,omitempty"`
}

// ScheduleResponse недельное расписание и отсутствия провайдера
type ScheduleResponse struct {
	ProviderID    int64               `json:"providerId"`
	BusinessHours []BusinessHoursItem `json:"businessHours"`
	TimeOff       []TimeOffResponse   `json:"timeOff"`
}

// FromDomainBusinessHours конвертирует рабочие часы в DTO
func FromDomainBusinessHours(hours []*domain.BusinessHours) []BusinessHoursItem {
	items := make([]BusinessHoursItem, 0, len(hours))
	for _, h := range hours {
		items = append(items, BusinessHoursItem{
			DayOfWeek: int(h.DayOfWeek),
			IsOpen:    h.IsOpen,
			OpenTime:  h.OpenTime,
			CloseTime: h.CloseTime,
		})
	}
	return items
}

// FromDomainTimeOff конвертирует отсутствие в DTO
func FromDomainTimeOff(t *domain.TimeOff) *TimeOffResponse {
	if t == nil {
		return nil
	}

	resp := &TimeOffResponse{
		ID:                t.ID,
		StartDate:         t.StartDate.Format(domain.DateFormat),
		EndDate:           t.EndDate.Format(domain.DateFormat),
		RecurringAnnually: t.RecurringAnnually,
		Reason:            t.Reason,
	}
	if !t.IsFullDay() {
		start, end := t.StartTime.String(), t.EndTime.String()
		resp.StartTime = &start
		resp.EndTime = &end
	}

	return resp
}

// FromDomainTimeOffList конвертирует список отсутствий в DTO
func FromDomainTimeOffList(list []*domain.TimeOff) []TimeOffResponse {
	items := make([]TimeOffResponse, 0, len(list))
	for _, t := range list {
		if item := FromDomainTimeOff(t); item != nil {
			items = append(items, *item)
		}
	}
	return items
}
