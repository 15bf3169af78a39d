package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CatalogRepository интерфейс репозитория провайдеров и услуг
type CatalogRepository interface {
	GetProvider(ctx context.Context, id int64) (*domain.Provider, error)
	GetService(ctx context.Context, providerID, serviceID int64) (*domain.Service, error)
}

// ScheduleReader источник рабочих часов и отсутствий (кэш Redis или репозиторий)
type ScheduleReader interface {
	GetBusinessHours(ctx context.Context, providerID int64) ([]*domain.BusinessHours, error)
	GetTimeOff(ctx context.Context, providerID int64, from, to time.Time) ([]*domain.TimeOff, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByProviderWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
