package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifications"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
)

// CatalogRepository интерфейс репозитория провайдеров и услуг
type CatalogRepository interface {
	GetProvider(ctx context.Context, id int64) (*domain.Provider, error)
	GetService(ctx context.Context, providerID, serviceID int64) (*domain.Service, error)
}

// ScheduleRepository интерфейс репозитория расписания
// Читается внутри транзакции в обход кэша
type ScheduleRepository interface {
	GetBusinessHoursForDay(ctx context.Context, providerID int64, day time.Weekday) (*domain.BusinessHours, error)
	GetTimeOff(ctx context.Context, providerID int64, from, to time.Time) ([]*domain.TimeOff, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	LockProviderDate(ctx context.Context, providerID int64, date time.Time) error
	GetByProviderWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier отправка уведомлений после фиксации транзакции
type Notifier interface {
	Notify(ctx context.Context, eventType notifications.EventType, a *domain.Appointment)
}

// ClientDirectory профиль клиента для снимка контактов (nil = не используется)
type ClientDirectory interface {
	GetUserWithGracefulDegradation(ctx context.Context, userID int64) (*userservice.User, error)
}

// Metrics счетчик исходов бронирования
type Metrics interface {
	ObserveBooking(outcome string)
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
