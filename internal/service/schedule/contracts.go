package schedule

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetBusinessHours(ctx context.Context, providerID int64) ([]*domain.BusinessHours, error)
	ReplaceBusinessHours(ctx context.Context, providerID int64, hours []*domain.BusinessHours) error
	ListTimeOff(ctx context.Context, providerID int64) ([]*domain.TimeOff, error)
	CreateTimeOff(ctx context.Context, t *domain.TimeOff) (*domain.TimeOff, error)
	DeleteTimeOff(ctx context.Context, providerID, id int64) error
}

// ProviderRepository интерфейс для проверки прав владельца провайдера
type ProviderRepository interface {
	GetProvider(ctx context.Context, id int64) (*domain.Provider, error)
}

// CacheInvalidator сброс кэша расписания после изменений
type CacheInvalidator interface {
	Invalidate(ctx context.Context, providerID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
