package schedule

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Source источник данных расписания (репозиторий PostgreSQL)
type Source interface {
	GetBusinessHours(ctx context.Context, providerID int64) ([]*domain.BusinessHours, error)
	ListTimeOff(ctx context.Context, providerID int64) ([]*domain.TimeOff, error)
}

// Metrics счетчик попаданий в кэш
type Metrics interface {
	ObserveCache(cache string, hit bool)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
