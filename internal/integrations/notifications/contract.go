package notifications

import "context"

// Sender транспорт доставки уведомлений
type Sender interface {
	Send(ctx context.Context, event Event) error
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
