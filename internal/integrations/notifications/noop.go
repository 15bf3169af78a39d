package notifications

import "context"

// NoopSender отбрасывает уведомления (driver = "none")
type NoopSender struct{}

// Send ничего не делает
func (NoopSender) Send(context.Context, Event) error { return nil }

// Close ничего не делает
func (NoopSender) Close() error { return nil }
