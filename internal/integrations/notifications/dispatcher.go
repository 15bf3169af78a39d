package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Драйверы доставки
const (
	DriverNone    = "none"
	DriverKafka   = "kafka"
	DriverWebhook = "webhook"
)

const defaultSendTimeout = 5 * time.Second

// Options параметры отправки
type Options struct {
	Driver     string
	Brokers    []string
	Topic      string
	WebhookURL string
	Timeout    time.Duration
}

// NewSender создает отправителя по имени драйвера
func NewSender(opts Options) (Sender, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultSendTimeout
	}

	switch opts.Driver {
	case "", DriverNone:
		return NoopSender{}, nil
	case DriverKafka:
		return NewKafkaSender(opts.Brokers, opts.Topic, opts.Timeout), nil
	case DriverWebhook:
		return NewWebhookSender(opts.WebhookURL, opts.Timeout), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

// Dispatcher отправляет уведомления в фоне (fire-and-forget)
// Ошибка доставки только логируется и никак не влияет на вызывающую операцию
type Dispatcher struct {
	sender  Sender
	logger  Logger
	timeout time.Duration
	now     func() time.Time

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher создает диспетчер уведомлений
func NewDispatcher(sender Sender, timeout time.Duration, logger Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &Dispatcher{
		sender:  sender,
		logger:  logger,
		timeout: timeout,
		now:     time.Now,
	}
}

// Notify ставит уведомление о записи в отправку и сразу возвращает управление
func (d *Dispatcher) Notify(ctx context.Context, eventType EventType, a *domain.Appointment) {
	event := Event{
		EventID:       uuid.NewString(),
		Type:          eventType,
		AppointmentID: a.ID,
		ProviderID:    a.ProviderID,
		Status:        string(a.Status),
		Date:          a.Date.Format(domain.DateFormat),
		StartTime:     a.StartTime.String(),
		OccurredAt:    d.now().UTC(),
	}

	// Add под мьютексом, чтобы не пересечься с Wait в Close
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("Notify: dispatcher is closed, %s for appointment id=%d dropped", event.Type, event.AppointmentID)
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()

		// Отправка не должна прерываться вместе с HTTP-запросом
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.sender.Send(sendCtx, event); err != nil {
			d.logger.Error("Notify: failed to send %s for appointment id=%d: %v", event.Type, event.AppointmentID, err)
			return
		}
		d.logger.Info("Notify: sent %s for appointment id=%d, event_id=%s", event.Type, event.AppointmentID, event.EventID)
	}()
}

// Close дожидается отправки начатых уведомлений и закрывает транспорт
// Уведомления после Close отбрасываются
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		d.logger.Warn("Notify: shutdown timeout, pending notifications dropped")
	}

	return d.sender.Close()
}
