package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaSender публикует уведомления в топик Kafka
// Ключ сообщения - ID записи, поэтому события одной записи попадают в одну партицию
type KafkaSender struct {
	writer *kafka.Writer
}

// NewKafkaSender создает отправителя в Kafka
func NewKafkaSender(brokers []string, topic string, timeout time.Duration) *KafkaSender {
	return &KafkaSender{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: timeout,
		},
	}
}

// Send публикует событие
func (s *KafkaSender) Send(ctx context.Context, event Event) error {
	msg, err := buildMessage(event)
	if err != nil {
		return err
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: failed to write message: %v", ErrInternal, err)
	}
	return nil
}

// Close закрывает writer, дожидаясь отправки буфера
func (s *KafkaSender) Close() error {
	return s.writer.Close()
}

func buildMessage(event Event) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("%w: failed to marshal event: %v", ErrInternal, err)
	}

	return kafka.Message{
		Key:   []byte(strconv.FormatInt(event.AppointmentID, 10)),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}, nil
}

// SplitBrokers разбирает список брокеров через запятую
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
