package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"investigation-server/internal/events"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter - часть *kafka.Writer, которая нужна паблишеру.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ events.Sink = (*KafkaPublisher)(nil)

// KafkaPublisher пишет события в один топик. Ключ сообщения - ID сессии,
// поэтому события одной сессии попадают в одну партицию по порядку.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

// kafkaBatchTimeout ограничивает ожидание неполного батча. Publish вызывается
// синхронно из обработки действия игрока.
const kafkaBatchTimeout = 5 * time.Millisecond

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	return newKafkaPublisher(newKafkaWriter(brokers, topic), topic, logger)
}

func newKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: kafkaBatchTimeout,
	}
}

func newKafkaPublisher(w messageWriter, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic, logger: logger.Named("KafkaPublisher")}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evs ...events.Event) error {
	if len(evs) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(evs))
	for _, ev := range evs {
		value, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", ev.Type, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(ev.SessionID.String()),
			Value: value,
			Time:  ev.At,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(ev.Type)},
			},
		})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.logger.Error("Failed to write events", zap.String("topic", p.topic), zap.Int("count", len(msgs)), zap.Error(err))
		return fmt.Errorf("write %d events to %s: %w", len(msgs), p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
