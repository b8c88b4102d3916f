// Package messaging публикует игровые события во внешние брокеры.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"investigation-server/internal/events"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	appID              = "investigation-server"
	publishTimeout     = 10 * time.Second
	publishMaxAttempts = 3
)

// amqpChannel - часть *amqp.Channel, которая нужна паблишеру.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

var _ events.Sink = (*RabbitMQPublisher)(nil)

// RabbitMQPublisher отправляет события в durable очередь через default exchange.
type RabbitMQPublisher struct {
	channel   amqpChannel
	queueName string
	logger    *zap.Logger
	backoff   time.Duration
}

// NewRabbitMQPublisher открывает канал и объявляет очередь событий.
func NewRabbitMQPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (*RabbitMQPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("event publisher: failed to open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("event publisher: failed to declare queue %q: %w", queueName, err)
	}
	logger.Info("RabbitMQ event queue declared", zap.String("queue", queueName))
	return newRabbitMQPublisher(ch, queueName, logger), nil
}

func newRabbitMQPublisher(ch amqpChannel, queueName string, logger *zap.Logger) *RabbitMQPublisher {
	return &RabbitMQPublisher{
		channel:   ch,
		queueName: queueName,
		logger:    logger.Named("RabbitMQPublisher"),
		backoff:   100 * time.Millisecond,
	}
}

// Publish отправляет события по одному. Ошибки отдельных событий
// собираются, остальные события все равно отправляются.
func (p *RabbitMQPublisher) Publish(ctx context.Context, evs ...events.Event) error {
	if p.channel == nil {
		return errors.New("rabbitmq channel is not initialized")
	}
	var errs []error
	for _, ev := range evs {
		body, err := json.Marshal(ev)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to marshal event %s: %w", ev.Type, err))
			continue
		}
		if err := p.publish(ctx, ev, body); err != nil {
			p.logger.Error("Failed to publish event",
				zap.String("type", string(ev.Type)), zap.String("sessionID", ev.SessionID.String()), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *RabbitMQPublisher) publish(ctx context.Context, ev events.Event, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	var err error
	for attempt := 1; attempt <= publishMaxAttempts; attempt++ {
		err = p.channel.PublishWithContext(ctx, "", p.queueName, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         string(ev.Type),
			Body:         body,
			Timestamp:    ev.At,
			AppId:        appID,
			Headers:      amqp.Table{"session_id": ev.SessionID.String()},
		})
		if err == nil {
			return nil
		}
		p.logger.Warn("Publish attempt failed", zap.Int("attempt", attempt), zap.String("queue", p.queueName), zap.Error(err))
		select {
		case <-ctx.Done():
			return fmt.Errorf("publish %s cancelled: %w", ev.Type, ctx.Err())
		case <-time.After(time.Duration(attempt) * p.backoff):
		}
	}
	return fmt.Errorf("failed to publish %s after %d attempts: %w", ev.Type, publishMaxAttempts, err)
}

func (p *RabbitMQPublisher) Close() error {
	if p.channel == nil {
		return nil
	}
	return p.channel.Close()
}

// ConnectRabbitMQ подключается к RabbitMQ с несколькими попытками.
func ConnectRabbitMQ(url string, maxRetries int, retryDelay time.Duration, logger *zap.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	for i := 0; i < maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("retry_delay", retryDelay),
			zap.Error(err),
		)
		time.Sleep(retryDelay)
	}
	return nil, err
}
