package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"investigation-server/internal/events"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChannel struct {
	failures  int
	published []amqp.Publishing
	keys      []string
	closed    bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if c.failures > 0 {
		c.failures--
		return errors.New("channel busy")
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

type fakeWriter struct {
	err  error
	msgs []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func sampleEvent() events.Event {
	return events.Event{
		Type:      events.PhotoTaken,
		SessionID: uuid.New(),
		PlayerID:  uuid.New(),
		Payload:   events.DayPayload{Day: 2},
		At:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRabbitMQPublisher(t *testing.T) {
	ev := sampleEvent()

	t.Run("publishes json with metadata", func(t *testing.T) {
		ch := &fakeChannel{}
		p := newRabbitMQPublisher(ch, "game_events", zap.NewNop())

		require.NoError(t, p.Publish(context.Background(), ev))
		require.Len(t, ch.published, 1)
		msg := ch.published[0]
		assert.Equal(t, "game_events", ch.keys[0])
		assert.Equal(t, "application/json", msg.ContentType)
		assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
		assert.Equal(t, string(events.PhotoTaken), msg.Type)
		assert.Equal(t, ev.SessionID.String(), msg.Headers["session_id"])

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(msg.Body, &decoded))
		assert.Equal(t, "photo_taken", decoded["type"])
	})

	t.Run("retries transient failures", func(t *testing.T) {
		ch := &fakeChannel{failures: 2}
		p := newRabbitMQPublisher(ch, "q", zap.NewNop())
		p.backoff = time.Millisecond

		require.NoError(t, p.Publish(context.Background(), ev))
		assert.Len(t, ch.published, 1)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		ch := &fakeChannel{failures: publishMaxAttempts}
		p := newRabbitMQPublisher(ch, "q", zap.NewNop())
		p.backoff = time.Millisecond

		assert.Error(t, p.Publish(context.Background(), ev))
		assert.Empty(t, ch.published)
	})

	t.Run("close", func(t *testing.T) {
		ch := &fakeChannel{}
		require.NoError(t, newRabbitMQPublisher(ch, "q", zap.NewNop()).Close())
		assert.True(t, ch.closed)
	})
}

func TestKafkaPublisher(t *testing.T) {
	ev := sampleEvent()

	w := &fakeWriter{}
	p := newKafkaPublisher(w, "game-events", zap.NewNop())
	require.NoError(t, p.Publish(context.Background()))
	assert.Empty(t, w.msgs)

	require.NoError(t, p.Publish(context.Background(), ev, ev))
	require.Len(t, w.msgs, 2)
	assert.Equal(t, ev.SessionID.String(), string(w.msgs[0].Key))
	assert.Equal(t, "photo_taken", string(w.msgs[0].Headers[0].Value))

	w.err = errors.New("broker down")
	assert.Error(t, p.Publish(context.Background(), ev))
}

func TestNewKafkaWriter(t *testing.T) {
	w := newKafkaWriter([]string{"localhost:9092"}, "game-events")
	defer w.Close()

	assert.Equal(t, "game-events", w.Topic)
	assert.Equal(t, kafkaBatchTimeout, w.BatchTimeout)
	assert.Less(t, w.BatchTimeout, 50*time.Millisecond, "actions must not wait for a full batch")
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
}
