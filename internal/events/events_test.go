package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"investigation-server/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	got []events.Event
	err error
}

func (s *recordingSink) Publish(_ context.Context, evs ...events.Event) error {
	s.got = append(s.got, evs...)
	return s.err
}

func TestOutbox(t *testing.T) {
	sessionID, playerID := uuid.New(), uuid.New()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	box := events.NewOutbox(sessionID, playerID, func() time.Time { return at })

	box.Record(events.DayAdvanced, events.DayPayload{Day: 2})
	box.Record(events.SanityChanged, events.MeterPayload{Value: 90})
	assert.Equal(t, 2, box.Len())

	evs := box.Drain()
	require.Len(t, evs, 2)
	assert.Equal(t, events.DayAdvanced, evs[0].Type)
	assert.Equal(t, sessionID, evs[0].SessionID)
	assert.Equal(t, playerID, evs[1].PlayerID)
	assert.Equal(t, at, evs[1].At)
	assert.Zero(t, box.Len())
}

func TestFanOut(t *testing.T) {
	ok := &recordingSink{}
	failing := &recordingSink{err: errors.New("broker down")}
	fan := events.FanOut{failing, nil, ok}

	err := fan.Publish(context.Background(), events.Event{Type: events.PhotoAdded})
	assert.Error(t, err)
	assert.Len(t, ok.got, 1, "healthy sink still receives events")

	assert.NoError(t, fan.Publish(context.Background()))
}
