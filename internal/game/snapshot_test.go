package game

import (
	"context"
	"testing"
	"time"

	"investigation-server/internal/photography"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s, clock, deps := newTestSession(t)
	ctx := context.Background()

	_, err := s.Photograph(ctx, "sink_stain", photography.Image{})
	require.NoError(t, err)
	_, err = s.Interact(ctx, "letter")
	require.NoError(t, err)
	require.NoError(t, s.NextCamera())
	clock.Add(time.Second)
	require.True(t, s.Look(10, 5))
	require.NoError(t, s.Hover("knife"))

	data, err := s.MarshalSnapshot()
	require.NoError(t, err)

	restored, err := UnmarshalSession(data, deps)
	require.NoError(t, err)

	assert.Equal(t, s.ID(), restored.ID())
	assert.Equal(t, s.PlayerID(), restored.PlayerID())
	assert.Equal(t, s.Journal(), restored.Journal())
	assert.Equal(t, s.View(), restored.View())
	assert.Equal(t, s.Dialogue(), restored.Dialogue())
}

func TestSnapshot_MidTransition(t *testing.T) {
	s, clock, deps := newTestSession(t)
	_, err := s.Interact(context.Background(), "hallway_door")
	require.NoError(t, err)
	clock.Add(200 * time.Millisecond)

	restored, err := Restore(s.Snapshot(), deps)
	require.NoError(t, err)

	clock.Add(2 * time.Second)
	assert.Equal(t, "hallway", restored.View().Scene.Current)
}

func TestRestore_Errors(t *testing.T) {
	s, _, deps := newTestSession(t)

	snap := s.Snapshot()
	snap.Version = 99
	_, err := Restore(snap, deps)
	assert.Error(t, err)

	snap = s.Snapshot()
	snap.Scene.Current = "attic"
	_, err = Restore(snap, deps)
	assert.Error(t, err)

	_, err = UnmarshalSession([]byte("{"), deps)
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	s, _, deps := newTestSession(t)
	r := NewRegistry()

	assert.Same(t, s, r.Put(s))
	dup, err := Restore(s.Snapshot(), deps)
	require.NoError(t, err)
	assert.Same(t, s, r.Put(dup))
	assert.Equal(t, 1, r.Len())

	other, err := NewSession(uuid.New(), uuid.New(), deps)
	require.NoError(t, err)
	r.Put(other)

	assert.Equal(t, []uuid.UUID{s.ID()}, r.ListByPlayer(s.PlayerID()))

	called := false
	require.NoError(t, r.Do(s.ID(), func(got *Session) error {
		called = true
		assert.Same(t, s, got)
		return nil
	}))
	assert.True(t, called)

	r.Delete(s.ID())
	_, ok := r.Get(s.ID())
	assert.False(t, ok)
	assert.Error(t, r.Do(s.ID(), func(*Session) error { return nil }))
}
