package camera_test

import (
	"testing"
	"time"

	"investigation-server/internal/camera"
	"investigation-server/internal/events"
	"investigation-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type typeRecorder struct {
	types []events.Type
}

func (r *typeRecorder) Record(t events.Type, _ any) { r.types = append(r.types, t) }

var t0 = time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)

func livingRoom() []models.CameraPosition {
	// Намеренно не по порядку: камера сортирует по индексу.
	return []models.CameraPosition{
		{Name: "Window", Index: 2, Position: models.Vec3{X: 4}, MinVerticalAngle: -30, MaxVerticalAngle: 30},
		{Name: "Doorway", Index: 0, Position: models.Vec3{}, DefaultRotation: models.Rotation{Yaw: 90}, MinVerticalAngle: -60, MaxVerticalAngle: 60},
		{Name: "Fireplace", Index: 1, Position: models.Vec3{X: 2}, FieldOfView: 45, MinVerticalAngle: -60, MaxVerticalAngle: 60},
	}
}

func newRig(t *testing.T) (*camera.Rig, *camera.Zoom, *typeRecorder) {
	t.Helper()
	rec := &typeRecorder{}
	zoom := camera.NewZoom(0, 0, rec)
	rig := camera.NewRig(camera.Config{}, zoom, rec, zap.NewNop())
	rig.Load(livingRoom(), 0)
	return rig, zoom, rec
}

func TestRig_Load(t *testing.T) {
	rig, _, _ := newRig(t)
	positions := rig.Positions()
	require.Len(t, positions, 3)
	assert.Equal(t, "Doorway", positions[0].Name)
	assert.Equal(t, "Window", positions[2].Name)
	assert.Equal(t, 90.0, rig.Rotation().Yaw)

	rig.Load(livingRoom(), 10)
	assert.Equal(t, 2, rig.CurrentIndex(), "starting index clamped")

	_, ok := rig.PositionByName("Fireplace")
	assert.True(t, ok)
}

func TestRig_SwitchAndWrap(t *testing.T) {
	rig, _, rec := newRig(t)

	require.NoError(t, rig.Previous(t0))
	assert.True(t, rig.IsTransitioning(t0.Add(100*time.Millisecond)))
	assert.Equal(t, 0, rig.CurrentIndex(), "index changes when the transition completes")

	err := rig.Next(t0.Add(200 * time.Millisecond))
	assert.ErrorIs(t, err, models.ErrCameraTransitioning)

	after := t0.Add(camera.DefaultTransitionDuration)
	assert.False(t, rig.IsTransitioning(after))
	assert.Equal(t, 2, rig.CurrentIndex())
	assert.Equal(t, []events.Type{events.CameraPositionChanged}, rec.types)

	require.NoError(t, rig.Next(after))
	assert.False(t, rig.IsTransitioning(after.Add(time.Second)))
	assert.Equal(t, 0, rig.CurrentIndex(), "next wraps to the first position")
}

func TestRig_SwitchTo(t *testing.T) {
	rig, zoom, rec := newRig(t)

	assert.ErrorIs(t, rig.SwitchTo(t0, 5), models.ErrInvalidPosition)
	assert.ErrorIs(t, rig.SwitchTo(t0, -1), models.ErrInvalidPosition)

	require.NoError(t, rig.SwitchTo(t0, 0))
	assert.False(t, rig.IsTransitioning(t0), "same index is a no-op")
	assert.Empty(t, rec.types)

	require.True(t, zoom.ZoomTo(t0, "knife", models.Vec3{Z: 3}, models.Vec3{}))
	assert.ErrorIs(t, rig.SwitchTo(t0, 1), models.ErrZoomed)
	assert.ErrorIs(t, rig.Next(t0), models.ErrZoomed)
}

func TestRig_Look(t *testing.T) {
	rig, _, _ := newRig(t)

	assert.True(t, rig.Look(t0, 10, 0))
	assert.Equal(t, 120.0, rig.Rotation().Yaw)

	assert.True(t, rig.Look(t0, 0, -100))
	assert.Equal(t, 60.0, rig.Rotation().Pitch, "pitch clamped to the position maximum")

	rig.ResetToDefaultRotation()
	assert.Equal(t, models.Rotation{Yaw: 90}, rig.Rotation())

	rig.SetRotationEnabled(false)
	assert.False(t, rig.Look(t0, 1, 1))

	rig.SetRotationEnabled(true)
	require.NoError(t, rig.SwitchTo(t0, 1))
	assert.False(t, rig.Look(t0.Add(time.Millisecond), 1, 1), "no rotation while transitioning")
}

func TestRig_Pose(t *testing.T) {
	rig, _, _ := newRig(t)
	require.NoError(t, rig.SwitchTo(t0, 1))

	mid := rig.Pose(t0.Add(camera.DefaultTransitionDuration / 2))
	assert.InDelta(t, 1.0, mid.Position.X, 1e-9)
	assert.InDelta(t, 52.5, mid.FieldOfView, 1e-9)

	end := rig.Pose(t0.Add(camera.DefaultTransitionDuration))
	assert.Equal(t, 2.0, end.Position.X)
	assert.Equal(t, 45.0, end.FieldOfView)
}

func TestZoom(t *testing.T) {
	rec := &typeRecorder{}
	zoom := camera.NewZoom(1.5, 500*time.Millisecond, rec)

	assert.False(t, zoom.Exit(t0), "exit without zoom is ignored")
	require.True(t, zoom.ZoomTo(t0, "knife", models.Vec3{Z: 5}, models.Vec3{}))
	assert.False(t, zoom.ZoomTo(t0, "letter", models.Vec3{Z: 1}, models.Vec3{}), "already zoomed")
	assert.Equal(t, "knife", zoom.Target())
	assert.InDelta(t, 3.5, zoom.State().Position.Z, 1e-9)

	exitAt := t0.Add(time.Second)
	require.True(t, zoom.Exit(exitAt))
	assert.False(t, zoom.Exit(exitAt), "exit already running")
	assert.True(t, zoom.IsZoomed(exitAt.Add(499*time.Millisecond)), "still zoomed until the exit finishes")
	assert.False(t, zoom.IsZoomed(exitAt.Add(500*time.Millisecond)))
	assert.Equal(t, []events.Type{events.ZoomStarted, events.ZoomEnded}, rec.types)
}

func TestRig_StateRestore(t *testing.T) {
	rig, _, _ := newRig(t)
	require.True(t, rig.Look(t0, 5, 5))
	require.NoError(t, rig.SwitchTo(t0, 2))

	restored := camera.NewRig(camera.Config{}, nil, nil, zap.NewNop())
	restored.Load(livingRoom(), 0)
	restored.Restore(rig.State())

	assert.Equal(t, rig.State(), restored.State())
	assert.False(t, restored.IsTransitioning(t0.Add(time.Second)))
	assert.Equal(t, 2, restored.CurrentIndex())
}
