package game

import (
	"context"
	"testing"
	"time"

	"investigation-server/internal/catalog"
	"investigation-server/internal/events"
	"investigation-server/internal/interaction"
	"investigation-server/internal/models"
	"investigation-server/internal/photography"
	"investigation-server/internal/scene"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time      { return c.t }
func (c *fakeClock) Add(d time.Duration) { c.t = c.t.Add(d) }
func newClock() *fakeClock               { return &fakeClock{t: time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)} }

func eventTypes(evs []events.Event) []events.Type {
	out := make([]events.Type, 0, len(evs))
	for _, e := range evs {
		out = append(out, e.Type)
	}
	return out
}

func newTestSession(t *testing.T) (*Session, *fakeClock, Deps) {
	t.Helper()
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	clock := newClock()
	deps := Deps{Catalog: cat, Rules: catalog.DefaultRules(), Clock: clock.Now, Logger: zap.NewNop()}
	s, err := NewSession(uuid.New(), uuid.New(), deps)
	require.NoError(t, err)
	return s, clock, deps
}

func TestNewSession(t *testing.T) {
	s, _, _ := newTestSession(t)
	v := s.View()

	assert.Equal(t, "apartment", v.Scene.Current)
	assert.Equal(t, scene.PhaseIdle, v.Scene.Phase)
	assert.Len(t, v.Camera.Positions, 3)
	assert.Equal(t, 0, v.Camera.Index)
	assert.Equal(t, 100.0, v.Sanity)
	assert.Equal(t, 100.0, v.Clarity)
	assert.Equal(t, 1, v.Day)
	assert.Equal(t, 5, v.Photos)
	assert.Len(t, v.Objects, 5)

	_, err := NewSession(uuid.New(), uuid.New(), Deps{})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestSession_HoverAndInteract(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.Interact(ctx, "")
	assert.ErrorIs(t, err, models.ErrNoHoveredObject)

	assert.ErrorIs(t, s.Hover("ghost"), models.ErrUnknownObject)
	require.NoError(t, s.Hover("letter"))

	out, err := s.Interact(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, interaction.ActionExamined, out.Action)
	assert.Contains(t, out.Text, "Rent is three months late")
	assert.Contains(t, eventTypes(s.DrainEvents()), events.ObjectExamined)

	// подсказка меняется после первого осмотра
	out, err = s.Interact(ctx, "letter")
	require.NoError(t, err)
	assert.Contains(t, out.Text, "underlined")

	out, err = s.Interact(ctx, "sink_stain")
	require.NoError(t, err)
	assert.Equal(t, interaction.ActionHint, out.Action)
	assert.Equal(t, interaction.CollectHint, out.Text)

	// бокал дальше дистанции взаимодействия от входа
	_, err = s.Interact(ctx, "wine_glass")
	assert.ErrorIs(t, err, models.ErrNotInteractable)
}

func TestSession_Photograph(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx := context.Background()

	out, err := s.Photograph(ctx, "sink_stain", photography.Image{})
	require.NoError(t, err)
	assert.Equal(t, interaction.ActionPhotographed, out.Action)
	require.NotNil(t, out.Entry)
	assert.True(t, out.Entry.IsValidEvidence)
	assert.Equal(t, 4, s.Journal().Remaining)

	// объект выключается после снимка
	_, err = s.Photograph(ctx, "sink_stain", photography.Image{})
	assert.ErrorIs(t, err, models.ErrNotInteractable)

	t.Run("zoom gated evidence", func(t *testing.T) {
		_, err := s.Photograph(ctx, "knife", photography.Image{})
		assert.ErrorIs(t, err, models.ErrRequiresZoom)

		out, err := s.Interact(ctx, "knife")
		require.NoError(t, err)
		assert.Equal(t, interaction.ActionZoomed, out.Action)

		out, err = s.Photograph(ctx, "knife", photography.Image{})
		require.NoError(t, err)
		assert.Equal(t, interaction.ActionPhotographed, out.Action)
		assert.True(t, s.View().Camera.Zoomed)
		assert.True(t, s.ExitZoom())
		assert.False(t, s.ExitZoom())
	})

	t.Run("camera is locked while zoomed", func(t *testing.T) {
		s2, _, _ := newTestSession(t)
		_, err := s2.Interact(ctx, "knife")
		require.NoError(t, err)
		assert.ErrorIs(t, s2.NextCamera(), models.ErrZoomed)
		assert.False(t, s2.Look(10, 0))
	})
}

func TestSession_DailyLimitAndDayAdvance(t *testing.T) {
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	rules := catalog.DefaultRules()
	rules.MaxPhotosPerDay = 2
	s, err := NewSession(uuid.New(), uuid.New(), Deps{Catalog: cat, Rules: rules})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Photograph(ctx, "sink_stain", photography.Image{})
	require.NoError(t, err)
	_, err = s.Photograph(ctx, "letter", photography.Image{})
	require.NoError(t, err)
	_, err = s.Photograph(ctx, "hallway_door", photography.Image{})
	assert.ErrorIs(t, err, models.ErrDailyPhotoLimit)

	j := s.AdvanceDay()
	assert.Equal(t, 2, j.CurrentDay)
	assert.Empty(t, j.Today)
	require.Len(t, j.Evidence, 1)
	assert.Equal(t, "Stain in the Sink", j.Evidence[0].ObjectName)
	assert.Equal(t, 2, j.Remaining)
	assert.Equal(t, 1, j.Progress.Found)

	types := eventTypes(s.DrainEvents())
	assert.Contains(t, types, events.PhotosValidated)
	assert.Contains(t, types, events.DayAdvanced)
}

func TestSession_RemovePhoto(t *testing.T) {
	s, _, _ := newTestSession(t)
	out, err := s.Photograph(context.Background(), "letter", photography.Image{})
	require.NoError(t, err)

	assert.ErrorIs(t, s.RemovePhoto("nope"), models.ErrPhotoNotFound)
	require.NoError(t, s.RemovePhoto(out.Entry.ID))
	assert.Empty(t, s.Journal().Today)

	_, err = s.PhotoURL(context.Background(), out.Entry.ID)
	assert.ErrorIs(t, err, models.ErrPhotoNotFound)
}

func TestSession_Camera(t *testing.T) {
	s, clock, _ := newTestSession(t)

	require.NoError(t, s.NextCamera())
	assert.ErrorIs(t, s.NextCamera(), models.ErrCameraTransitioning)
	clock.Add(time.Second)
	assert.Equal(t, 1, s.View().Camera.Index)

	require.NoError(t, s.PreviousCamera())
	clock.Add(time.Second)
	require.NoError(t, s.PreviousCamera())
	clock.Add(time.Second)
	assert.Equal(t, 2, s.View().Camera.Index)

	assert.ErrorIs(t, s.SwitchCamera(7), models.ErrInvalidPosition)
	assert.True(t, s.Look(5, 100))
	// позиция у окна ограничена по вертикали
	assert.Equal(t, -30.0, s.View().Camera.Pose.Rotation.Pitch)
}

func TestSession_SceneTransition(t *testing.T) {
	s, clock, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.Interact(ctx, "letter")
	require.NoError(t, err)

	out, err := s.Interact(ctx, "hallway_door")
	require.NoError(t, err)
	assert.Equal(t, interaction.ActionSceneTransition, out.Action)
	assert.Equal(t, "hallway", out.TargetScene)

	assert.ErrorIs(t, s.Hover("letter"), models.ErrSceneTransitioning)
	assert.Equal(t, scene.PhaseFadingOut, s.View().Scene.Phase)

	clock.Add(1600 * time.Millisecond)
	v := s.View()
	assert.Equal(t, "hallway", v.Scene.Current)
	assert.Equal(t, scene.PhaseFadingIn, v.Scene.Phase)
	assert.Len(t, v.Objects, 3)

	clock.Add(time.Second)
	assert.Equal(t, scene.PhaseIdle, s.View().Scene.Phase)

	_, err = s.Interact(ctx, "basement_door")
	assert.ErrorIs(t, err, models.ErrNotInteractable)
	assert.Contains(t, err.Error(), "padlocked")

	out, err = s.Interact(ctx, "apartment_door")
	require.NoError(t, err)
	assert.Equal(t, "apartment", out.TargetScene)
	clock.Add(3 * time.Second)

	// объекты квартиры помнят осмотр
	for _, o := range s.View().Objects {
		if o.ID == "letter" {
			assert.True(t, o.Examined)
		}
	}
	types := eventTypes(s.DrainEvents())
	assert.Contains(t, types, events.SceneTransitionStart)
	assert.Contains(t, types, events.SceneLoaded)
}

func TestSession_Dialogue(t *testing.T) {
	s, clock, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.Interact(ctx, "hallway_door")
	require.NoError(t, err)
	clock.Add(3 * time.Second)

	out, err := s.Interact(ctx, "mrs_hale")
	require.NoError(t, err)
	assert.Equal(t, interaction.ActionDialogueStarted, out.Action)

	v := s.Dialogue()
	require.True(t, v.Active)
	assert.Equal(t, "Mrs. Hale", v.Speaker)
	require.Len(t, v.Options, 4)
	assert.True(t, v.Options[2].Available)

	_, err = s.Interact(ctx, "mrs_hale")
	assert.ErrorIs(t, err, models.ErrInteractionDisabled, "objects are inert while talking")

	sel, err := s.SelectOption(1)
	require.NoError(t, err)
	assert.Equal(t, 85.0, sel.Sanity)
	assert.True(t, sel.Ended)
	assert.False(t, s.Dialogue().Active)

	_, err = s.Interact(ctx, "mrs_hale")
	require.NoError(t, err)
	_, err = s.SelectOption(3)
	require.NoError(t, err)
	v = s.Dialogue()
	assert.True(t, v.Active)
	assert.Equal(t, "previous_tenant", v.PendingNextID)

	s.EndDialogue()
	assert.False(t, s.Dialogue().Active)
	_, err = s.SelectOption(0)
	assert.ErrorIs(t, err, models.ErrNoActiveDialogue)
}
