package mocks

import (
	"context"
	"time"

	"investigation-server/internal/interaction"
	"investigation-server/internal/models"
	"investigation-server/internal/photography"

	"github.com/stretchr/testify/mock"
)

// Photographer - мок для interaction.Photographer.
type Photographer struct {
	mock.Mock
}

func (m *Photographer) TakePhoto(ctx context.Context, shot photography.Shot) (models.JournalEntry, error) {
	args := m.Called(ctx, shot)
	return args.Get(0).(models.JournalEntry), args.Error(1)
}

// Zoomer - мок для interaction.Zoomer.
type Zoomer struct {
	mock.Mock
}

func (m *Zoomer) ZoomTo(now time.Time, objectID string, target, viewer models.Vec3) bool {
	args := m.Called(now, objectID, target, viewer)
	return args.Bool(0)
}

func (m *Zoomer) IsZoomed(now time.Time) bool {
	args := m.Called(now)
	return args.Bool(0)
}

// DialogueStarter - мок для interaction.DialogueStarter.
type DialogueStarter struct {
	mock.Mock
}

func (m *DialogueStarter) StartSet(set *models.DialogueSet) error {
	args := m.Called(set)
	return args.Error(0)
}

// SceneChanger - мок для interaction.SceneChanger.
type SceneChanger struct {
	mock.Mock
}

func (m *SceneChanger) TransitionTo(now time.Time, name string) error {
	args := m.Called(now, name)
	return args.Error(0)
}

var (
	_ interaction.Photographer    = (*Photographer)(nil)
	_ interaction.Zoomer          = (*Zoomer)(nil)
	_ interaction.DialogueStarter = (*DialogueStarter)(nil)
	_ interaction.SceneChanger    = (*SceneChanger)(nil)
)
