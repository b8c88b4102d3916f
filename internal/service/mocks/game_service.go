package mocks

import (
	"context"

	"investigation-server/internal/dialogue"
	"investigation-server/internal/game"
	"investigation-server/internal/interaction"
	"investigation-server/internal/photography"
	"investigation-server/internal/repository"
	"investigation-server/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var _ service.GameService = (*GameService)(nil)

// GameService - мок service.GameService.
type GameService struct {
	mock.Mock
}

func (m *GameService) view(args mock.Arguments) (game.View, error) {
	v, _ := args.Get(0).(game.View)
	return v, args.Error(1)
}

func (m *GameService) journal(args mock.Arguments) (game.JournalView, error) {
	v, _ := args.Get(0).(game.JournalView)
	return v, args.Error(1)
}

func (m *GameService) dialogueView(args mock.Arguments) (dialogue.View, error) {
	v, _ := args.Get(0).(dialogue.View)
	return v, args.Error(1)
}

func (m *GameService) outcome(args mock.Arguments) (interaction.Outcome, error) {
	v, _ := args.Get(0).(interaction.Outcome)
	return v, args.Error(1)
}

func (m *GameService) CreateSession(ctx context.Context, playerID uuid.UUID) (game.View, error) {
	return m.view(m.Called(ctx, playerID))
}

func (m *GameService) ListSessions(ctx context.Context, playerID uuid.UUID) ([]repository.SessionSummary, error) {
	args := m.Called(ctx, playerID)
	list, _ := args.Get(0).([]repository.SessionSummary)
	return list, args.Error(1)
}

func (m *GameService) GetSession(ctx context.Context, playerID, sessionID uuid.UUID) (game.View, error) {
	return m.view(m.Called(ctx, playerID, sessionID))
}

func (m *GameService) DeleteSession(ctx context.Context, playerID, sessionID uuid.UUID) error {
	return m.Called(ctx, playerID, sessionID).Error(0)
}

func (m *GameService) Hover(ctx context.Context, playerID, sessionID uuid.UUID, objectID string) (game.View, error) {
	return m.view(m.Called(ctx, playerID, sessionID, objectID))
}

func (m *GameService) Interact(ctx context.Context, playerID, sessionID uuid.UUID, objectID string) (interaction.Outcome, error) {
	return m.outcome(m.Called(ctx, playerID, sessionID, objectID))
}

func (m *GameService) Photograph(ctx context.Context, playerID, sessionID uuid.UUID, objectID string, img photography.Image) (interaction.Outcome, error) {
	return m.outcome(m.Called(ctx, playerID, sessionID, objectID, img))
}

func (m *GameService) ExitZoom(ctx context.Context, playerID, sessionID uuid.UUID) (game.View, error) {
	return m.view(m.Called(ctx, playerID, sessionID))
}

func (m *GameService) NextCamera(ctx context.Context, playerID, sessionID uuid.UUID) (game.View, error) {
	return m.view(m.Called(ctx, playerID, sessionID))
}

func (m *GameService) PreviousCamera(ctx context.Context, playerID, sessionID uuid.UUID) (game.View, error) {
	return m.view(m.Called(ctx, playerID, sessionID))
}

func (m *GameService) SwitchCamera(ctx context.Context, playerID, sessionID uuid.UUID, index int) (game.View, error) {
	return m.view(m.Called(ctx, playerID, sessionID, index))
}

func (m *GameService) Look(ctx context.Context, playerID, sessionID uuid.UUID, dx, dy float64) (game.View, error) {
	return m.view(m.Called(ctx, playerID, sessionID, dx, dy))
}

func (m *GameService) Journal(ctx context.Context, playerID, sessionID uuid.UUID) (game.JournalView, error) {
	return m.journal(m.Called(ctx, playerID, sessionID))
}

func (m *GameService) PhotoURL(ctx context.Context, playerID, sessionID uuid.UUID, entryID string) (string, error) {
	args := m.Called(ctx, playerID, sessionID, entryID)
	return args.String(0), args.Error(1)
}

func (m *GameService) RemovePhoto(ctx context.Context, playerID, sessionID uuid.UUID, entryID string) (game.JournalView, error) {
	return m.journal(m.Called(ctx, playerID, sessionID, entryID))
}

func (m *GameService) AdvanceDay(ctx context.Context, playerID, sessionID uuid.UUID) (game.JournalView, error) {
	return m.journal(m.Called(ctx, playerID, sessionID))
}

func (m *GameService) Dialogue(ctx context.Context, playerID, sessionID uuid.UUID) (dialogue.View, error) {
	return m.dialogueView(m.Called(ctx, playerID, sessionID))
}

func (m *GameService) SelectOption(ctx context.Context, playerID, sessionID uuid.UUID, index int) (dialogue.Selection, error) {
	args := m.Called(ctx, playerID, sessionID, index)
	sel, _ := args.Get(0).(dialogue.Selection)
	return sel, args.Error(1)
}

func (m *GameService) EndDialogue(ctx context.Context, playerID, sessionID uuid.UUID) (dialogue.View, error) {
	return m.dialogueView(m.Called(ctx, playerID, sessionID))
}
