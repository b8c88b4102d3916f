package mocks

import (
	"context"

	"investigation-server/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// SessionRepository - мок repository.SessionRepository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(ctx context.Context, rec *repository.SessionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*repository.SessionRecord, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*repository.SessionRecord)
	return rec, args.Error(1)
}

func (m *SessionRepository) Update(ctx context.Context, rec *repository.SessionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SessionRepository) ListByPlayer(ctx context.Context, playerID uuid.UUID) ([]repository.SessionSummary, error) {
	args := m.Called(ctx, playerID)
	list, _ := args.Get(0).([]repository.SessionSummary)
	return list, args.Error(1)
}

var _ repository.SessionRepository = (*SessionRepository)(nil)
