package mocks

import (
	"context"

	"investigation-server/internal/photography"

	"github.com/stretchr/testify/mock"
)

// PhotoStore - мок для photography.PhotoStore.
type PhotoStore struct {
	mock.Mock
}

func (m *PhotoStore) Save(ctx context.Context, key photography.PhotoKey, img photography.Image) (string, error) {
	args := m.Called(ctx, key, img)
	return args.String(0), args.Error(1)
}

func (m *PhotoStore) URL(ctx context.Context, ref string) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

var _ photography.PhotoStore = (*PhotoStore)(nil)
