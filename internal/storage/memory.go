package storage

import (
	"context"
	"sync"

	"investigation-server/internal/models"
	"investigation-server/internal/photography"
)

var _ photography.PhotoStore = (*MemoryPhotoStore)(nil)

// MemoryPhotoStore держит снимки в памяти. Для локального запуска без MinIO.
type MemoryPhotoStore struct {
	mu      sync.RWMutex
	objects map[string]photography.Image
}

func NewMemoryPhotoStore() *MemoryPhotoStore {
	return &MemoryPhotoStore{objects: make(map[string]photography.Image)}
}

func (s *MemoryPhotoStore) Save(_ context.Context, key photography.PhotoKey, img photography.Image) (string, error) {
	name := objectName(key, img.ContentType)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = photography.Image{Data: append([]byte(nil), img.Data...), ContentType: img.ContentType}
	return name, nil
}

func (s *MemoryPhotoStore) URL(_ context.Context, ref string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[ref]; !ok {
		return "", models.ErrNotFound
	}
	return "memory://" + ref, nil
}

// Get возвращает сохраненное изображение.
func (s *MemoryPhotoStore) Get(ref string) (photography.Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.objects[ref]
	return img, ok
}
