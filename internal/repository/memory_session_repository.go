package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"investigation-server/internal/models"

	"github.com/google/uuid"
)

var _ SessionRepository = (*MemorySessionRepository)(nil)

// MemorySessionRepository хранит сессии в памяти процесса. Используется,
// когда база данных не настроена.
type MemorySessionRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]SessionRecord
	now     func() time.Time
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{records: make(map[uuid.UUID]SessionRecord), now: time.Now}
}

func (r *MemorySessionRepository) Create(_ context.Context, rec *SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[rec.ID]; ok {
		return models.ErrVersionConflict
	}
	now := r.now().UTC()
	rec.Version = 1
	rec.CreatedAt = now
	rec.UpdatedAt = now
	r.records[rec.ID] = clone(*rec)
	return nil
}

func (r *MemorySessionRepository) Get(_ context.Context, id uuid.UUID) (*SessionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := clone(rec)
	return &out, nil
}

func (r *MemorySessionRepository) Update(_ context.Context, rec *SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.records[rec.ID]
	if !ok {
		return models.ErrNotFound
	}
	if cur.Version != rec.Version {
		return models.ErrVersionConflict
	}
	rec.Version++
	rec.CreatedAt = cur.CreatedAt
	rec.UpdatedAt = r.now().UTC()
	r.records[rec.ID] = clone(*rec)
	return nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *MemorySessionRepository) ListByPlayer(_ context.Context, playerID uuid.UUID) ([]SessionSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []SessionSummary{}
	for _, rec := range r.records {
		if rec.PlayerID == playerID {
			out = append(out, SessionSummary{ID: rec.ID, Scene: rec.Scene, Day: rec.Day, CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func clone(rec SessionRecord) SessionRecord {
	rec.State = append([]byte(nil), rec.State...)
	return rec
}
