package game

import (
	"sort"
	"sync"

	"investigation-server/internal/models"

	"github.com/google/uuid"
)

// Registry хранит живые сессии в памяти процесса.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*Session)}
}

// Put добавляет сессию. Если сессия с таким ID уже есть, возвращается
// существующая: две параллельные загрузки из БД сходятся в одну.
func (r *Registry) Put(s *Session) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[s.ID()]; ok {
		return existing
	}
	r.sessions[s.ID()] = s
	return s
}

func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// ListByPlayer возвращает ID сессий игрока в стабильном порядке.
func (r *Registry) ListByPlayer(playerID uuid.UUID) []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []uuid.UUID
	for id, s := range r.sessions {
		if s.PlayerID() == playerID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Do выполняет fn под мьютексом сессии.
func (r *Registry) Do(id uuid.UUID, fn func(*Session) error) error {
	s, ok := r.Get(id)
	if !ok {
		return models.ErrNotFound
	}
	s.Lock()
	defer s.Unlock()
	return fn(s)
}
