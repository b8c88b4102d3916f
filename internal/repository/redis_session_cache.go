package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultSessionCacheTTL = 15 * time.Minute

var _ SessionRepository = (*cachedSessionRepository)(nil)

// cachedSessionRepository кладет записи сессий в Redis поверх основного
// хранилища. Ошибки Redis не прерывают операцию: кэш просто пропускается.
type cachedSessionRepository struct {
	next   SessionRepository
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSessionRepository оборачивает репозиторий кэшем в Redis.
func NewCachedSessionRepository(next SessionRepository, client redis.Cmdable, ttl time.Duration, logger *zap.Logger) SessionRepository {
	if ttl <= 0 {
		ttl = defaultSessionCacheTTL
	}
	return &cachedSessionRepository{next: next, client: client, ttl: ttl, logger: logger.Named("RedisSessionCache")}
}

func sessionKey(id uuid.UUID) string { return fmt.Sprintf("game_session:%s", id) }

func (r *cachedSessionRepository) Create(ctx context.Context, rec *SessionRecord) error {
	if err := r.next.Create(ctx, rec); err != nil {
		return err
	}
	r.put(ctx, rec)
	return nil
}

func (r *cachedSessionRepository) Get(ctx context.Context, id uuid.UUID) (*SessionRecord, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	switch {
	case err == nil:
		var rec SessionRecord
		if jsonErr := json.Unmarshal(data, &rec); jsonErr == nil {
			return &rec, nil
		}
		r.logger.Warn("Corrupted cache entry, dropping", zap.String("sessionID", id.String()))
		r.evict(ctx, id)
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("Failed to read session from cache", zap.String("sessionID", id.String()), zap.Error(err))
	}

	rec, err := r.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.put(ctx, rec)
	return rec, nil
}

func (r *cachedSessionRepository) Update(ctx context.Context, rec *SessionRecord) error {
	if err := r.next.Update(ctx, rec); err != nil {
		// Кэш мог отстать от базы, следующий Get перечитает запись.
		r.evict(ctx, rec.ID)
		return err
	}
	r.put(ctx, rec)
	return nil
}

func (r *cachedSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.evict(ctx, id)
	return r.next.Delete(ctx, id)
}

func (r *cachedSessionRepository) ListByPlayer(ctx context.Context, playerID uuid.UUID) ([]SessionSummary, error) {
	return r.next.ListByPlayer(ctx, playerID)
}

func (r *cachedSessionRepository) put(ctx context.Context, rec *SessionRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		r.logger.Error("Failed to marshal session for cache", zap.String("sessionID", rec.ID.String()), zap.Error(err))
		return
	}
	pipe := r.client.Pipeline()
	pipe.Set(ctx, sessionKey(rec.ID), data, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("Failed to cache session", zap.String("sessionID", rec.ID.String()), zap.Error(err))
	}
}

func (r *cachedSessionRepository) evict(ctx context.Context, id uuid.UUID) {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		r.logger.Warn("Failed to evict session from cache", zap.String("sessionID", id.String()), zap.Error(err))
	}
}
