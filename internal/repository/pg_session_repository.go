package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"investigation-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	sessionFields = `id, player_id, scene, day, state, version, created_at, updated_at`

	insertSessionQuery = `
        INSERT INTO game_sessions (id, player_id, scene, day, state, version, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, 1, $6, $6)
    `
	getSessionQuery    = `SELECT ` + sessionFields + ` FROM game_sessions WHERE id = $1`
	updateSessionQuery = `
        UPDATE game_sessions SET
            scene = $2,
            day = $3,
            state = $4,
            version = version + 1,
            updated_at = $5
        WHERE id = $1 AND version = $6
    `
	deleteSessionQuery        = `DELETE FROM game_sessions WHERE id = $1`
	listSessionsByPlayerQuery = `
        SELECT id, scene, day, created_at, updated_at
        FROM game_sessions
        WHERE player_id = $1
        ORDER BY updated_at DESC
    `
)

var _ SessionRepository = (*pgSessionRepository)(nil)

type pgSessionRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgSessionRepository создает репозиторий сессий поверх PostgreSQL.
func NewPgSessionRepository(db DBTX, logger *zap.Logger) SessionRepository {
	return &pgSessionRepository{db: db, logger: logger.Named("PgSessionRepo")}
}

func (r *pgSessionRepository) Create(ctx context.Context, rec *SessionRecord) error {
	now := time.Now().UTC()
	if _, err := r.db.Exec(ctx, insertSessionQuery, rec.ID, rec.PlayerID, rec.Scene, rec.Day, rec.State, now); err != nil {
		r.logger.Error("Failed to insert game session", zap.String("sessionID", rec.ID.String()), zap.Error(err))
		return fmt.Errorf("failed to insert game session %s: %w", rec.ID, err)
	}
	rec.Version = 1
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return nil
}

func (r *pgSessionRepository) Get(ctx context.Context, id uuid.UUID) (*SessionRecord, error) {
	var rec SessionRecord
	if err := pgxscan.Get(ctx, r.db, &rec, getSessionQuery, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get game session", zap.String("sessionID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get game session %s: %w", id, err)
	}
	return &rec, nil
}

func (r *pgSessionRepository) Update(ctx context.Context, rec *SessionRecord) error {
	log := r.logger.With(zap.String("sessionID", rec.ID.String()), zap.Int64("version", rec.Version))
	now := time.Now().UTC()
	tag, err := r.db.Exec(ctx, updateSessionQuery, rec.ID, rec.Scene, rec.Day, rec.State, now, rec.Version)
	if err != nil {
		log.Error("Failed to update game session", zap.Error(err))
		return fmt.Errorf("failed to update game session %s: %w", rec.ID, err)
	}
	if tag.RowsAffected() == 0 {
		// Отличаем удаленную запись от устаревшей версии.
		if _, err := r.Get(ctx, rec.ID); errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		log.Warn("Game session version conflict")
		return models.ErrVersionConflict
	}
	rec.Version++
	rec.UpdatedAt = now
	return nil
}

func (r *pgSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, deleteSessionQuery, id)
	if err != nil {
		r.logger.Error("Failed to delete game session", zap.String("sessionID", id.String()), zap.Error(err))
		return fmt.Errorf("failed to delete game session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *pgSessionRepository) ListByPlayer(ctx context.Context, playerID uuid.UUID) ([]SessionSummary, error) {
	var out []SessionSummary
	if err := pgxscan.Select(ctx, r.db, &out, listSessionsByPlayerQuery, playerID); err != nil {
		r.logger.Error("Failed to list game sessions", zap.String("playerID", playerID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list game sessions: %w", err)
	}
	if out == nil {
		out = []SessionSummary{}
	}
	return out, nil
}
