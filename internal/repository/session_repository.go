// Package repository хранит снимки игровых сессий.
package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SessionRecord - строка game_sessions. State - JSON снимка game.Snapshot.
type SessionRecord struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	PlayerID  uuid.UUID       `db:"player_id" json:"playerId"`
	Scene     string          `db:"scene" json:"scene"`
	Day       int             `db:"day" json:"day"`
	State     json.RawMessage `db:"state" json:"state"`
	Version   int64           `db:"version" json:"version"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

// SessionSummary - краткие сведения для списка сессий игрока.
type SessionSummary struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Scene     string    `db:"scene" json:"scene"`
	Day       int       `db:"day" json:"day"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// SessionRepository - хранилище сессий.
// Update использует оптимистическую блокировку: запись обновляется, только
// если ее версия совпадает с rec.Version, после чего версия увеличивается.
type SessionRepository interface {
	Create(ctx context.Context, rec *SessionRecord) error
	Get(ctx context.Context, id uuid.UUID) (*SessionRecord, error)
	Update(ctx context.Context, rec *SessionRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPlayer(ctx context.Context, playerID uuid.UUID) ([]SessionSummary, error)
}

// DBTX - общий интерфейс *pgxpool.Pool и pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
