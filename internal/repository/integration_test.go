//go:build integration

package repository_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"investigation-server/internal/database"
	"investigation-server/internal/models"
	"investigation-server/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

type SessionRepositorySuite struct {
	suite.Suite
	pg     *postgres.PostgresContainer
	rc     *tcredis.RedisContainer
	pool   *pgxpool.Pool
	client *redis.Client
	repo   repository.SessionRepository
}

func (s *SessionRepositorySuite) SetupSuite() {
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("investigation"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(5*time.Minute),
		),
	)
	s.Require().NoError(err)
	s.pg = pg
	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.pool, err = database.NewPool(ctx, database.PoolConfig{DSN: dsn}, zap.NewNop())
	s.Require().NoError(err)
	s.Require().NoError(database.NewMigrator(s.pool, zap.NewNop()).Up(ctx))

	rc, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.rc = rc
	url, err := rc.ConnectionString(ctx)
	s.Require().NoError(err)
	opts, err := redis.ParseURL(url)
	s.Require().NoError(err)
	s.client = redis.NewClient(opts)

	pgRepo := repository.NewPgSessionRepository(s.pool, zap.NewNop())
	s.repo = repository.NewCachedSessionRepository(pgRepo, s.client, time.Minute, zap.NewNop())
}

func (s *SessionRepositorySuite) TearDownSuite() {
	ctx := context.Background()
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	if s.rc != nil {
		_ = s.rc.Terminate(ctx)
	}
	if s.pg != nil {
		_ = s.pg.Terminate(ctx)
	}
}

func (s *SessionRepositorySuite) TestLifecycle() {
	ctx := context.Background()
	player := uuid.New()
	rec := &repository.SessionRecord{
		ID:       uuid.New(),
		PlayerID: player,
		Scene:    "apartment",
		Day:      1,
		State:    json.RawMessage(`{"version":1}`),
	}
	s.Require().NoError(s.repo.Create(ctx, rec))
	s.Equal(int64(1), rec.Version)

	got, err := s.repo.Get(ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal("apartment", got.Scene)
	s.JSONEq(`{"version":1}`, string(got.State))

	stale := *got
	got.Day = 2
	got.Scene = "hallway"
	s.Require().NoError(s.repo.Update(ctx, got))
	s.Equal(int64(2), got.Version)
	s.ErrorIs(s.repo.Update(ctx, &stale), models.ErrVersionConflict)

	cached, err := s.repo.Get(ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal("hallway", cached.Scene)

	list, err := s.repo.ListByPlayer(ctx, player)
	s.Require().NoError(err)
	s.Len(list, 1)

	s.Require().NoError(s.repo.Delete(ctx, rec.ID))
	_, err = s.repo.Get(ctx, rec.ID)
	s.ErrorIs(err, models.ErrNotFound)
	s.ErrorIs(s.repo.Update(ctx, got), models.ErrNotFound)
}

func TestSessionRepositorySuite(t *testing.T) {
	suite.Run(t, new(SessionRepositorySuite))
}
