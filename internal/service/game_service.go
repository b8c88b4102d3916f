// Package service связывает игровые сессии с хранилищем и публикацией событий.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"investigation-server/internal/dialogue"
	"investigation-server/internal/events"
	"investigation-server/internal/game"
	"investigation-server/internal/interaction"
	"investigation-server/internal/logger"
	"investigation-server/internal/models"
	"investigation-server/internal/photography"
	"investigation-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GameService - операции игрока над своими сессиями.
type GameService interface {
	CreateSession(ctx context.Context, playerID uuid.UUID) (game.View, error)
	ListSessions(ctx context.Context, playerID uuid.UUID) ([]repository.SessionSummary, error)
	GetSession(ctx context.Context, playerID, sessionID uuid.UUID) (game.View, error)
	DeleteSession(ctx context.Context, playerID, sessionID uuid.UUID) error

	Hover(ctx context.Context, playerID, sessionID uuid.UUID, objectID string) (game.View, error)
	Interact(ctx context.Context, playerID, sessionID uuid.UUID, objectID string) (interaction.Outcome, error)
	Photograph(ctx context.Context, playerID, sessionID uuid.UUID, objectID string, img photography.Image) (interaction.Outcome, error)
	ExitZoom(ctx context.Context, playerID, sessionID uuid.UUID) (game.View, error)

	NextCamera(ctx context.Context, playerID, sessionID uuid.UUID) (game.View, error)
	PreviousCamera(ctx context.Context, playerID, sessionID uuid.UUID) (game.View, error)
	SwitchCamera(ctx context.Context, playerID, sessionID uuid.UUID, index int) (game.View, error)
	Look(ctx context.Context, playerID, sessionID uuid.UUID, dx, dy float64) (game.View, error)

	Journal(ctx context.Context, playerID, sessionID uuid.UUID) (game.JournalView, error)
	PhotoURL(ctx context.Context, playerID, sessionID uuid.UUID, entryID string) (string, error)
	RemovePhoto(ctx context.Context, playerID, sessionID uuid.UUID, entryID string) (game.JournalView, error)
	AdvanceDay(ctx context.Context, playerID, sessionID uuid.UUID) (game.JournalView, error)

	Dialogue(ctx context.Context, playerID, sessionID uuid.UUID) (dialogue.View, error)
	SelectOption(ctx context.Context, playerID, sessionID uuid.UUID, index int) (dialogue.Selection, error)
	EndDialogue(ctx context.Context, playerID, sessionID uuid.UUID) (dialogue.View, error)
}

type gameServiceImpl struct {
	repo     repository.SessionRepository
	registry *game.Registry
	sink     events.Sink
	deps     game.Deps
	logger   *zap.Logger

	// версии записей в хранилище для оптимистической блокировки
	versionsMu sync.Mutex
	versions   map[uuid.UUID]int64
}

// NewGameService создает сервис. deps - шаблон зависимостей новых сессий.
func NewGameService(repo repository.SessionRepository, registry *game.Registry, sink events.Sink, deps game.Deps, log *zap.Logger) GameService {
	if registry == nil {
		registry = game.NewRegistry()
	}
	if sink == nil {
		sink = events.FanOut{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	log = logger.OrNop(log)
	if deps.Logger == nil {
		deps.Logger = log
	}
	log = log.Named("GameService")
	return &gameServiceImpl{
		repo:     repo,
		registry: registry,
		sink:     sink,
		deps:     deps,
		logger:   log,
		versions: make(map[uuid.UUID]int64),
	}
}

func (s *gameServiceImpl) CreateSession(ctx context.Context, playerID uuid.UUID) (game.View, error) {
	start := time.Now()
	log := s.logger.With(zap.String("playerID", playerID.String()))

	sess, err := game.NewSession(uuid.New(), playerID, s.deps)
	if err != nil {
		log.Error("Failed to create session", zap.Error(err))
		return game.View{}, err
	}
	rec, err := toRecord(sess)
	if err != nil {
		return game.View{}, err
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		log.Error("Failed to save new session", zap.Error(err))
		actionsTotal.WithLabelValues("create", "error").Inc()
		return game.View{}, fmt.Errorf("failed to save session: %w", err)
	}
	s.setVersion(sess.ID(), rec.Version)
	s.registry.Put(sess)
	liveSessions.Set(float64(s.registry.Len()))
	sessionsCreatedTotal.Inc()

	sess.Lock()
	view := sess.View()
	evs := sess.DrainEvents()
	sess.Unlock()
	s.publish(ctx, sess.ID(), evs)

	actionsTotal.WithLabelValues("create", "ok").Inc()
	actionDuration.WithLabelValues("create").Observe(time.Since(start).Seconds())
	log.Info("Session created", zap.String("sessionID", sess.ID().String()))
	return view, nil
}

func (s *gameServiceImpl) ListSessions(ctx context.Context, playerID uuid.UUID) ([]repository.SessionSummary, error) {
	list, err := s.repo.ListByPlayer(ctx, playerID)
	if err != nil {
		s.logger.Error("Failed to list sessions", zap.String("playerID", playerID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return list, nil
}

func (s *gameServiceImpl) GetSession(ctx context.Context, playerID, sessionID uuid.UUID) (game.View, error) {
	var view game.View
	err := s.apply(ctx, "view", playerID, sessionID, false, func(sess *game.Session) error {
		view = sess.View()
		return nil
	})
	return view, err
}

func (s *gameServiceImpl) DeleteSession(ctx context.Context, playerID, sessionID uuid.UUID) error {
	if _, err := s.load(ctx, playerID, sessionID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, sessionID); err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("Failed to delete session", zap.String("sessionID", sessionID.String()), zap.Error(err))
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.forget(sessionID)
	s.logger.Info("Session deleted", zap.String("sessionID", sessionID.String()))
	return nil
}

func (s *gameServiceImpl) Hover(ctx context.Context, playerID, sessionID uuid.UUID, objectID string) (game.View, error) {
	return s.viewAction(ctx, "hover", playerID, sessionID, func(sess *game.Session) error {
		return sess.Hover(objectID)
	})
}

func (s *gameServiceImpl) Interact(ctx context.Context, playerID, sessionID uuid.UUID, objectID string) (interaction.Outcome, error) {
	var out interaction.Outcome
	err := s.apply(ctx, "interact", playerID, sessionID, true, func(sess *game.Session) error {
		var err error
		out, err = sess.Interact(ctx, objectID)
		return err
	})
	return out, err
}

func (s *gameServiceImpl) Photograph(ctx context.Context, playerID, sessionID uuid.UUID, objectID string, img photography.Image) (interaction.Outcome, error) {
	var out interaction.Outcome
	err := s.apply(ctx, "photograph", playerID, sessionID, true, func(sess *game.Session) error {
		var err error
		out, err = sess.Photograph(ctx, objectID, img)
		return err
	})
	return out, err
}

func (s *gameServiceImpl) ExitZoom(ctx context.Context, playerID, sessionID uuid.UUID) (game.View, error) {
	return s.viewAction(ctx, "zoom_exit", playerID, sessionID, func(sess *game.Session) error {
		sess.ExitZoom()
		return nil
	})
}

func (s *gameServiceImpl) NextCamera(ctx context.Context, playerID, sessionID uuid.UUID) (game.View, error) {
	return s.viewAction(ctx, "camera_next", playerID, sessionID, func(sess *game.Session) error {
		return sess.NextCamera()
	})
}

func (s *gameServiceImpl) PreviousCamera(ctx context.Context, playerID, sessionID uuid.UUID) (game.View, error) {
	return s.viewAction(ctx, "camera_previous", playerID, sessionID, func(sess *game.Session) error {
		return sess.PreviousCamera()
	})
}

func (s *gameServiceImpl) SwitchCamera(ctx context.Context, playerID, sessionID uuid.UUID, index int) (game.View, error) {
	return s.viewAction(ctx, "camera_switch", playerID, sessionID, func(sess *game.Session) error {
		return sess.SwitchCamera(index)
	})
}

// Look не сохраняет сессию: поворот камеры слишком частый, поза
// попадет в хранилище со следующим сохраняемым действием.
func (s *gameServiceImpl) Look(ctx context.Context, playerID, sessionID uuid.UUID, dx, dy float64) (game.View, error) {
	var view game.View
	err := s.apply(ctx, "camera_look", playerID, sessionID, false, func(sess *game.Session) error {
		sess.Look(dx, dy)
		view = sess.View()
		return nil
	})
	return view, err
}

func (s *gameServiceImpl) Journal(ctx context.Context, playerID, sessionID uuid.UUID) (game.JournalView, error) {
	var jv game.JournalView
	err := s.apply(ctx, "journal", playerID, sessionID, false, func(sess *game.Session) error {
		jv = sess.Journal()
		return nil
	})
	return jv, err
}

func (s *gameServiceImpl) PhotoURL(ctx context.Context, playerID, sessionID uuid.UUID, entryID string) (string, error) {
	var url string
	err := s.apply(ctx, "photo_url", playerID, sessionID, false, func(sess *game.Session) error {
		var err error
		url, err = sess.PhotoURL(ctx, entryID)
		return err
	})
	return url, err
}

func (s *gameServiceImpl) RemovePhoto(ctx context.Context, playerID, sessionID uuid.UUID, entryID string) (game.JournalView, error) {
	var jv game.JournalView
	err := s.apply(ctx, "photo_remove", playerID, sessionID, true, func(sess *game.Session) error {
		if err := sess.RemovePhoto(entryID); err != nil {
			return err
		}
		jv = sess.Journal()
		return nil
	})
	return jv, err
}

func (s *gameServiceImpl) AdvanceDay(ctx context.Context, playerID, sessionID uuid.UUID) (game.JournalView, error) {
	var jv game.JournalView
	err := s.apply(ctx, "day_advance", playerID, sessionID, true, func(sess *game.Session) error {
		jv = sess.AdvanceDay()
		return nil
	})
	return jv, err
}

func (s *gameServiceImpl) Dialogue(ctx context.Context, playerID, sessionID uuid.UUID) (dialogue.View, error) {
	var dv dialogue.View
	err := s.apply(ctx, "dialogue", playerID, sessionID, false, func(sess *game.Session) error {
		dv = sess.Dialogue()
		return nil
	})
	return dv, err
}

func (s *gameServiceImpl) SelectOption(ctx context.Context, playerID, sessionID uuid.UUID, index int) (dialogue.Selection, error) {
	var sel dialogue.Selection
	err := s.apply(ctx, "dialogue_select", playerID, sessionID, true, func(sess *game.Session) error {
		var err error
		sel, err = sess.SelectOption(index)
		return err
	})
	return sel, err
}

func (s *gameServiceImpl) EndDialogue(ctx context.Context, playerID, sessionID uuid.UUID) (dialogue.View, error) {
	var dv dialogue.View
	err := s.apply(ctx, "dialogue_end", playerID, sessionID, true, func(sess *game.Session) error {
		sess.EndDialogue()
		dv = sess.Dialogue()
		return nil
	})
	return dv, err
}

// viewAction - сохраняемое действие, после которого клиенту отдается
// полное состояние сессии.
func (s *gameServiceImpl) viewAction(ctx context.Context, action string, playerID, sessionID uuid.UUID, fn func(*game.Session) error) (game.View, error) {
	var view game.View
	err := s.apply(ctx, action, playerID, sessionID, true, func(sess *game.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		view = sess.View()
		return nil
	})
	return view, err
}

// apply выполняет fn под мьютексом сессии. При persist и успешном fn
// снимок сохраняется в хранилище. Если сохранить не удалось, сессия
// выбрасывается из памяти, а ее события не публикуются.
func (s *gameServiceImpl) apply(ctx context.Context, action string, playerID, sessionID uuid.UUID, persist bool, fn func(*game.Session) error) (err error) {
	start := time.Now()
	log := s.logger.With(zap.String("action", action), zap.String("sessionID", sessionID.String()))
	defer func() {
		actionsTotal.WithLabelValues(action, resultLabel(err)).Inc()
		actionDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
	}()

	if _, err = s.load(ctx, playerID, sessionID); err != nil {
		return err
	}

	var (
		evs     []events.Event
		saveErr error
	)
	err = s.registry.Do(sessionID, func(sess *game.Session) error {
		defer func() { evs = sess.DrainEvents() }()
		if err := fn(sess); err != nil {
			return err
		}
		if persist {
			saveErr = s.save(ctx, sess)
			return saveErr
		}
		return nil
	})
	if saveErr != nil {
		// в памяти осталось несохраненное действие: следующий запрос перечитает сессию из хранилища
		s.forget(sessionID)
		log.Warn("Session not saved, dropping cached session and its events",
			zap.Int("droppedEvents", len(evs)), zap.Error(saveErr))
		evs = nil
	}
	s.publish(ctx, sessionID, evs)

	switch {
	case err == nil:
	case errors.Is(err, models.ErrVersionConflict):
		log.Warn("Session version conflict", zap.Error(err))
	case isRefusal(err):
		log.Warn("Action refused", zap.Error(err))
	default:
		log.Error("Action failed", zap.Error(err))
	}
	return err
}

// load находит сессию в памяти или поднимает ее из хранилища и
// проверяет, что она принадлежит игроку.
func (s *gameServiceImpl) load(ctx context.Context, playerID, sessionID uuid.UUID) (*game.Session, error) {
	sess, ok := s.registry.Get(sessionID)
	if !ok {
		rec, err := s.repo.Get(ctx, sessionID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, models.ErrNotFound
			}
			s.logger.Error("Failed to load session", zap.String("sessionID", sessionID.String()), zap.Error(err))
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		restored, err := game.UnmarshalSession(rec.State, s.deps)
		if err != nil {
			s.logger.Error("Failed to restore session", zap.String("sessionID", sessionID.String()), zap.Error(err))
			return nil, fmt.Errorf("failed to restore session %s: %w", sessionID, err)
		}
		s.setVersion(sessionID, rec.Version)
		sess = s.registry.Put(restored)
		liveSessions.Set(float64(s.registry.Len()))
	}
	if sess.PlayerID() != playerID {
		s.logger.Warn("Session belongs to another player",
			zap.String("sessionID", sessionID.String()), zap.String("playerID", playerID.String()))
		return nil, models.ErrForbidden
	}
	return sess, nil
}

func (s *gameServiceImpl) save(ctx context.Context, sess *game.Session) error {
	rec, err := toRecord(sess)
	if err != nil {
		return err
	}
	rec.Version = s.version(sess.ID())
	if err := s.repo.Update(ctx, rec); err != nil {
		if errors.Is(err, models.ErrVersionConflict) || errors.Is(err, models.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.setVersion(sess.ID(), rec.Version)
	return nil
}

func (s *gameServiceImpl) publish(ctx context.Context, sessionID uuid.UUID, evs []events.Event) {
	if len(evs) == 0 {
		return
	}
	if err := s.sink.Publish(ctx, evs...); err != nil {
		eventsPublishedTotal.WithLabelValues("error").Add(float64(len(evs)))
		s.logger.Error("Failed to publish game events",
			zap.String("sessionID", sessionID.String()), zap.Int("count", len(evs)), zap.Error(err))
		return
	}
	eventsPublishedTotal.WithLabelValues("ok").Add(float64(len(evs)))
}

func (s *gameServiceImpl) forget(id uuid.UUID) {
	s.registry.Delete(id)
	s.versionsMu.Lock()
	delete(s.versions, id)
	s.versionsMu.Unlock()
	liveSessions.Set(float64(s.registry.Len()))
}

func (s *gameServiceImpl) version(id uuid.UUID) int64 {
	s.versionsMu.Lock()
	defer s.versionsMu.Unlock()
	return s.versions[id]
}

func (s *gameServiceImpl) setVersion(id uuid.UUID, v int64) {
	s.versionsMu.Lock()
	s.versions[id] = v
	s.versionsMu.Unlock()
}

func toRecord(sess *game.Session) (*repository.SessionRecord, error) {
	snap := sess.Snapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session snapshot: %w", err)
	}
	return &repository.SessionRecord{
		ID:       snap.ID,
		PlayerID: snap.PlayerID,
		Scene:    snap.Scene.Current,
		Day:      snap.Journal.CurrentDay,
		State:    data,
	}, nil
}
