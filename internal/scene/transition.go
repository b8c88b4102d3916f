// Package scene ведет переходы между комнатами: затемнение, загрузка и
// проявление новой сцены.
package scene

import (
	"fmt"
	"time"

	"investigation-server/internal/events"
	"investigation-server/internal/logger"
	"investigation-server/internal/models"

	"go.uber.org/zap"
)

const (
	DefaultFadeDuration   = time.Second
	DefaultMinLoadingTime = 500 * time.Millisecond
)

// Phase - этап перехода.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseFadingOut Phase = "fading_out"
	PhaseLoading   Phase = "loading"
	PhaseFadingIn  Phase = "fading_in"
)

type Config struct {
	FadeDuration   time.Duration
	MinLoadingTime time.Duration
}

// TransitionState - сериализуемый активный переход.
type TransitionState struct {
	From      string    `json:"from"`
	Target    string    `json:"target"`
	StartedAt time.Time `json:"startedAt"`
	Loaded    bool      `json:"loaded"`
}

type State struct {
	Current    string           `json:"current"`
	Transition *TransitionState `json:"transition,omitempty"`
}

// Transitioner - машина состояний перехода между сценами.
type Transitioner struct {
	cfg    Config
	scenes []string
	rec    events.Recorder
	logger *zap.Logger

	current string
	trans   *TransitionState

	// OnLoaded вызывается, когда целевая сцена становится текущей.
	OnLoaded func(from, to string)
}

// New создает машину переходов. scenes задает допустимые сцены и их индексы.
func New(cfg Config, scenes []string, current string, rec events.Recorder, log *zap.Logger) *Transitioner {
	if cfg.FadeDuration <= 0 {
		cfg.FadeDuration = DefaultFadeDuration
	}
	if cfg.MinLoadingTime <= 0 {
		cfg.MinLoadingTime = DefaultMinLoadingTime
	}
	if rec == nil {
		rec = events.Discard{}
	}
	return &Transitioner{
		cfg:     cfg,
		scenes:  append([]string(nil), scenes...),
		rec:     rec,
		logger:  logger.OrNop(log).Named("SceneTransition"),
		current: current,
	}
}

func (t *Transitioner) Current() string { return t.current }

// TransitionTo запускает переход в сцену по имени.
func (t *Transitioner) TransitionTo(now time.Time, name string) error {
	t.Advance(now)
	if t.trans != nil {
		t.logger.Warn("Already transitioning to a scene", zap.String("target", t.trans.Target), zap.String("requested", name))
		return models.ErrAlreadyTransitioning
	}
	if name == "" {
		t.logger.Error("Scene name is empty")
		return models.ErrEmptySceneName
	}
	if !t.known(name) {
		t.logger.Error("Unknown scene", zap.String("scene", name))
		return fmt.Errorf("%w: %s", models.ErrUnknownScene, name)
	}
	t.trans = &TransitionState{From: t.current, Target: name, StartedAt: now}
	t.logger.Info("Scene transition started", zap.String("from", t.current), zap.String("to", name))
	t.rec.Record(events.SceneTransitionStart, events.ScenePayload{From: t.current, To: name})
	return nil
}

// TransitionToIndex запускает переход в сцену по ее порядковому номеру.
func (t *Transitioner) TransitionToIndex(now time.Time, index int) error {
	t.Advance(now)
	if t.trans != nil {
		t.logger.Warn("Already transitioning to a scene", zap.Int("requestedIndex", index))
		return models.ErrAlreadyTransitioning
	}
	if index < 0 || index >= len(t.scenes) {
		t.logger.Error("Invalid scene index", zap.Int("index", index))
		return fmt.Errorf("%w: index %d", models.ErrUnknownScene, index)
	}
	return t.TransitionTo(now, t.scenes[index])
}

// Advance продвигает переход: после затемнения и минимального времени
// загрузки сцена становится текущей, после проявления переход завершается.
func (t *Transitioner) Advance(now time.Time) {
	if t.trans == nil {
		return
	}
	elapsed := now.Sub(t.trans.StartedAt)
	if !t.trans.Loaded && elapsed >= t.cfg.FadeDuration+t.cfg.MinLoadingTime {
		t.trans.Loaded = true
		from := t.current
		t.current = t.trans.Target
		t.logger.Info("Scene loaded", zap.String("scene", t.current))
		t.rec.Record(events.SceneLoaded, events.ScenePayload{From: from, To: t.current})
		if t.OnLoaded != nil {
			t.OnLoaded(from, t.current)
		}
	}
	if elapsed >= t.total() {
		t.trans = nil
	}
}

func (t *Transitioner) IsTransitioning(now time.Time) bool {
	t.Advance(now)
	return t.trans != nil
}

// Phase возвращает текущий этап перехода.
func (t *Transitioner) Phase(now time.Time) Phase {
	t.Advance(now)
	if t.trans == nil {
		return PhaseIdle
	}
	elapsed := now.Sub(t.trans.StartedAt)
	switch {
	case elapsed < t.cfg.FadeDuration:
		return PhaseFadingOut
	case !t.trans.Loaded:
		return PhaseLoading
	default:
		return PhaseFadingIn
	}
}

// FadeAlpha - непрозрачность затемнения от 0 до 1.
func (t *Transitioner) FadeAlpha(now time.Time) float64 {
	phase := t.Phase(now)
	switch phase {
	case PhaseFadingOut:
		return float64(now.Sub(t.trans.StartedAt)) / float64(t.cfg.FadeDuration)
	case PhaseLoading:
		return 1
	case PhaseFadingIn:
		fadeInStart := t.cfg.FadeDuration + t.cfg.MinLoadingTime
		return 1 - float64(now.Sub(t.trans.StartedAt)-fadeInStart)/float64(t.cfg.FadeDuration)
	default:
		return 0
	}
}

func (t *Transitioner) State() State {
	s := State{Current: t.current}
	if t.trans != nil {
		tr := *t.trans
		s.Transition = &tr
	}
	return s
}

func (t *Transitioner) Restore(s State) {
	t.current = s.Current
	t.trans = nil
	if s.Transition != nil {
		tr := *s.Transition
		t.trans = &tr
	}
}

func (t *Transitioner) total() time.Duration {
	return 2*t.cfg.FadeDuration + t.cfg.MinLoadingTime
}

func (t *Transitioner) known(name string) bool {
	for _, s := range t.scenes {
		if s == name {
			return true
		}
	}
	return false
}
