package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type - тип игрового события.
type Type string

const (
	PhotoAdded            Type = "photo_added"
	PhotoRemoved          Type = "photo_removed"
	PhotosValidated       Type = "photos_validated"
	DayAdvanced           Type = "day_advanced"
	PhotoTaken            Type = "photo_taken"
	ObjectPhotographed    Type = "object_photographed"
	SanityChanged         Type = "sanity_changed"
	ClarityChanged        Type = "clarity_changed"
	DialogueStarted       Type = "dialogue_started"
	DialogueEnded         Type = "dialogue_ended"
	ClueRevealed          Type = "clue_revealed"
	CameraPositionChanged Type = "camera_position_changed"
	ZoomStarted           Type = "zoom_started"
	ZoomEnded             Type = "zoom_ended"
	SceneTransitionStart  Type = "scene_transition_started"
	SceneLoaded           Type = "scene_loaded"
	ObjectExamined        Type = "object_examined"
)

// Event - событие, которое сессия публикует наружу.
type Event struct {
	Type      Type      `json:"type"`
	SessionID uuid.UUID `json:"sessionId"`
	PlayerID  uuid.UUID `json:"playerId"`
	Payload   any       `json:"payload,omitempty"`
	At        time.Time `json:"at"`
}

// Recorder принимает события от доменных компонентов.
type Recorder interface {
	Record(t Type, payload any)
}

// Discard - Recorder, который ничего не сохраняет.
type Discard struct{}

func (Discard) Record(Type, any) {}

// Outbox накапливает события одной операции до публикации.
type Outbox struct {
	sessionID uuid.UUID
	playerID  uuid.UUID
	now       func() time.Time
	events    []Event
}

// NewOutbox создает буфер событий для сессии.
func NewOutbox(sessionID, playerID uuid.UUID, now func() time.Time) *Outbox {
	if now == nil {
		now = time.Now
	}
	return &Outbox{sessionID: sessionID, playerID: playerID, now: now}
}

func (o *Outbox) Record(t Type, payload any) {
	o.events = append(o.events, Event{
		Type:      t,
		SessionID: o.sessionID,
		PlayerID:  o.playerID,
		Payload:   payload,
		At:        o.now().UTC(),
	})
}

// Drain возвращает накопленные события и очищает буфер.
func (o *Outbox) Drain() []Event {
	out := o.events
	o.events = nil
	return out
}

// Len - число событий в буфере.
func (o *Outbox) Len() int { return len(o.events) }

// Sink публикует события во внешний канал (брокер, WebSocket).
type Sink interface {
	Publish(ctx context.Context, evs ...Event) error
}

// FanOut рассылает события во все приемники. Ошибка одного приемника
// не останавливает остальные.
type FanOut []Sink

func (f FanOut) Publish(ctx context.Context, evs ...Event) error {
	if len(evs) == 0 {
		return nil
	}
	var errs []error
	for _, s := range f {
		if s == nil {
			continue
		}
		if err := s.Publish(ctx, evs...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
