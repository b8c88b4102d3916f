package game

import (
	"encoding/json"
	"fmt"
	"time"

	"investigation-server/internal/camera"
	"investigation-server/internal/dialogue"
	"investigation-server/internal/events"
	"investigation-server/internal/journal"
	"investigation-server/internal/logger"
	"investigation-server/internal/models"
	"investigation-server/internal/scene"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// snapshotVersion меняется при несовместимом изменении формата.
const snapshotVersion = 1

// Snapshot - сериализуемое состояние сессии. Хранится в БД как JSONB.
type Snapshot struct {
	Version            int                                      `json:"version"`
	ID                 uuid.UUID                                `json:"id"`
	PlayerID           uuid.UUID                                `json:"playerId"`
	CreatedAt          time.Time                                `json:"createdAt"`
	Scene              scene.State                              `json:"scene"`
	Camera             camera.State                             `json:"camera"`
	Zoom               camera.ZoomState                         `json:"zoom"`
	Journal            journal.State                            `json:"journal"`
	Meters             dialogue.MeterState                      `json:"meters"`
	Dialogue           dialogue.State                           `json:"dialogue"`
	Objects            map[string]map[string]models.ObjectState `json:"objects"`
	Hovered            string                                   `json:"hovered,omitempty"`
	InteractionEnabled bool                                     `json:"interactionEnabled"`
}

// Snapshot фиксирует текущее состояние. Объекты текущей сцены сохраняются
// вместе с объектами ранее посещенных сцен.
func (s *Session) Snapshot() Snapshot {
	s.advance()
	objects := make(map[string]map[string]models.ObjectState, len(s.sceneObjects)+1)
	for name, st := range s.sceneObjects {
		objects[name] = st
	}
	objects[s.scenes.Current()] = s.world.States()
	return Snapshot{
		Version:            snapshotVersion,
		ID:                 s.id,
		PlayerID:           s.playerID,
		CreatedAt:          s.createdAt,
		Scene:              s.scenes.State(),
		Camera:             s.rig.State(),
		Zoom:               s.zoom.State(),
		Journal:            s.journal.State(),
		Meters:             s.meters.State(),
		Dialogue:           s.dialogue.State(),
		Objects:            objects,
		Hovered:            s.world.HoveredID(),
		InteractionEnabled: s.dispatcher.Enabled(),
	}
}

// MarshalSnapshot сериализует сессию в JSON.
func (s *Session) MarshalSnapshot() ([]byte, error) {
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session snapshot: %w", err)
	}
	return data, nil
}

// Restore поднимает сессию из снимка.
func Restore(snap Snapshot, deps Deps) (*Session, error) {
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d", models.ErrInvalidInput, snap.Version)
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("%w: catalog is required", models.ErrInvalidInput)
	}
	if _, ok := deps.Catalog.Scene(snap.Scene.Current); !ok {
		return nil, fmt.Errorf("%w: snapshot scene %q", models.ErrUnknownScene, snap.Scene.Current)
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	s := &Session{
		id:           snap.ID,
		playerID:     snap.PlayerID,
		createdAt:    snap.CreatedAt,
		deps:         deps,
		logger:       logger.OrNop(deps.Logger).Named("Session").With(zap.String("sessionID", snap.ID.String())),
		outbox:       events.NewOutbox(snap.ID, snap.PlayerID, deps.Clock),
		sceneObjects: make(map[string]map[string]models.ObjectState, len(snap.Objects)),
	}
	s.wire()

	current := snap.Scene.Current
	for name, st := range snap.Objects {
		if name != current {
			s.sceneObjects[name] = st
		}
	}
	s.enterScene(current, nil)
	s.world.Restore(snap.Objects[current], snap.Hovered)

	s.scenes.Restore(snap.Scene)
	s.rig.Restore(snap.Camera)
	s.zoom.Restore(snap.Zoom)
	s.journal.Restore(snap.Journal)
	s.meters.Restore(snap.Meters)
	s.dialogue.Restore(snap.Dialogue, deps.Catalog.Dialogue)
	s.dispatcher.SetEnabled(snap.InteractionEnabled)

	s.logger.Debug("Session restored", zap.String("scene", current), zap.Int("day", s.journal.CurrentDay()))
	return s, nil
}

// UnmarshalSession разбирает JSON снимка и поднимает сессию.
func UnmarshalSession(data []byte, deps Deps) (*Session, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session snapshot: %w", err)
	}
	return Restore(snap, deps)
}
