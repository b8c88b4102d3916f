// Package game собирает доменные компоненты в сессию одного игрока.
package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"investigation-server/internal/camera"
	"investigation-server/internal/catalog"
	"investigation-server/internal/dialogue"
	"investigation-server/internal/events"
	"investigation-server/internal/interaction"
	"investigation-server/internal/journal"
	"investigation-server/internal/logger"
	"investigation-server/internal/models"
	"investigation-server/internal/photography"
	"investigation-server/internal/scene"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Deps - внешние зависимости сессии.
type Deps struct {
	Catalog *catalog.Catalog
	Rules   catalog.Rules
	Photos  photography.PhotoStore // может быть nil
	Clock   func() time.Time
	Logger  *zap.Logger
}

// Session - состояние одного прохождения. Методы не потокобезопасны,
// доступ сериализует Registry.
type Session struct {
	mu sync.Mutex

	id        uuid.UUID
	playerID  uuid.UUID
	createdAt time.Time

	deps   Deps
	logger *zap.Logger
	outbox *events.Outbox

	journal      *journal.Journal
	meters       *dialogue.Meters
	dialogue     *dialogue.Manager
	photographer *photography.Photographer
	zoom         *camera.Zoom
	rig          *camera.Rig
	scenes       *scene.Transitioner
	world        *interaction.World
	dispatcher   *interaction.Dispatcher

	// состояния объектов покинутых сцен
	sceneObjects map[string]map[string]models.ObjectState
}

// NewSession создает новую игру в стартовой сцене каталога.
func NewSession(id, playerID uuid.UUID, deps Deps) (*Session, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("%w: catalog is required", models.ErrInvalidInput)
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	s := &Session{
		id:           id,
		playerID:     playerID,
		createdAt:    deps.Clock().UTC(),
		deps:         deps,
		logger:       logger.OrNop(deps.Logger).Named("Session").With(zap.String("sessionID", id.String())),
		outbox:       events.NewOutbox(id, playerID, deps.Clock),
		sceneObjects: make(map[string]map[string]models.ObjectState),
	}
	s.wire()
	s.enterScene(deps.Catalog.StartScene(), nil)
	s.logger.Info("Session created", zap.String("playerID", playerID.String()), zap.String("scene", s.scenes.Current()))
	return s, nil
}

func (s *Session) wire() {
	r := s.deps.Rules
	log := s.logger

	s.journal = journal.New(journal.Config{
		MaxPhotosPerDay:     r.MaxPhotosPerDay,
		TotalEvidencePieces: r.TotalEvidencePieces,
	}, s.outbox, log)
	s.meters = dialogue.NewMeters(s.outbox)
	s.dialogue = dialogue.NewManager(s.meters, dialogue.Config{GaslightingPenalty: r.GaslightingPenalty}, s.outbox, log)
	s.photographer = photography.New(s.id, s.journal, s.deps.Photos, s.outbox, log)
	s.zoom = camera.NewZoom(r.ZoomDistance, r.ZoomDuration, s.outbox)
	s.rig = camera.NewRig(camera.Config{
		TransitionDuration: r.CameraTransition,
		Sensitivity:        camera.Sensitivity{X: r.MouseSensitivityX, Y: r.MouseSensitivityY},
		InvertVertical:     r.InvertVertical,
	}, s.zoom, s.outbox, log)
	s.scenes = scene.New(scene.Config{
		FadeDuration:   r.FadeDuration,
		MinLoadingTime: r.MinLoadingTime,
	}, s.deps.Catalog.SceneNames(), s.deps.Catalog.StartScene(), s.outbox, log)
	s.scenes.OnLoaded = s.onSceneLoaded
	s.dispatcher = interaction.NewDispatcher(interaction.Deps{
		Photographer: s.photographer,
		Zoom:         s.zoom,
		Dialogue:     s.dialogue,
		Dialogues:    s.deps.Catalog,
		Scenes:       s.scenes,
		Viewer:       s.rig,
	}, log)
}

// enterScene строит объекты и камеру сцены. saved - состояние объектов,
// если игрок уже был в этой сцене.
func (s *Session) enterScene(name string, saved map[string]models.ObjectState) {
	def, ok := s.deps.Catalog.Scene(name)
	if !ok {
		s.logger.Error("Scene is missing from catalog", zap.String("scene", name))
		def = models.SceneDef{Name: name}
	}
	s.rig.Load(def.CameraPositions, def.StartingPosition)
	s.world = interaction.NewWorld(def.Interactables, s.rig, s.outbox, s.logger)
	if saved != nil {
		s.world.Restore(saved, "")
	}
}

func (s *Session) onSceneLoaded(from, to string) {
	if s.world != nil {
		s.sceneObjects[from] = s.world.States()
	}
	s.zoom.Restore(camera.ZoomState{})
	s.dialogue.End()
	s.syncInteraction()
	s.enterScene(to, s.sceneObjects[to])
}

// syncInteraction выключает взаимодействие с объектами, пока открыт диалог.
func (s *Session) syncInteraction() {
	s.dispatcher.SetEnabled(!s.dialogue.IsActive())
}

func (s *Session) ID() uuid.UUID       { return s.id }
func (s *Session) PlayerID() uuid.UUID { return s.playerID }

// Lock и Unlock сериализуют операции над сессией.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// advance продвигает все анимации до текущего момента.
func (s *Session) advance() time.Time {
	now := s.deps.Clock()
	s.scenes.Advance(now)
	s.zoom.Advance(now)
	s.rig.Advance(now)
	return now
}

// DrainEvents забирает события, накопленные с прошлого вызова.
func (s *Session) DrainEvents() []events.Event { return s.outbox.Drain() }

// ready отказывает в действиях, пока идет смена сцены.
func (s *Session) ready(now time.Time) error {
	if s.scenes.IsTransitioning(now) {
		return models.ErrSceneTransitioning
	}
	return nil
}

// Hover наводит курсор на объект; пустой id снимает наведение.
func (s *Session) Hover(objectID string) error {
	now := s.advance()
	if err := s.ready(now); err != nil {
		return err
	}
	return s.world.Hover(objectID)
}

// target возвращает объект по id или объект под курсором.
func (s *Session) target(objectID string) (interaction.Interactable, error) {
	if objectID == "" {
		if o, ok := s.world.Hovered(); ok {
			return o, nil
		}
		return nil, models.ErrNoHoveredObject
	}
	o, ok := s.world.Get(objectID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownObject, objectID)
	}
	return o, nil
}

// Interact выполняет основное действие над объектом.
func (s *Session) Interact(ctx context.Context, objectID string) (interaction.Outcome, error) {
	now := s.advance()
	if err := s.ready(now); err != nil {
		return interaction.Outcome{}, err
	}
	obj, err := s.target(objectID)
	if err != nil {
		return interaction.Outcome{}, err
	}
	out, err := s.dispatcher.Primary(ctx, now, obj)
	s.syncInteraction()
	return out, err
}

// Photograph фотографирует объект. img может быть пустым.
func (s *Session) Photograph(ctx context.Context, objectID string, img photography.Image) (interaction.Outcome, error) {
	now := s.advance()
	if err := s.ready(now); err != nil {
		return interaction.Outcome{}, err
	}
	obj, err := s.target(objectID)
	if err != nil {
		return interaction.Outcome{}, err
	}
	return s.dispatcher.Alternate(ctx, now, obj, img)
}

// ExitZoom начинает выход из приближения. false, если камера не приближена.
func (s *Session) ExitZoom() bool {
	return s.zoom.Exit(s.advance())
}

func (s *Session) NextCamera() error {
	now := s.advance()
	if err := s.ready(now); err != nil {
		return err
	}
	return s.rig.Next(now)
}

func (s *Session) PreviousCamera() error {
	now := s.advance()
	if err := s.ready(now); err != nil {
		return err
	}
	return s.rig.Previous(now)
}

func (s *Session) SwitchCamera(index int) error {
	now := s.advance()
	if err := s.ready(now); err != nil {
		return err
	}
	return s.rig.SwitchTo(now, index)
}

// Look поворачивает камеру. false, если поворот сейчас запрещен.
func (s *Session) Look(dx, dy float64) bool {
	now := s.advance()
	if s.ready(now) != nil {
		return false
	}
	return s.rig.Look(now, dx, dy)
}

// JournalView - содержимое журнала для клиента.
type JournalView struct {
	CurrentDay      int                   `json:"currentDay"`
	MaxPhotosPerDay int                   `json:"maxPhotosPerDay"`
	Remaining       int                   `json:"remaining"`
	Today           []models.JournalEntry `json:"today"`
	Evidence        []models.JournalEntry `json:"evidence"`
	Progress        journal.Progress      `json:"progress"`
}

func (s *Session) Journal() JournalView {
	s.advance()
	return JournalView{
		CurrentDay:      s.journal.CurrentDay(),
		MaxPhotosPerDay: s.journal.MaxPhotosPerDay(),
		Remaining:       s.journal.Remaining(),
		Today:           s.journal.Today(),
		Evidence:        s.journal.AllValidEvidence(),
		Progress:        s.journal.Progress(),
	}
}

// PhotoURL возвращает ссылку на изображение записи журнала.
func (s *Session) PhotoURL(ctx context.Context, entryID string) (string, error) {
	for _, list := range [][]models.JournalEntry{s.journal.Today(), s.journal.AllValidEvidence()} {
		for _, e := range list {
			if e.ID == entryID {
				return s.photographer.PhotoURL(ctx, e.PhotoRef)
			}
		}
	}
	return "", models.ErrPhotoNotFound
}

// RemovePhoto удаляет снимок текущего дня.
func (s *Session) RemovePhoto(entryID string) error {
	s.advance()
	if !s.journal.RemovePhoto(entryID) {
		return fmt.Errorf("%w: %s", models.ErrPhotoNotFound, entryID)
	}
	return nil
}

// AdvanceDay завершает день: снимки проверяются, лимит сбрасывается.
func (s *Session) AdvanceDay() JournalView {
	s.advance()
	s.journal.AdvanceDay()
	s.logger.Info("Day advanced", zap.Int("day", s.journal.CurrentDay()))
	return s.Journal()
}

func (s *Session) Dialogue() dialogue.View {
	s.advance()
	return s.dialogue.View()
}

func (s *Session) SelectOption(index int) (dialogue.Selection, error) {
	s.advance()
	sel, err := s.dialogue.Select(index)
	s.syncInteraction()
	return sel, err
}

func (s *Session) EndDialogue() {
	s.advance()
	s.dialogue.End()
	s.syncInteraction()
}

// ObjectView - объект сцены для клиента.
type ObjectView struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Type         models.InteractionType `json:"type"`
	Prompt       string                 `json:"prompt"`
	Position     models.Vec3            `json:"position"`
	CanInteract  bool                   `json:"canInteract"`
	Highlighted  bool                   `json:"highlighted"`
	Photographed bool                   `json:"photographed"`
	Examined     bool                   `json:"examined"`
	Locked       bool                   `json:"locked,omitempty"`
}

// CameraView - состояние камеры для клиента.
type CameraView struct {
	Index         int                     `json:"index"`
	Position      *models.CameraPosition  `json:"position,omitempty"`
	Positions     []models.CameraPosition `json:"positions"`
	Pose          camera.Pose             `json:"pose"`
	Transitioning bool                    `json:"transitioning"`
	Zoomed        bool                    `json:"zoomed"`
	ZoomTarget    string                  `json:"zoomTarget,omitempty"`
}

// SceneView - состояние сцены для клиента.
type SceneView struct {
	Current   string      `json:"current"`
	Phase     scene.Phase `json:"phase"`
	FadeAlpha float64     `json:"fadeAlpha"`
}

// View - полный снимок сессии для клиента.
type View struct {
	ID       uuid.UUID        `json:"id"`
	PlayerID uuid.UUID        `json:"playerId"`
	Scene    SceneView        `json:"scene"`
	Camera   CameraView       `json:"camera"`
	Objects  []ObjectView     `json:"objects"`
	Hovered  string           `json:"hovered,omitempty"`
	Sanity   float64          `json:"sanity"`
	Clarity  float64          `json:"clarity"`
	Day      int              `json:"day"`
	Photos   int              `json:"photosRemaining"`
	Dialogue bool             `json:"dialogueActive"`
	Progress journal.Progress `json:"progress"`
}

func (s *Session) View() View {
	now := s.advance()
	v := View{
		ID:       s.id,
		PlayerID: s.playerID,
		Scene: SceneView{
			Current:   s.scenes.Current(),
			Phase:     s.scenes.Phase(now),
			FadeAlpha: s.scenes.FadeAlpha(now),
		},
		Camera: CameraView{
			Index:         s.rig.CurrentIndex(),
			Positions:     s.rig.Positions(),
			Pose:          s.rig.Pose(now),
			Transitioning: s.rig.IsTransitioning(now),
			Zoomed:        s.zoom.IsZoomed(now),
			ZoomTarget:    s.zoom.Target(),
		},
		Hovered:  s.world.HoveredID(),
		Sanity:   s.meters.Sanity(),
		Clarity:  s.meters.Clarity(),
		Day:      s.journal.CurrentDay(),
		Photos:   s.journal.Remaining(),
		Dialogue: s.dialogue.IsActive(),
		Progress: s.journal.Progress(),
	}
	if p, ok := s.rig.Current(); ok {
		v.Camera.Position = &p
	}
	for _, o := range s.world.Objects() {
		st := o.State()
		v.Objects = append(v.Objects, ObjectView{
			ID:           o.ID(),
			Name:         o.Name(),
			Type:         o.Type(),
			Prompt:       o.Prompt(),
			Position:     o.Position(),
			CanInteract:  o.CanInteract(),
			Highlighted:  o.Highlighted(),
			Photographed: st.Photographed,
			Examined:     st.Examined,
			Locked:       o.IsLocked(),
		})
	}
	return v
}
