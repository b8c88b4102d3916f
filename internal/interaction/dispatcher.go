package interaction

import (
	"context"
	"fmt"
	"time"

	"investigation-server/internal/logger"
	"investigation-server/internal/models"
	"investigation-server/internal/photography"

	"go.uber.org/zap"
)

// Photographer делает снимок объекта.
type Photographer interface {
	TakePhoto(ctx context.Context, shot photography.Shot) (models.JournalEntry, error)
}

// Zoomer - режим приближения камеры.
type Zoomer interface {
	ZoomTo(now time.Time, objectID string, target, viewer models.Vec3) bool
	IsZoomed(now time.Time) bool
}

// DialogueStarter открывает разговор.
type DialogueStarter interface {
	StartSet(set *models.DialogueSet) error
}

// DialogueLookup ищет диалоги NPC.
type DialogueLookup interface {
	Dialogue(id string) (*models.DialogueSet, bool)
}

// SceneChanger запускает переход между сценами.
type SceneChanger interface {
	TransitionTo(now time.Time, name string) error
}

// Action - что сделал диспетчер.
type Action string

const (
	ActionExamined        Action = "examined"
	ActionHint            Action = "hint"
	ActionZoomed          Action = "zoomed"
	ActionDialogueStarted Action = "dialogue_started"
	ActionSceneTransition Action = "scene_transition"
	ActionPhotographed    Action = "photographed"
	ActionInteracted      Action = "interacted"
	ActionNone            Action = "none"
)

// CollectHint - подсказка для объектов типа Collect при обычном нажатии.
const CollectHint = "Use right-click to photograph evidence"

// Outcome - результат взаимодействия для клиента.
type Outcome struct {
	ObjectID    string                 `json:"objectId"`
	Type        models.InteractionType `json:"type"`
	Action      Action                 `json:"action"`
	Text        string                 `json:"text,omitempty"`
	Entry       *models.JournalEntry   `json:"entry,omitempty"`
	DialogueID  string                 `json:"dialogueId,omitempty"`
	TargetScene string                 `json:"targetScene,omitempty"`
	Warning     string                 `json:"warning,omitempty"`
}

// Deps - сервисы, к которым обращается диспетчер.
type Deps struct {
	Photographer Photographer
	Zoom         Zoomer
	Dialogue     DialogueStarter
	Dialogues    DialogueLookup
	Scenes       SceneChanger
	Viewer       Viewer
}

// Dispatcher превращает нажатие на объект в действие по его типу.
type Dispatcher struct {
	deps    Deps
	enabled bool
	logger  *zap.Logger
}

func NewDispatcher(deps Deps, log *zap.Logger) *Dispatcher {
	return &Dispatcher{deps: deps, enabled: true, logger: logger.OrNop(log).Named("InteractionDispatcher")}
}

func (d *Dispatcher) SetEnabled(v bool) { d.enabled = v }
func (d *Dispatcher) Enabled() bool     { return d.enabled }

// Primary - основное действие (левая кнопка).
func (d *Dispatcher) Primary(ctx context.Context, now time.Time, obj Interactable) (Outcome, error) {
	if err := d.check(obj); err != nil {
		return Outcome{}, err
	}
	out := Outcome{ObjectID: obj.ID(), Type: obj.Type(), Action: ActionInteracted}
	log := d.logger.With(zap.String("objectID", obj.ID()), zap.String("type", string(obj.Type())))

	switch obj.Type() {
	case models.InteractionExamine:
		out.Action = ActionExamined
		out.Text = obj.Prompt()
		obj.Interact()

	case models.InteractionCollect:
		// Сбор улик только через фотографию.
		out.Action = ActionHint
		out.Text = CollectHint

	case models.InteractionInvestigate:
		out.Action = ActionNone
		if d.deps.Zoom != nil {
			target := positionOf(obj)
			if d.deps.Zoom.ZoomTo(now, obj.ID(), target, d.viewerPosition()) {
				out.Action = ActionZoomed
			} else {
				out.Warning = "already zoomed in"
			}
		}
		obj.Interact()

	case models.InteractionTalk:
		out.Action = ActionNone
		if set := d.dialogueFor(obj); set != nil {
			if err := d.deps.Dialogue.StartSet(set); err != nil {
				log.Warn("Failed to start dialogue", zap.Error(err))
				out.Warning = err.Error()
			} else {
				out.Action = ActionDialogueStarted
				out.DialogueID = set.ID
			}
		} else {
			log.Warn("No dialogue data found")
			out.Warning = models.ErrMissingDialogue.Error()
		}
		obj.Interact()

	case models.InteractionDoor:
		out.Action = ActionNone
		target := ""
		if p, ok := obj.(Portal); ok {
			target = p.TargetScene()
		}
		switch {
		case target == "":
			log.Warn("Door has no target scene")
			out.Warning = models.ErrMissingTargetScene.Error()
		case d.deps.Scenes == nil:
			out.Warning = "scene transitions unavailable"
		default:
			if err := d.deps.Scenes.TransitionTo(now, target); err != nil {
				log.Warn("Scene transition refused", zap.String("target", target), zap.Error(err))
				out.Warning = err.Error()
			} else {
				out.Action = ActionSceneTransition
				out.TargetScene = target
			}
		}
		obj.Interact()

	default:
		obj.Interact()
	}
	return out, nil
}

// Alternate - фотографирование (правая кнопка). Доступно для любого объекта.
// Ошибка съемки возвращается после того, как объект получил Interact.
func (d *Dispatcher) Alternate(ctx context.Context, now time.Time, obj Interactable, img photography.Image) (Outcome, error) {
	if err := d.check(obj); err != nil {
		return Outcome{}, err
	}
	out := Outcome{ObjectID: obj.ID(), Type: obj.Type(), Action: ActionNone}
	if d.deps.Photographer == nil {
		obj.Interact()
		return out, nil
	}

	shot := photography.Shot{ObjectName: obj.Name(), Description: obj.Prompt(), Image: img}
	p, photographable := obj.(Photographable)
	if photographable {
		shot.IsValid = p.IsValidEvidence()
		shot.Description = p.EvidenceDescription()
		zoomed := d.deps.Zoom != nil && d.deps.Zoom.IsZoomed(now)
		if !p.CanPhotograph(zoomed) {
			d.logger.Info("Evidence can only be photographed when zoomed in", zap.String("objectID", obj.ID()))
			return out, models.ErrRequiresZoom
		}
	}

	entry, err := d.deps.Photographer.TakePhoto(ctx, shot)
	if err == nil {
		out.Action = ActionPhotographed
		out.Entry = &entry
		if photographable {
			p.MarkPhotographed()
		}
	}
	obj.Interact()
	return out, err
}

func (d *Dispatcher) check(obj Interactable) error {
	if !d.enabled {
		return models.ErrInteractionDisabled
	}
	if obj == nil {
		return models.ErrNoHoveredObject
	}
	if !obj.CanInteract() {
		if door, ok := obj.(interface {
			IsLocked() bool
			LockReason() string
		}); ok && door.IsLocked() {
			return fmt.Errorf("%w: %s", models.ErrNotInteractable, door.LockReason())
		}
		return models.ErrNotInteractable
	}
	return nil
}

func (d *Dispatcher) dialogueFor(obj Interactable) *models.DialogueSet {
	s, ok := obj.(Speaker)
	if !ok || s.DialogueID() == "" || d.deps.Dialogues == nil || d.deps.Dialogue == nil {
		return nil
	}
	set, ok := d.deps.Dialogues.Dialogue(s.DialogueID())
	if !ok {
		return nil
	}
	return set
}

func (d *Dispatcher) viewerPosition() models.Vec3 {
	if d.deps.Viewer == nil {
		return models.Vec3{}
	}
	return d.deps.Viewer.ViewerPosition()
}

func positionOf(obj Interactable) models.Vec3 {
	if p, ok := obj.(Positioned); ok {
		return p.Position()
	}
	return models.Vec3{}
}
