// Package interaction описывает объекты, с которыми можно взаимодействовать,
// и диспетчер, выбирающий действие по типу объекта.
package interaction

import (
	"investigation-server/internal/events"
	"investigation-server/internal/logger"
	"investigation-server/internal/models"

	"go.uber.org/zap"
)

const (
	DefaultPrompt              = "Examine"
	DefaultInteractionRange    = 2.0
	DefaultEvidenceDescription = "A potential evidence."
	DefaultLockReason          = "This door is locked."
	DefaultExaminationText     = "An interesting object."
)

// Interactable - объект, на который игрок может навести курсор и нажать.
type Interactable interface {
	ID() string
	Name() string
	Prompt() string
	Type() models.InteractionType
	CanInteract() bool
	HoverEnter()
	HoverExit()
	Interact()
}

// Photographable - объект с настройками фотографирования.
type Photographable interface {
	Interactable
	IsValidEvidence() bool
	EvidenceDescription() string
	CanPhotograph(zoomed bool) bool
	MarkPhotographed()
}

// Portal - объект, ведущий в другую сцену.
type Portal interface {
	TargetScene() string
}

// Speaker - объект NPC с диалогом.
type Speaker interface {
	DialogueID() string
}

// Positioned - объект с позицией в мире.
type Positioned interface {
	Position() models.Vec3
}

// Viewer сообщает, где сейчас находится камера.
type Viewer interface {
	ViewerPosition() models.Vec3
}

// Object - объект сцены. Возможности осмотра, двери и NPC включаются
// соответствующими секциями описания.
type Object struct {
	def         models.InteractableDef
	state       models.ObjectState
	highlighted bool
	viewer      Viewer
	rec         events.Recorder
	logger      *zap.Logger
}

// NewObject создает объект по авторскому описанию.
func NewObject(def models.InteractableDef, viewer Viewer, rec events.Recorder, log *zap.Logger) *Object {
	if rec == nil {
		rec = events.Discard{}
	}
	if def.Name == "" {
		def.Name = def.ID
	}
	if def.Prompt == "" {
		def.Prompt = DefaultPrompt
	}
	if def.InteractionRange <= 0 {
		def.InteractionRange = DefaultInteractionRange
	}
	if def.Evidence.Description == "" {
		def.Evidence.Description = DefaultEvidenceDescription
	}
	// секции описания общие для всех сессий, объект работает с копиями
	if def.Door != nil {
		door := *def.Door
		if door.LockReason == "" {
			door.LockReason = DefaultLockReason
		}
		def.Door = &door
	}
	if def.Examine != nil {
		ex := *def.Examine
		if ex.Text == "" {
			ex.Text = DefaultExaminationText
		}
		def.Examine = &ex
	}
	if def.NPC != nil {
		npc := *def.NPC
		def.NPC = &npc
	}
	o := &Object{
		def:    def,
		viewer: viewer,
		rec:    rec,
		logger: logger.OrNop(log).With(zap.String("objectID", def.ID)),
	}
	o.state.Interactable = def.CanInteract
	if def.Door != nil {
		o.state.Locked = def.Door.Locked
	}
	return o
}

func (o *Object) ID() string                   { return o.def.ID }
func (o *Object) Name() string                 { return o.def.Name }
func (o *Object) Type() models.InteractionType { return o.def.Type }
func (o *Object) Position() models.Vec3        { return o.def.Position }
func (o *Object) Highlighted() bool            { return o.highlighted }

// Prompt - подсказка при наведении. Для осматриваемых объектов это текст
// осмотра, который может смениться после первого осмотра.
func (o *Object) Prompt() string {
	if o.def.Examine == nil {
		return o.def.Prompt
	}
	ex := o.def.Examine
	if o.state.Examined && ex.ChangeAfterFirst && ex.SubsequentText != "" {
		return ex.SubsequentText
	}
	return ex.Text
}

// CanInteract учитывает флаг объекта, замок двери и дистанцию до камеры.
func (o *Object) CanInteract() bool {
	if !o.state.Interactable {
		return false
	}
	if o.def.Door != nil && o.state.Locked {
		return false
	}
	if o.def.RequiresProximity && o.viewer != nil {
		return o.viewer.ViewerPosition().Distance(o.def.Position) <= o.def.InteractionRange
	}
	return true
}

func (o *Object) HoverEnter() {
	if !o.CanInteract() {
		return
	}
	o.highlighted = true
}

func (o *Object) HoverExit() {
	o.highlighted = false
}

// Interact - действие по умолчанию. Осматриваемый объект запоминает осмотр.
func (o *Object) Interact() {
	if !o.CanInteract() {
		return
	}
	if o.def.Examine != nil && !o.state.Examined {
		o.state.Examined = true
		o.rec.Record(events.ObjectExamined, events.ObjectPayload{ObjectID: o.def.ID, Name: o.def.Name})
	}
	o.logger.Debug("Interacting with object", zap.String("type", string(o.def.Type)))
}

// SetInteractable включает и выключает объект. Выключение снимает подсветку.
func (o *Object) SetInteractable(v bool) {
	o.state.Interactable = v
	if !v && o.highlighted {
		o.HoverExit()
	}
}

func (o *Object) IsValidEvidence() bool       { return o.def.Evidence.Valid }
func (o *Object) EvidenceDescription() string { return o.def.Evidence.Description }

// CanPhotograph - объекты с RequiresZoom снимаются только в режиме приближения.
func (o *Object) CanPhotograph(zoomed bool) bool {
	if !o.CanInteract() {
		return false
	}
	return !o.def.Evidence.RequiresZoom || zoomed
}

// MarkPhotographed отмечает съемку и при необходимости отключает объект.
func (o *Object) MarkPhotographed() {
	o.state.Photographed = true
	if o.def.Evidence.DisableAfterPhotograph {
		o.SetInteractable(false)
	}
	o.logger.Debug("Object photographed")
	o.rec.Record(events.ObjectPhotographed, events.ObjectPayload{ObjectID: o.def.ID, Name: o.def.Name})
}

// TargetScene - сцена за дверью. Пусто, если объект не дверь.
func (o *Object) TargetScene() string {
	if o.def.Door == nil {
		return ""
	}
	return o.def.Door.TargetScene
}

func (o *Object) IsLocked() bool { return o.def.Door != nil && o.state.Locked }

func (o *Object) LockReason() string {
	if o.def.Door == nil {
		return ""
	}
	return o.def.Door.LockReason
}

// DialogueID - диалог NPC. Пусто, если объект не NPC.
func (o *Object) DialogueID() string {
	if o.def.NPC == nil {
		return ""
	}
	return o.def.NPC.DialogueID
}

func (o *Object) State() models.ObjectState { return o.state }

func (o *Object) Restore(s models.ObjectState) {
	o.state = s
	if !s.Interactable {
		o.highlighted = false
	}
}

var (
	_ Photographable = (*Object)(nil)
	_ Portal         = (*Object)(nil)
	_ Speaker        = (*Object)(nil)
	_ Positioned     = (*Object)(nil)
)
