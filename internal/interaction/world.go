package interaction

import (
	"fmt"

	"investigation-server/internal/events"
	"investigation-server/internal/logger"
	"investigation-server/internal/models"

	"go.uber.org/zap"
)

// World - объекты текущей сцены и объект под курсором.
type World struct {
	objects map[string]*Object
	order   []string
	hovered *Object
}

// NewWorld создает объекты сцены.
func NewWorld(defs []models.InteractableDef, viewer Viewer, rec events.Recorder, log *zap.Logger) *World {
	log = logger.OrNop(log)
	w := &World{objects: make(map[string]*Object, len(defs))}
	for _, def := range defs {
		if _, dup := w.objects[def.ID]; dup {
			log.Warn("Duplicate interactable id ignored", zap.String("objectID", def.ID))
			continue
		}
		w.objects[def.ID] = NewObject(def, viewer, rec, log)
		w.order = append(w.order, def.ID)
	}
	return w
}

func (w *World) Get(id string) (*Object, bool) {
	o, ok := w.objects[id]
	return o, ok
}

// Objects возвращает объекты в порядке описания сцены.
func (w *World) Objects() []*Object {
	out := make([]*Object, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.objects[id])
	}
	return out
}

// Hover переносит курсор на объект id. Пустой id снимает наведение.
func (w *World) Hover(id string) error {
	var next *Object
	if id != "" {
		o, ok := w.objects[id]
		if !ok {
			return fmt.Errorf("%w: %s", models.ErrUnknownObject, id)
		}
		next = o
	}
	if next == w.hovered {
		return nil
	}
	if w.hovered != nil {
		w.hovered.HoverExit()
	}
	w.hovered = next
	if next != nil {
		next.HoverEnter()
	}
	return nil
}

// Hovered возвращает объект под курсором.
func (w *World) Hovered() (*Object, bool) {
	return w.hovered, w.hovered != nil
}

func (w *World) HoveredID() string {
	if w.hovered == nil {
		return ""
	}
	return w.hovered.ID()
}

// States возвращает изменяемое состояние всех объектов.
func (w *World) States() map[string]models.ObjectState {
	out := make(map[string]models.ObjectState, len(w.objects))
	for id, o := range w.objects {
		out[id] = o.State()
	}
	return out
}

// Restore применяет сохраненные состояния; неизвестные ID пропускаются.
func (w *World) Restore(states map[string]models.ObjectState, hoveredID string) {
	for id, s := range states {
		if o, ok := w.objects[id]; ok {
			o.Restore(s)
		}
	}
	w.hovered = nil
	if o, ok := w.objects[hoveredID]; ok {
		w.hovered = o
		o.HoverEnter()
	}
}
