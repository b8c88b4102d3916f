package camera

import (
	"time"

	"investigation-server/internal/events"
	"investigation-server/internal/models"
)

const (
	DefaultZoomDistance = 1.5
	DefaultZoomDuration = 500 * time.Millisecond
)

// ZoomState - сериализуемое состояние приближения.
type ZoomState struct {
	Zoomed        bool            `json:"zoomed"`
	ObjectID      string          `json:"objectId,omitempty"`
	Position      models.Vec3     `json:"position"`
	Rotation      models.Rotation `json:"rotation"`
	StartedAt     time.Time       `json:"startedAt"`
	ExitStartedAt *time.Time      `json:"exitStartedAt,omitempty"`
}

// Zoom - режим детального осмотра объекта. Флаг zoomed снимается только
// после завершения анимации выхода.
type Zoom struct {
	distance float64
	duration time.Duration
	rec      events.Recorder
	state    ZoomState
}

func NewZoom(distance float64, duration time.Duration, rec events.Recorder) *Zoom {
	if distance <= 0 {
		distance = DefaultZoomDistance
	}
	if duration <= 0 {
		duration = DefaultZoomDuration
	}
	if rec == nil {
		rec = events.Discard{}
	}
	return &Zoom{distance: distance, duration: duration, rec: rec}
}

// ZoomTo приближает камеру к объекту. Возвращает false, если уже приближена.
func (z *Zoom) ZoomTo(now time.Time, objectID string, target, viewer models.Vec3) bool {
	z.Advance(now)
	if z.state.Zoomed {
		return false
	}
	dir := target.Sub(viewer)
	pos := target
	if l := dir.Len(); l > 0 {
		pos = target.Sub(dir.Scale(z.distance / l))
	}
	z.state = ZoomState{
		Zoomed:    true,
		ObjectID:  objectID,
		Position:  pos,
		Rotation:  lookRotation(dir),
		StartedAt: now,
	}
	z.rec.Record(events.ZoomStarted, events.ObjectPayload{ObjectID: objectID})
	return true
}

// Exit запускает выход из приближения. Возвращает false, если выходить неоткуда.
func (z *Zoom) Exit(now time.Time) bool {
	z.Advance(now)
	if !z.state.Zoomed || z.state.ExitStartedAt != nil {
		return false
	}
	t := now
	z.state.ExitStartedAt = &t
	return true
}

// Advance завершает анимацию выхода, если она закончилась.
func (z *Zoom) Advance(now time.Time) {
	if !z.state.Zoomed || z.state.ExitStartedAt == nil {
		return
	}
	if now.Sub(*z.state.ExitStartedAt) < z.duration {
		return
	}
	objectID := z.state.ObjectID
	z.state = ZoomState{}
	z.rec.Record(events.ZoomEnded, events.ObjectPayload{ObjectID: objectID})
}

func (z *Zoom) IsZoomed(now time.Time) bool {
	z.Advance(now)
	return z.state.Zoomed
}

// Target - ID объекта, к которому приближена камера.
func (z *Zoom) Target() string { return z.state.ObjectID }

// apply накладывает приближение на базовую позу камеры.
func (z *Zoom) apply(now time.Time, base Pose) Pose {
	if !z.state.Zoomed {
		return base
	}
	zoomed := Pose{Position: z.state.Position, Rotation: z.state.Rotation, FieldOfView: base.FieldOfView}
	t := easeInOut(float64(now.Sub(z.state.StartedAt)) / float64(z.duration))
	if z.state.ExitStartedAt != nil {
		t = 1 - easeInOut(float64(now.Sub(*z.state.ExitStartedAt))/float64(z.duration))
	}
	return lerpPose(base, zoomed, t)
}

func (z *Zoom) State() ZoomState { return z.state }

func (z *Zoom) Restore(s ZoomState) { z.state = s }
