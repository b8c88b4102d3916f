// Package camera управляет фиксированными точками обзора комнаты и
// режимом приближения к объекту.
package camera

import (
	"fmt"
	"math"
	"sort"
	"time"

	"investigation-server/internal/events"
	"investigation-server/internal/logger"
	"investigation-server/internal/models"

	"go.uber.org/zap"
)

const DefaultTransitionDuration = 400 * time.Millisecond

// Sensitivity - множители чувствительности обзора.
type Sensitivity struct {
	X float64
	Y float64
}

// Config - настройки камеры.
type Config struct {
	TransitionDuration time.Duration
	Sensitivity        Sensitivity
	InvertVertical     bool
	DisableRotation    bool
}

// TransitionState описывает перелет между позициями.
type TransitionState struct {
	From      int       `json:"from"`
	To        int       `json:"to"`
	FromPose  Pose      `json:"fromPose"`
	StartedAt time.Time `json:"startedAt"`
}

// State - сериализуемое состояние камеры.
type State struct {
	Index           int              `json:"index"`
	Rotation        models.Rotation  `json:"rotation"`
	RotationEnabled bool             `json:"rotationEnabled"`
	Transition      *TransitionState `json:"transition,omitempty"`
}

// Rig хранит позиции камеры текущей сцены.
type Rig struct {
	cfg       Config
	zoom      *Zoom
	rec       events.Recorder
	logger    *zap.Logger
	positions []models.CameraPosition

	current         int
	rotation        models.Rotation
	rotationEnabled bool
	trans           *TransitionState
}

// NewRig создает камеру. zoom может быть nil.
func NewRig(cfg Config, zoom *Zoom, rec events.Recorder, log *zap.Logger) *Rig {
	if cfg.TransitionDuration <= 0 {
		cfg.TransitionDuration = DefaultTransitionDuration
	}
	if cfg.Sensitivity == (Sensitivity{}) {
		cfg.Sensitivity = Sensitivity{X: 3, Y: 2}
	}
	if rec == nil {
		rec = events.Discard{}
	}
	return &Rig{
		cfg:             cfg,
		zoom:            zoom,
		rec:             rec,
		logger:          logger.OrNop(log).Named("CameraRig"),
		rotationEnabled: !cfg.DisableRotation,
	}
}

// Load заменяет позиции (при входе в сцену) и ставит камеру в стартовую.
func (r *Rig) Load(positions []models.CameraPosition, start int) {
	r.positions = append([]models.CameraPosition(nil), positions...)
	sort.SliceStable(r.positions, func(i, j int) bool { return r.positions[i].Index < r.positions[j].Index })
	for i := range r.positions {
		r.positions[i].Normalize()
		if r.positions[i].Index != i {
			r.logger.Warn("Camera position index mismatch",
				zap.String("position", r.positions[i].Name), zap.Int("expected", i), zap.Int("got", r.positions[i].Index))
		}
	}
	r.trans = nil
	if len(r.positions) == 0 {
		r.logger.Error("No camera positions assigned")
		r.current = 0
		r.rotation = models.Rotation{}
		return
	}
	r.current = clampIndex(start, len(r.positions))
	r.rotation = r.defaultRotation(r.current)
}

func (r *Rig) Positions() []models.CameraPosition {
	return append([]models.CameraPosition(nil), r.positions...)
}

func (r *Rig) CurrentIndex() int { return r.current }

// Current возвращает текущую позицию. Во время перелета это еще исходная.
func (r *Rig) Current() (models.CameraPosition, bool) {
	return r.PositionByIndex(r.current)
}

func (r *Rig) PositionByIndex(i int) (models.CameraPosition, bool) {
	if i < 0 || i >= len(r.positions) {
		return models.CameraPosition{}, false
	}
	return r.positions[i], true
}

func (r *Rig) PositionByName(name string) (models.CameraPosition, bool) {
	for _, p := range r.positions {
		if p.Name == name {
			return p, true
		}
	}
	return models.CameraPosition{}, false
}

func (r *Rig) Rotation() models.Rotation { return r.rotation }

func (r *Rig) IsTransitioning(now time.Time) bool {
	r.Advance(now)
	return r.trans != nil
}

// Advance завершает перелет, если его время вышло.
func (r *Rig) Advance(now time.Time) {
	if r.trans == nil {
		return
	}
	if now.Sub(r.trans.StartedAt) < r.cfg.TransitionDuration {
		return
	}
	from, to := r.trans.From, r.trans.To
	r.trans = nil
	r.current = to
	r.rotation = r.defaultRotation(to)
	r.logger.Debug("Camera transition complete", zap.Int("index", to))
	r.rec.Record(events.CameraPositionChanged, events.CameraPayload{From: from, To: to, Position: r.positions[to].Name})
}

// Next переключает на следующую позицию по кругу.
func (r *Rig) Next(now time.Time) error {
	if err := r.checkSwitch(now); err != nil {
		return err
	}
	return r.SwitchTo(now, (r.current+1)%len(r.positions))
}

// Previous переключает на предыдущую позицию по кругу.
func (r *Rig) Previous(now time.Time) error {
	if err := r.checkSwitch(now); err != nil {
		return err
	}
	prev := r.current - 1
	if prev < 0 {
		prev = len(r.positions) - 1
	}
	return r.SwitchTo(now, prev)
}

// SwitchTo запускает перелет на позицию index. Переход на текущую позицию ничего не делает.
func (r *Rig) SwitchTo(now time.Time, index int) error {
	if err := r.checkSwitch(now); err != nil {
		return err
	}
	if index < 0 || index >= len(r.positions) {
		r.logger.Warn("Invalid position index", zap.Int("index", index), zap.Int("count", len(r.positions)))
		return fmt.Errorf("%w: %d", models.ErrInvalidPosition, index)
	}
	if index == r.current {
		return nil
	}
	r.logger.Debug("Switching camera position",
		zap.String("from", r.positions[r.current].Name), zap.String("to", r.positions[index].Name))
	r.trans = &TransitionState{
		From:      r.current,
		To:        index,
		FromPose:  r.restingPose(),
		StartedAt: now,
	}
	return nil
}

func (r *Rig) checkSwitch(now time.Time) error {
	r.Advance(now)
	if len(r.positions) == 0 {
		return models.ErrNoCameraPositions
	}
	if r.trans != nil {
		return models.ErrCameraTransitioning
	}
	if r.zoom != nil && r.zoom.IsZoomed(now) {
		return models.ErrZoomed
	}
	return nil
}

// Look поворачивает камеру. Вертикальный угол ограничивается пределами позиции.
// Возвращает false, если поворот сейчас невозможен.
func (r *Rig) Look(now time.Time, dx, dy float64) bool {
	r.Advance(now)
	if !r.rotationEnabled || r.trans != nil || len(r.positions) == 0 {
		return false
	}
	if r.zoom != nil && r.zoom.IsZoomed(now) {
		return false
	}
	mx := dx * r.cfg.Sensitivity.X
	my := dy * r.cfg.Sensitivity.Y
	if r.cfg.InvertVertical {
		my = -my
	}
	pos := r.positions[r.current]
	r.rotation = models.Rotation{
		Pitch: math.Max(pos.MinVerticalAngle, math.Min(pos.MaxVerticalAngle, r.rotation.Pitch-my)),
		Yaw:   models.NormalizeAngle(r.rotation.Yaw + mx),
	}
	return true
}

func (r *Rig) SetRotationEnabled(enabled bool) { r.rotationEnabled = enabled }

func (r *Rig) RotationEnabled() bool { return r.rotationEnabled }

// ResetToDefaultRotation возвращает поворот по умолчанию для текущей позиции.
func (r *Rig) ResetToDefaultRotation() {
	if len(r.positions) == 0 {
		return
	}
	r.rotation = r.defaultRotation(r.current)
}

// Pose вычисляет положение камеры с учетом перелета и приближения.
func (r *Rig) Pose(now time.Time) Pose {
	r.Advance(now)
	pose := r.restingPose()
	if r.trans != nil {
		t := easeInOut(float64(now.Sub(r.trans.StartedAt)) / float64(r.cfg.TransitionDuration))
		pose = lerpPose(r.trans.FromPose, r.targetPose(r.trans.To), t)
	}
	if r.zoom != nil {
		pose = r.zoom.apply(now, pose)
	}
	return pose
}

// ViewerPosition - точка, от которой считается дистанция до объектов.
func (r *Rig) ViewerPosition() models.Vec3 {
	p, _ := r.Current()
	return p.Position
}

func (r *Rig) State() State {
	s := State{Index: r.current, Rotation: r.rotation, RotationEnabled: r.rotationEnabled}
	if r.trans != nil {
		t := *r.trans
		s.Transition = &t
	}
	return s
}

// Restore применяет сохраненное состояние к уже загруженным позициям.
func (r *Rig) Restore(s State) {
	r.rotationEnabled = s.RotationEnabled
	r.trans = nil
	if len(r.positions) == 0 {
		return
	}
	r.current = clampIndex(s.Index, len(r.positions))
	r.rotation = r.positions[r.current].ClampRotation(s.Rotation)
	if s.Transition != nil && s.Transition.To >= 0 && s.Transition.To < len(r.positions) {
		t := *s.Transition
		r.trans = &t
	}
}

func (r *Rig) restingPose() Pose {
	p, ok := r.Current()
	if !ok {
		return Pose{FieldOfView: models.DefaultFieldOfView}
	}
	return Pose{Position: p.Position, Rotation: r.rotation, FieldOfView: p.FieldOfView}
}

func (r *Rig) targetPose(i int) Pose {
	p := r.positions[i]
	return Pose{Position: p.Position, Rotation: r.defaultRotation(i), FieldOfView: p.FieldOfView}
}

func (r *Rig) defaultRotation(i int) models.Rotation {
	p := r.positions[i]
	rot := p.DefaultRotation
	rot.Pitch = models.NormalizeAngle(rot.Pitch)
	return rot
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
