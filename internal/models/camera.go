package models

import "math"

// Vec3 - точка в мировых координатах клиента.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Scale(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }

func (v Vec3) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Distance - евклидово расстояние между точками.
func (v Vec3) Distance(o Vec3) float64 { return v.Sub(o).Len() }

// Lerp линейно интерполирует между v и o.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 { return v.Add(o.Sub(v).Scale(t)) }

// Rotation - углы Эйлера в градусах (Pitch = X, Yaw = Y), крен не используется.
type Rotation struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// NormalizeAngle приводит угол к диапазону (-180, 180].
func NormalizeAngle(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a <= -180 {
		a += 360
	}
	return a
}

const (
	DefaultFieldOfView      = 60.0
	MinFieldOfView          = 30.0
	MaxFieldOfView          = 90.0
	DefaultMinVerticalAngle = -60.0
	DefaultMaxVerticalAngle = 60.0
)

// CameraPosition - фиксированная точка обзора в комнате.
type CameraPosition struct {
	Name                        string   `json:"name"`
	Description                 string   `json:"description"`
	Index                       int      `json:"index"`
	Position                    Vec3     `json:"position"`
	DefaultRotation             Rotation `json:"defaultRotation"`
	FieldOfView                 float64  `json:"fieldOfView"`
	MinVerticalAngle            float64  `json:"minVerticalAngle"`
	MaxVerticalAngle            float64  `json:"maxVerticalAngle"`
	AllowFullHorizontalRotation bool     `json:"allowFullHorizontalRotation"`
	IsInvestigationFocus        bool     `json:"isInvestigationFocus"`
	VisibleInteractables        []string `json:"visibleInteractables,omitempty"`
}

// Normalize ограничивает FOV и вертикальные пределы допустимыми диапазонами
// и меняет местами перепутанные min/max.
func (p *CameraPosition) Normalize() {
	if p.FieldOfView == 0 {
		p.FieldOfView = DefaultFieldOfView
	}
	p.FieldOfView = clamp(p.FieldOfView, MinFieldOfView, MaxFieldOfView)
	if p.MinVerticalAngle > p.MaxVerticalAngle {
		p.MinVerticalAngle, p.MaxVerticalAngle = p.MaxVerticalAngle, p.MinVerticalAngle
	}
	p.MinVerticalAngle = clamp(p.MinVerticalAngle, -90, 0)
	p.MaxVerticalAngle = clamp(p.MaxVerticalAngle, 0, 90)
}

// IsWithinRotationLimits проверяет вертикальный угол поворота.
func (p CameraPosition) IsWithinRotationLimits(r Rotation) bool {
	pitch := NormalizeAngle(r.Pitch)
	return pitch >= p.MinVerticalAngle && pitch <= p.MaxVerticalAngle
}

// ClampRotation ограничивает вертикальный угол пределами позиции.
func (p CameraPosition) ClampRotation(r Rotation) Rotation {
	r.Pitch = clamp(NormalizeAngle(r.Pitch), p.MinVerticalAngle, p.MaxVerticalAngle)
	return r
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
