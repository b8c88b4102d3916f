package camera

import (
	"math"

	"investigation-server/internal/models"
)

// Pose - положение камеры в конкретный момент.
type Pose struct {
	Position    models.Vec3     `json:"position"`
	Rotation    models.Rotation `json:"rotation"`
	FieldOfView float64         `json:"fieldOfView"`
}

func lerpPose(a, b Pose, t float64) Pose {
	return Pose{
		Position: a.Position.Lerp(b.Position, t),
		Rotation: models.Rotation{
			Pitch: lerpAngle(a.Rotation.Pitch, b.Rotation.Pitch, t),
			Yaw:   lerpAngle(a.Rotation.Yaw, b.Rotation.Yaw, t),
		},
		FieldOfView: a.FieldOfView + (b.FieldOfView-a.FieldOfView)*t,
	}
}

// lerpAngle интерполирует по кратчайшей дуге.
func lerpAngle(a, b, t float64) float64 {
	return models.NormalizeAngle(a + models.NormalizeAngle(b-a)*t)
}

// easeInOut повторяет кривую EaseInOut(0,0,1,1).
func easeInOut(t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	return t * t * (3 - 2*t)
}

// lookRotation возвращает углы, при которых камера смотрит вдоль dir.
func lookRotation(dir models.Vec3) models.Rotation {
	l := dir.Len()
	if l == 0 {
		return models.Rotation{}
	}
	return models.Rotation{
		Pitch: -math.Asin(dir.Y/l) * 180 / math.Pi,
		Yaw:   math.Atan2(dir.X, dir.Z) * 180 / math.Pi,
	}
}
