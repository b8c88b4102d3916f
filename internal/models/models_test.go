package models_test

import (
	"testing"

	"investigation-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialogueOption_MeetsRequirements(t *testing.T) {
	opt := models.DialogueOption{MinSanity: 50, MinClarity: 30}

	assert.True(t, opt.MeetsRequirements(50, 30), "thresholds are inclusive")
	assert.True(t, opt.MeetsRequirements(100, 100))
	assert.False(t, opt.MeetsRequirements(49, 100))
	assert.False(t, opt.MeetsRequirements(100, 29))
	assert.True(t, models.DialogueOption{}.MeetsRequirements(0, 0))
}

func TestDialogueSet_Lookup(t *testing.T) {
	set := &models.DialogueSet{
		ID:        "neighbor",
		InitialID: "greet",
		Nodes:     []models.DialogueNode{{ID: "intro"}, {ID: "greet"}},
	}

	node, ok := set.Initial()
	require.True(t, ok)
	assert.Equal(t, "greet", node.ID)

	_, ok = set.Node("missing")
	assert.False(t, ok)

	set.InitialID = ""
	node, ok = set.Initial()
	require.True(t, ok)
	assert.Equal(t, "intro", node.ID)

	var nilSet *models.DialogueSet
	_, ok = nilSet.Initial()
	assert.False(t, ok)
}

func TestCameraPosition_Normalize(t *testing.T) {
	p := models.CameraPosition{FieldOfView: 120, MinVerticalAngle: 45, MaxVerticalAngle: -30}
	p.Normalize()

	assert.Equal(t, models.MaxFieldOfView, p.FieldOfView)
	assert.Equal(t, -30.0, p.MinVerticalAngle)
	assert.Equal(t, 45.0, p.MaxVerticalAngle)

	zero := models.CameraPosition{}
	zero.Normalize()
	assert.Equal(t, models.DefaultFieldOfView, zero.FieldOfView)
}

func TestCameraPosition_ClampRotation(t *testing.T) {
	p := models.CameraPosition{MinVerticalAngle: -60, MaxVerticalAngle: 60}

	t.Run("angles above 180 wrap to negative", func(t *testing.T) {
		r := p.ClampRotation(models.Rotation{Pitch: 350, Yaw: 10})
		assert.InDelta(t, -10, r.Pitch, 1e-9)
		assert.Equal(t, 10.0, r.Yaw)
		assert.True(t, p.IsWithinRotationLimits(models.Rotation{Pitch: 350}))
	})

	t.Run("clamped to limits", func(t *testing.T) {
		assert.Equal(t, 60.0, p.ClampRotation(models.Rotation{Pitch: 80}).Pitch)
		assert.Equal(t, -60.0, p.ClampRotation(models.Rotation{Pitch: 270}).Pitch)
		assert.False(t, p.IsWithinRotationLimits(models.Rotation{Pitch: 80}))
	})
}

func TestParseInteractionType(t *testing.T) {
	it, err := models.ParseInteractionType("door")
	require.NoError(t, err)
	assert.Equal(t, models.InteractionDoor, it)

	_, err = models.ParseInteractionType("teleport")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestVec3(t *testing.T) {
	a := models.Vec3{X: 0, Y: 0, Z: 0}
	b := models.Vec3{X: 3, Y: 4, Z: 0}
	assert.Equal(t, 5.0, a.Distance(b))
	assert.Equal(t, models.Vec3{X: 1.5, Y: 2}, a.Lerp(b, 0.5))
}
