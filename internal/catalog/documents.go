package catalog

import (
	"investigation-server/internal/models"
)

// Документы YAML. Указатели отличают отсутствующее поле от нулевого значения.

type catalogDoc struct {
	StartScene string               `yaml:"startScene"`
	Scenes     []sceneDoc           `yaml:"scenes"`
	Dialogues  []models.DialogueSet `yaml:"dialogues"`
}

type sceneDoc struct {
	Name             string              `yaml:"name"`
	StartingPosition int                 `yaml:"startingPosition"`
	CameraPositions  []cameraPositionDoc `yaml:"cameraPositions"`
	Interactables    []interactableDoc   `yaml:"interactables"`
}

type vec3Doc struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v vec3Doc) model() models.Vec3 { return models.Vec3{X: v.X, Y: v.Y, Z: v.Z} }

type cameraPositionDoc struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Index       int     `yaml:"index"`
	Position    vec3Doc `yaml:"position"`
	Rotation    struct {
		Pitch float64 `yaml:"pitch"`
		Yaw   float64 `yaml:"yaw"`
	} `yaml:"rotation"`
	FieldOfView                 *float64 `yaml:"fieldOfView"`
	MinVerticalAngle            *float64 `yaml:"minVerticalAngle"`
	MaxVerticalAngle            *float64 `yaml:"maxVerticalAngle"`
	AllowFullHorizontalRotation *bool    `yaml:"allowFullHorizontalRotation"`
	InvestigationFocus          bool     `yaml:"investigationFocus"`
	VisibleInteractables        []string `yaml:"visibleInteractables"`
}

func (d cameraPositionDoc) model() models.CameraPosition {
	p := models.CameraPosition{
		Name:                        d.Name,
		Description:                 d.Description,
		Index:                       d.Index,
		Position:                    d.Position.model(),
		DefaultRotation:             models.Rotation{Pitch: d.Rotation.Pitch, Yaw: d.Rotation.Yaw},
		FieldOfView:                 valueOr(d.FieldOfView, models.DefaultFieldOfView),
		MinVerticalAngle:            valueOr(d.MinVerticalAngle, models.DefaultMinVerticalAngle),
		MaxVerticalAngle:            valueOr(d.MaxVerticalAngle, models.DefaultMaxVerticalAngle),
		AllowFullHorizontalRotation: valueOr(d.AllowFullHorizontalRotation, true),
		IsInvestigationFocus:        d.InvestigationFocus,
		VisibleInteractables:        d.VisibleInteractables,
	}
	p.Normalize()
	return p
}

type interactableDoc struct {
	ID                string                  `yaml:"id"`
	Name              string                  `yaml:"name"`
	Type              string                  `yaml:"type"`
	Prompt            string                  `yaml:"prompt"`
	Position          vec3Doc                 `yaml:"position"`
	CanInteract       *bool                   `yaml:"canInteract"`
	RequiresProximity bool                    `yaml:"requiresProximity"`
	InteractionRange  float64                 `yaml:"interactionRange"`
	Evidence          models.EvidenceSettings `yaml:"evidence"`
	Examine           *models.ExamineSettings `yaml:"examine"`
	Door              *models.DoorSettings    `yaml:"door"`
	NPC               *npcDoc                 `yaml:"npc"`
}

type npcDoc struct {
	Name     string `yaml:"name"`
	Dialogue string `yaml:"dialogue"`
}

func (d interactableDoc) model() (models.InteractableDef, error) {
	t, err := models.ParseInteractionType(d.Type)
	if err != nil {
		return models.InteractableDef{}, err
	}
	def := models.InteractableDef{
		ID:                d.ID,
		Name:              d.Name,
		Type:              t,
		Prompt:            d.Prompt,
		Position:          d.Position.model(),
		CanInteract:       valueOr(d.CanInteract, true),
		RequiresProximity: d.RequiresProximity,
		InteractionRange:  d.InteractionRange,
		Evidence:          d.Evidence,
		Examine:           d.Examine,
		Door:              d.Door,
	}
	if d.NPC != nil {
		def.NPC = &models.NPCSettings{Name: d.NPC.Name, DialogueID: d.NPC.Dialogue}
	}
	return def, nil
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
