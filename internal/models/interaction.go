package models

import "fmt"

// InteractionType - тег, по которому диспетчер выбирает действие.
type InteractionType string

const (
	InteractionExamine     InteractionType = "examine"
	InteractionCollect     InteractionType = "collect"
	InteractionTalk        InteractionType = "talk"
	InteractionInvestigate InteractionType = "investigate"
	InteractionDoor        InteractionType = "door"
)

// ParseInteractionType разбирает тег из строки контента.
func ParseInteractionType(s string) (InteractionType, error) {
	switch t := InteractionType(s); t {
	case InteractionExamine, InteractionCollect, InteractionTalk, InteractionInvestigate, InteractionDoor:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown interaction type %q", ErrInvalidInput, s)
	}
}

// EvidenceSettings описывает, как объект ведет себя при фотографировании.
type EvidenceSettings struct {
	Valid                  bool   `json:"valid" yaml:"valid"`
	Description            string `json:"description" yaml:"description"`
	RequiresZoom           bool   `json:"requiresZoom" yaml:"requiresZoom"`
	DisableAfterPhotograph bool   `json:"disableAfterPhotograph" yaml:"disableAfterPhotograph"`
}

// ExamineSettings - тексты осмотра.
type ExamineSettings struct {
	Text             string `json:"text" yaml:"text"`
	SubsequentText   string `json:"subsequentText,omitempty" yaml:"subsequentText"`
	ChangeAfterFirst bool   `json:"changeAfterFirst" yaml:"changeAfterFirst"`
	DocumentTitle    string `json:"documentTitle,omitempty" yaml:"documentTitle"`
}

// DoorSettings - переход в другую сцену.
type DoorSettings struct {
	TargetScene string `json:"targetScene" yaml:"targetScene"`
	Locked      bool   `json:"locked" yaml:"locked"`
	LockReason  string `json:"lockReason" yaml:"lockReason"`
}

// NPCSettings связывает объект с диалогом NPC.
type NPCSettings struct {
	Name       string `json:"name"`
	DialogueID string `json:"dialogueId"`
}

// InteractableDef - авторское описание объекта в сцене.
type InteractableDef struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Type              InteractionType  `json:"type"`
	Prompt            string           `json:"prompt"`
	Position          Vec3             `json:"position"`
	CanInteract       bool             `json:"canInteract"`
	RequiresProximity bool             `json:"requiresProximity"`
	InteractionRange  float64          `json:"interactionRange"`
	Evidence          EvidenceSettings `json:"evidence"`
	Examine           *ExamineSettings `json:"examine,omitempty"`
	Door              *DoorSettings    `json:"door,omitempty"`
	NPC               *NPCSettings     `json:"npc,omitempty"`
}

// ObjectState - изменяемая часть состояния объекта, которая сохраняется в сессии.
type ObjectState struct {
	Interactable bool `json:"interactable"`
	Photographed bool `json:"photographed"`
	Examined     bool `json:"examined"`
	Locked       bool `json:"locked"`
}

// SceneDef - комната: позиции камеры и объекты.
type SceneDef struct {
	Name             string            `json:"name"`
	StartingPosition int               `json:"startingPosition"`
	CameraPositions  []CameraPosition  `json:"cameraPositions"`
	Interactables    []InteractableDef `json:"interactables"`
}
