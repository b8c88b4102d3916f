package events

import "investigation-server/internal/models"

type PhotoPayload struct {
	Entry models.JournalEntry `json:"entry"`
}

type PhotosValidatedPayload struct {
	Day       int `json:"day"`
	Kept      int `json:"kept"`
	Discarded int `json:"discarded"`
}

type DayPayload struct {
	Day int `json:"day"`
}

type MeterPayload struct {
	Value float64 `json:"value"`
}

type DialoguePayload struct {
	DialogueID string `json:"dialogueId"`
	NodeID     string `json:"nodeId"`
	Speaker    string `json:"speaker,omitempty"`
}

type CluePayload struct {
	DialogueID string `json:"dialogueId"`
	NodeID     string `json:"nodeId"`
	Option     string `json:"option"`
}

type CameraPayload struct {
	From     int    `json:"from"`
	To       int    `json:"to"`
	Position string `json:"position"`
}

type ObjectPayload struct {
	ObjectID string `json:"objectId"`
	Name     string `json:"name,omitempty"`
}

type ScenePayload struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
}
