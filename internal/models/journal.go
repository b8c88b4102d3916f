package models

// JournalEntry - запись журнала улик, созданная фотографией.
// После создания меняется только HasBeenValidated, и только один раз.
type JournalEntry struct {
	ID               string `json:"id"`
	ObjectName       string `json:"objectName"`
	Description      string `json:"description"`
	PhotoRef         string `json:"photoRef,omitempty"`
	DayTaken         int    `json:"dayTaken"`
	IsValidEvidence  bool   `json:"isValidEvidence"`
	HasBeenValidated bool   `json:"hasBeenValidated"`
}
