package models

// DialogueOption - вариант ответа игрока. Данные только для чтения.
type DialogueOption struct {
	Text          string  `json:"text" yaml:"text"`
	Response      string  `json:"response" yaml:"response"`
	MinSanity     float64 `json:"minSanity" yaml:"minSanity"`
	MinClarity    float64 `json:"minClarity" yaml:"minClarity"`
	SanityChange  float64 `json:"sanityChange" yaml:"sanityChange"`
	ClarityChange float64 `json:"clarityChange" yaml:"clarityChange"`
	IsGaslighting bool    `json:"isGaslighting" yaml:"isGaslighting"`
	RevealsClue   bool    `json:"revealsClue" yaml:"revealsClue"`
	NextID        string  `json:"nextId,omitempty" yaml:"next"`
}

// MeetsRequirements проверяет пороги Sanity и Clarity (включительно).
func (o DialogueOption) MeetsRequirements(sanity, clarity float64) bool {
	return sanity >= o.MinSanity && clarity >= o.MinClarity
}

// DialogueNode - одна реплика NPC с вариантами ответа.
type DialogueNode struct {
	ID               string           `json:"id" yaml:"id"`
	Speaker          string           `json:"speaker" yaml:"speaker"`
	Text             string           `json:"text" yaml:"text"`
	Options          []DialogueOption `json:"options" yaml:"options"`
	EndsConversation bool             `json:"endsConversation" yaml:"endsConversation"`
}

// DialogueSet - весь диалоговый контент одного NPC.
type DialogueSet struct {
	ID        string         `json:"id" yaml:"id"`
	NPCName   string         `json:"npcName" yaml:"npc"`
	InitialID string         `json:"initialId" yaml:"initial"`
	Nodes     []DialogueNode `json:"nodes" yaml:"nodes"`
}

// Node ищет узел по ID.
func (s *DialogueSet) Node(id string) (*DialogueNode, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i], true
		}
	}
	return nil, false
}

// Initial возвращает стартовый узел (или первый, если InitialID пуст).
func (s *DialogueSet) Initial() (*DialogueNode, bool) {
	if s == nil || len(s.Nodes) == 0 {
		return nil, false
	}
	if s.InitialID == "" {
		return &s.Nodes[0], true
	}
	return s.Node(s.InitialID)
}
