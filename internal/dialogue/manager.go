// Package dialogue реализует разговоры с NPC, где доступность вариантов
// ответа зависит от шкал Sanity и Clarity.
package dialogue

import (
	"fmt"

	"investigation-server/internal/events"
	"investigation-server/internal/logger"
	"investigation-server/internal/models"

	"go.uber.org/zap"
)

const DefaultGaslightingPenalty = 5

// Config - правила диалогов.
type Config struct {
	GaslightingPenalty float64
}

// OptionView - вариант ответа с признаком доступности. Заблокированные
// варианты показываются, но не выбираются.
type OptionView struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	Available bool   `json:"available"`
}

// View - то, что видит игрок в окне диалога.
type View struct {
	Active           bool         `json:"active"`
	DialogueID       string       `json:"dialogueId,omitempty"`
	NodeID           string       `json:"nodeId,omitempty"`
	Speaker          string       `json:"speaker,omitempty"`
	Text             string       `json:"text,omitempty"`
	Options          []OptionView `json:"options,omitempty"`
	Response         string       `json:"response,omitempty"`
	PendingNextID    string       `json:"pendingNextId,omitempty"`
	EndsConversation bool         `json:"endsConversation,omitempty"`
	Sanity           float64      `json:"sanity"`
	Clarity          float64      `json:"clarity"`
}

// Selection - результат выбора варианта.
type Selection struct {
	Option   models.DialogueOption `json:"option"`
	Response string                `json:"response"`
	Ended    bool                  `json:"ended"`
	Sanity   float64               `json:"sanity"`
	Clarity  float64               `json:"clarity"`
}

// State - сериализуемое состояние активного диалога.
type State struct {
	Active        bool   `json:"active"`
	DialogueID    string `json:"dialogueId,omitempty"`
	NodeID        string `json:"nodeId,omitempty"`
	LastResponse  string `json:"lastResponse,omitempty"`
	PendingNextID string `json:"pendingNextId,omitempty"`
}

// Manager ведет один активный разговор.
type Manager struct {
	meters *Meters
	cfg    Config
	rec    events.Recorder
	logger *zap.Logger

	active       bool
	set          *models.DialogueSet
	node         *models.DialogueNode
	lastResponse string
	pendingNext  string
}

// NewManager создает менеджер поверх шкал игрока.
func NewManager(meters *Meters, cfg Config, rec events.Recorder, log *zap.Logger) *Manager {
	if rec == nil {
		rec = events.Discard{}
	}
	if cfg.GaslightingPenalty <= 0 {
		cfg.GaslightingPenalty = DefaultGaslightingPenalty
	}
	return &Manager{
		meters: meters,
		cfg:    cfg,
		rec:    rec,
		logger: logger.OrNop(log).Named("DialogueManager"),
	}
}

func (m *Manager) Meters() *Meters { return m.meters }
func (m *Manager) IsActive() bool  { return m.active }

// Start открывает разговор с указанного узла. set может быть nil, если узел
// не принадлежит авторскому набору.
func (m *Manager) Start(set *models.DialogueSet, node *models.DialogueNode) error {
	if node == nil {
		m.logger.Error("Attempted to start dialogue with nil node")
		return models.ErrNilDialogueNode
	}
	m.active = true
	m.set = set
	m.node = node
	m.lastResponse = ""
	m.pendingNext = ""

	m.logger.Debug("Dialogue started", zap.String("dialogueID", m.dialogueID()), zap.String("nodeID", node.ID))
	m.rec.Record(events.DialogueStarted, events.DialoguePayload{
		DialogueID: m.dialogueID(),
		NodeID:     node.ID,
		Speaker:    node.Speaker,
	})
	return nil
}

// StartSet открывает разговор со стартового узла набора.
func (m *Manager) StartSet(set *models.DialogueSet) error {
	node, ok := set.Initial()
	if !ok {
		if set != nil {
			m.logger.Warn("Dialogue set has no initial node", zap.String("dialogueID", set.ID), zap.String("initial", set.InitialID))
		}
		return models.ErrMissingDialogue
	}
	return m.Start(set, node)
}

// View возвращает текущий узел с доступностью вариантов.
func (m *Manager) View() View {
	v := View{Active: m.active, Sanity: m.meters.Sanity(), Clarity: m.meters.Clarity()}
	if !m.active || m.node == nil {
		return v
	}
	v.DialogueID = m.dialogueID()
	v.NodeID = m.node.ID
	v.Speaker = m.node.Speaker
	v.Text = m.node.Text
	v.Response = m.lastResponse
	v.PendingNextID = m.pendingNext
	v.EndsConversation = m.node.EndsConversation
	v.Options = make([]OptionView, 0, len(m.node.Options))
	for i, opt := range m.node.Options {
		v.Options = append(v.Options, OptionView{
			Index:     i,
			Text:      opt.Text,
			Available: opt.MeetsRequirements(m.meters.Sanity(), m.meters.Clarity()),
		})
	}
	return v
}

// Select применяет вариант ответа: изменения шкал, ответ NPC, штраф за
// газлайтинг. Разговор закрывается, если у варианта нет продолжения.
func (m *Manager) Select(index int) (Selection, error) {
	if !m.active || m.node == nil {
		return Selection{}, models.ErrNoActiveDialogue
	}
	if index < 0 || index >= len(m.node.Options) {
		return Selection{}, fmt.Errorf("%w: %d", models.ErrInvalidOption, index)
	}
	opt := m.node.Options[index]
	if !opt.MeetsRequirements(m.meters.Sanity(), m.meters.Clarity()) {
		m.logger.Debug("Locked option selected",
			zap.Int("index", index), zap.Float64("sanity", m.meters.Sanity()), zap.Float64("clarity", m.meters.Clarity()))
		return Selection{}, fmt.Errorf("%w: option %d", models.ErrOptionLocked, index)
	}

	m.meters.ModifySanity(opt.SanityChange)
	m.meters.ModifyClarity(opt.ClarityChange)
	m.lastResponse = opt.Response

	if opt.IsGaslighting {
		m.meters.ModifySanity(-m.cfg.GaslightingPenalty)
	}
	if opt.RevealsClue {
		m.rec.Record(events.ClueRevealed, events.CluePayload{DialogueID: m.dialogueID(), NodeID: m.node.ID, Option: opt.Text})
	}

	sel := Selection{Option: opt, Response: opt.Response}
	if opt.NextID == "" {
		m.End()
		sel.Ended = true
	} else {
		// Переход по графу не выполняется: разговор остается открытым с ответом NPC.
		m.pendingNext = opt.NextID
		m.logger.Info("Dialogue continuation is not resolved",
			zap.String("dialogueID", m.dialogueID()), zap.String("nextID", opt.NextID))
	}
	sel.Sanity = m.meters.Sanity()
	sel.Clarity = m.meters.Clarity()
	return sel, nil
}

// End закрывает разговор. Повторный вызов ничего не делает.
func (m *Manager) End() {
	if !m.active {
		return
	}
	payload := events.DialoguePayload{DialogueID: m.dialogueID()}
	if m.node != nil {
		payload.NodeID = m.node.ID
	}
	m.active = false
	m.set = nil
	m.node = nil
	m.pendingNext = ""
	m.rec.Record(events.DialogueEnded, payload)
}

func (m *Manager) State() State {
	s := State{Active: m.active, LastResponse: m.lastResponse, PendingNextID: m.pendingNext}
	if m.active && m.node != nil {
		s.DialogueID = m.dialogueID()
		s.NodeID = m.node.ID
	}
	return s
}

// Restore поднимает активный разговор по ID набора и узла.
func (m *Manager) Restore(s State, lookup func(id string) (*models.DialogueSet, bool)) {
	m.active = false
	m.set, m.node = nil, nil
	m.lastResponse = s.LastResponse
	m.pendingNext = ""
	if !s.Active {
		return
	}
	set, ok := lookup(s.DialogueID)
	if !ok {
		m.logger.Warn("Saved dialogue no longer exists", zap.String("dialogueID", s.DialogueID))
		return
	}
	node, ok := set.Node(s.NodeID)
	if !ok {
		m.logger.Warn("Saved dialogue node no longer exists", zap.String("dialogueID", s.DialogueID), zap.String("nodeID", s.NodeID))
		return
	}
	m.active = true
	m.set = set
	m.node = node
	m.pendingNext = s.PendingNextID
}

func (m *Manager) dialogueID() string {
	if m.set == nil {
		return ""
	}
	return m.set.ID
}
