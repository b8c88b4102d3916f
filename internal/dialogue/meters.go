package dialogue

import (
	"investigation-server/internal/events"
)

const (
	MinMeter = 0
	MaxMeter = 100
)

// MeterState - сериализуемые значения шкал.
type MeterState struct {
	Sanity  float64 `json:"sanity"`
	Clarity float64 `json:"clarity"`
}

// Meters хранит Sanity и Clarity игрока. Любая запись ограничивается [0, 100].
type Meters struct {
	sanity  float64
	clarity float64
	rec     events.Recorder
}

// NewMeters создает шкалы в максимальном значении.
func NewMeters(rec events.Recorder) *Meters {
	if rec == nil {
		rec = events.Discard{}
	}
	return &Meters{sanity: MaxMeter, clarity: MaxMeter, rec: rec}
}

func (m *Meters) Sanity() float64  { return m.sanity }
func (m *Meters) Clarity() float64 { return m.clarity }

func (m *Meters) ModifySanity(delta float64)  { m.SetSanity(m.sanity + delta) }
func (m *Meters) ModifyClarity(delta float64) { m.SetClarity(m.clarity + delta) }

// SetSanity устанавливает значение; событие отправляется только при изменении.
func (m *Meters) SetSanity(v float64) {
	v = clampMeter(v)
	if v == m.sanity {
		return
	}
	m.sanity = v
	m.rec.Record(events.SanityChanged, events.MeterPayload{Value: v})
}

func (m *Meters) SetClarity(v float64) {
	v = clampMeter(v)
	if v == m.clarity {
		return
	}
	m.clarity = v
	m.rec.Record(events.ClarityChanged, events.MeterPayload{Value: v})
}

// Reset возвращает обе шкалы к максимуму.
func (m *Meters) Reset() {
	m.SetSanity(MaxMeter)
	m.SetClarity(MaxMeter)
}

func (m *Meters) State() MeterState {
	return MeterState{Sanity: m.sanity, Clarity: m.clarity}
}

// Restore загружает значения без отправки событий.
func (m *Meters) Restore(s MeterState) {
	m.sanity = clampMeter(s.Sanity)
	m.clarity = clampMeter(s.Clarity)
}

func clampMeter(v float64) float64 {
	if v < MinMeter {
		return MinMeter
	}
	if v > MaxMeter {
		return MaxMeter
	}
	return v
}
