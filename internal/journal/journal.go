// Package journal хранит улики игрока: фотографии текущего дня и
// подтвержденные улики прошлых дней.
package journal

import (
	"fmt"
	"strings"

	"investigation-server/internal/events"
	"investigation-server/internal/logger"
	"investigation-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultMaxPhotosPerDay     = 5
	DefaultTotalEvidencePieces = 30
)

// Config - правила журнала.
type Config struct {
	MaxPhotosPerDay     int
	TotalEvidencePieces int
}

func (c Config) withDefaults() Config {
	if c.MaxPhotosPerDay <= 0 {
		c.MaxPhotosPerDay = DefaultMaxPhotosPerDay
	}
	if c.TotalEvidencePieces <= 0 {
		c.TotalEvidencePieces = DefaultTotalEvidencePieces
	}
	return c
}

// State - сериализуемое состояние журнала.
type State struct {
	CurrentDay int                   `json:"currentDay"`
	Today      []models.JournalEntry `json:"today"`
	Valid      []models.JournalEntry `json:"valid"`
}

// Progress - сколько улик подтверждено из общего числа.
type Progress struct {
	Found int `json:"found"`
	Total int `json:"total"`
}

// Journal - агрегат журнала улик.
type Journal struct {
	cfg    Config
	day    int
	today  []models.JournalEntry
	valid  []models.JournalEntry
	rec    events.Recorder
	logger *zap.Logger
}

// New создает журнал на первом дне.
func New(cfg Config, rec events.Recorder, log *zap.Logger) *Journal {
	if rec == nil {
		rec = events.Discard{}
	}
	return &Journal{
		cfg:    cfg.withDefaults(),
		day:    1,
		rec:    rec,
		logger: logger.OrNop(log).Named("Journal"),
	}
}

func (j *Journal) CurrentDay() int      { return j.day }
func (j *Journal) MaxPhotosPerDay() int { return j.cfg.MaxPhotosPerDay }
func (j *Journal) PhotosToday() int     { return len(j.today) }

// CanTakePhoto сообщает, остался ли лимит на сегодня.
func (j *Journal) CanTakePhoto() bool { return len(j.today) < j.cfg.MaxPhotosPerDay }

// Remaining - сколько фотографий еще можно сделать сегодня.
func (j *Journal) Remaining() int { return j.cfg.MaxPhotosPerDay - len(j.today) }

// AddPhoto добавляет фотографию в список текущего дня.
func (j *Journal) AddPhoto(name, description, photoRef string, isValid bool) (models.JournalEntry, error) {
	if !j.CanTakePhoto() {
		j.logger.Warn("Daily photo limit reached",
			zap.Int("day", j.day), zap.Int("max", j.cfg.MaxPhotosPerDay), zap.String("object", name))
		return models.JournalEntry{}, models.ErrDailyPhotoLimit
	}

	entry := models.JournalEntry{
		ID:              newEntryID(j.day, len(j.today)),
		ObjectName:      name,
		Description:     description,
		PhotoRef:        photoRef,
		DayTaken:        j.day,
		IsValidEvidence: isValid,
	}
	j.today = append(j.today, entry)
	j.logger.Debug("Photo added",
		zap.String("entryID", entry.ID), zap.String("object", name), zap.Int("photosToday", len(j.today)))
	j.rec.Record(events.PhotoAdded, events.PhotoPayload{Entry: entry})
	return entry, nil
}

// RemovePhoto удаляет фотографию только из списка текущего дня.
func (j *Journal) RemovePhoto(entryID string) bool {
	for i, e := range j.today {
		if e.ID != entryID {
			continue
		}
		j.today = append(j.today[:i], j.today[i+1:]...)
		j.rec.Record(events.PhotoRemoved, events.PhotoPayload{Entry: e})
		return true
	}
	return false
}

// AdvanceDay переводит журнал на следующий день: фотографии прошедшего дня
// проверяются, подлинные улики переносятся в постоянный список, остальные
// отбрасываются.
func (j *Journal) AdvanceDay() {
	validatedDay := j.day
	j.day++

	kept, discarded := 0, 0
	for _, e := range j.today {
		if e.HasBeenValidated {
			continue
		}
		e.HasBeenValidated = true
		if e.IsValidEvidence {
			j.valid = append(j.valid, e)
			kept++
			continue
		}
		discarded++
		j.rec.Record(events.PhotoRemoved, events.PhotoPayload{Entry: e})
	}
	j.rec.Record(events.PhotosValidated, events.PhotosValidatedPayload{Day: validatedDay, Kept: kept, Discarded: discarded})

	j.today = nil
	j.logger.Info("Day advanced",
		zap.Int("day", j.day), zap.Int("kept", kept), zap.Int("discarded", discarded), zap.Int("totalValid", len(j.valid)))
	j.rec.Record(events.DayAdvanced, events.DayPayload{Day: j.day})
}

// Today возвращает копию списка текущего дня.
func (j *Journal) Today() []models.JournalEntry {
	return append([]models.JournalEntry(nil), j.today...)
}

// AllValidEvidence возвращает копию подтвержденных улик.
func (j *Journal) AllValidEvidence() []models.JournalEntry {
	return append([]models.JournalEntry(nil), j.valid...)
}

// HasPhotographedToday проверяет, снимался ли объект с таким именем сегодня.
func (j *Journal) HasPhotographedToday(name string) bool {
	for _, e := range j.today {
		if e.ObjectName == name {
			return true
		}
	}
	return false
}

func (j *Journal) Progress() Progress {
	return Progress{Found: len(j.valid), Total: j.cfg.TotalEvidencePieces}
}

// Clear сбрасывает журнал на первый день.
func (j *Journal) Clear() {
	j.day = 1
	j.today = nil
	j.valid = nil
}

func (j *Journal) State() State {
	return State{CurrentDay: j.day, Today: j.Today(), Valid: j.AllValidEvidence()}
}

func (j *Journal) Restore(s State) {
	j.day = s.CurrentDay
	if j.day < 1 {
		j.day = 1
	}
	j.today = append([]models.JournalEntry(nil), s.Today...)
	j.valid = append([]models.JournalEntry(nil), s.Valid...)
}

func newEntryID(day, index int) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("photo_%d_%d_%s", day, index, suffix)
}
