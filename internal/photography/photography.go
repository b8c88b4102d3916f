// Package photography - съемка улик с учетом дневного лимита журнала.
package photography

import (
	"context"
	"fmt"

	"investigation-server/internal/events"
	"investigation-server/internal/journal"
	"investigation-server/internal/logger"
	"investigation-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Image - снимок, присланный клиентом. Пустой Data означает снимок без
// изображения: в журнал попадает запись без PhotoRef.
type Image struct {
	Data        []byte
	ContentType string
}

// Shot - запрос на фотографию объекта.
type Shot struct {
	ObjectName  string
	Description string
	IsValid     bool
	Image       Image
}

// PhotoKey определяет место хранения снимка.
type PhotoKey struct {
	SessionID  uuid.UUID
	Day        int
	ObjectName string
}

// PhotoStore сохраняет изображения снимков.
type PhotoStore interface {
	Save(ctx context.Context, key PhotoKey, img Image) (string, error)
	URL(ctx context.Context, ref string) (string, error)
}

// Photographer делает снимки и кладет их в журнал.
type Photographer struct {
	sessionID uuid.UUID
	journal   *journal.Journal
	store     PhotoStore
	rec       events.Recorder
	logger    *zap.Logger
}

// New создает фотоаппарат сессии. store может быть nil: изображения не сохраняются.
func New(sessionID uuid.UUID, j *journal.Journal, store PhotoStore, rec events.Recorder, log *zap.Logger) *Photographer {
	if rec == nil {
		rec = events.Discard{}
	}
	return &Photographer{
		sessionID: sessionID,
		journal:   j,
		store:     store,
		rec:       rec,
		logger:    logger.OrNop(log).Named("Photography"),
	}
}

// TakePhoto фотографирует объект. Отказ, если лимит дня исчерпан или объект
// уже снят сегодня.
func (p *Photographer) TakePhoto(ctx context.Context, shot Shot) (models.JournalEntry, error) {
	log := p.logger.With(zap.String("object", shot.ObjectName), zap.Int("day", p.journal.CurrentDay()))

	if !p.journal.CanTakePhoto() {
		log.Warn("Cannot take more photos today", zap.Int("max", p.journal.MaxPhotosPerDay()))
		return models.JournalEntry{}, models.ErrDailyPhotoLimit
	}
	if p.journal.HasPhotographedToday(shot.ObjectName) {
		log.Info("Object already photographed today")
		return models.JournalEntry{}, models.ErrAlreadyPhotographed
	}

	ref := ""
	if len(shot.Image.Data) > 0 && p.store != nil {
		key := PhotoKey{SessionID: p.sessionID, Day: p.journal.CurrentDay(), ObjectName: shot.ObjectName}
		var err error
		ref, err = p.store.Save(ctx, key, shot.Image)
		if err != nil {
			log.Error("Failed to store photo", zap.Error(err))
			return models.JournalEntry{}, fmt.Errorf("failed to store photo: %w", err)
		}
	}

	entry, err := p.journal.AddPhoto(shot.ObjectName, shot.Description, ref, shot.IsValid)
	if err != nil {
		return models.JournalEntry{}, err
	}
	log.Info("Photo taken", zap.String("entryID", entry.ID), zap.Int("remaining", p.Remaining()))
	p.rec.Record(events.PhotoTaken, events.PhotoPayload{Entry: entry})
	return entry, nil
}

// Remaining - сколько снимков осталось на сегодня.
func (p *Photographer) Remaining() int { return p.journal.Remaining() }

// PhotoURL возвращает ссылку на изображение записи журнала.
func (p *Photographer) PhotoURL(ctx context.Context, ref string) (string, error) {
	if ref == "" || p.store == nil {
		return "", models.ErrNotFound
	}
	return p.store.URL(ctx, ref)
}
