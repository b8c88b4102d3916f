package journal_test

import (
	"regexp"
	"testing"

	"investigation-server/internal/events"
	"investigation-server/internal/journal"
	"investigation-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type typeRecorder struct {
	types []events.Type
}

func (r *typeRecorder) Record(t events.Type, _ any) { r.types = append(r.types, t) }

func newJournal(max int) (*journal.Journal, *typeRecorder) {
	rec := &typeRecorder{}
	return journal.New(journal.Config{MaxPhotosPerDay: max}, rec, zap.NewNop()), rec
}

func TestAddPhoto(t *testing.T) {
	t.Run("daily cap", func(t *testing.T) {
		j, _ := newJournal(5)
		for i := 0; i < 5; i++ {
			_, err := j.AddPhoto("object", "desc", "", true)
			require.NoError(t, err)
		}
		assert.False(t, j.CanTakePhoto())

		_, err := j.AddPhoto("one more", "desc", "", true)
		assert.ErrorIs(t, err, models.ErrDailyPhotoLimit)
		assert.Equal(t, 5, j.PhotosToday())
		assert.Equal(t, 0, j.Remaining())
	})

	t.Run("entry fields", func(t *testing.T) {
		j, rec := newJournal(5)
		entry, err := j.AddPhoto("Bloody Knife", "Found under the sink", "photos/1.png", true)
		require.NoError(t, err)

		assert.Regexp(t, regexp.MustCompile(`^photo_1_0_[0-9a-f]{8}$`), entry.ID)
		assert.Equal(t, 1, entry.DayTaken)
		assert.True(t, entry.IsValidEvidence)
		assert.False(t, entry.HasBeenValidated)
		assert.Equal(t, []events.Type{events.PhotoAdded}, rec.types)
		assert.True(t, j.HasPhotographedToday("Bloody Knife"))
		assert.False(t, j.HasPhotographedToday("Teacup"))
	})
}

func TestRemovePhoto(t *testing.T) {
	j, rec := newJournal(5)
	entry, err := j.AddPhoto("Teacup", "", "", false)
	require.NoError(t, err)

	assert.False(t, j.RemovePhoto("photo_9_9_deadbeef"))
	assert.True(t, j.RemovePhoto(entry.ID))
	assert.Zero(t, j.PhotosToday())
	assert.Contains(t, rec.types, events.PhotoRemoved)
}

func TestAdvanceDay(t *testing.T) {
	j, rec := newJournal(5)
	_, _ = j.AddPhoto("Knife", "", "", true)
	_, _ = j.AddPhoto("Teacup", "", "", false)
	_, _ = j.AddPhoto("Letter", "", "", true)
	rec.types = nil

	j.AdvanceDay()

	assert.Equal(t, 2, j.CurrentDay())
	assert.Zero(t, j.PhotosToday())
	assert.True(t, j.CanTakePhoto())

	valid := j.AllValidEvidence()
	require.Len(t, valid, 2)
	for _, e := range valid {
		assert.True(t, e.HasBeenValidated)
		assert.True(t, e.IsValidEvidence)
		assert.Equal(t, 1, e.DayTaken)
	}
	assert.Equal(t, []events.Type{events.PhotoRemoved, events.PhotosValidated, events.DayAdvanced}, rec.types)

	t.Run("validated entries are not re-added", func(t *testing.T) {
		j.AdvanceDay()
		assert.Len(t, j.AllValidEvidence(), 2)
		assert.Equal(t, 3, j.CurrentDay())
	})

	t.Run("entries carry the day they were taken", func(t *testing.T) {
		e, err := j.AddPhoto("Diary", "", "", true)
		require.NoError(t, err)
		assert.Equal(t, 3, e.DayTaken)
		assert.Equal(t, journal.Progress{Found: 2, Total: journal.DefaultTotalEvidencePieces}, j.Progress())
	})
}

func TestQueriesReturnCopies(t *testing.T) {
	j, _ := newJournal(5)
	_, _ = j.AddPhoto("Knife", "", "", true)

	today := j.Today()
	today[0].ObjectName = "changed"
	assert.Equal(t, "Knife", j.Today()[0].ObjectName)
}

func TestStateRoundTrip(t *testing.T) {
	j, _ := newJournal(3)
	_, _ = j.AddPhoto("Knife", "", "", true)
	j.AdvanceDay()
	_, _ = j.AddPhoto("Teacup", "", "", false)

	restored, _ := newJournal(3)
	restored.Restore(j.State())

	assert.Equal(t, j.State(), restored.State())
	assert.Equal(t, 2, restored.Remaining())

	restored.Clear()
	assert.Equal(t, 1, restored.CurrentDay())
	assert.Empty(t, restored.AllValidEvidence())
}
