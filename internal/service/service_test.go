package service

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydeck/studydeck/internal/domain"
	"github.com/studydeck/studydeck/internal/storage"
)

// testClock lets tests move "now" between operations.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newTestService(t *testing.T) (*Service, *testClock) {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := &testClock{now: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}
	ids := &domain.SequenceGenerator{Prefix: "id"}
	return New(db, ids, clock.Now, rand.New(rand.NewSource(1))), clock
}

const sampleContent = `Mitosis: the process of cell division
remember to review the krebs cycle diagram
short line
The cell cycle has four distinct phases overall`

func TestCreateNote(t *testing.T) {
	svc, clock := newTestService(t)

	note, err := svc.CreateNote(sampleContent)
	require.NoError(t, err)

	assert.Equal(t, sampleContent, note.Content)
	assert.Equal(t, clock.now, note.CreatedAt.UTC())
	assert.Len(t, note.KeyPoints, 3)
	assert.Equal(t, domain.ImportanceHigh, note.KeyPoints[0].Importance)
	assert.True(t, note.KeyPoints[0].Highlighted)
	assert.NotEmpty(t, note.Summary)

	stored, err := svc.GetNote(note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.KeyPoints, stored.KeyPoints)
}

func TestCreateNoteRejectsBlankContent(t *testing.T) {
	svc, _ := newTestService(t)

	for _, content := range []string{"", "   ", "\n\t\n"} {
		_, err := svc.CreateNote(content)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestCreateNoteExtractionIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.CreateNote(sampleContent)
	require.NoError(t, err)
	second, err := svc.CreateNote(sampleContent)
	require.NoError(t, err)

	require.Len(t, second.KeyPoints, len(first.KeyPoints))
	for i := range first.KeyPoints {
		assert.Equal(t, first.KeyPoints[i].Text, second.KeyPoints[i].Text)
		assert.Equal(t, first.KeyPoints[i].Importance, second.KeyPoints[i].Importance)
	}
}

func TestUpdateNoteRecomputesDerivedFields(t *testing.T) {
	svc, _ := newTestService(t)

	note, err := svc.CreateNote(sampleContent)
	require.NoError(t, err)

	updated, err := svc.UpdateNote(note.ID, "Photosynthesis: converting light to sugar")
	require.NoError(t, err)
	require.Len(t, updated.KeyPoints, 1)
	assert.Equal(t, "Photosynthesis: converting light to sugar", updated.KeyPoints[0].Text)
	assert.NotEqual(t, note.ContentHash, updated.ContentHash)

	stored, err := svc.GetNote(note.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.KeyPoints, stored.KeyPoints)
}

func TestUpdateNoteNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateNote("missing", "some replacement content")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToggleKeyPointHighlight(t *testing.T) {
	svc, _ := newTestService(t)

	note, err := svc.CreateNote(sampleContent)
	require.NoError(t, err)
	kp := note.KeyPoints[0]
	require.True(t, kp.Highlighted)

	toggled, err := svc.ToggleKeyPointHighlight(note.ID, kp.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Highlighted)

	stored, err := svc.GetNote(note.ID)
	require.NoError(t, err)
	assert.False(t, stored.KeyPoints[0].Highlighted)

	_, err = svc.ToggleKeyPointHighlight(note.ID, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenerateFlashcards(t *testing.T) {
	svc, _ := newTestService(t)

	note, err := svc.CreateNote(sampleContent)
	require.NoError(t, err)

	cards, err := svc.GenerateFlashcards(note.ID, note.KeyPoints)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, "What is Mitosis?", cards[0].Question)
	assert.Equal(t, "the process of cell division", cards[0].Answer)

	stored, err := svc.ListFlashcards(note.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestAnswerFlashcard(t *testing.T) {
	svc, clock := newTestService(t)

	note, err := svc.CreateNote(sampleContent)
	require.NoError(t, err)
	cards, err := svc.GenerateFlashcards(note.ID, note.KeyPoints)
	require.NoError(t, err)
	session, err := svc.StartSession()
	require.NoError(t, err)

	card, err := svc.AnswerFlashcard(cards[0].ID, session.ID, true)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, card.Mastery, 1e-9)
	require.NotNil(t, card.LastReviewed)
	assert.Equal(t, clock.now, card.LastReviewed.UTC())

	card, err = svc.AnswerFlashcard(cards[0].ID, session.ID, false)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, card.Mastery, 1e-9)

	ended, err := svc.EndSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, ended.CardsReviewed)
	assert.Equal(t, 1, ended.CorrectAnswers)
}

func TestAnswerFlashcardNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	session, err := svc.StartSession()
	require.NoError(t, err)

	_, err = svc.AnswerFlashcard("missing", session.ID, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnswerFlashcardMissingSessionLeavesCardUntouched(t *testing.T) {
	svc, _ := newTestService(t)

	note, err := svc.CreateNote(sampleContent)
	require.NoError(t, err)
	cards, err := svc.GenerateFlashcards(note.ID, note.KeyPoints)
	require.NoError(t, err)

	_, err = svc.AnswerFlashcard(cards[0].ID, "missing", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stored, err := svc.ListFlashcards(note.ID)
	require.NoError(t, err)
	assert.Zero(t, stored[0].Mastery)
	assert.Nil(t, stored[0].LastReviewed)
}

func TestComputeStreakAcrossDays(t *testing.T) {
	svc, clock := newTestService(t)

	// A completed session yesterday and one today.
	clock.now = clock.now.AddDate(0, 0, -1)
	first, err := svc.StartSession()
	require.NoError(t, err)
	_, err = svc.EndSession(first.ID)
	require.NoError(t, err)

	clock.now = clock.now.AddDate(0, 0, 1)
	second, err := svc.StartSession()
	require.NoError(t, err)
	_, err = svc.EndSession(second.ID)
	require.NoError(t, err)

	streak, err := svc.ComputeStreak()
	require.NoError(t, err)
	assert.Equal(t, 2, streak)
}

func TestComputeStreakIgnoresOpenSessions(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.StartSession()
	require.NoError(t, err)

	streak, err := svc.ComputeStreak()
	require.NoError(t, err)
	assert.Zero(t, streak)
}

func TestScheduleReviews(t *testing.T) {
	svc, clock := newTestService(t)

	proposals := svc.ProposeReviewSchedule(clock.now)
	require.Len(t, proposals, 5)
	for _, p := range proposals {
		assert.Zero(t, p.ID)
	}

	events, err := svc.ScheduleReviews(clock.now)
	require.NoError(t, err)
	require.Len(t, events, 5)
	for _, e := range events {
		assert.NotZero(t, e.ID)
	}

	stored, err := svc.ListEvents(clock.now, clock.now.AddDate(0, 0, 31))
	require.NoError(t, err)
	assert.Len(t, stored, 5)
}

func TestCalendarEventLifecycle(t *testing.T) {
	svc, clock := newTestService(t)

	events, err := svc.ScheduleReviews(clock.now)
	require.NoError(t, err)

	completed, err := svc.MarkEventCompleted(events[0].ID)
	require.NoError(t, err)
	assert.True(t, completed.Completed)

	newDate := clock.now.AddDate(0, 0, 45)
	moved, err := svc.RescheduleEvent(events[1].ID, newDate)
	require.NoError(t, err)
	assert.True(t, moved.Date.Equal(newDate))

	require.NoError(t, svc.DeleteEvent(events[2].ID))
	assert.ErrorIs(t, svc.DeleteEvent(events[2].ID), domain.ErrNotFound)

	_, err = svc.MarkEventCompleted(9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteNoteCascades(t *testing.T) {
	svc, _ := newTestService(t)

	note, err := svc.CreateNote(sampleContent)
	require.NoError(t, err)
	_, err = svc.GenerateFlashcards(note.ID, note.KeyPoints)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteNote(note.ID))

	_, err = svc.GetNote(note.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	cards, err := svc.ListFlashcards(note.ID)
	require.NoError(t, err)
	assert.Empty(t, cards)

	assert.ErrorIs(t, svc.DeleteNote(note.ID), domain.ErrNotFound)
}
