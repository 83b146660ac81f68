// Package service is the pipeline facade collaborators call: note analysis,
// flashcard generation, review recording, streaks and review scheduling,
// all over the storage layer.
package service

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/studydeck/studydeck/internal/analyze"
	"github.com/studydeck/studydeck/internal/digest"
	"github.com/studydeck/studydeck/internal/domain"
	"github.com/studydeck/studydeck/internal/storage"
	"github.com/studydeck/studydeck/internal/study"
	"github.com/studydeck/studydeck/internal/synth"
)

// Service wires the pure pipeline components to storage. The id generator,
// clock and random source are injected so every operation is reproducible
// under test.
type Service struct {
	db        *storage.DB
	ids       domain.IDGenerator
	now       func() time.Time
	scheduler *study.Scheduler
}

// New creates a Service. A nil ids defaults to uuids, a nil now to
// time.Now, a nil rng to a time-seeded source.
func New(db *storage.DB, ids domain.IDGenerator, now func() time.Time, rng *rand.Rand) *Service {
	if ids == nil {
		ids = domain.UUIDGenerator{}
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		db:        db,
		ids:       ids,
		now:       now,
		scheduler: study.NewScheduler(rng),
	}
}

// CreateNote analyzes raw note content and persists the resulting note with
// its summary and key points. Blank content is rejected with ErrInvalidInput.
func (s *Service) CreateNote(content string) (*domain.Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("note content is empty: %w", domain.ErrInvalidInput)
	}

	note := domain.Note{
		ID:          s.ids.NewID(),
		Content:     content,
		CreatedAt:   s.now(),
		Summary:     analyze.Summarize(content),
		KeyPoints:   analyze.ExtractKeyPoints(content, s.ids),
		ContentHash: digest.Hash(content),
	}
	if err := s.db.InsertNote(note); err != nil {
		return nil, err
	}
	return &note, nil
}

// CreateNoteFromSource is CreateNote for synced files, tagging the note
// with its source so reconciliation can find it later.
func (s *Service) CreateNoteFromSource(content string, sourceID int64) (*domain.Note, error) {
	note, err := s.CreateNote(content)
	if err != nil {
		return nil, err
	}
	note.SourceID = sourceID
	if err := s.db.UpdateNoteSource(note.ID, sourceID); err != nil {
		return nil, err
	}
	return note, nil
}

// UpdateNote replaces a note's content and recomputes the derived summary
// and key points. Existing flashcards are left alone; they keep pointing at
// the note until regenerated explicitly.
func (s *Service) UpdateNote(id, content string) (*domain.Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("note content is empty: %w", domain.ErrInvalidInput)
	}

	note, err := s.db.FindNoteByID(id)
	if err != nil {
		return nil, err
	}

	note.Content = content
	note.Summary = analyze.Summarize(content)
	note.KeyPoints = analyze.ExtractKeyPoints(content, s.ids)
	note.ContentHash = digest.Hash(content)

	if err := s.db.UpdateNote(*note); err != nil {
		return nil, err
	}
	return note, nil
}

// GetNote retrieves a note with its key points.
func (s *Service) GetNote(id string) (*domain.Note, error) {
	return s.db.FindNoteByID(id)
}

// ListNotes retrieves all notes, newest first.
func (s *Service) ListNotes() ([]domain.Note, error) {
	return s.db.GetAllNotes()
}

// DeleteNote removes a note and everything derived from it.
func (s *Service) DeleteNote(id string) error {
	return s.db.DeleteNote(id)
}

// ToggleKeyPointHighlight flips the highlighted flag on one key point, the
// only derived field the user may edit.
func (s *Service) ToggleKeyPointHighlight(noteID, keyPointID string) (*domain.KeyPoint, error) {
	note, err := s.db.FindNoteByID(noteID)
	if err != nil {
		return nil, err
	}
	for i := range note.KeyPoints {
		if note.KeyPoints[i].ID != keyPointID {
			continue
		}
		kp := &note.KeyPoints[i]
		kp.Highlighted = !kp.Highlighted
		if err := s.db.UpdateKeyPointHighlight(noteID, keyPointID, kp.Highlighted); err != nil {
			return nil, err
		}
		return kp, nil
	}
	return nil, fmt.Errorf("key point %s: %w", keyPointID, domain.ErrNotFound)
}

// GenerateFlashcards synthesizes and persists cards for a note's key points.
func (s *Service) GenerateFlashcards(noteID string, keyPoints []domain.KeyPoint) ([]domain.Flashcard, error) {
	cards := synth.Synthesize(noteID, keyPoints, s.ids)
	if err := s.db.InsertFlashcards(cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// ListFlashcards retrieves a note's cards, or all cards for an empty noteID.
func (s *Service) ListFlashcards(noteID string) ([]domain.Flashcard, error) {
	if noteID == "" {
		return s.db.GetAllFlashcards()
	}
	return s.db.GetFlashcardsByNoteID(noteID)
}

// AnswerFlashcard applies one recall outcome: the card's mastery and review
// time move together with the session's counters, both or neither.
func (s *Service) AnswerFlashcard(flashcardID, sessionID string, correct bool) (*domain.Flashcard, error) {
	card, err := s.db.FindFlashcardByID(flashcardID)
	if err != nil {
		return nil, err
	}
	session, err := s.db.FindSessionByID(sessionID)
	if err != nil {
		return nil, err
	}

	card.Mastery = study.UpdateMastery(card.Mastery, correct)
	reviewed := s.now()
	card.LastReviewed = &reviewed
	updated := study.RecordAnswer(*session, correct)

	if err := s.db.ApplyAnswer(*card, updated); err != nil {
		return nil, err
	}
	return card, nil
}

// StartSession opens a new study session with a nil end time.
func (s *Service) StartSession() (*domain.StudySession, error) {
	session := domain.StudySession{
		ID:        s.ids.NewID(),
		StartTime: s.now(),
	}
	if err := s.db.InsertSession(session); err != nil {
		return nil, err
	}
	return &session, nil
}

// EndSession closes a session; only closed sessions count toward streaks.
func (s *Service) EndSession(id string) (*domain.StudySession, error) {
	session, err := s.db.FindSessionByID(id)
	if err != nil {
		return nil, err
	}
	end := s.now()
	session.EndTime = &end
	if err := s.db.UpdateSession(*session); err != nil {
		return nil, err
	}
	return session, nil
}

// ComputeStreak counts consecutive study days over the stored sessions.
func (s *Service) ComputeStreak() (int, error) {
	sessions, err := s.db.GetAllSessions()
	if err != nil {
		return 0, err
	}
	return study.ComputeStreak(sessions, s.now()), nil
}

// ProposeReviewSchedule returns the five spaced-repetition proposals for
// the next thirty days without persisting them.
func (s *Service) ProposeReviewSchedule(today time.Time) []domain.CalendarEvent {
	return s.scheduler.ProposeReviews(today)
}

// ScheduleReviews persists the proposals as calendar events.
func (s *Service) ScheduleReviews(today time.Time) ([]domain.CalendarEvent, error) {
	proposals := s.scheduler.ProposeReviews(today)
	events := make([]domain.CalendarEvent, 0, len(proposals))
	for _, p := range proposals {
		event, err := s.db.InsertEvent(p)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// ListEvents retrieves calendar events within a date range.
func (s *Service) ListEvents(from, to time.Time) ([]domain.CalendarEvent, error) {
	return s.db.GetEventsByDateRange(from, to)
}

// MarkEventCompleted flags a calendar event as done.
func (s *Service) MarkEventCompleted(id int64) (*domain.CalendarEvent, error) {
	event, err := s.db.FindEventByID(id)
	if err != nil {
		return nil, err
	}
	event.Completed = true
	if err := s.db.UpdateEvent(*event); err != nil {
		return nil, err
	}
	return event, nil
}

// RescheduleEvent moves a calendar event to a new date.
func (s *Service) RescheduleEvent(id int64, date time.Time) (*domain.CalendarEvent, error) {
	event, err := s.db.FindEventByID(id)
	if err != nil {
		return nil, err
	}
	event.Date = date
	if err := s.db.UpdateEvent(*event); err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent removes a calendar event.
func (s *Service) DeleteEvent(id int64) error {
	return s.db.DeleteEvent(id)
}
