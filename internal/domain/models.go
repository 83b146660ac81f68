package domain

import "time"

// Importance is the tier assigned to a key point by the line classifier.
type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

// Priority ranks a calendar event.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Note is a submitted block of class notes together with its derived study
// material. Summary and KeyPoints are computed from Content at creation time
// and recomputed whenever Content changes; they are never edited directly,
// except for the Highlighted flag on individual key points.
type Note struct {
	ID          string     `json:"id"`
	Content     string     `json:"content"`
	CreatedAt   time.Time  `json:"createdAt"`
	Summary     string     `json:"summary"`
	KeyPoints   []KeyPoint `json:"keyPoints"`
	ContentHash string     `json:"-"`
	SourceID    int64      `json:"-"` // 0 when the note was submitted directly
}

// KeyPoint is a single extracted line of note content tagged with an
// importance tier. A note holds at most eight, in source order.
type KeyPoint struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Importance  Importance `json:"importance"`
	Highlighted bool       `json:"highlighted"`
}

// Flashcard is a question/answer pair synthesized from a key point.
// Mastery lives in [0,1]; LastReviewed is nil until the first review.
type Flashcard struct {
	ID           string     `json:"id"`
	NoteID       string     `json:"noteId"`
	Question     string     `json:"question"`
	Answer       string     `json:"answer"`
	Mastery      float64    `json:"mastery"`
	LastReviewed *time.Time `json:"lastReviewed"`
}

// StudySession tracks one study run. EndTime is nil while the session is in
// progress; such sessions are excluded from streak computation.
type StudySession struct {
	ID             string     `json:"id"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        *time.Time `json:"endTime"`
	CardsReviewed  int        `json:"cardsReviewed"`
	CorrectAnswers int        `json:"correctAnswers"`
}

// CalendarEvent is a scheduled review slot. The scheduler emits proposals
// with ID zero; storage assigns the real id on insert.
type CalendarEvent struct {
	ID        int64     `json:"id"`
	Date      time.Time `json:"date"`
	Title     string    `json:"title"`
	Priority  Priority  `json:"priority"`
	Completed bool      `json:"completed"`
	CardCount int       `json:"cardCount"`
}

// Source is the origin of synced notes, either a local directory or a git
// repository of markdown files.
type Source struct {
	ID          int64      `json:"id"`
	Path        string     `json:"path"`
	Type        string     `json:"type"` // "local" or "git"
	LastScanned *time.Time `json:"lastScanned"`
}
