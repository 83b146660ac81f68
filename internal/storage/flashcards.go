package storage

import (
	"database/sql"
	"fmt"

	"github.com/studydeck/studydeck/internal/domain"
)

// InsertFlashcards stores a batch of cards in one transaction.
func (db *DB) InsertFlashcards(cards []domain.Flashcard) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin flashcard insert: %w", err)
	}
	defer tx.Rollback()

	for _, card := range cards {
		_, err := tx.Exec(`
			INSERT INTO flashcards (id, note_id, question, answer, mastery, last_reviewed)
			VALUES (?, ?, ?, ?, ?, ?)
		`, card.ID, card.NoteID, card.Question, card.Answer, card.Mastery, nullTime(card.LastReviewed))
		if err != nil {
			return fmt.Errorf("failed to insert flashcard %s: %w", card.ID, err)
		}
	}
	return tx.Commit()
}

// FindFlashcardByID retrieves one card.
// Returns domain.ErrNotFound when the id is absent.
func (db *DB) FindFlashcardByID(id string) (*domain.Flashcard, error) {
	row := db.conn.QueryRow(`
		SELECT id, note_id, question, answer, mastery, last_reviewed
		FROM flashcards WHERE id = ?
	`, id)

	card, err := scanFlashcard(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("flashcard %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find flashcard %s: %w", id, err)
	}
	return card, nil
}

// GetFlashcardsByNoteID retrieves all cards generated from one note.
func (db *DB) GetFlashcardsByNoteID(noteID string) ([]domain.Flashcard, error) {
	return db.queryFlashcards(`
		SELECT id, note_id, question, answer, mastery, last_reviewed
		FROM flashcards WHERE note_id = ?
	`, noteID)
}

// GetAllFlashcards retrieves every stored card.
func (db *DB) GetAllFlashcards() ([]domain.Flashcard, error) {
	return db.queryFlashcards(`
		SELECT id, note_id, question, answer, mastery, last_reviewed
		FROM flashcards
	`)
}

// DeleteFlashcardsByNoteID removes every card of a note, used when note
// content changes and cards are regenerated.
func (db *DB) DeleteFlashcardsByNoteID(noteID string) error {
	if _, err := db.conn.Exec(`DELETE FROM flashcards WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("failed to delete flashcards for note %s: %w", noteID, err)
	}
	return nil
}

// ApplyAnswer persists the outcome of one answered flashcard: the card's
// new mastery and review time together with the owning session's counters,
// in a single transaction so neither lands without the other.
func (db *DB) ApplyAnswer(card domain.Flashcard, session domain.StudySession) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin answer update: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE flashcards SET mastery = ?, last_reviewed = ?
		WHERE id = ?
	`, card.Mastery, nullTime(card.LastReviewed), card.ID)
	if err != nil {
		return fmt.Errorf("failed to update flashcard %s: %w", card.ID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read rows affected for flashcard %s: %w", card.ID, err)
	} else if n == 0 {
		return fmt.Errorf("flashcard %s: %w", card.ID, domain.ErrNotFound)
	}

	res, err = tx.Exec(`
		UPDATE study_sessions SET cards_reviewed = ?, correct_answers = ?
		WHERE id = ?
	`, session.CardsReviewed, session.CorrectAnswers, session.ID)
	if err != nil {
		return fmt.Errorf("failed to update session %s: %w", session.ID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read rows affected for session %s: %w", session.ID, err)
	} else if n == 0 {
		return fmt.Errorf("session %s: %w", session.ID, domain.ErrNotFound)
	}

	return tx.Commit()
}

func (db *DB) queryFlashcards(query string, args ...any) ([]domain.Flashcard, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query flashcards: %w", err)
	}
	defer rows.Close()

	var cards []domain.Flashcard
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flashcard row: %w", err)
		}
		cards = append(cards, *card)
	}
	return cards, rows.Err()
}

func scanFlashcard(row rowScanner) (*domain.Flashcard, error) {
	var card domain.Flashcard
	var reviewed sql.NullTime
	if err := row.Scan(&card.ID, &card.NoteID, &card.Question,
		&card.Answer, &card.Mastery, &reviewed); err != nil {
		return nil, err
	}
	if reviewed.Valid {
		t := reviewed.Time
		card.LastReviewed = &t
	}
	return &card, nil
}
