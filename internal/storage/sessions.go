package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/studydeck/studydeck/internal/domain"
)

// InsertSession stores a new study session, normally with a nil end time.
func (db *DB) InsertSession(session domain.StudySession) error {
	_, err := db.conn.Exec(`
		INSERT INTO study_sessions (id, start_time, end_time, cards_reviewed, correct_answers)
		VALUES (?, ?, ?, ?, ?)
	`, session.ID, session.StartTime, nullTime(session.EndTime),
		session.CardsReviewed, session.CorrectAnswers)
	if err != nil {
		return fmt.Errorf("failed to insert session %s: %w", session.ID, err)
	}
	return nil
}

// UpdateSession rewrites a session's counters and end time.
// Returns domain.ErrNotFound when the id is absent.
func (db *DB) UpdateSession(session domain.StudySession) error {
	res, err := db.conn.Exec(`
		UPDATE study_sessions SET end_time = ?, cards_reviewed = ?, correct_answers = ?
		WHERE id = ?
	`, nullTime(session.EndTime), session.CardsReviewed, session.CorrectAnswers, session.ID)
	if err != nil {
		return fmt.Errorf("failed to update session %s: %w", session.ID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read rows affected for session %s: %w", session.ID, err)
	} else if n == 0 {
		return fmt.Errorf("session %s: %w", session.ID, domain.ErrNotFound)
	}
	return nil
}

// FindSessionByID retrieves one session.
// Returns domain.ErrNotFound when the id is absent.
func (db *DB) FindSessionByID(id string) (*domain.StudySession, error) {
	row := db.conn.QueryRow(`
		SELECT id, start_time, end_time, cards_reviewed, correct_answers
		FROM study_sessions WHERE id = ?
	`, id)

	session, err := scanSession(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find session %s: %w", id, err)
	}
	return session, nil
}

// GetAllSessions retrieves every session, most recent start first.
func (db *DB) GetAllSessions() ([]domain.StudySession, error) {
	rows, err := db.conn.Query(`
		SELECT id, start_time, end_time, cards_reviewed, correct_answers
		FROM study_sessions ORDER BY start_time DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.StudySession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

func scanSession(row rowScanner) (*domain.StudySession, error) {
	var session domain.StudySession
	var end sql.NullTime
	if err := row.Scan(&session.ID, &session.StartTime, &end,
		&session.CardsReviewed, &session.CorrectAnswers); err != nil {
		return nil, err
	}
	if end.Valid {
		t := end.Time
		session.EndTime = &t
	}
	return &session, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
