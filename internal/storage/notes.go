package storage

import (
	"database/sql"
	"fmt"

	"github.com/studydeck/studydeck/internal/domain"
)

// InsertNote stores a note together with its key points in one transaction.
func (db *DB) InsertNote(note domain.Note) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin note insert: %w", err)
	}
	defer tx.Rollback()

	var sourceID sql.NullInt64
	if note.SourceID != 0 {
		sourceID = sql.NullInt64{Int64: note.SourceID, Valid: true}
	}

	_, err = tx.Exec(`
		INSERT INTO notes (id, content, created_at, summary, content_hash, source_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, note.ID, note.Content, note.CreatedAt, note.Summary, note.ContentHash, sourceID)
	if err != nil {
		return fmt.Errorf("failed to insert note %s: %w", note.ID, err)
	}

	if err := insertKeyPoints(tx, note.ID, note.KeyPoints); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateNote rewrites a note's content-derived fields and replaces its key
// points. Returns domain.ErrNotFound when the id is absent.
func (db *DB) UpdateNote(note domain.Note) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin note update: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE notes SET content = ?, summary = ?, content_hash = ?
		WHERE id = ?
	`, note.Content, note.Summary, note.ContentHash, note.ID)
	if err != nil {
		return fmt.Errorf("failed to update note %s: %w", note.ID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read rows affected for note %s: %w", note.ID, err)
	} else if n == 0 {
		return fmt.Errorf("note %s: %w", note.ID, domain.ErrNotFound)
	}

	if _, err := tx.Exec(`DELETE FROM key_points WHERE note_id = ?`, note.ID); err != nil {
		return fmt.Errorf("failed to clear key points for note %s: %w", note.ID, err)
	}
	if err := insertKeyPoints(tx, note.ID, note.KeyPoints); err != nil {
		return err
	}

	return tx.Commit()
}

func insertKeyPoints(tx *sql.Tx, noteID string, points []domain.KeyPoint) error {
	for i, kp := range points {
		_, err := tx.Exec(`
			INSERT INTO key_points (id, note_id, position, text, importance, highlighted)
			VALUES (?, ?, ?, ?, ?, ?)
		`, kp.ID, noteID, i, kp.Text, string(kp.Importance), kp.Highlighted)
		if err != nil {
			return fmt.Errorf("failed to insert key point %s: %w", kp.ID, err)
		}
	}
	return nil
}

// FindNoteByID retrieves a note and its key points.
// Returns domain.ErrNotFound when the id is absent.
func (db *DB) FindNoteByID(id string) (*domain.Note, error) {
	row := db.conn.QueryRow(`
		SELECT id, content, created_at, summary, content_hash, source_id
		FROM notes WHERE id = ?
	`, id)

	note, err := scanNote(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find note %s: %w", id, err)
	}

	points, err := db.keyPointsForNote(id)
	if err != nil {
		return nil, err
	}
	note.KeyPoints = points
	return note, nil
}

// FindNoteByHash retrieves a note by content hash, or nil when no note
// matches. Used by sync to dedupe source files.
func (db *DB) FindNoteByHash(hash string) (*domain.Note, error) {
	row := db.conn.QueryRow(`
		SELECT id, content, created_at, summary, content_hash, source_id
		FROM notes WHERE content_hash = ?
	`, hash)

	note, err := scanNote(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find note by hash %s: %w", hash, err)
	}
	return note, nil
}

// GetAllNotes retrieves every note, newest first, with key points attached.
func (db *DB) GetAllNotes() ([]domain.Note, error) {
	rows, err := db.conn.Query(`
		SELECT id, content, created_at, summary, content_hash, source_id
		FROM notes ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}

	for i := range notes {
		points, err := db.keyPointsForNote(notes[i].ID)
		if err != nil {
			return nil, err
		}
		notes[i].KeyPoints = points
	}
	return notes, nil
}

// GetNotesBySourceID retrieves the notes created from one sync source.
func (db *DB) GetNotesBySourceID(sourceID int64) ([]domain.Note, error) {
	rows, err := db.conn.Query(`
		SELECT id, content, created_at, summary, content_hash, source_id
		FROM notes WHERE source_id = ?
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notes for source %d: %w", sourceID, err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note row for source %d: %w", sourceID, err)
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}

// DeleteNote removes a note; key points and flashcards cascade.
// Returns domain.ErrNotFound when the id is absent.
func (db *DB) DeleteNote(id string) error {
	res, err := db.conn.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read rows affected deleting note %s: %w", id, err)
	} else if n == 0 {
		return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// UpdateNoteSource tags a note with the sync source it came from.
// Returns domain.ErrNotFound when the id is absent.
func (db *DB) UpdateNoteSource(noteID string, sourceID int64) error {
	res, err := db.conn.Exec(`UPDATE notes SET source_id = ? WHERE id = ?`, sourceID, noteID)
	if err != nil {
		return fmt.Errorf("failed to set source for note %s: %w", noteID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read rows affected for note %s: %w", noteID, err)
	} else if n == 0 {
		return fmt.Errorf("note %s: %w", noteID, domain.ErrNotFound)
	}
	return nil
}

// UpdateKeyPointHighlight flips the one user-mutable derived field.
// Returns domain.ErrNotFound when the key point is absent from the note.
func (db *DB) UpdateKeyPointHighlight(noteID, keyPointID string, highlighted bool) error {
	res, err := db.conn.Exec(`
		UPDATE key_points SET highlighted = ?
		WHERE id = ? AND note_id = ?
	`, highlighted, keyPointID, noteID)
	if err != nil {
		return fmt.Errorf("failed to update key point %s: %w", keyPointID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read rows affected for key point %s: %w", keyPointID, err)
	} else if n == 0 {
		return fmt.Errorf("key point %s: %w", keyPointID, domain.ErrNotFound)
	}
	return nil
}

func (db *DB) keyPointsForNote(noteID string) ([]domain.KeyPoint, error) {
	rows, err := db.conn.Query(`
		SELECT id, text, importance, highlighted
		FROM key_points WHERE note_id = ? ORDER BY position
	`, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get key points for note %s: %w", noteID, err)
	}
	defer rows.Close()

	var points []domain.KeyPoint
	for rows.Next() {
		var kp domain.KeyPoint
		var importance string
		if err := rows.Scan(&kp.ID, &kp.Text, &importance, &kp.Highlighted); err != nil {
			return nil, fmt.Errorf("failed to scan key point row: %w", err)
		}
		kp.Importance = domain.Importance(importance)
		points = append(points, kp)
	}
	return points, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*domain.Note, error) {
	var note domain.Note
	var sourceID sql.NullInt64
	if err := row.Scan(&note.ID, &note.Content, &note.CreatedAt,
		&note.Summary, &note.ContentHash, &sourceID); err != nil {
		return nil, err
	}
	if sourceID.Valid {
		note.SourceID = sourceID.Int64
	}
	return &note, nil
}
