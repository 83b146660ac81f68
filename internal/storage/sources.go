package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/studydeck/studydeck/internal/domain"
)

// InsertSource stores a new note source and returns its id.
func (db *DB) InsertSource(path, sourceType string) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO sources (path, type) VALUES (?, ?)
	`, path, sourceType)
	if err != nil {
		return 0, fmt.Errorf("failed to insert source %s: %w", path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get source id for %s: %w", path, err)
	}
	return id, nil
}

// FindSourceByPath retrieves a source by path, or nil when none matches.
func (db *DB) FindSourceByPath(path string) (*domain.Source, error) {
	row := db.conn.QueryRow(`
		SELECT id, path, type, last_scanned FROM sources WHERE path = ?
	`, path)

	source, err := scanSource(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find source by path %s: %w", path, err)
	}
	return source, nil
}

// GetAllSources retrieves every configured source.
func (db *DB) GetAllSources() ([]domain.Source, error) {
	rows, err := db.conn.Query(`SELECT id, path, type, last_scanned FROM sources`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, *source)
	}
	return sources, rows.Err()
}

// UpdateSourceLastScanned records a completed sync pass for a source.
func (db *DB) UpdateSourceLastScanned(sourceID int64) error {
	res, err := db.conn.Exec(`
		UPDATE sources SET last_scanned = ? WHERE id = ?
	`, time.Now(), sourceID)
	if err != nil {
		return fmt.Errorf("failed to update last scanned for source %d: %w", sourceID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read rows affected for source %d: %w", sourceID, err)
	} else if n == 0 {
		return fmt.Errorf("source %d: %w", sourceID, domain.ErrNotFound)
	}
	return nil
}

// DeleteSource removes a source.
// Returns domain.ErrNotFound when the id is absent.
func (db *DB) DeleteSource(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM sources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete source %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read rows affected deleting source %d: %w", id, err)
	} else if n == 0 {
		return fmt.Errorf("source %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanSource(row rowScanner) (*domain.Source, error) {
	var source domain.Source
	var scanned sql.NullTime
	if err := row.Scan(&source.ID, &source.Path, &source.Type, &scanned); err != nil {
		return nil, err
	}
	if scanned.Valid {
		t := scanned.Time
		source.LastScanned = &t
	}
	return &source, nil
}
