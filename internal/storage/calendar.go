package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/studydeck/studydeck/internal/domain"
)

// InsertEvent stores a calendar event and returns it with its assigned id.
func (db *DB) InsertEvent(event domain.CalendarEvent) (domain.CalendarEvent, error) {
	res, err := db.conn.Exec(`
		INSERT INTO calendar_events (date, title, priority, completed, card_count)
		VALUES (?, ?, ?, ?, ?)
	`, event.Date, event.Title, string(event.Priority), event.Completed, event.CardCount)
	if err != nil {
		return domain.CalendarEvent{}, fmt.Errorf("failed to insert calendar event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.CalendarEvent{}, fmt.Errorf("failed to get calendar event id: %w", err)
	}
	event.ID = id
	return event, nil
}

// FindEventByID retrieves one event.
// Returns domain.ErrNotFound when the id is absent.
func (db *DB) FindEventByID(id int64) (*domain.CalendarEvent, error) {
	row := db.conn.QueryRow(`
		SELECT id, date, title, priority, completed, card_count
		FROM calendar_events WHERE id = ?
	`, id)

	event, err := scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("calendar event %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find calendar event %d: %w", id, err)
	}
	return event, nil
}

// GetEventsByDateRange retrieves events with from <= date <= to, ascending.
func (db *DB) GetEventsByDateRange(from, to time.Time) ([]domain.CalendarEvent, error) {
	rows, err := db.conn.Query(`
		SELECT id, date, title, priority, completed, card_count
		FROM calendar_events WHERE date >= ? AND date <= ? ORDER BY date
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar events: %w", err)
	}
	defer rows.Close()

	var events []domain.CalendarEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calendar event row: %w", err)
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

// UpdateEvent rewrites an event's date and completion state, covering both
// reschedule and mark-completed.
// Returns domain.ErrNotFound when the id is absent.
func (db *DB) UpdateEvent(event domain.CalendarEvent) error {
	res, err := db.conn.Exec(`
		UPDATE calendar_events SET date = ?, title = ?, priority = ?, completed = ?, card_count = ?
		WHERE id = ?
	`, event.Date, event.Title, string(event.Priority), event.Completed, event.CardCount, event.ID)
	if err != nil {
		return fmt.Errorf("failed to update calendar event %d: %w", event.ID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read rows affected for calendar event %d: %w", event.ID, err)
	} else if n == 0 {
		return fmt.Errorf("calendar event %d: %w", event.ID, domain.ErrNotFound)
	}
	return nil
}

// DeleteEvent removes an event.
// Returns domain.ErrNotFound when the id is absent.
func (db *DB) DeleteEvent(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM calendar_events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete calendar event %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read rows affected deleting calendar event %d: %w", id, err)
	} else if n == 0 {
		return fmt.Errorf("calendar event %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanEvent(row rowScanner) (*domain.CalendarEvent, error) {
	var event domain.CalendarEvent
	var priority string
	if err := row.Scan(&event.ID, &event.Date, &event.Title,
		&priority, &event.Completed, &event.CardCount); err != nil {
		return nil, err
	}
	event.Priority = domain.Priority(priority)
	return &event, nil
}
