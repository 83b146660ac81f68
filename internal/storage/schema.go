package storage

const schema = `
-- Notes hold submitted content plus its derived summary. Key points live in
-- their own table but are owned by the note and cascade with it.
CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    content TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    summary TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    source_id INTEGER,

    FOREIGN KEY(source_id) REFERENCES sources(id)
);

CREATE TABLE IF NOT EXISTS key_points (
    id TEXT PRIMARY KEY,
    note_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    text TEXT NOT NULL,
    importance TEXT NOT NULL,
    highlighted INTEGER NOT NULL,

    FOREIGN KEY(note_id) REFERENCES notes(id) ON DELETE CASCADE
);

-- Flashcards reference their note rather than being embedded in it, but
-- they are still removed alongside the note.
CREATE TABLE IF NOT EXISTS flashcards (
    id TEXT PRIMARY KEY,
    note_id TEXT NOT NULL,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    mastery REAL NOT NULL DEFAULT 0,
    last_reviewed DATETIME,

    FOREIGN KEY(note_id) REFERENCES notes(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS study_sessions (
    id TEXT PRIMARY KEY,
    start_time DATETIME NOT NULL,
    end_time DATETIME,
    cards_reviewed INTEGER NOT NULL DEFAULT 0,
    correct_answers INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS calendar_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date DATETIME NOT NULL,
    title TEXT NOT NULL,
    priority TEXT NOT NULL,
    completed INTEGER NOT NULL DEFAULT 0,
    card_count INTEGER NOT NULL DEFAULT 0
);

-- Sources track where synced notes came from, a local directory or a git
-- repository of markdown files.
CREATE TABLE IF NOT EXISTS sources (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL DEFAULT 'local',
    last_scanned DATETIME
);
`
