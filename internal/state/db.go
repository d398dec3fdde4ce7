// Package state keeps local records: the history of published pages and the
// user's summarization preferences.
package state

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Publish statuses.
const (
	StatusComplete = "complete"
	StatusPartial  = "partial"
)

// DB wraps the SQLite database holding publish history.
type DB struct {
	conn *sql.DB
	path string
}

// Publish is one page creation recorded in the history.
type Publish struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	PageID    string    `json:"page_id,omitempty"`
	URL       string    `json:"url,omitempty"`
	Status    string    `json:"status"`
	Blocks    int       `json:"blocks"`
	CreatedAt time.Time `json:"created_at"`
}

// Open opens or creates a history database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db := &DB{
		conn: conn,
		path: path,
	}

	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS publish_history (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		page_id TEXT,
		url TEXT,
		status TEXT NOT NULL,
		blocks INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_publish_created ON publish_history(created_at);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// RecordPublish stores a publish. A zero CreatedAt is set to now and an empty
// Status to complete. The assigned ID is written back to p.
func (db *DB) RecordPublish(p *Publish) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if p.Status == "" {
		p.Status = StatusComplete
	}

	result, err := db.conn.Exec(`
		INSERT INTO publish_history (title, page_id, url, status, blocks, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.Title, nullString(p.PageID), nullString(p.URL), p.Status, p.Blocks, p.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert publish: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get publish id: %w", err)
	}
	p.ID = id
	return nil
}

// ListHistory returns up to limit publishes, newest first. A limit below 1
// returns everything.
func (db *DB) ListHistory(limit int) ([]*Publish, error) {
	if limit < 1 {
		limit = -1
	}

	rows, err := db.conn.Query(`
		SELECT id, title, page_id, url, status, blocks, created_at
		FROM publish_history
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var history []*Publish
	for rows.Next() {
		p := &Publish{}
		var pageID, url sql.NullString
		var createdAt int64

		if err := rows.Scan(&p.ID, &p.Title, &pageID, &url, &p.Status, &p.Blocks, &createdAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		p.PageID = pageID.String
		p.URL = url.String
		p.CreatedAt = time.Unix(0, createdAt)

		history = append(history, p)
	}

	return history, rows.Err()
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
