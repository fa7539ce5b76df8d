// Package database holds the SQLite persistence for per-session table
// snapshots, so a browser refresh does not force a re-upload.
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const sessionSchema = `
CREATE TABLE IF NOT EXISTS session_snapshots (
    session_id TEXT PRIMARY KEY,
    payload    BLOB NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

// InitDatabase applies the schema.
func InitDatabase(db *sqlx.DB) error {
	if _, err := db.Exec(sessionSchema); err != nil {
		return fmt.Errorf("failed to apply session schema: %w", err)
	}
	return nil
}

// SaveSessionSnapshot upserts the encoded table for one session.
func SaveSessionSnapshot(db *sqlx.DB, sessionID string, payload []byte) error {
	_, err := db.Exec(`
		INSERT INTO session_snapshots (session_id, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		sessionID, payload, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save session snapshot: %w", err)
	}
	return nil
}

// LoadSessionSnapshot returns the stored payload, or nil when the session
// has none.
func LoadSessionSnapshot(db *sqlx.DB, sessionID string) ([]byte, error) {
	var payload []byte
	err := db.Get(&payload, `SELECT payload FROM session_snapshots WHERE session_id = ?`, sessionID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session snapshot: %w", err)
	}
	return payload, nil
}

// DeleteSessionSnapshot drops one session's stored table.
func DeleteSessionSnapshot(db *sqlx.DB, sessionID string) error {
	if _, err := db.Exec(`DELETE FROM session_snapshots WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session snapshot: %w", err)
	}
	return nil
}

// CleanupSessionSnapshots removes snapshots not touched since cutoff and
// returns how many were dropped.
func CleanupSessionSnapshots(db *sqlx.DB, cutoff time.Time) (int64, error) {
	res, err := db.Exec(`DELETE FROM session_snapshots WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up session snapshots: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
