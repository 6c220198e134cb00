package storage

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

// Well-known slot keys. NOTIFIED_HISTORY holds the JSON mapping of
// "<itemId>_<YYYY-MM-DD>" dedup keys; UNIT_PREFERENCE holds "metric" or
// "imperial".
const (
	SlotNotifiedHistory = "NOTIFIED_HISTORY"
	SlotUnitPreference  = "UNIT_PREFERENCE"
)

// DB is a small durable string key/value store backed by sqlite. It plays the
// role the host platform's preference storage plays on a phone: a handful of
// named slots that survive restarts.
type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS kv_slots (
  key        TEXT PRIMARY KEY,
  value      TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// GetSlot returns the stored value for key. A missing slot is not an error;
// it returns ok=false.
func (d *DB) GetSlot(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := d.sql.QueryRowContext(ctx, "SELECT value FROM kv_slots WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetSlot replaces the slot's value entirely.
func (d *DB) SetSlot(ctx context.Context, key, value string) error {
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO kv_slots(key, value, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`, key, value)
	return err
}

func (d *DB) DeleteSlot(ctx context.Context, key string) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM kv_slots WHERE key = ?", key)
	return err
}
