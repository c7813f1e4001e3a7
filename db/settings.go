package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetSetting retrieves a setting value by key. The second return value
// reports whether the key was present.
func (db *DB) GetSetting(key string) (string, bool, error) {
	var value string
	err := db.conn.QueryRow(
		"SELECT value FROM settings WHERE key = ?",
		key,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting %q: %w", key, err)
	}

	return value, true, nil
}

// SetSetting stores a setting value, replacing any previous value for the key
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
		key, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}
	return nil
}

// DeleteSetting removes a setting. Deleting a missing key is not an error.
func (db *DB) DeleteSetting(key string) error {
	_, err := db.conn.Exec("DELETE FROM settings WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete setting %q: %w", key, err)
	}
	return nil
}
