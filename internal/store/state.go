package store

import (
	"database/sql"
	"fmt"
	"time"
)

const lastRefreshKey = "last_refresh"

func (db *DB) GetState(key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (db *DB) SetState(key, value string) error {
	_, err := db.Exec(
		"INSERT INTO state (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// LastRefresh returns when the refresher last finished a clean pass, or the
// zero time if it never has.
func (db *DB) LastRefresh() (time.Time, error) {
	v, err := db.GetState(lastRefreshKey)
	if err != nil || v == "" {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", lastRefreshKey, err)
	}
	return t, nil
}

func (db *DB) SetLastRefresh(t time.Time) error {
	return db.SetState(lastRefreshKey, t.UTC().Format(time.RFC3339))
}
