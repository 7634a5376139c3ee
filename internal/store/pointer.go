package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

const currentListKey = "current_list_id"

// PointerStore persists the current-list pointer as a row in app_state. It
// satisfies the list.Pointer interface; tests substitute an in-memory one.
type PointerStore struct {
	db *sql.DB
}

func NewPointerStore(db *sql.DB) *PointerStore {
	return &PointerStore{db: db}
}

// Get returns the pointed-at list id and whether a pointer is set.
func (s *PointerStore) Get() (int64, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, currentListKey).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get pointer: %w", err)
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		// A corrupt pointer behaves like a missing one.
		return 0, false, nil
	}
	return id, true, nil
}

func (s *PointerStore) Set(listID int64) error {
	_, err := s.db.Exec(
		`INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		currentListKey, strconv.FormatInt(listID, 10), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set pointer: %w", err)
	}
	return nil
}

func (s *PointerStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM app_state WHERE key = ?`, currentListKey)
	if err != nil {
		return fmt.Errorf("clear pointer: %w", err)
	}
	return nil
}
