package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/listinha-app/listinha/internal/model"
)

type ListStore struct {
	db *sql.DB
}

func NewListStore(db *sql.DB) *ListStore {
	return &ListStore{db: db}
}

const listCols = `id, name, state, completion_date, store_name, owner_id, created_at`

func scanList(scanner interface{ Scan(...any) error }) (*model.ShoppingList, error) {
	var l model.ShoppingList
	var state string
	var completionDate sql.NullTime
	var storeName, ownerID sql.NullString

	err := scanner.Scan(&l.ID, &l.Name, &state, &completionDate, &storeName, &ownerID, &l.CreatedAt)
	if err != nil {
		return nil, err
	}

	l.State = model.ListState(state)
	if completionDate.Valid {
		l.CompletionDate = &completionDate.Time
	}
	if storeName.Valid {
		l.StoreName = &storeName.String
	}
	if ownerID.Valid {
		l.OwnerID = &ownerID.String
	}
	return &l, nil
}

func (s *ListStore) Create(name string, ownerID *string) (*model.ShoppingList, error) {
	var owner sql.NullString
	if ownerID != nil {
		owner = sql.NullString{String: *ownerID, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO shopping_lists (name, state, owner_id) VALUES (?, 'active', ?)`,
		name, owner,
	)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ListStore) GetByID(id int64) (*model.ShoppingList, error) {
	row := s.db.QueryRow(`SELECT `+listCols+` FROM shopping_lists WHERE id = ?`, id)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

// Complete marks an active list completed. The WHERE clause guards the
// active→completed transition so a second call affects zero rows; the caller
// distinguishes missing vs already-completed. Returns whether a row changed.
func (s *ListStore) Complete(id int64, storeName *string, completedAt time.Time) (bool, error) {
	var store sql.NullString
	if storeName != nil {
		store = sql.NullString{String: *storeName, Valid: true}
	}

	result, err := s.db.Exec(
		`UPDATE shopping_lists SET state = 'completed', completion_date = ?, store_name = ? WHERE id = ? AND state = 'active'`,
		completedAt, store, id,
	)
	if err != nil {
		return false, fmt.Errorf("complete list: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *ListStore) Rename(id int64, name string) (*model.ShoppingList, error) {
	_, err := s.db.Exec(`UPDATE shopping_lists SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return nil, fmt.Errorf("rename list: %w", err)
	}
	return s.GetByID(id)
}

// UpdateMeta rewrites name and ownership in place, leaving items untouched.
func (s *ListStore) UpdateMeta(id int64, name string, ownerID *string) (*model.ShoppingList, error) {
	var owner sql.NullString
	if ownerID != nil {
		owner = sql.NullString{String: *ownerID, Valid: true}
	}

	_, err := s.db.Exec(`UPDATE shopping_lists SET name = ?, owner_id = ? WHERE id = ?`, name, owner, id)
	if err != nil {
		return nil, fmt.Errorf("update list meta: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes the list; items go with it via ON DELETE CASCADE.
func (s *ListStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM shopping_lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}
