package store

import (
	"database/sql"
	"fmt"

	"github.com/listinha-app/listinha/internal/model"
)

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

const itemCols = `id, list_id, product_id, custom_name, quantity, checked, created_at`

func scanItem(scanner interface{ Scan(...any) error }) (*model.ListItem, error) {
	var item model.ListItem
	var productID sql.NullInt64
	var customName sql.NullString
	var checked int

	err := scanner.Scan(&item.ID, &item.ListID, &productID, &customName, &item.Quantity, &checked, &item.CreatedAt)
	if err != nil {
		return nil, err
	}

	if productID.Valid {
		item.ProductID = &productID.Int64
	}
	if customName.Valid {
		item.CustomName = &customName.String
	}
	item.Checked = checked != 0
	return &item, nil
}

func (s *ItemStore) Create(listID int64, productID *int64, customName *string, quantity int, checked bool) (*model.ListItem, error) {
	var pid sql.NullInt64
	if productID != nil {
		pid = sql.NullInt64{Int64: *productID, Valid: true}
	}
	var custom sql.NullString
	if customName != nil {
		custom = sql.NullString{String: *customName, Valid: true}
	}
	chk := 0
	if checked {
		chk = 1
	}

	result, err := s.db.Exec(
		`INSERT INTO list_items (list_id, product_id, custom_name, quantity, checked) VALUES (?, ?, ?, ?, ?)`,
		listID, pid, custom, quantity, chk,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ItemStore) GetByID(id int64) (*model.ListItem, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM list_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *ItemStore) ListByList(listID int64) ([]model.ListItem, error) {
	rows, err := s.db.Query(
		`SELECT `+itemCols+` FROM list_items WHERE list_id = ? ORDER BY created_at ASC, id ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.ListItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *ItemStore) UpdateQuantity(id int64, quantity int) (*model.ListItem, error) {
	_, err := s.db.Exec(`UPDATE list_items SET quantity = ? WHERE id = ?`, quantity, id)
	if err != nil {
		return nil, fmt.Errorf("update quantity: %w", err)
	}
	return s.GetByID(id)
}

func (s *ItemStore) SetChecked(id int64, checked bool) (*model.ListItem, error) {
	chk := 0
	if checked {
		chk = 1
	}
	_, err := s.db.Exec(`UPDATE list_items SET checked = ? WHERE id = ?`, chk, id)
	if err != nil {
		return nil, fmt.Errorf("set checked: %w", err)
	}
	return s.GetByID(id)
}

func (s *ItemStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM list_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (s *ItemStore) CountByList(listID int64) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM list_items WHERE list_id = ?`, listID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}
