package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/listinha-app/listinha/internal/apperr"
	"github.com/listinha-app/listinha/internal/model"
)

// ProductStore persists the shared product catalog. Rows are keyed by
// normalized name (UNIQUE constraint); Create maps a uniqueness violation to
// apperr.ErrConflict so the resolver can re-read instead of failing.
type ProductStore struct {
	db *sql.DB
}

func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

const productCols = `id, name, normalized_name, category_id, usage_count, user_suggested, created_at`

func scanProduct(scanner interface{ Scan(...any) error }) (*model.Product, error) {
	var p model.Product
	var categoryID sql.NullInt64
	var userSuggested int

	err := scanner.Scan(&p.ID, &p.Name, &p.NormalizedName, &categoryID, &p.UsageCount, &userSuggested, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		p.CategoryID = &categoryID.Int64
	}
	p.UserSuggested = userSuggested != 0
	return &p, nil
}

func (s *ProductStore) GetByID(id int64) (*model.Product, error) {
	row := s.db.QueryRow(`SELECT `+productCols+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *ProductStore) GetByNormalizedName(key string) (*model.Product, error) {
	row := s.db.QueryRow(`SELECT `+productCols+` FROM products WHERE normalized_name = ?`, key)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product by key: %w", err)
	}
	return p, nil
}

func (s *ProductStore) Create(name, normalizedName string, categoryID *int64, userSuggested bool) (*model.Product, error) {
	var catID sql.NullInt64
	if categoryID != nil {
		catID = sql.NullInt64{Int64: *categoryID, Valid: true}
	}
	suggested := 0
	if userSuggested {
		suggested = 1
	}

	result, err := s.db.Exec(
		`INSERT INTO products (name, normalized_name, category_id, usage_count, user_suggested) VALUES (?, ?, ?, 0, ?)`,
		name, normalizedName, catID, suggested,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("insert product %q: %w", normalizedName, apperr.ErrConflict)
		}
		return nil, fmt.Errorf("insert product: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// ListByCategory returns a category's products ranked by popularity.
func (s *ProductStore) ListByCategory(categoryID int64, limit int) ([]model.Product, error) {
	rows, err := s.db.Query(
		`SELECT `+productCols+` FROM products WHERE category_id = ? ORDER BY usage_count DESC, name ASC LIMIT ?`,
		categoryID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// Search returns products whose normalized name contains the (normalized)
// query substring, ranked by descending usage count then name. The LIKE runs
// over normalized_name, which makes the match case- and diacritic-insensitive.
func (s *ProductStore) Search(normalizedQuery string, limit int) ([]model.Product, error) {
	rows, err := s.db.Query(
		`SELECT `+productCols+` FROM products WHERE normalized_name LIKE '%' || ? || '%' ESCAPE '\'
		 ORDER BY usage_count DESC, name ASC LIMIT ?`,
		escapeLike(normalizedQuery), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// IncrementUsage bumps a product's usage counter by one. The relative update
// keeps the counter monotonic under concurrent attaches.
func (s *ProductStore) IncrementUsage(id int64) error {
	_, err := s.db.Exec(`UPDATE products SET usage_count = usage_count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	return nil
}

func collectProducts(rows *sql.Rows) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
