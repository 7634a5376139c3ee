package catalog

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/listinha-app/listinha/internal/apperr"
	"github.com/listinha-app/listinha/internal/model"
	"github.com/listinha-app/listinha/internal/store"
	"github.com/listinha-app/listinha/internal/textutil"
)

const searchLimit = 20

// Input selects either an existing catalog product or a free-text entry.
type Input struct {
	ProductID        *int64
	CustomText       string
	ManualCategoryID *int64
}

// Resolution is the outcome of resolving an Input against the catalog.
type Resolution struct {
	ProductID int64
	Created   bool
}

// Resolver turns free-text entries into catalog product references without
// creating semantic duplicates. Identity is the normalized name; creation is
// insert-then-reread under the uniqueness constraint, never check-then-insert.
type Resolver struct {
	products   *store.ProductStore
	categories *store.CategoryStore
	rules      []Rule
	logger     *slog.Logger
}

func NewResolver(products *store.ProductStore, categories *store.CategoryStore, rules []Rule, logger *slog.Logger) *Resolver {
	if rules == nil {
		rules = DefaultRules
	}
	return &Resolver{products: products, categories: categories, rules: rules, logger: logger}
}

// Resolve validates an explicit product id, or finds-or-creates a catalog row
// for free text. It never bumps usage counts; that happens on attach.
func (r *Resolver) Resolve(in Input) (*Resolution, error) {
	if in.ProductID != nil {
		p, err := r.products.GetByID(*in.ProductID)
		if err != nil {
			return nil, fmt.Errorf("resolve product %d: %v: %w", *in.ProductID, err, apperr.ErrTransport)
		}
		if p == nil {
			return nil, fmt.Errorf("product %d: %w", *in.ProductID, apperr.ErrNotFound)
		}
		return &Resolution{ProductID: p.ID}, nil
	}

	name := textutil.TitleCase(in.CustomText)
	if name == "" {
		return nil, fmt.Errorf("product name is empty: %w", apperr.ErrValidation)
	}
	key := textutil.Normalize(name)

	existing, err := r.products.GetByNormalizedName(key)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %v: %w", key, err, apperr.ErrTransport)
	}
	if existing != nil {
		return &Resolution{ProductID: existing.ID}, nil
	}

	categoryID := in.ManualCategoryID
	if categoryID == nil {
		categories, err := r.categories.List()
		if err != nil {
			return nil, fmt.Errorf("load categories: %v: %w", err, apperr.ErrTransport)
		}
		categoryID = Classify(key, r.rules, categories)
	}

	created, err := r.products.Create(name, key, categoryID, true)
	if err == nil {
		return &Resolution{ProductID: created.ID, Created: true}, nil
	}
	if !errors.Is(err, apperr.ErrConflict) {
		return nil, fmt.Errorf("create product %q: %v: %w", name, err, apperr.ErrTransport)
	}

	// Lost the creation race: another session inserted the same normalized
	// name between our lookup and insert. The row exists now, so use it.
	r.logger.Debug("product creation conflict, re-reading", "key", key)
	winner, err := r.products.GetByNormalizedName(key)
	if err != nil || winner == nil {
		return nil, fmt.Errorf("re-read after conflict for %q: %v: %w", key, err, apperr.ErrTransport)
	}
	return &Resolution{ProductID: winner.ID}, nil
}

// FindSimilar returns catalog rows whose normalized name contains the
// normalized query, ranked by usage count then name. It is read-only and
// read-soft: a store failure degrades to an empty result.
func (r *Resolver) FindSimilar(text string) []model.Product {
	key := textutil.Normalize(text)
	if key == "" {
		return nil
	}

	products, err := r.products.Search(key, searchLimit)
	if err != nil {
		r.logger.Warn("product search failed", "query", key, "error", err)
		return nil
	}
	return products
}
