// Package list implements the per-list item state machine and the list
// lifecycle (active → completed, current-pointer handling, duplication).
package list

import (
	"fmt"
	"log/slog"

	"github.com/listinha-app/listinha/internal/apperr"
	"github.com/listinha-app/listinha/internal/model"
	"github.com/listinha-app/listinha/internal/store"
)

// ItemService governs item transitions inside one list: unchecked ↔ checked,
// and removal when quantity drops to zero. Items on a completed list are
// frozen.
type ItemService struct {
	lists    *store.ListStore
	items    *store.ItemStore
	products *store.ProductStore
	logger   *slog.Logger
}

func NewItemService(lists *store.ListStore, items *store.ItemStore, products *store.ProductStore, logger *slog.Logger) *ItemService {
	return &ItemService{lists: lists, items: items, products: products, logger: logger}
}

// Attach appends a new unchecked item to an active list. When the item is
// bound to a catalog product, that product's usage count is bumped by one.
func (s *ItemService) Attach(listID int64, productID *int64, customName *string, quantity int) (*model.ListItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity %d: %w", quantity, apperr.ErrValidation)
	}
	if (productID == nil) == (customName == nil) {
		return nil, fmt.Errorf("exactly one of product id and custom name must be set: %w", apperr.ErrValidation)
	}

	if err := s.requireActive(listID); err != nil {
		return nil, err
	}

	item, err := s.items.Create(listID, productID, customName, quantity, false)
	if err != nil {
		return nil, fmt.Errorf("attach item: %v: %w", err, apperr.ErrTransport)
	}

	if productID != nil {
		// Usage counters are a ranking heuristic; a failed bump is logged,
		// not surfaced, and never rolls back the attach.
		if err := s.products.IncrementUsage(*productID); err != nil {
			s.logger.Warn("usage increment failed", "product_id", *productID, "error", err)
		}
	}
	return item, nil
}

// SetQuantity replaces an item's quantity. A quantity of zero or less removes
// the item; the returned item is nil in that case. The owning list id is
// returned either way so callers can notify after a removal.
func (s *ItemService) SetQuantity(itemID int64, quantity int) (*model.ListItem, int64, error) {
	item, err := s.getItem(itemID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.requireActive(item.ListID); err != nil {
		return nil, 0, err
	}

	if quantity <= 0 {
		if err := s.items.Delete(itemID); err != nil {
			return nil, 0, fmt.Errorf("remove item: %v: %w", err, apperr.ErrTransport)
		}
		return nil, item.ListID, nil
	}

	updated, err := s.items.UpdateQuantity(itemID, quantity)
	if err != nil {
		return nil, 0, fmt.Errorf("set quantity: %v: %w", err, apperr.ErrTransport)
	}
	return updated, item.ListID, nil
}

// ToggleChecked moves an item between unchecked and checked.
func (s *ItemService) ToggleChecked(itemID int64, checked bool) (*model.ListItem, error) {
	item, err := s.getItem(itemID)
	if err != nil {
		return nil, err
	}
	if err := s.requireActive(item.ListID); err != nil {
		return nil, err
	}

	updated, err := s.items.SetChecked(itemID, checked)
	if err != nil {
		return nil, fmt.Errorf("toggle checked: %v: %w", err, apperr.ErrTransport)
	}
	return updated, nil
}

// Partition splits a list's items into unchecked and checked, recomputed from
// current state on every call. The two slices always cover the list exactly.
func (s *ItemService) Partition(listID int64) (unchecked, checked []model.ListItem, err error) {
	items, err := s.items.ListByList(listID)
	if err != nil {
		return nil, nil, fmt.Errorf("partition items: %v: %w", err, apperr.ErrTransport)
	}
	for _, item := range items {
		if item.Checked {
			checked = append(checked, item)
		} else {
			unchecked = append(unchecked, item)
		}
	}
	return unchecked, checked, nil
}

func (s *ItemService) getItem(itemID int64) (*model.ListItem, error) {
	item, err := s.items.GetByID(itemID)
	if err != nil {
		return nil, fmt.Errorf("get item %d: %v: %w", itemID, err, apperr.ErrTransport)
	}
	if item == nil {
		return nil, fmt.Errorf("item %d: %w", itemID, apperr.ErrNotFound)
	}
	return item, nil
}

func (s *ItemService) requireActive(listID int64) error {
	l, err := s.lists.GetByID(listID)
	if err != nil {
		return fmt.Errorf("get list %d: %v: %w", listID, err, apperr.ErrTransport)
	}
	if l == nil {
		return fmt.Errorf("list %d: %w", listID, apperr.ErrNotFound)
	}
	if l.State != model.ListActive {
		return fmt.Errorf("list %d is completed: %w", listID, apperr.ErrInvalidState)
	}
	return nil
}
