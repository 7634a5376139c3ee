package list

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/listinha-app/listinha/internal/apperr"
	"github.com/listinha-app/listinha/internal/model"
	"github.com/listinha-app/listinha/internal/store"
)

// DefaultListName is used for lists created without an explicit name.
const DefaultListName = "Lista de Compras"

// Pointer is the persisted current-list reference. It is injected so tests
// can swap in an in-memory implementation.
type Pointer interface {
	Get() (int64, bool, error)
	Set(listID int64) error
	Clear() error
}

// MemoryPointer is a Pointer held in process memory, for tests and ephemeral
// sessions.
type MemoryPointer struct {
	id  int64
	set bool
}

func (p *MemoryPointer) Get() (int64, bool, error) { return p.id, p.set, nil }
func (p *MemoryPointer) Set(id int64) error        { p.id, p.set = id, true; return nil }
func (p *MemoryPointer) Clear() error              { p.set = false; return nil }

// Manager governs list-level state: creation, pointer resolution, completion,
// duplication, and deletion. A session always ends up with exactly one
// current active list.
type Manager struct {
	lists   *store.ListStore
	items   *store.ItemStore
	pointer Pointer
	now     func() time.Time
	logger  *slog.Logger
}

func NewManager(lists *store.ListStore, items *store.ItemStore, pointer Pointer, logger *slog.Logger) *Manager {
	return &Manager{lists: lists, items: items, pointer: pointer, now: time.Now, logger: logger}
}

// CreateList creates a fresh active list and makes it the current pointer.
// An empty name falls back to DefaultListName.
func (m *Manager) CreateList(name string) (*model.ShoppingList, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultListName
	}

	l, err := m.lists.Create(name, nil)
	if err != nil {
		return nil, fmt.Errorf("create list: %v: %w", err, apperr.ErrTransport)
	}
	if err := m.pointer.Set(l.ID); err != nil {
		return nil, fmt.Errorf("set pointer: %v: %w", err, apperr.ErrTransport)
	}
	return l, nil
}

// Get loads a list by id.
func (m *Manager) Get(listID int64) (*model.ShoppingList, error) {
	l, err := m.lists.GetByID(listID)
	if err != nil {
		return nil, fmt.Errorf("get list %d: %v: %w", listID, err, apperr.ErrTransport)
	}
	if l == nil {
		return nil, fmt.Errorf("list %d: %w", listID, apperr.ErrNotFound)
	}
	return l, nil
}

// ResolvePointer loads the current list. A missing, dangling, or completed
// pointer is discarded and replaced with a fresh list; a completed list is
// never resumed as current. Failure here is the one fatal condition, since no
// other operation is defined without a current list.
func (m *Manager) ResolvePointer() (*model.ShoppingList, error) {
	id, ok, err := m.pointer.Get()
	if err != nil {
		// Treat an unreadable pointer like an absent one.
		m.logger.Warn("pointer read failed", "error", err)
		ok = false
	}

	if ok {
		l, err := m.lists.GetByID(id)
		if err != nil {
			return nil, fmt.Errorf("load pointed list %d: %v: %w", id, err, apperr.ErrTransport)
		}
		if l != nil && l.State == model.ListActive {
			return l, nil
		}
		if err := m.pointer.Clear(); err != nil {
			m.logger.Warn("pointer clear failed", "error", err)
		}
	}

	return m.CreateList("")
}

// Complete finalizes an active list: state becomes completed, the completion
// date is stamped, and the optional store name recorded. A fresh active list
// is created and becomes the new pointer so the session is never without one.
func (m *Manager) Complete(listID int64, storeName string) (completed, next *model.ShoppingList, err error) {
	l, err := m.lists.GetByID(listID)
	if err != nil {
		return nil, nil, fmt.Errorf("get list %d: %v: %w", listID, err, apperr.ErrTransport)
	}
	if l == nil {
		return nil, nil, fmt.Errorf("list %d: %w", listID, apperr.ErrNotFound)
	}
	if l.State != model.ListActive {
		return nil, nil, fmt.Errorf("list %d already completed: %w", listID, apperr.ErrInvalidState)
	}

	var sn *string
	if s := strings.TrimSpace(storeName); s != "" {
		sn = &s
	}

	changed, err := m.lists.Complete(listID, sn, m.now().UTC())
	if err != nil {
		return nil, nil, fmt.Errorf("complete list %d: %v: %w", listID, err, apperr.ErrTransport)
	}
	if !changed {
		// Raced with another completion of the same list.
		return nil, nil, fmt.Errorf("list %d already completed: %w", listID, apperr.ErrInvalidState)
	}

	completed, err = m.lists.GetByID(listID)
	if err != nil {
		return nil, nil, fmt.Errorf("reload list %d: %v: %w", listID, err, apperr.ErrTransport)
	}

	next, err = m.CreateList("")
	if err != nil {
		return nil, nil, err
	}
	return completed, next, nil
}

// SaveAsNew clones a list (and all items) into a new active list owned by
// ownerID. A blank name keeps the source's. The source list is untouched; the
// clone becomes the pointer.
func (m *Manager) SaveAsNew(listID int64, name, ownerID string) (*model.ShoppingList, error) {
	src, err := m.lists.GetByID(listID)
	if err != nil {
		return nil, fmt.Errorf("get list %d: %v: %w", listID, err, apperr.ErrTransport)
	}
	if src == nil {
		return nil, fmt.Errorf("list %d: %w", listID, apperr.ErrNotFound)
	}

	items, err := m.items.ListByList(listID)
	if err != nil {
		return nil, fmt.Errorf("load items of %d: %v: %w", listID, err, apperr.ErrTransport)
	}

	if strings.TrimSpace(name) == "" {
		name = src.Name
	}
	clone, err := m.lists.Create(name, &ownerID)
	if err != nil {
		return nil, fmt.Errorf("create clone: %v: %w", err, apperr.ErrTransport)
	}
	for _, item := range items {
		if _, err := m.items.Create(clone.ID, item.ProductID, item.CustomName, item.Quantity, item.Checked); err != nil {
			return nil, fmt.Errorf("clone item %d: %v: %w", item.ID, err, apperr.ErrTransport)
		}
	}

	if err := m.pointer.Set(clone.ID); err != nil {
		return nil, fmt.Errorf("set pointer: %v: %w", err, apperr.ErrTransport)
	}
	return clone, nil
}

// SaveExisting rewrites name and ownership on the same list id; items are
// untouched.
func (m *Manager) SaveExisting(listID int64, name, ownerID string) (*model.ShoppingList, error) {
	l, err := m.lists.GetByID(listID)
	if err != nil {
		return nil, fmt.Errorf("get list %d: %v: %w", listID, err, apperr.ErrTransport)
	}
	if l == nil {
		return nil, fmt.Errorf("list %d: %w", listID, apperr.ErrNotFound)
	}
	if strings.TrimSpace(name) == "" {
		name = l.Name
	}

	updated, err := m.lists.UpdateMeta(listID, name, &ownerID)
	if err != nil {
		return nil, fmt.Errorf("save list %d: %v: %w", listID, err, apperr.ErrTransport)
	}
	return updated, nil
}

func (m *Manager) Rename(listID int64, newName string) (*model.ShoppingList, error) {
	if strings.TrimSpace(newName) == "" {
		return nil, fmt.Errorf("list name is empty: %w", apperr.ErrValidation)
	}
	l, err := m.lists.GetByID(listID)
	if err != nil {
		return nil, fmt.Errorf("get list %d: %v: %w", listID, err, apperr.ErrTransport)
	}
	if l == nil {
		return nil, fmt.Errorf("list %d: %w", listID, apperr.ErrNotFound)
	}

	renamed, err := m.lists.Rename(listID, strings.TrimSpace(newName))
	if err != nil {
		return nil, fmt.Errorf("rename list %d: %v: %w", listID, err, apperr.ErrTransport)
	}
	return renamed, nil
}

// Delete removes a list irreversibly. If it was the current pointer, the
// pointer is cleared and a replacement list is created and returned;
// otherwise the returned list is nil.
func (m *Manager) Delete(listID int64) (*model.ShoppingList, error) {
	l, err := m.lists.GetByID(listID)
	if err != nil {
		return nil, fmt.Errorf("get list %d: %v: %w", listID, err, apperr.ErrTransport)
	}
	if l == nil {
		return nil, fmt.Errorf("list %d: %w", listID, apperr.ErrNotFound)
	}

	wasCurrent := false
	if id, ok, err := m.pointer.Get(); err == nil && ok && id == listID {
		wasCurrent = true
	}

	if err := m.lists.Delete(listID); err != nil {
		return nil, fmt.Errorf("delete list %d: %v: %w", listID, err, apperr.ErrTransport)
	}

	if !wasCurrent {
		return nil, nil
	}
	if err := m.pointer.Clear(); err != nil {
		m.logger.Warn("pointer clear failed", "error", err)
	}
	return m.ResolvePointer()
}

// ShareReference derives the share token for a list. The token is the list id
// itself: knowing it grants exactly the read access knowing the id would.
func (m *Manager) ShareReference(listID int64) string {
	return strconv.FormatInt(listID, 10)
}

// ShareURL renders the external locator for a list.
func (m *Manager) ShareURL(baseOrigin string, listID int64) string {
	return fmt.Sprintf("%s/?list=%s", strings.TrimRight(baseOrigin, "/"), m.ShareReference(listID))
}
