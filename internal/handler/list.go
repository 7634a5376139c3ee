package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/listinha-app/listinha/internal/catalog"
	"github.com/listinha-app/listinha/internal/list"
	"github.com/listinha-app/listinha/internal/model"
	ws "github.com/listinha-app/listinha/internal/websocket"
)

// ListHandler exposes the list lifecycle and item operations. After every
// successful mutation it broadcasts a change message so clients re-read.
type ListHandler struct {
	manager    *list.Manager
	items      *list.ItemService
	resolver   *catalog.Resolver
	hub        *ws.Hub
	baseOrigin string
	logger     *slog.Logger
}

func NewListHandler(manager *list.Manager, items *list.ItemService, resolver *catalog.Resolver, hub *ws.Hub, baseOrigin string, logger *slog.Logger) *ListHandler {
	return &ListHandler{manager: manager, items: items, resolver: resolver, hub: hub, baseOrigin: baseOrigin, logger: logger}
}

// listView is a list plus its items partitioned by check state.
type listView struct {
	List      *model.ShoppingList `json:"list"`
	Unchecked []model.ListItem    `json:"unchecked"`
	Checked   []model.ListItem    `json:"checked"`
	Total     int                 `json:"total"`
}

func (h *ListHandler) view(l *model.ShoppingList) (*listView, error) {
	unchecked, checked, err := h.items.Partition(l.ID)
	if err != nil {
		return nil, err
	}
	if unchecked == nil {
		unchecked = []model.ListItem{}
	}
	if checked == nil {
		checked = []model.ListItem{}
	}
	return &listView{List: l, Unchecked: unchecked, Checked: checked, Total: len(unchecked) + len(checked)}, nil
}

// Current resolves the session's current list, creating one if the pointer is
// missing or dangling.
func (h *ListHandler) Current(w http.ResponseWriter, r *http.Request) {
	l, err := h.manager.ResolvePointer()
	if err != nil {
		h.logger.Error("resolve pointer", "error", err)
		writeError(w, err)
		return
	}

	view, err := h.view(l)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Get loads any list by id, which is all a share token grants.
func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid list id"})
		return
	}

	l, err := h.manager.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}

	view, err := h.view(l)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	l, err := h.manager.CreateList(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("list", "created", l.ID, l.ID))
	writeJSON(w, http.StatusCreated, l)
}

type addItemRequest struct {
	ProductID  *int64 `json:"product_id"`
	Name       string `json:"name"`
	CategoryID *int64 `json:"category_id"`
	Quantity   *int   `json:"quantity"`
}

// AddItem resolves the request against the catalog and attaches the result.
// Resolution and attach are two independently failable steps: a product
// created by resolution stays in the catalog even if the attach fails.
func (h *ListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid list id"})
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	res, err := h.resolver.Resolve(catalog.Input{
		ProductID:        req.ProductID,
		CustomText:       req.Name,
		ManualCategoryID: req.CategoryID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := h.items.Attach(listID, &res.ProductID, nil, quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("item", "created", item.ID, listID))
	writeJSON(w, http.StatusCreated, map[string]any{"item": item, "product_created": res.Created})
}

func (h *ListHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	item, listID, err := h.items.SetQuantity(id, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	if item == nil {
		h.hub.Broadcast(ws.NewMessage("item", "deleted", id, listID))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.hub.Broadcast(ws.NewMessage("item", "updated", item.ID, item.ListID))
	writeJSON(w, http.StatusOK, item)
}

func (h *ListHandler) SetChecked(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}

	var req struct {
		Checked bool `json:"is_checked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	item, err := h.items.ToggleChecked(id, req.Checked)
	if err != nil {
		writeError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("item", "updated", item.ID, item.ListID))
	writeJSON(w, http.StatusOK, item)
}

func (h *ListHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid list id"})
		return
	}

	var req struct {
		StoreName string `json:"store_name"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	completed, next, err := h.manager.Complete(id, req.StoreName)
	if err != nil {
		writeError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("list", "completed", completed.ID, completed.ID))
	writeJSON(w, http.StatusOK, map[string]any{"completed": completed, "current": next})
}

func (h *ListHandler) SaveAs(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid list id"})
		return
	}

	var req struct {
		Name    string `json:"name"`
		OwnerID string `json:"owner_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	clone, err := h.manager.SaveAsNew(id, req.Name, req.OwnerID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("list", "created", clone.ID, clone.ID))
	writeJSON(w, http.StatusCreated, clone)
}

// Update renames a list and, when owner_id is present, saves ownership in
// place (items untouched).
func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid list id"})
		return
	}

	var req struct {
		Name    string  `json:"name"`
		OwnerID *string `json:"owner_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	var l *model.ShoppingList
	if req.OwnerID != nil {
		l, err = h.manager.SaveExisting(id, req.Name, *req.OwnerID)
	} else {
		l, err = h.manager.Rename(id, req.Name)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("list", "updated", l.ID, l.ID))
	writeJSON(w, http.StatusOK, l)
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid list id"})
		return
	}

	replacement, err := h.manager.Delete(id)
	if err != nil {
		writeError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("list", "deleted", id, id))
	if replacement != nil {
		writeJSON(w, http.StatusOK, map[string]any{"current": replacement})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListHandler) Share(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid list id"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token": h.manager.ShareReference(id),
		"url":   h.manager.ShareURL(strings.TrimSpace(h.baseOrigin), id),
	})
}
