package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/listinha-app/listinha/internal/database"
	"github.com/listinha-app/listinha/internal/model"
	"github.com/listinha-app/listinha/internal/server"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	srv := server.New(db, "http://localhost:8080", 10*time.Millisecond, slog.Default())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any, wantStatus int, out any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s status = %d, want %d", method, url, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

type currentView struct {
	List      model.ShoppingList `json:"list"`
	Unchecked []model.ListItem   `json:"unchecked"`
	Checked   []model.ListItem   `json:"checked"`
	Total     int                `json:"total"`
}

type addItemResponse struct {
	Item           model.ListItem `json:"item"`
	ProductCreated bool           `json:"product_created"`
}

func TestAddCustomItemFlow(t *testing.T) {
	ts := setupServer(t)

	var current currentView
	doJSON(t, http.MethodGet, ts.URL+"/api/lists/current", nil, http.StatusOK, &current)
	if current.List.State != model.ListActive {
		t.Fatalf("current list state = %q, want active", current.List.State)
	}
	if current.Total != 0 {
		t.Fatalf("fresh list has %d items", current.Total)
	}

	listURL := fmt.Sprintf("%s/api/lists/%d/items", ts.URL, current.List.ID)

	var added addItemResponse
	doJSON(t, http.MethodPost, listURL, map[string]any{"name": "tomate"}, http.StatusCreated, &added)
	if !added.ProductCreated {
		t.Error("expected product creation on empty catalog")
	}
	if added.Item.ProductID == nil {
		t.Fatal("item not bound to a product")
	}

	// Same name, different casing: resolves to the same product.
	var again addItemResponse
	doJSON(t, http.MethodPost, listURL, map[string]any{"name": "TOMATE"}, http.StatusCreated, &again)
	if again.ProductCreated {
		t.Error("duplicate product created for same normalized name")
	}
	if *again.Item.ProductID != *added.Item.ProductID {
		t.Errorf("second add bound to product %d, want %d", *again.Item.ProductID, *added.Item.ProductID)
	}

	doJSON(t, http.MethodGet, ts.URL+"/api/lists/current", nil, http.StatusOK, &current)
	if current.Total != 2 {
		t.Errorf("item total = %d, want 2", current.Total)
	}
}

func TestQuantityZeroRemovesItemOverHTTP(t *testing.T) {
	ts := setupServer(t)

	var current currentView
	doJSON(t, http.MethodGet, ts.URL+"/api/lists/current", nil, http.StatusOK, &current)

	var added addItemResponse
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/lists/%d/items", ts.URL, current.List.ID),
		map[string]any{"name": "arroz"}, http.StatusCreated, &added)

	doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/items/%d/quantity", ts.URL, added.Item.ID),
		map[string]any{"quantity": 0}, http.StatusNoContent, nil)

	doJSON(t, http.MethodGet, ts.URL+"/api/lists/current", nil, http.StatusOK, &current)
	if current.Total != 0 {
		t.Errorf("item total = %d after removal, want 0", current.Total)
	}
}

func TestCompleteFlow(t *testing.T) {
	ts := setupServer(t)

	var current currentView
	doJSON(t, http.MethodGet, ts.URL+"/api/lists/current", nil, http.StatusOK, &current)
	listID := current.List.ID

	itemsURL := fmt.Sprintf("%s/api/lists/%d/items", ts.URL, listID)
	var a, b, c addItemResponse
	doJSON(t, http.MethodPost, itemsURL, map[string]any{"name": "tomate"}, http.StatusCreated, &a)
	doJSON(t, http.MethodPost, itemsURL, map[string]any{"name": "arroz"}, http.StatusCreated, &b)
	doJSON(t, http.MethodPost, itemsURL, map[string]any{"name": "leite"}, http.StatusCreated, &c)

	doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/items/%d/checked", ts.URL, c.Item.ID),
		map[string]any{"is_checked": true}, http.StatusOK, nil)

	var completed struct {
		Completed model.ShoppingList `json:"completed"`
		Current   model.ShoppingList `json:"current"`
	}
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/lists/%d/complete", ts.URL, listID),
		map[string]any{"store_name": "Mercado ABC"}, http.StatusOK, &completed)

	if completed.Completed.State != model.ListCompleted {
		t.Errorf("state = %q, want completed", completed.Completed.State)
	}
	if completed.Completed.StoreName == nil || *completed.Completed.StoreName != "Mercado ABC" {
		t.Errorf("store name = %v", completed.Completed.StoreName)
	}
	if completed.Current.ID == listID || completed.Current.State != model.ListActive {
		t.Errorf("replacement list = %+v", completed.Current)
	}

	// Items on the completed list are frozen.
	doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/items/%d/checked", ts.URL, a.Item.ID),
		map[string]any{"is_checked": true}, http.StatusUnprocessableEntity, nil)

	// The new empty list is now current.
	doJSON(t, http.MethodGet, ts.URL+"/api/lists/current", nil, http.StatusOK, &current)
	if current.List.ID != completed.Current.ID || current.Total != 0 {
		t.Errorf("current = list %d with %d items, want empty list %d", current.List.ID, current.Total, completed.Current.ID)
	}
}

func TestSearchEndpoint(t *testing.T) {
	ts := setupServer(t)

	var current currentView
	doJSON(t, http.MethodGet, ts.URL+"/api/lists/current", nil, http.StatusOK, &current)
	itemsURL := fmt.Sprintf("%s/api/lists/%d/items", ts.URL, current.List.ID)

	doJSON(t, http.MethodPost, itemsURL, map[string]any{"name": "leite integral"}, http.StatusCreated, nil)
	doJSON(t, http.MethodPost, itemsURL, map[string]any{"name": "leite desnatado"}, http.StatusCreated, nil)

	var results []model.Product
	doJSON(t, http.MethodGet, ts.URL+"/api/products/search?q=LEITE", nil, http.StatusOK, &results)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
}

func TestShareEndpoint(t *testing.T) {
	ts := setupServer(t)

	var current currentView
	doJSON(t, http.MethodGet, ts.URL+"/api/lists/current", nil, http.StatusOK, &current)

	var share map[string]string
	doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/lists/%d/share", ts.URL, current.List.ID), nil, http.StatusOK, &share)

	wantURL := fmt.Sprintf("http://localhost:8080/?list=%d", current.List.ID)
	if share["url"] != wantURL {
		t.Errorf("share url = %q, want %q", share["url"], wantURL)
	}

	// The token grants plain read access to the list.
	doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/lists/%s", ts.URL, share["token"]), nil, http.StatusOK, nil)
}

func TestValidationErrors(t *testing.T) {
	ts := setupServer(t)

	var current currentView
	doJSON(t, http.MethodGet, ts.URL+"/api/lists/current", nil, http.StatusOK, &current)
	itemsURL := fmt.Sprintf("%s/api/lists/%d/items", ts.URL, current.List.ID)

	doJSON(t, http.MethodPost, itemsURL, map[string]any{"name": "   "}, http.StatusBadRequest, nil)
	qty := -1
	doJSON(t, http.MethodPost, itemsURL, map[string]any{"name": "tomate", "quantity": qty}, http.StatusBadRequest, nil)
	doJSON(t, http.MethodGet, ts.URL+"/api/lists/99999", nil, http.StatusNotFound, nil)
}
