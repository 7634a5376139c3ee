package handler

import (
	"log/slog"
	"net/http"

	"github.com/listinha-app/listinha/internal/catalog"
	"github.com/listinha-app/listinha/internal/model"
	"github.com/listinha-app/listinha/internal/store"
)

const popularLimit = 6

// CatalogHandler serves the category reference set and catalog lookups.
type CatalogHandler struct {
	categories *store.CategoryStore
	products   *store.ProductStore
	resolver   *catalog.Resolver
	logger     *slog.Logger
}

func NewCatalogHandler(categories *store.CategoryStore, products *store.ProductStore, resolver *catalog.Resolver, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{categories: categories, products: products, resolver: resolver, logger: logger}
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List()
	if err != nil {
		h.logger.Error("list categories", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list categories"})
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// ListProducts returns a category's products, most-used first.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category id"})
		return
	}

	products, err := h.products.ListByCategory(categoryID, popularLimit)
	if err != nil {
		h.logger.Error("list products", "category_id", categoryID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list products"})
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// Search runs a "did you mean" lookup. Store failures degrade to an empty
// result inside the resolver, so this endpoint never 500s on a read.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	products := h.resolver.FindSimilar(r.URL.Query().Get("q"))
	if products == nil {
		products = []model.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}
