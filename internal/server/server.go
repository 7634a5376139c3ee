package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/listinha-app/listinha/internal/catalog"
	"github.com/listinha-app/listinha/internal/handler"
	"github.com/listinha-app/listinha/internal/list"
	"github.com/listinha-app/listinha/internal/middleware"
	"github.com/listinha-app/listinha/internal/store"
	ws "github.com/listinha-app/listinha/internal/websocket"
)

type Server struct {
	db             *sql.DB
	hub            *ws.Hub
	catalogH       *handler.CatalogHandler
	listH          *handler.ListHandler
	resolver       *catalog.Resolver
	searchDebounce time.Duration
	logger         *slog.Logger
}

func New(db *sql.DB, baseOrigin string, searchDebounce time.Duration, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	categoryStore := store.NewCategoryStore(db)
	productStore := store.NewProductStore(db)
	listStore := store.NewListStore(db)
	itemStore := store.NewItemStore(db)
	pointerStore := store.NewPointerStore(db)

	resolver := catalog.NewResolver(productStore, categoryStore, catalog.DefaultRules, logger.With("component", "resolver"))
	itemSvc := list.NewItemService(listStore, itemStore, productStore, logger.With("component", "items"))
	manager := list.NewManager(listStore, itemStore, pointerStore, logger.With("component", "lifecycle"))

	return &Server{
		db:             db,
		hub:            hub,
		catalogH:       handler.NewCatalogHandler(categoryStore, productStore, resolver, logger.With("component", "catalog")),
		listH:          handler.NewListHandler(manager, itemSvc, resolver, hub, baseOrigin, logger.With("component", "list")),
		resolver:       resolver,
		searchDebounce: searchDebounce,
		logger:         logger,
	}
}

// Hub returns the change-notification hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.Handle(s.hub, s.resolver.FindSimilar, s.searchDebounce, s.logger.With("component", "websocket")))

	mux.HandleFunc("GET /api/categories", s.catalogH.ListCategories)
	mux.HandleFunc("GET /api/categories/{id}/products", s.catalogH.ListProducts)
	mux.HandleFunc("GET /api/products/search", s.catalogH.Search)

	mux.HandleFunc("GET /api/lists/current", s.listH.Current)
	mux.HandleFunc("POST /api/lists", s.listH.Create)
	mux.HandleFunc("GET /api/lists/{id}", s.listH.Get)
	mux.HandleFunc("PUT /api/lists/{id}", s.listH.Update)
	mux.HandleFunc("DELETE /api/lists/{id}", s.listH.Delete)
	mux.HandleFunc("POST /api/lists/{id}/items", s.listH.AddItem)
	mux.HandleFunc("POST /api/lists/{id}/complete", s.listH.Complete)
	mux.HandleFunc("POST /api/lists/{id}/save-as", s.listH.SaveAs)
	mux.HandleFunc("GET /api/lists/{id}/share", s.listH.Share)

	mux.HandleFunc("PUT /api/items/{id}/quantity", s.listH.SetQuantity)
	mux.HandleFunc("PUT /api/items/{id}/checked", s.listH.SetChecked)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
