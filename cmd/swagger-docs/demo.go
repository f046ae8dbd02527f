package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vitalvas/kasper-swagger/coreapi"
	"github.com/vitalvas/kasper-swagger/mux"
	"github.com/vitalvas/kasper-swagger/muxhandlers"
	"github.com/vitalvas/kasper-swagger/schema"
	"github.com/vitalvas/kasper-swagger/session"
	"github.com/vitalvas/kasper-swagger/settings"
	"github.com/vitalvas/kasper-swagger/swaggerview"
)

// item is the resource served by the demo API.
type item struct {
	ID        string    `json:"id" openapi:"readOnly"`
	Title     string    `json:"title" openapi:"description=Item title."`
	CreatedAt time.Time `json:"created_at" openapi:"readOnly"`
}

// itemStore is an in-memory item store.
type itemStore struct {
	mu    sync.RWMutex
	items map[string]item
}

func newItemStore() *itemStore {
	return &itemStore{items: make(map[string]item)}
}

// demoOptions configures the demo application.
type demoOptions struct {
	Title    string
	URL      string
	Version  string
	DocsPath string
	Settings settings.Config
	Session  *session.Manager
	Users    session.StaticCredentials
	Logger   *slog.Logger
}

// demoApp is the demo items API with its documentation.
type demoApp struct {
	router    *mux.Router
	generator *schema.Generator
	view      *swaggerview.View
}

// newDemoApp registers the items API, the session login/logout routes and
// the documentation view.
func newDemoApp(opts demoOptions) (*demoApp, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	secure, err := muxhandlers.SecurityHeadersMiddleware(muxhandlers.SecurityHeadersConfig{
		ContentSecurityPolicy: muxhandlers.DocsContentSecurityPolicy,
		NoStore:               true,
	})
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	r.Use(
		muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{}),
		muxhandlers.RecoveryMiddleware(muxhandlers.RecoveryConfig{Logger: logger}),
		muxhandlers.AccessLogMiddleware(muxhandlers.AccessLogConfig{Logger: logger}),
		secure,
	)

	gen := &schema.Generator{
		Title:       opts.Title,
		URL:         opts.URL,
		Description: "In-memory items API.",
		Version:     opts.Version,
	}

	if opts.Session != nil {
		r.Use(opts.Session.Middleware(logger), opts.Session.CSRFMiddleware(logger))
		gen.Exclude(
			r.Handle("/accounts/login/", opts.Session.LoginHandler(opts.Users, logger)).Name("login"),
			r.Handle("/accounts/logout/", opts.Session.LogoutHandler()).Name("logout"),
		)
	}

	db := newItemStore()
	id := coreapi.Field{Name: "id", Description: "Item identifier."}

	gen.Annotate(r.HandleFunc("/items/", db.listItems).Methods(http.MethodGet), schema.Endpoint{
		Description: "List items.",
		Fields: []coreapi.Field{{
			Name:        "search",
			Location:    coreapi.LocationQuery,
			Description: "Filter by title prefix.",
			Schema:      &coreapi.Schema{Type: coreapi.TypeString},
		}},
	})
	gen.Annotate(r.HandleFunc("/items/", db.createItem).Methods(http.MethodPost), schema.Endpoint{
		Description: "Create an item.",
		Body:        item{},
	})
	gen.Annotate(r.HandleFunc("/items/{id:uuid}/", db.getItem).Methods(http.MethodGet), schema.Endpoint{
		Description: "Get an item.",
		Fields:      []coreapi.Field{id},
	})
	gen.Annotate(r.HandleFunc("/items/{id:uuid}/", db.updateItem).Methods(http.MethodPut), schema.Endpoint{
		Description: "Replace an item.",
		Fields:      []coreapi.Field{id},
		Body:        item{},
	})
	gen.Annotate(r.HandleFunc("/items/{id:uuid}/", db.deleteItem).Methods(http.MethodDelete), schema.Endpoint{
		Description: "Delete an item.",
		Fields:      []coreapi.Field{id},
	})

	view, err := swaggerview.New(swaggerview.Config{
		Router:    r,
		Generator: gen,
		Settings:  opts.Settings,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	if _, err := swaggerview.Mount(r, opts.DocsPath, view); err != nil {
		return nil, err
	}

	return &demoApp{router: r, generator: gen, view: view}, nil
}

func (s *itemStore) listItems(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	s.mu.RLock()
	out := make([]item, 0, len(s.items))
	for _, it := range s.items {
		if strings.HasPrefix(it.Title, search) {
			out = append(out, it)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	writeJSON(w, http.StatusOK, out)
}

func (s *itemStore) createItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "title is required"})
		return
	}

	it := item{ID: uuid.NewString(), Title: req.Title, CreatedAt: time.Now().UTC()}
	s.mu.Lock()
	s.items[it.ID] = it
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, it)
}

func (s *itemStore) getItem(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	it, ok := s.items[mux.Vars(r)["id"]]
	s.mu.RUnlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "not found"})
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *itemStore) updateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "title is required"})
		return
	}

	id := mux.Vars(r)["id"]
	s.mu.Lock()
	it, ok := s.items[id]
	if ok {
		it.Title = req.Title
		s.items[id] = it
	}
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "not found"})
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *itemStore) deleteItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	_, ok := s.items[id]
	delete(s.items, id)
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
