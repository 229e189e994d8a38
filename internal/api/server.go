package api

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/refdex/refdex/internal/pipeline"
)

// Server exposes the registry over HTTP for inspection and triggers
// rebuilds. A read-write mutex keeps tours and reads from overlapping a
// rebuild's purge/put cycle.
type Server struct {
	router chi.Router
	driver *pipeline.Driver
	log    *slog.Logger

	mu sync.RWMutex
}

// NewServer creates and configures the HTTP server around driver.
func NewServer(driver *pipeline.Driver, log *slog.Logger) *Server {
	s := &Server{driver: driver, log: log}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/toplevel", s.handleTopLevel)
		r.Get("/pages", s.handlePages)
		r.Get("/entries/{refid}", s.handleEntry)
		r.Get("/tour/{refid}", s.handleTour)
		r.Post("/rebuild", s.handleRebuild)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
