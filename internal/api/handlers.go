package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/refdex/refdex/internal/index"
)

// handleTopLevel lists every top-level record in registration order.
func (s *Server) handleTopLevel(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	sections := s.driver.Registry().TopLevel()
	s.mu.RUnlock()

	writeJSON(w, map[string]any{"toplevel": sections})
}

// handlePages lists the distinct output pages.
func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	pages := s.driver.Registry().Pages()
	s.mu.RUnlock()

	writeJSON(w, map[string]any{"pages": pages})
}

// handleEntry returns one registry entry.
func (s *Server) handleEntry(w http.ResponseWriter, r *http.Request) {
	refid := chi.URLParam(r, "refid")

	s.mu.RLock()
	entry, err := s.driver.Registry().Get(refid)
	s.mu.RUnlock()

	if errors.Is(err, index.ErrNotFound) {
		jsonError(w, "entry not found: "+refid, http.StatusNotFound)
		return
	}
	writeJSON(w, entry)
}

// handleTour returns the pre-order flattening of an entity and its
// descendants.
func (s *Server) handleTour(w http.ResponseWriter, r *http.Request) {
	refid := chi.URLParam(r, "refid")

	s.mu.RLock()
	var items []index.Entry
	err := s.driver.Registry().Tour(refid, func(e index.Entry) {
		items = append(items, e)
	})
	s.mu.RUnlock()

	if errors.Is(err, index.ErrNotFound) {
		jsonError(w, "entry not found: "+refid, http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{"items": items})
}

// handleRebuild reruns the whole build under the write lock so no read
// overlaps the purge/rebuild cycle.
func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats, err := s.driver.Build(r.Context())
	s.mu.Unlock()

	if err != nil {
		s.log.Error("rebuild failed", "error", err)
		jsonError(w, "rebuild failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
