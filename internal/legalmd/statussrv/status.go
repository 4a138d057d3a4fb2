// Package statussrv exposes a read-only view over the run ledger, adapted
// from cmd/chrc/main.go's chi router and writeJSON/writeError helpers.
package statussrv

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/legalmd/internal/legalmd/ledger"
)

// Server serves /healthz and /runs endpoints backed by a ledger.Ledger.
// It never touches the deterministic pipeline; it only reads history.
type Server struct {
	led *ledger.Ledger
}

// New binds a ledger for the status surface.
func New(led *ledger.Ledger) *Server {
	return &Server{led: led}
}

// Router builds the chi.Router for this surface.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealthz)
	r.Get("/runs", s.handleRecent)
	r.Get("/runs/{doc_id}", s.handleOne)
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	runs, err := s.led.Recent(r.Context(), 50)
	if err != nil {
		writeError(w, 500, err)
		return
	}
	writeJSON(w, 200, runs)
}

func (s *Server) handleOne(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "doc_id")
	run, ok, err := s.led.LatestFor(r.Context(), docID)
	if err != nil {
		writeError(w, 500, err)
		return
	}
	if !ok {
		writeError(w, 404, errNotFound(docID))
		return
	}
	writeJSON(w, 200, run)
}

type notFoundError struct{ docID string }

func (e *notFoundError) Error() string { return "no run recorded for " + e.docID }

func errNotFound(docID string) error { return &notFoundError{docID: docID} }

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
