package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/conorfennell/zeal/internal/deck"
	"github.com/conorfennell/zeal/internal/domain"
)

// Server exposes a Deck over HTTP as JSON.
type Server struct {
	deck   *deck.Deck
	router *http.ServeMux
	logger *slog.Logger
}

// NewServer creates and configures a new server. A nil logger uses slog.Default().
func NewServer(d *deck.Deck, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		deck:   d,
		router: http.NewServeMux(),
		logger: logger,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /stats", s.handleStats)

	s.router.HandleFunc("GET /items", s.handleListItems)
	s.router.HandleFunc("GET /items/{id}", s.handleGetItem)
	s.router.HandleFunc("PUT /items/{id}", s.handleSaveItem)
	s.router.HandleFunc("DELETE /items/{id}", s.handleRemoveItem)

	s.router.HandleFunc("GET /review/due", s.handleDue)
	s.router.HandleFunc("GET /review/next", s.handleNextReview)
	s.router.HandleFunc("GET /review/{id}/preview", s.handlePreview)
	s.router.HandleFunc("POST /review/{id}", s.handlePostReview)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deck.Stats())
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(s.deck.List()))
}

// ItemStatus reports whether an item is scheduled.
type ItemStatus struct {
	ItemID string `json:"itemId"`
	Saved  bool   `json:"saved"`
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	writeJSON(w, http.StatusOK, ItemStatus{ItemID: id, Saved: s.deck.IsSaved(id)})
}

func (s *Server) handleSaveItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.deck.Save(id); err != nil {
		s.logger.Error("Error saving item", "item_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.deck.Remove(id); err != nil {
		s.logger.Error("Error removing item", "item_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to remove item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(s.deck.Due()))
}

// handleNextReview returns the first due record, or 204 when nothing is due.
func (s *Server) handleNextReview(w http.ResponseWriter, r *http.Request) {
	due := s.deck.Due()
	if len(due) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, due[0])
}

// PreviewOutcome is what one reviewer button would do to an item.
type PreviewOutcome struct {
	Quality domain.Quality      `json:"quality"`
	Label   string              `json:"label"`
	Record  domain.ReviewRecord `json:"record"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	outcomes, ok := s.deck.Preview(id)
	if !ok {
		writeError(w, http.StatusNotFound, "item not saved")
		return
	}
	resp := make([]PreviewOutcome, 0, len(domain.Buttons))
	for _, q := range domain.Buttons {
		resp = append(resp, PreviewOutcome{Quality: q, Label: q.String(), Record: outcomes[q]})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ReviewRequest is the body of POST /review/{id}.
type ReviewRequest struct {
	Quality *int `json:"quality"`
}

func (s *Server) handlePostReview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quality == nil {
		writeError(w, http.StatusBadRequest, "quality must be an integer")
		return
	}

	rec, ok, err := s.deck.Review(id, domain.Quality(*req.Quality))
	if err != nil {
		s.logger.Error("Error reviewing item", "item_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record review")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "item not saved")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func nonNil(recs []domain.ReviewRecord) []domain.ReviewRecord {
	if recs == nil {
		return []domain.ReviewRecord{}
	}
	return recs
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
