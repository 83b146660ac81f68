// Package web exposes the pipeline to UI collaborators over a JSON API.
package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/studydeck/studydeck/internal/domain"
	"github.com/studydeck/studydeck/internal/service"
	"github.com/studydeck/studydeck/internal/storage"
	"github.com/studydeck/studydeck/internal/sync"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	svc    *service.Service
	db     *storage.DB
	syncer *sync.Runner
	router *http.ServeMux
	now    func() time.Time
}

// NewServer creates and configures a new server. A nil now defaults to
// time.Now.
func NewServer(svc *service.Service, db *storage.DB, syncer *sync.Runner, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	s := &Server{
		svc:    svc,
		db:     db,
		syncer: syncer,
		router: http.NewServeMux(),
		now:    now,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.HandleFunc("POST /notes", s.handleCreateNote)
	s.router.HandleFunc("GET /notes", s.handleListNotes)
	s.router.HandleFunc("GET /notes/{id}", s.handleGetNote)
	s.router.HandleFunc("PUT /notes/{id}", s.handleUpdateNote)
	s.router.HandleFunc("DELETE /notes/{id}", s.handleDeleteNote)
	s.router.HandleFunc("POST /notes/{id}/keypoints/{kp}/toggle", s.handleToggleKeyPoint)

	s.router.HandleFunc("GET /flashcards", s.handleListFlashcards)

	s.router.HandleFunc("POST /sessions", s.handleStartSession)
	s.router.HandleFunc("POST /sessions/{id}/answers", s.handleAnswer)
	s.router.HandleFunc("POST /sessions/{id}/end", s.handleEndSession)

	s.router.HandleFunc("GET /streak", s.handleStreak)
	s.router.HandleFunc("GET /schedule/proposals", s.handleProposeSchedule)
	s.router.HandleFunc("POST /schedule", s.handleScheduleReviews)

	s.router.HandleFunc("GET /events", s.handleListEvents)
	s.router.HandleFunc("POST /events/{id}/complete", s.handleCompleteEvent)
	s.router.HandleFunc("POST /events/{id}/reschedule", s.handleRescheduleEvent)
	s.router.HandleFunc("DELETE /events/{id}", s.handleDeleteEvent)

	s.router.HandleFunc("GET /sources", s.handleListSources)
	s.router.HandleFunc("POST /sources", s.handleAddSource)
	s.router.HandleFunc("DELETE /sources/{id}", s.handleDeleteSource)
	s.router.HandleFunc("POST /sync", s.handleSync)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	note, err := s.svc.CreateNote(req.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	cards, err := s.svc.GenerateFlashcards(note.ID, note.KeyPoints)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"note":       note,
		"flashcards": cards,
	})
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.svc.ListNotes()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, notes)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	note, err := s.svc.GetNote(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, note)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	note, err := s.svc.UpdateNote(r.PathValue("id"), req.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, note)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteNote(r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleKeyPoint(w http.ResponseWriter, r *http.Request) {
	kp, err := s.svc.ToggleKeyPointHighlight(r.PathValue("id"), r.PathValue("kp"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, kp)
}

func (s *Server) handleListFlashcards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.svc.ListFlashcards(r.URL.Query().Get("note_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.svc.StartSession()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FlashcardID string `json:"flashcardId"`
		Correct     bool   `json:"correct"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	card, err := s.svc.AnswerFlashcard(req.FlashcardID, r.PathValue("id"), req.Correct)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.svc.EndSession(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	streak, err := s.svc.ComputeStreak()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"streak": streak})
}

func (s *Server) handleProposeSchedule(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.ProposeReviewSchedule(s.now()))
}

func (s *Server) handleScheduleReviews(w http.ResponseWriter, r *http.Request) {
	events, err := s.svc.ScheduleReviews(s.now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, events)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "invalid from date", http.StatusBadRequest)
		return
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "invalid to date", http.StatusBadRequest)
		return
	}

	events, err := s.svc.ListEvents(from, to)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleCompleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}
	event, err := s.svc.MarkEventCompleted(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, event)
}

func (s *Server) handleRescheduleEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}
	var req struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	event, err := s.svc.RescheduleEvent(id, date)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, event)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}
	if err := s.svc.DeleteEvent(id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.db.GetAllSources()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sources)
}

func (s *Server) handleAddSource(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		http.Error(w, "path cannot be empty", http.StatusBadRequest)
		return
	}

	id, err := s.db.InsertSource(req.Path, sync.SourceType(req.Path))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"id": id, "path": req.Path})
}

func (s *Server) handleDeleteSource(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid source id", http.StatusBadRequest)
		return
	}
	if err := s.db.DeleteSource(id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if err := s.syncer.Run(); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
