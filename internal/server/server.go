// Package server exposes stored splicing event runs over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/inodb/vibe-splice/internal/duckdb"
	"github.com/inodb/vibe-splice/internal/output"
	"github.com/inodb/vibe-splice/internal/splicing"
)

// latestRun is the run identifier alias for the newest run.
const latestRun = "latest"

// Store is the read side of the event store.
type Store interface {
	Runs() ([]duckdb.Run, error)
	Run(id string) (duckdb.Run, error)
	LatestRun() (duckdb.Run, error)
	EventsByGene(runID, geneID string) ([]output.Record, error)
	EventsByType(runID, eventType string) ([]output.Record, error)
	CountByType(runID string) (map[string]int, error)
}

// Server serves detection runs as JSON.
type Server struct {
	store  Store
	logger *zap.Logger
}

// New creates a server reading from store.
func New(store Store) *Server {
	return &Server{store: store, logger: zap.NewNop()}
}

// SetLogger sets the logger for request and error messages.
func (s *Server) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.health)
	r.Get("/runs", s.listRuns)
	r.Route("/runs/{runID}", func(r chi.Router) {
		r.Get("/", s.getRun)
		r.Get("/summary", s.summary)
		r.Get("/events", s.eventsByType)
		r.Get("/genes/{geneID}/events", s.eventsByGene)
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listRuns(w http.ResponseWriter, _ *http.Request) {
	runs, err := s.store.Runs()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if runs == nil {
		runs = []duckdb.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.resolveRun(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// summaryResponse is the body of /runs/{runID}/summary.
type summaryResponse struct {
	Run    duckdb.Run     `json:"run"`
	Total  int            `json:"total"`
	Counts map[string]int `json:"counts"`
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	run, err := s.resolveRun(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	counts, err := s.store.CountByType(run.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := summaryResponse{Run: run, Counts: counts}
	for _, n := range counts {
		resp.Total += n
	}
	writeJSON(w, http.StatusOK, resp)
}

// eventsResponse is the body of the event listing endpoints.
type eventsResponse struct {
	RunID  string          `json:"run_id"`
	Count  int             `json:"count"`
	Events []output.Record `json:"events"`
}

func (s *Server) eventsByType(w http.ResponseWriter, r *http.Request) {
	param := r.URL.Query().Get("type")
	if param == "" {
		s.writeError(w, newInvalidInputError("type", errors.New("missing event type")))
		return
	}
	et, err := splicing.ParseEventType(param)
	if err != nil {
		s.writeError(w, newInvalidInputError("type", err))
		return
	}

	run, err := s.resolveRun(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	events, err := s.store.EventsByType(run.ID, et.String())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeEvents(w, run.ID, events)
}

func (s *Server) eventsByGene(w http.ResponseWriter, r *http.Request) {
	run, err := s.resolveRun(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	events, err := s.store.EventsByGene(run.ID, chi.URLParam(r, "geneID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeEvents(w, run.ID, events)
}

func writeEvents(w http.ResponseWriter, runID string, events []output.Record) {
	if events == nil {
		events = []output.Record{}
	}
	writeJSON(w, http.StatusOK, eventsResponse{RunID: runID, Count: len(events), Events: events})
}

// resolveRun looks up the run named in the URL, where "latest" stands for
// the newest run.
func (s *Server) resolveRun(r *http.Request) (duckdb.Run, error) {
	id := chi.URLParam(r, "runID")

	var run duckdb.Run
	var err error
	if id == latestRun {
		run, err = s.store.LatestRun()
	} else {
		run, err = s.store.Run(id)
	}
	if errors.Is(err, duckdb.ErrRunNotFound) {
		return duckdb.Run{}, newNotFoundError("run", err)
	}
	return run, err
}

// apiError carries an HTTP status and a short error name.
type apiError struct {
	name  string
	code  int
	cause error
}

func (err *apiError) Error() string {
	return fmt.Sprintf("%s (%d): %v", err.name, err.code, err.cause)
}

func newInvalidInputError(context string, err error) error {
	return &apiError{"InvalidInput", http.StatusBadRequest, fmt.Errorf("%s: %w", context, err)}
}

func newNotFoundError(context string, err error) error {
	return &apiError{"NotFound", http.StatusNotFound, fmt.Errorf("%s: %w", context, err)}
}

// writeError writes a JSON error object. Errors that are not API errors are
// logged and reported as internal errors.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		writeJSON(w, apiErr.code, map[string]string{
			"error":   apiErr.name,
			"message": apiErr.cause.Error(),
		})
		return
	}

	s.logger.Error("request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "Internal",
		"message": http.StatusText(http.StatusInternalServerError),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
