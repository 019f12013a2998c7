// Package server exposes the similarity orchestrator and weekly selector
// over a small JSON HTTP API. It is deliberately thin: decode, validate,
// call the core, encode.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/lepinkainen/readnext/internal/catalog"
	apperrors "github.com/lepinkainen/readnext/internal/errors"
	"github.com/lepinkainen/readnext/internal/similarity"
	"github.com/lepinkainen/readnext/internal/weekly"
)

// defaultLimit is the result size when the caller doesn't pass one.
const defaultLimit = 10

// requestTimeout bounds one API request end to end, including embedding
// fan-out.
const requestTimeout = 30 * time.Second

// Server wires the recommendation core to HTTP.
type Server struct {
	similar *similarity.Service
	weekly  *weekly.Selector
	addr    string
}

// New creates a Server listening on addr when Start is called.
func New(addr string, similar *similarity.Service, weeklySelector *weekly.Selector) *Server {
	return &Server{
		similar: similar,
		weekly:  weeklySelector,
		addr:    addr,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/similar", s.handleSimilar)
		r.Get("/weekly", s.handleWeekly)
	})

	return r
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("HTTP server listening", "addr", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSimilar serves GET /api/similar?id=&partition=&limit=.
// The item id is a query parameter rather than a path segment because ids
// are URLs themselves.
func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing required parameter: id")
		return
	}

	partition, err := catalog.ParsePartition(r.URL.Query().Get("partition"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	items, err := s.similar.FindSimilar(ctx, id, partition, limit)
	if err != nil {
		respondCoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleWeekly serves GET /api/weekly.
func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	item, err := s.weekly.Pick(ctx)
	if err != nil {
		respondCoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"item": item})
}

// respondCoreError maps core error kinds onto HTTP statuses.
func respondCoreError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case apperrors.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	case apperrors.IsStore(err):
		slog.Error("Store failure serving request", "error", err)
		respondError(w, http.StatusInternalServerError, "storage unavailable")
	default:
		slog.Error("Unexpected failure serving request", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
