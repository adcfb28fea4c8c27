// Package server exposes the dashboard over a small local JSON API for the browser
// runtime.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Rshep3087/lunchtogo/accounts"
	"github.com/Rshep3087/lunchtogo/api"
	"github.com/Rshep3087/lunchtogo/dashboard"
	"github.com/Rshep3087/lunchtogo/storage"
)

// Preferences is the part of the session the API reads and patches.
type Preferences interface {
	Preferences() storage.Preferences
	Patch(ctx context.Context, u storage.Update) (storage.Preferences, error)
}

// Loader produces dashboard snapshots.
type Loader interface {
	Load(ctx context.Context, prefs storage.Preferences) (dashboard.Snapshot, error)
}

// Server handles the /api routes.
type Server struct {
	prefs  Preferences
	loader Loader
	logger *log.Logger
}

// New returns a Server. A nil logger uses the default logger.
func New(prefs Preferences, loader Loader, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	return &Server{prefs: prefs, loader: loader, logger: logger}
}

// Handler returns the router with middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	s.RegisterRoutes(r)

	return r
}

// RegisterRoutes sets up the API routes on the given router
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.Health)
		r.Get("/accounts", s.Accounts)
		r.Get("/groups", s.Groups)
		r.Get("/totals", s.Totals)
		r.Get("/preferences", s.GetPreferences)
		r.Patch("/preferences", s.PatchPreferences)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Health handles GET /api/health
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type accountsResponse struct {
	Source          dashboard.Source   `json:"source"`
	PrimaryCurrency string             `json:"primary_currency"`
	Accounts        []accounts.Account `json:"accounts"`
}

// Accounts handles GET /api/accounts
func (s *Server) Accounts(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, accountsResponse{
		Source:          snap.Source,
		PrimaryCurrency: snap.PrimaryCurrency,
		Accounts:        snap.Accounts,
	})
}

type groupsResponse struct {
	Source          dashboard.Source `json:"source"`
	PrimaryCurrency string           `json:"primary_currency"`
	Groups          []accounts.Group `json:"groups"`
}

// Groups handles GET /api/groups
func (s *Server) Groups(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, groupsResponse{
		Source:          snap.Source,
		PrimaryCurrency: snap.PrimaryCurrency,
		Groups:          snap.Groups,
	})
}

type totalsResponse struct {
	Source          dashboard.Source `json:"source"`
	PrimaryCurrency string           `json:"primary_currency"`
	accounts.Summary
}

// Totals handles GET /api/totals
func (s *Server) Totals(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, totalsResponse{
		Source:          snap.Source,
		PrimaryCurrency: snap.PrimaryCurrency,
		Summary:         snap.Totals,
	})
}

// GetPreferences handles GET /api/preferences
func (s *Server) GetPreferences(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.prefs.Preferences())
}

// PatchPreferences handles PATCH /api/preferences
func (s *Server) PatchPreferences(w http.ResponseWriter, r *http.Request) {
	var u storage.Update
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}

	next, err := s.prefs.Patch(r.Context(), u)
	if err != nil {
		if errors.Is(err, storage.ErrInvalid) {
			writeError(w, http.StatusBadRequest, "invalid_request", "Invalid preferences", err.Error())
			return
		}
		s.logger.Error("failed to save preferences", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "Failed to save preferences", "")
		return
	}

	writeJSON(w, http.StatusOK, next)
}

// snapshot loads the dashboard honouring an optional ?sort= override. It writes the
// error response itself and reports false on failure.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (dashboard.Snapshot, bool) {
	prefs := s.prefs.Preferences()

	if raw := r.URL.Query().Get("sort"); raw != "" {
		sort, err := accounts.ParseSortMode(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "Invalid query", err.Error())
			return dashboard.Snapshot{}, false
		}
		prefs.AccountSort = sort
	}

	snap, err := s.loader.Load(r.Context(), prefs)
	if err != nil {
		s.writeLoadError(w, err)
		return dashboard.Snapshot{}, false
	}

	return snap, true
}

func (s *Server) writeLoadError(w http.ResponseWriter, err error) {
	desc := api.Describe(err)

	kind, ok := api.KindOf(err)
	if !ok {
		s.logger.Error("failed to load accounts", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", desc.Title, desc.Description)
		return
	}

	writeError(w, statusFor(kind), string(kind), desc.Title, desc.Description)
}

func statusFor(kind api.Kind) int {
	switch kind {
	case api.KindAuthentication:
		return http.StatusUnauthorized
	case api.KindNetwork, api.KindHTTP, api.KindParse:
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

type errorBody struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, kind, title, description string) {
	writeJSON(w, status, map[string]errorBody{
		"error": {Kind: kind, Title: title, Description: description},
	})
}
