// Package api exposes the dialogue engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/easeaico/project-integrate/internal/dialogue"
	"github.com/easeaico/project-integrate/internal/models"
	"github.com/easeaico/project-integrate/internal/practice"
	"github.com/easeaico/project-integrate/internal/session"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// Handler serves the session endpoints.
type Handler struct {
	engine  *dialogue.Engine
	library *practice.Library
}

// NewHandler creates a Handler.
func NewHandler(engine *dialogue.Engine, library *practice.Library) *Handler {
	return &Handler{engine: engine, library: library}
}

// NewRouter returns a chi router with the standard middleware and all routes.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers session and practice routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/practices", h.ListPractices)
		r.Post("/sessions", h.CreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Post("/turns", h.PostTurn)
			r.Post("/restart", h.Restart)
			r.Post("/another-part", h.AnotherPart)
			r.Post("/phase", h.SelectPhase)
			r.Post("/finish", h.Finish)
		})
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err.Error())
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// fail maps engine errors to responses. Internal details are logged, not returned.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		Error(w, http.StatusNotFound, "session not found")
	case errors.Is(err, dialogue.ErrFinished):
		Error(w, http.StatusConflict, "session is finished")
	case errors.Is(err, dialogue.ErrInvalidAction):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled):
		w.WriteHeader(models.StatusClientClosed)
	case errors.Is(err, context.DeadlineExceeded):
		Error(w, http.StatusGatewayTimeout, "request timed out")
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chiMiddleware.GetReqID(r.Context()),
			"error", err.Error())
		Error(w, http.StatusInternalServerError, "something went wrong, please try again")
	}
}
