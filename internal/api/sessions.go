package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/easeaico/project-integrate/internal/types"
)

type createSessionRequest struct {
	Protocol types.Protocol `json:"protocol"`
}

type turnRequest struct {
	Text string `json:"text"`
}

type phaseRequest struct {
	Phase types.Phase `json:"phase"`
}

// CreateSession starts a protocol run and returns the session with its opening message.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	doc, err := h.engine.Start(r.Context(), req.Protocol)
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, doc)
}

// GetSession returns the stored session document.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	doc, err := h.engine.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, doc)
}

// PostTurn processes one user message.
func (h *Handler) PostTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		Error(w, http.StatusBadRequest, "text is required")
		return
	}
	turn, err := h.engine.Turn(r.Context(), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, turn)
}

// Restart returns the session to the first phase of its protocol.
func (h *Handler) Restart(w http.ResponseWriter, r *http.Request) {
	doc, err := h.engine.Restart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, doc)
}

// AnotherPart begins the Six F's again with a new part.
func (h *Handler) AnotherPart(w http.ResponseWriter, r *http.Request) {
	doc, err := h.engine.AnotherPart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, doc)
}

// SelectPhase jumps to a phase chosen from the menu.
func (h *Handler) SelectPhase(w http.ResponseWriter, r *http.Request) {
	var req phaseRequest
	if !decode(w, r, &req) {
		return
	}
	doc, err := h.engine.SelectPhase(r.Context(), chi.URLParam(r, "id"), req.Phase)
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, doc)
}

// Finish closes the session.
func (h *Handler) Finish(w http.ResponseWriter, r *http.Request) {
	doc, err := h.engine.Finish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, doc)
}

// ListPractices returns the practice library.
func (h *Handler) ListPractices(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"practices": h.library.All()})
}
