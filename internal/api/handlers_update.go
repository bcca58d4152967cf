// Package api contains the HTTP resource handlers. Handlers are stateless
// per request: they parse input, call a service, and route the result
// through respond and the payload registry.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pulseboard/pulseboard/internal/api/payload"
	"github.com/pulseboard/pulseboard/internal/api/respond"
	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/pagination"
	"github.com/pulseboard/pulseboard/internal/services"
)

type UpdateHandler struct {
	svc *services.UpdateService
	pl  *payload.Registry
}

func NewUpdateHandler(svc *services.UpdateService, pl *payload.Registry) *UpdateHandler {
	return &UpdateHandler{svc: svc, pl: pl}
}

// List GET /api/updates?page=&page_size=&q=&since=&mood=
func (h *UpdateHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := pagination.ParseParams(q)
	req := model.ListUpdatesRequest{
		Query:    q.Get("q"),
		Mood:     q.Get("mood"),
		Since:    pagination.ParseSince(q.Get("since")),
		Page:     p.Page,
		PageSize: p.PageSize,
	}
	items, total, err := h.svc.List(r.Context(), req)
	if err != nil {
		respond.Error(w, err)
		return
	}
	out, err := payload.Many(h.pl, payload.KindUpdate, items)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.Page(w, pagination.Page{Page: p.Page, PageSize: p.PageSize, TotalCount: total}, out)
}

// Create POST /api/updates
func (h *UpdateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Body string `json:"body"`
		Mood string `json:"mood"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, &model.ValidationError{Messages: []string{"request body must be valid JSON"}})
		return
	}
	out, err := h.svc.Create(r.Context(), req.Body, req.Mood)
	if err != nil {
		respond.Error(w, err)
		return
	}
	h.writeOne(w, http.StatusCreated, out)
}

// Get GET /api/updates/{updateId}
func (h *UpdateHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Get(r.Context(), mux.Vars(r)["updateId"])
	if err != nil {
		respond.Error(w, err)
		return
	}
	h.writeOne(w, http.StatusOK, out)
}

// Patch PATCH /api/updates/{updateId}
func (h *UpdateHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var patch model.UpdatePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Error(w, &model.ValidationError{Messages: []string{"request body must be valid JSON"}})
		return
	}
	out, err := h.svc.Patch(r.Context(), mux.Vars(r)["updateId"], patch)
	if err != nil {
		respond.Error(w, err)
		return
	}
	h.writeOne(w, http.StatusOK, out)
}

// Delete DELETE /api/updates/{updateId}
func (h *UpdateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["updateId"]); err != nil {
		respond.Error(w, err)
		return
	}
	respond.NoContent(w)
}

// Like POST /api/updates/{updateId}/likes
func (h *UpdateHandler) Like(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Like(r.Context(), mux.Vars(r)["updateId"])
	if err != nil {
		respond.Error(w, err)
		return
	}
	h.writeOne(w, http.StatusOK, out)
}

func (h *UpdateHandler) writeOne(w http.ResponseWriter, status int, m *model.StatusUpdate) {
	out, err := h.pl.Serialize(payload.KindUpdate, m)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.Data(w, status, out)
}
