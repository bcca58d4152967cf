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

type CommentHandler struct {
	svc *services.CommentService
	pl  *payload.Registry
}

func NewCommentHandler(svc *services.CommentService, pl *payload.Registry) *CommentHandler {
	return &CommentHandler{svc: svc, pl: pl}
}

// List GET /api/updates/{updateId}/comments?page=&page_size=&q=&since=
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := pagination.ParseParams(q)
	req := model.ListCommentsRequest{
		UpdateID: mux.Vars(r)["updateId"],
		Query:    q.Get("q"),
		Since:    pagination.ParseSince(q.Get("since")),
		Page:     p.Page,
		PageSize: p.PageSize,
	}
	items, total, err := h.svc.List(r.Context(), req)
	if err != nil {
		respond.Error(w, err)
		return
	}
	out, err := payload.Many(h.pl, payload.KindComment, items)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.Page(w, pagination.Page{Page: p.Page, PageSize: p.PageSize, TotalCount: total}, out)
}

// Create POST /api/updates/{updateId}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Author string `json:"author"`
		Body   string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, &model.ValidationError{Messages: []string{"request body must be valid JSON"}})
		return
	}
	out, err := h.svc.Create(r.Context(), mux.Vars(r)["updateId"], req.Author, req.Body)
	if err != nil {
		respond.Error(w, err)
		return
	}
	h.writeOne(w, http.StatusCreated, out)
}

// Get GET /api/updates/{updateId}/comments/{commentId}
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	v := mux.Vars(r)
	out, err := h.svc.Get(r.Context(), v["updateId"], v["commentId"])
	if err != nil {
		respond.Error(w, err)
		return
	}
	h.writeOne(w, http.StatusOK, out)
}

// Delete DELETE /api/updates/{updateId}/comments/{commentId}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	v := mux.Vars(r)
	if err := h.svc.Delete(r.Context(), v["updateId"], v["commentId"]); err != nil {
		respond.Error(w, err)
		return
	}
	respond.NoContent(w)
}

func (h *CommentHandler) writeOne(w http.ResponseWriter, status int, m *model.Comment) {
	out, err := h.pl.Serialize(payload.KindComment, m)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.Data(w, status, out)
}
