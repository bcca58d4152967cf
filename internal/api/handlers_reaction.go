package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pulseboard/pulseboard/internal/api/payload"
	"github.com/pulseboard/pulseboard/internal/api/respond"
	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/services"
)

type ReactionHandler struct {
	svc *services.ReactionService
	pl  *payload.Registry
}

func NewReactionHandler(svc *services.ReactionService, pl *payload.Registry) *ReactionHandler {
	return &ReactionHandler{svc: svc, pl: pl}
}

// List GET /api/updates/{updateId}/reactions
// Returns grouped-by-kind counts.
func (h *ReactionHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.GroupCounts(r.Context(), mux.Vars(r)["updateId"])
	if err != nil {
		respond.Error(w, err)
		return
	}
	out, err := payload.Many(h.pl, payload.KindReactionGroup, groups)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.Data(w, http.StatusOK, out)
}

// Toggle POST /api/updates/{updateId}/reactions
// Creates the reaction when absent (201); removes it when present and
// reports {"toggled": false} (200).
func (h *ReactionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind  string `json:"kind"`
		Actor string `json:"actor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, &model.ValidationError{Messages: []string{"request body must be valid JSON"}})
		return
	}
	reaction, created, err := h.svc.Toggle(r.Context(), mux.Vars(r)["updateId"], req.Kind, req.Actor)
	if err != nil {
		respond.Error(w, err)
		return
	}
	if !created {
		respond.Data(w, http.StatusOK, payload.ToggleResult{Toggled: false})
		return
	}
	out, err := h.pl.Serialize(payload.KindReaction, reaction)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.Data(w, http.StatusCreated, out)
}

// Delete DELETE /api/updates/{updateId}/reactions?kind=&actor=
func (h *ReactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["updateId"], q.Get("kind"), q.Get("actor")); err != nil {
		respond.Error(w, err)
		return
	}
	respond.NoContent(w)
}
