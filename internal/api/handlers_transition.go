package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pulseboard/pulseboard/internal/api/payload"
	"github.com/pulseboard/pulseboard/internal/api/respond"
	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/services"
)

type TransitionHandler struct {
	svc *services.TransitionService
	pl  *payload.Registry
}

func NewTransitionHandler(svc *services.TransitionService, pl *payload.Registry) *TransitionHandler {
	return &TransitionHandler{svc: svc, pl: pl}
}

// List GET /api/updates/{updateId}/transitions?order=
// Default order is chronological; any unrecognized order value falls back to
// it rather than erroring.
func (h *TransitionHandler) List(w http.ResponseWriter, r *http.Request) {
	order := model.OrderChronological
	if model.TransitionOrder(r.URL.Query().Get("order")) == model.OrderReverseChronological {
		order = model.OrderReverseChronological
	}
	items, err := h.svc.ListForUpdate(r.Context(), mux.Vars(r)["updateId"], order)
	if err != nil {
		respond.Error(w, err)
		return
	}
	out, err := payload.Many(h.pl, payload.KindTransition, items)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.Data(w, http.StatusOK, out)
}
