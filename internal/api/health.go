package api

import (
	"context"
	"net/http"
	"time"

	"github.com/pulseboard/pulseboard/internal/api/respond"
)

// Pinger is the slice of the store the health endpoint needs.
type Pinger interface {
	HealthPing(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check GET /api/health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.HealthPing(ctx); err != nil {
		respond.Error(w, err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]string{"status": "healthy"})
}
