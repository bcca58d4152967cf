package api

import (
	"github.com/gorilla/mux"

	"github.com/pulseboard/pulseboard/internal/api/payload"
	"github.com/pulseboard/pulseboard/internal/api/recovery"
	"github.com/pulseboard/pulseboard/internal/recorder"
	"github.com/pulseboard/pulseboard/internal/services"
	"github.com/pulseboard/pulseboard/internal/store"
	"github.com/pulseboard/pulseboard/internal/vocab"
)

// NewRouter wires services and handlers over the given store and returns the
// complete route table. The serializer registry and the transition recorder
// hook are resolved once here, at startup.
func NewRouter(st store.Store) *mux.Router {
	reg := vocab.Default()
	pl := payload.NewRegistry()

	transitionSvc := services.NewTransitionService(st, reg, vocab.Moods)
	updateSvc := services.NewUpdateService(st, reg, recorder.Hook(transitionSvc))
	commentSvc := services.NewCommentService(st)
	reactionSvc := services.NewReactionService(st, reg)

	root := mux.NewRouter()
	root.Use(recovery.Middleware)

	updates := NewUpdateHandler(updateSvc, pl)
	root.HandleFunc("/api/updates", updates.List).Methods("GET")
	root.HandleFunc("/api/updates", updates.Create).Methods("POST")
	root.HandleFunc("/api/updates/{updateId}", updates.Get).Methods("GET")
	root.HandleFunc("/api/updates/{updateId}", updates.Patch).Methods("PATCH")
	root.HandleFunc("/api/updates/{updateId}", updates.Delete).Methods("DELETE")
	root.HandleFunc("/api/updates/{updateId}/likes", updates.Like).Methods("POST")

	transitions := NewTransitionHandler(transitionSvc, pl)
	root.HandleFunc("/api/updates/{updateId}/transitions", transitions.List).Methods("GET")

	comments := NewCommentHandler(commentSvc, pl)
	root.HandleFunc("/api/updates/{updateId}/comments", comments.List).Methods("GET")
	root.HandleFunc("/api/updates/{updateId}/comments", comments.Create).Methods("POST")
	root.HandleFunc("/api/updates/{updateId}/comments/{commentId}", comments.Get).Methods("GET")
	root.HandleFunc("/api/updates/{updateId}/comments/{commentId}", comments.Delete).Methods("DELETE")

	reactions := NewReactionHandler(reactionSvc, pl)
	root.HandleFunc("/api/updates/{updateId}/reactions", reactions.List).Methods("GET")
	root.HandleFunc("/api/updates/{updateId}/reactions", reactions.Toggle).Methods("POST")
	root.HandleFunc("/api/updates/{updateId}/reactions", reactions.Delete).Methods("DELETE")

	health := NewHealthHandler(st)
	root.HandleFunc("/api/health", health.Check).Methods("GET")

	return root
}
