package services

import (
	"context"

	"github.com/pulseboard/pulseboard/internal/api/validate"
	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/store"
	"github.com/pulseboard/pulseboard/internal/vocab"
)

// TransitionService is the transition log component: insert-only writes with
// closed-vocabulary enforcement, chronologically ordered reads. The set it
// validates against is fixed at construction.
type TransitionService struct {
	store store.Store
	reg   *vocab.Registry
	set   string
}

func NewTransitionService(st store.Store, reg *vocab.Registry, set string) *TransitionService {
	return &TransitionService{store: st, reg: reg, set: set}
}

// Append validates from/to against the configured vocabulary and inserts the
// transition through the given appender. The appender may be transaction
// scoped (the recorder path) or the store's own.
func (s *TransitionService) Append(ctx context.Context, log store.TransitionAppender, t *model.Transition) (*model.Transition, error) {
	msgs := validate.TransitionValue(s.reg, s.set, "to", t.To)
	if t.From != nil {
		msgs = append(msgs, validate.TransitionValue(s.reg, s.set, "from", *t.From)...)
	}
	msgs = append(msgs, validate.Reason(t.Reason)...)
	if err := model.NewValidationError(msgs); err != nil {
		return nil, err
	}
	return log.Append(ctx, t)
}

// ListForUpdate returns the update's timeline. The parent must exist.
func (s *TransitionService) ListForUpdate(ctx context.Context, updateID string, order model.TransitionOrder) ([]*model.Transition, error) {
	if _, err := s.store.Updates().Get(ctx, updateID); err != nil {
		return nil, err
	}
	return s.store.Transitions().ListForUpdate(ctx, updateID, order)
}
