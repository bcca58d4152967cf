package services

import (
	"context"

	"github.com/pulseboard/pulseboard/internal/api/validate"
	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/store"
	"github.com/pulseboard/pulseboard/internal/vocab"
)

// ReactionService owns reactions on a status update. Posting the same
// (update, kind, actor) tuple twice toggles the reaction off instead of
// erroring.
type ReactionService struct {
	store store.Store
	reg   *vocab.Registry
}

func NewReactionService(st store.Store, reg *vocab.Registry) *ReactionService {
	return &ReactionService{store: st, reg: reg}
}

// Toggle creates the reaction when absent and removes it when present.
// created reports which branch ran.
func (s *ReactionService) Toggle(ctx context.Context, updateID, kind, actor string) (*model.Reaction, bool, error) {
	msgs := validate.ReactionKind(s.reg, kind)
	msgs = append(msgs, validate.Name("actor", actor)...)
	if err := model.NewValidationError(msgs); err != nil {
		return nil, false, err
	}
	return s.store.Reactions().Toggle(ctx, &model.Reaction{UpdateID: updateID, Kind: kind, Actor: actor})
}

func (s *ReactionService) Delete(ctx context.Context, updateID, kind, actor string) error {
	return s.store.Reactions().Delete(ctx, updateID, kind, actor)
}

// GroupCounts returns per-kind reaction counts. The parent must exist.
func (s *ReactionService) GroupCounts(ctx context.Context, updateID string) ([]*model.ReactionGroup, error) {
	if _, err := s.store.Updates().Get(ctx, updateID); err != nil {
		return nil, err
	}
	return s.store.Reactions().GroupCounts(ctx, updateID)
}
