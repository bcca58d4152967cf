// Package services orchestrates use cases over the store. All vocabulary and
// field validation happens here, before anything touches SQL.
package services

import (
	"context"

	"github.com/pulseboard/pulseboard/internal/api/validate"
	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/store"
	"github.com/pulseboard/pulseboard/internal/vocab"
)

// UpdateService owns the status-update lifecycle. Mutations that change the
// mood run the change hook inside the store transaction, which is how the
// transition timeline stays consistent with the row it describes.
type UpdateService struct {
	store store.Store
	reg   *vocab.Registry
	hook  store.ChangeHook
}

func NewUpdateService(st store.Store, reg *vocab.Registry, hook store.ChangeHook) *UpdateService {
	return &UpdateService{store: st, reg: reg, hook: hook}
}

func (s *UpdateService) Create(ctx context.Context, body, mood string) (*model.StatusUpdate, error) {
	msgs := validate.UpdateBody(body)
	msgs = append(msgs, validate.Mood(s.reg, mood)...)
	if err := model.NewValidationError(msgs); err != nil {
		return nil, err
	}
	return s.store.Updates().Create(ctx, &model.StatusUpdate{Body: body, Mood: mood})
}

func (s *UpdateService) Get(ctx context.Context, updateID string) (*model.StatusUpdate, error) {
	return s.store.Updates().Get(ctx, updateID)
}

// Patch applies a partial update. Only supplied fields are validated; the
// change hook decides whether a transition is due.
func (s *UpdateService) Patch(ctx context.Context, updateID string, patch model.UpdatePatch) (*model.StatusUpdate, error) {
	var msgs []string
	if patch.Body != nil {
		msgs = append(msgs, validate.UpdateBody(*patch.Body)...)
	}
	if patch.Mood != nil {
		msgs = append(msgs, validate.Mood(s.reg, *patch.Mood)...)
	}
	if err := model.NewValidationError(msgs); err != nil {
		return nil, err
	}
	return s.store.Updates().Update(ctx, updateID, patch, s.hook)
}

func (s *UpdateService) Delete(ctx context.Context, updateID string) error {
	return s.store.Updates().Delete(ctx, updateID)
}

func (s *UpdateService) Like(ctx context.Context, updateID string) (*model.StatusUpdate, error) {
	return s.store.Updates().IncrementLikes(ctx, updateID)
}

// List returns one page of updates plus the filtered total. A mood filter
// outside the vocabulary is dropped rather than erroring.
func (s *UpdateService) List(ctx context.Context, req model.ListUpdatesRequest) ([]*model.StatusUpdate, int, error) {
	if req.Mood != "" && !s.reg.IsValid(vocab.Moods, req.Mood) {
		req.Mood = ""
	}
	return s.store.Updates().List(ctx, req)
}
