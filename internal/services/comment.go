package services

import (
	"context"

	"github.com/pulseboard/pulseboard/internal/api/validate"
	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/store"
)

// CommentService owns comments hanging off a status update.
type CommentService struct {
	store store.Store
}

func NewCommentService(st store.Store) *CommentService {
	return &CommentService{store: st}
}

func (s *CommentService) Create(ctx context.Context, updateID, author, body string) (*model.Comment, error) {
	msgs := validate.Name("author", author)
	msgs = append(msgs, validate.CommentBody(body)...)
	if err := model.NewValidationError(msgs); err != nil {
		return nil, err
	}
	return s.store.Comments().Create(ctx, &model.Comment{UpdateID: updateID, Author: author, Body: body})
}

func (s *CommentService) Get(ctx context.Context, updateID, commentID string) (*model.Comment, error) {
	return s.store.Comments().GetByID(ctx, updateID, commentID)
}

// List returns one page of an update's comments plus the filtered total.
// The parent must exist.
func (s *CommentService) List(ctx context.Context, req model.ListCommentsRequest) ([]*model.Comment, int, error) {
	if _, err := s.store.Updates().Get(ctx, req.UpdateID); err != nil {
		return nil, 0, err
	}
	return s.store.Comments().List(ctx, req)
}

func (s *CommentService) Delete(ctx context.Context, updateID, commentID string) error {
	return s.store.Comments().Delete(ctx, updateID, commentID)
}
