// Package store defines the persistence contract for status updates and
// their dependent rows. Implementations live under internal/store/<driver>/.
package store

import (
	"context"

	"github.com/pulseboard/pulseboard/internal/model"
)

// Store exposes persistence operations required by services.
type Store interface {
	Updates() Updates
	Transitions() Transitions
	Comments() Comments
	Reactions() Reactions

	// HealthPing verifies database connectivity.
	HealthPing(ctx context.Context) error
}

// TransitionAppender is the insert-only face of the transition log. The
// update path hands a transaction-scoped appender to its change hook so a
// failed append rolls back the whole mutation.
type TransitionAppender interface {
	Append(ctx context.Context, t *model.Transition) (*model.Transition, error)
}

// ChangeHook runs inside the update transaction after the new row image is
// persisted, with both the pre-update and post-update images. Returning an
// error aborts the transaction.
type ChangeHook func(ctx context.Context, log TransitionAppender, before, after *model.StatusUpdate) error

type Updates interface {
	Create(ctx context.Context, u *model.StatusUpdate) (*model.StatusUpdate, error)
	Get(ctx context.Context, updateID string) (*model.StatusUpdate, error)
	// Update applies a partial-field patch and invokes hook (if non-nil)
	// within the same transaction.
	Update(ctx context.Context, updateID string, patch model.UpdatePatch, hook ChangeHook) (*model.StatusUpdate, error)
	// Delete removes the update and every dependent transition, comment and
	// reaction in one transaction.
	Delete(ctx context.Context, updateID string) error
	// List returns one page plus the total count of the filtered collection,
	// ordered by creation time descending (id descending on ties).
	List(ctx context.Context, req model.ListUpdatesRequest) ([]*model.StatusUpdate, int, error)
	// IncrementLikes bumps likes_count atomically in a single statement.
	IncrementLikes(ctx context.Context, updateID string) (*model.StatusUpdate, error)
}

type Transitions interface {
	TransitionAppender
	ListForUpdate(ctx context.Context, updateID string, order model.TransitionOrder) ([]*model.Transition, error)
}

type Comments interface {
	Create(ctx context.Context, c *model.Comment) (*model.Comment, error)
	GetByID(ctx context.Context, updateID, commentID string) (*model.Comment, error)
	List(ctx context.Context, req model.ListCommentsRequest) ([]*model.Comment, int, error)
	Delete(ctx context.Context, updateID, commentID string) error
}

type Reactions interface {
	// Toggle creates the reaction when absent and removes it when present.
	// created reports which branch ran; the returned reaction is nil on the
	// removal branch.
	Toggle(ctx context.Context, r *model.Reaction) (*model.Reaction, bool, error)
	Delete(ctx context.Context, updateID, kind, actor string) error
	GroupCounts(ctx context.Context, updateID string) ([]*model.ReactionGroup, error)
}
