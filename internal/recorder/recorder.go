// Package recorder turns status-update mutations into transition log rows.
// It is the only writer of transitions: clients never append directly.
package recorder

import (
	"context"

	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/store"
)

// Appender validates and inserts one transition. services.TransitionService
// satisfies it; tests substitute fakes.
type Appender interface {
	Append(ctx context.Context, log store.TransitionAppender, t *model.Transition) (*model.Transition, error)
}

// Hook builds the change hook the store invokes inside each update
// transaction. It compares the pre- and post-update mood and appends exactly
// one transition per effective change; no-op updates append nothing. The
// recorder never attaches a reason. An append failure propagates and rolls
// back the enclosing transaction.
func Hook(appender Appender) store.ChangeHook {
	return func(ctx context.Context, log store.TransitionAppender, before, after *model.StatusUpdate) error {
		if before.Mood == after.Mood {
			return nil
		}
		from := before.Mood
		_, err := appender.Append(ctx, log, &model.Transition{
			UpdateID: after.UpdateID,
			From:     &from,
			To:       after.Mood,
		})
		return err
	}
}
