package services_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/recorder"
	"github.com/pulseboard/pulseboard/internal/services"
	"github.com/pulseboard/pulseboard/internal/store"
	"github.com/pulseboard/pulseboard/internal/store/sqlite"
	"github.com/pulseboard/pulseboard/internal/vocab"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "services_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.EnsureSchema(db))
	return sqlite.New(db)
}

// newServices wires the service graph the way the router does: the update
// service's change hook feeds the transition service, which validates against
// the mood vocabulary.
func newServices(t *testing.T) (*services.UpdateService, *services.TransitionService, store.Store) {
	t.Helper()
	st := newTestStore(t)
	reg := vocab.Default()
	tl := services.NewTransitionService(st, reg, vocab.Moods)
	us := services.NewUpdateService(st, reg, recorder.Hook(tl))
	return us, tl, st
}

func requireValidation(t *testing.T, err error, wantMsgs int) *model.ValidationError {
	t.Helper()
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Messages, wantMsgs, "messages: %v", ve.Messages)
	return ve
}

func TestCreateAccumulatesViolations(t *testing.T) {
	us, _, _ := newServices(t)

	_, err := us.Create(context.Background(), "", "grumpy")
	ve := requireValidation(t, err, 2)
	assert.Contains(t, ve.Messages, "body is required")
	assert.Contains(t, ve.Messages, `mood "grumpy" is not a recognized value`)
}

func TestPatchRecordsMoodTransition(t *testing.T) {
	us, tl, _ := newServices(t)
	ctx := context.Background()

	u, err := us.Create(ctx, "working", "focused")
	require.NoError(t, err)

	_, err = us.Patch(ctx, u.UpdateID, model.UpdatePatch{Mood: ptr("calm")})
	require.NoError(t, err)

	// body-only patch leaves the timeline alone
	_, err = us.Patch(ctx, u.UpdateID, model.UpdatePatch{Body: ptr("still working")})
	require.NoError(t, err)

	ts, err := tl.ListForUpdate(ctx, u.UpdateID, model.OrderChronological)
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, "focused", *ts[0].From)
	assert.Equal(t, "calm", ts[0].To)
}

func TestPatchRejectsUnknownMood(t *testing.T) {
	us, _, _ := newServices(t)
	ctx := context.Background()

	u, err := us.Create(ctx, "working", "focused")
	require.NoError(t, err)

	_, err = us.Patch(ctx, u.UpdateID, model.UpdatePatch{Mood: ptr("furious")})
	requireValidation(t, err, 1)

	got, err := us.Get(ctx, u.UpdateID)
	require.NoError(t, err)
	assert.Equal(t, "focused", got.Mood, "rejected patch must not change the row")
}

func TestListDropsInvalidMoodFilter(t *testing.T) {
	us, _, _ := newServices(t)
	ctx := context.Background()

	_, err := us.Create(ctx, "a", "happy")
	require.NoError(t, err)
	_, err = us.Create(ctx, "b", "calm")
	require.NoError(t, err)

	// unknown filter value: return the unfiltered collection, no error
	items, total, err := us.List(ctx, model.ListUpdatesRequest{Mood: "grumpy", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, items, 2)

	items, total, err = us.List(ctx, model.ListUpdatesRequest{Mood: "happy", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Body)
}

func TestTransitionAppendEnforcesVocabulary(t *testing.T) {
	us, tl, st := newServices(t)
	ctx := context.Background()

	u, err := us.Create(ctx, "log me", "happy")
	require.NoError(t, err)

	// status tokens are not in the mood set this log is configured with
	_, err = tl.Append(ctx, st.Transitions(), &model.Transition{UpdateID: u.UpdateID, To: "published"})
	requireValidation(t, err, 1)

	_, err = tl.Append(ctx, st.Transitions(), &model.Transition{UpdateID: u.UpdateID, From: ptr("bogus"), To: "calm"})
	requireValidation(t, err, 1)

	got, err := tl.Append(ctx, st.Transitions(), &model.Transition{UpdateID: u.UpdateID, From: ptr("happy"), To: "calm"})
	require.NoError(t, err)
	assert.NotEmpty(t, got.TransitionID)
}

func TestTransitionListRequiresParent(t *testing.T) {
	_, tl, _ := newServices(t)

	_, err := tl.ListForUpdate(context.Background(), "missing", model.OrderChronological)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCommentService(t *testing.T) {
	us, _, st := newServices(t)
	cs := services.NewCommentService(st)
	ctx := context.Background()

	u, err := us.Create(ctx, "talk to me", "calm")
	require.NoError(t, err)

	_, err = cs.Create(ctx, u.UpdateID, "", "")
	requireValidation(t, err, 2)

	c, err := cs.Create(ctx, u.UpdateID, "ana", "first!")
	require.NoError(t, err)

	got, err := cs.Get(ctx, u.UpdateID, c.CommentID)
	require.NoError(t, err)
	assert.Equal(t, "first!", got.Body)

	_, _, err = cs.List(ctx, model.ListCommentsRequest{UpdateID: "missing", Page: 1, PageSize: 10})
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, cs.Delete(ctx, u.UpdateID, c.CommentID))
	assert.True(t, errors.Is(cs.Delete(ctx, u.UpdateID, c.CommentID), model.ErrNotFound))
}

func TestReactionService(t *testing.T) {
	us, _, st := newServices(t)
	rs := services.NewReactionService(st, vocab.Default())
	ctx := context.Background()

	u, err := us.Create(ctx, "react", "excited")
	require.NoError(t, err)

	_, _, err = rs.Toggle(ctx, u.UpdateID, "meh", "bob")
	requireValidation(t, err, 1)

	r, created, err := rs.Toggle(ctx, u.UpdateID, "fire", "bob")
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, r)

	r, created, err = rs.Toggle(ctx, u.UpdateID, "fire", "bob")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Nil(t, r)

	_, err = rs.GroupCounts(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func ptr(s string) *string { return &s }
