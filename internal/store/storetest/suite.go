// Package storetest exercises a compliance suite against a store.Store
// implementation. Both drivers run it, so SQL semantics cannot drift apart.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/recorder"
	"github.com/pulseboard/pulseboard/internal/services"
	"github.com/pulseboard/pulseboard/internal/store"
	"github.com/pulseboard/pulseboard/internal/vocab"
)

func strptr(s string) *string { return &s }

// Run exercises the suite. makeStore must return a clean, isolated store.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("UpdateLifecycle", func(t *testing.T) { testUpdateLifecycle(t, makeStore(t)) })
	t.Run("MoodChangeRecording", func(t *testing.T) { testMoodChangeRecording(t, makeStore(t)) })
	t.Run("HookFailureRollsBack", func(t *testing.T) { testHookFailureRollsBack(t, makeStore(t)) })
	t.Run("TransitionOrdering", func(t *testing.T) { testTransitionOrdering(t, makeStore(t)) })
	t.Run("ListFiltersAndPaging", func(t *testing.T) { testListFiltersAndPaging(t, makeStore(t)) })
	t.Run("CascadeDelete", func(t *testing.T) { testCascadeDelete(t, makeStore(t)) })
	t.Run("ReactionToggle", func(t *testing.T) { testReactionToggle(t, makeStore(t)) })
	t.Run("Comments", func(t *testing.T) { testComments(t, makeStore(t)) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, makeStore(t)) })
}

func moodHook(s store.Store) store.ChangeHook {
	tl := services.NewTransitionService(s, vocab.Default(), vocab.Moods)
	return recorder.Hook(tl)
}

func testUpdateLifecycle(t *testing.T, s store.Store) {
	ctx := context.Background()

	u, err := s.Updates().Create(ctx, &model.StatusUpdate{Body: "shipping it", Mood: "focused"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.UpdateID == "" || u.LikesCount != 0 {
		t.Fatalf("Create: unexpected row %+v", u)
	}

	got, err := s.Updates().Get(ctx, u.UpdateID)
	if err != nil || got.Body != "shipping it" || got.Mood != "focused" {
		t.Fatalf("Get: got=%+v err=%v", got, err)
	}

	patched, err := s.Updates().Update(ctx, u.UpdateID, model.UpdatePatch{Body: strptr("shipped it")}, nil)
	if err != nil || patched.Body != "shipped it" || patched.Mood != "focused" {
		t.Fatalf("Update: got=%+v err=%v", patched, err)
	}

	for i := 0; i < 3; i++ {
		if _, err := s.Updates().IncrementLikes(ctx, u.UpdateID); err != nil {
			t.Fatalf("IncrementLikes: %v", err)
		}
	}
	got, err = s.Updates().Get(ctx, u.UpdateID)
	if err != nil || got.LikesCount != 3 {
		t.Fatalf("LikesCount: got=%+v err=%v", got, err)
	}
}

// testMoodChangeRecording covers exactly-once recording and the chain
// invariant: create focused, change to calm, then happy, then happy again.
// The timeline must be exactly (focused->calm), (calm->happy).
func testMoodChangeRecording(t *testing.T, s store.Store) {
	ctx := context.Background()
	hook := moodHook(s)

	u, err := s.Updates().Create(ctx, &model.StatusUpdate{Body: "day one", Mood: "focused"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, mood := range []string{"calm", "happy", "happy"} {
		if _, err := s.Updates().Update(ctx, u.UpdateID, model.UpdatePatch{Mood: strptr(mood)}, hook); err != nil {
			t.Fatalf("Update to %s: %v", mood, err)
		}
	}

	ts, err := s.Transitions().ListForUpdate(ctx, u.UpdateID, model.OrderChronological)
	if err != nil {
		t.Fatalf("ListForUpdate: %v", err)
	}
	if len(ts) != 2 {
		t.Fatalf("expected exactly 2 transitions, got %d", len(ts))
	}
	if ts[0].From == nil || *ts[0].From != "focused" || ts[0].To != "calm" {
		t.Fatalf("first transition wrong: %+v", ts[0])
	}
	if ts[1].From == nil || *ts[1].From != "calm" || ts[1].To != "happy" {
		t.Fatalf("second transition wrong: %+v", ts[1])
	}
	if ts[0].Reason != nil || ts[1].Reason != nil {
		t.Fatalf("recorder transitions must carry no reason")
	}
	// chain invariant
	for i := 0; i+1 < len(ts); i++ {
		if ts[i+1].From == nil || ts[i].To != *ts[i+1].From {
			t.Fatalf("chain broken at %d: %+v -> %+v", i, ts[i], ts[i+1])
		}
	}
}

// testHookFailureRollsBack verifies an update is never persisted without its
// transition: a hook error aborts the whole transaction.
func testHookFailureRollsBack(t *testing.T, s store.Store) {
	ctx := context.Background()
	boom := errors.New("append refused")
	failing := func(ctx context.Context, log store.TransitionAppender, before, after *model.StatusUpdate) error {
		return boom
	}

	u, err := s.Updates().Create(ctx, &model.StatusUpdate{Body: "stable", Mood: "calm"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := s.Updates().Update(ctx, u.UpdateID, model.UpdatePatch{Mood: strptr("happy")}, failing); !errors.Is(err, boom) {
		t.Fatalf("expected hook error, got %v", err)
	}

	got, err := s.Updates().Get(ctx, u.UpdateID)
	if err != nil || got.Mood != "calm" {
		t.Fatalf("update must roll back: got=%+v err=%v", got, err)
	}
	ts, err := s.Transitions().ListForUpdate(ctx, u.UpdateID, model.OrderChronological)
	if err != nil || len(ts) != 0 {
		t.Fatalf("no transitions expected: n=%d err=%v", len(ts), err)
	}
}

func testTransitionOrdering(t *testing.T, s store.Store) {
	ctx := context.Background()

	u, err := s.Updates().Create(ctx, &model.StatusUpdate{Body: "mood swings", Mood: "tired"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	moods := []string{"excited", "stressed", "calm", "happy"}
	prev := "tired"
	for _, m := range moods {
		from := prev
		if _, err := s.Transitions().Append(ctx, &model.Transition{UpdateID: u.UpdateID, From: &from, To: m}); err != nil {
			t.Fatalf("Append: %v", err)
		}
		prev = m
	}

	chron, err := s.Transitions().ListForUpdate(ctx, u.UpdateID, model.OrderChronological)
	if err != nil || len(chron) != len(moods) {
		t.Fatalf("chronological: n=%d err=%v", len(chron), err)
	}
	for i, m := range moods {
		if chron[i].To != m {
			t.Fatalf("chronological[%d]: got %s want %s", i, chron[i].To, m)
		}
	}

	rev, err := s.Transitions().ListForUpdate(ctx, u.UpdateID, model.OrderReverseChronological)
	if err != nil || len(rev) != len(moods) {
		t.Fatalf("reverse: n=%d err=%v", len(rev), err)
	}
	for i := range rev {
		if rev[i].TransitionID != chron[len(chron)-1-i].TransitionID {
			t.Fatalf("reverse order is not the exact reverse at %d", i)
		}
	}
}

func testListFiltersAndPaging(t *testing.T, s store.Store) {
	ctx := context.Background()

	bodies := []string{"first 100% done", "second step", "third step", "fourth step"}
	moods := []string{"happy", "happy", "calm", "focused"}
	var ids []string
	for i := range bodies {
		u, err := s.Updates().Create(ctx, &model.StatusUpdate{Body: bodies[i], Mood: moods[i]})
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		ids = append(ids, u.UpdateID)
		time.Sleep(2 * time.Millisecond) // distinct creation times for stable order
	}

	// mood equality filter with filtered total
	items, total, err := s.Updates().List(ctx, model.ListUpdatesRequest{Mood: "happy", Page: 1, PageSize: 10})
	if err != nil || total != 2 || len(items) != 2 {
		t.Fatalf("mood filter: n=%d total=%d err=%v", len(items), total, err)
	}

	// substring filter is case-insensitive and escapes LIKE wildcards:
	// "100%" must match literally, not as a wildcard
	items, total, err = s.Updates().List(ctx, model.ListUpdatesRequest{Query: "100%", Page: 1, PageSize: 10})
	if err != nil || total != 1 || len(items) != 1 || items[0].Body != "first 100% done" {
		t.Fatalf("escaped query: n=%d total=%d err=%v", len(items), total, err)
	}
	items, _, err = s.Updates().List(ctx, model.ListUpdatesRequest{Query: "SECOND", Page: 1, PageSize: 10})
	if err != nil || len(items) != 1 {
		t.Fatalf("case-insensitive query: n=%d err=%v", len(items), err)
	}

	// deterministic paging, newest first, total reflects the filtered set
	page1, total, err := s.Updates().List(ctx, model.ListUpdatesRequest{Page: 1, PageSize: 3})
	if err != nil || total != 4 || len(page1) != 3 {
		t.Fatalf("page1: n=%d total=%d err=%v", len(page1), total, err)
	}
	if page1[0].UpdateID != ids[3] {
		t.Fatalf("page1 must start with the newest update")
	}
	page2, _, err := s.Updates().List(ctx, model.ListUpdatesRequest{Page: 2, PageSize: 3})
	if err != nil || len(page2) != 1 {
		t.Fatalf("page2: n=%d err=%v", len(page2), err)
	}
	if page2[0].UpdateID != ids[0] {
		t.Fatalf("page2 must end with the oldest update")
	}

	// identical requests return identical pages
	again, _, err := s.Updates().List(ctx, model.ListUpdatesRequest{Page: 1, PageSize: 3})
	if err != nil || len(again) != len(page1) {
		t.Fatalf("repeat list: n=%d err=%v", len(again), err)
	}
	for i := range again {
		if again[i].UpdateID != page1[i].UpdateID {
			t.Fatalf("pagination not deterministic at %d", i)
		}
	}

	// since filter
	cut := page1[0].CreationTime
	items, total, err = s.Updates().List(ctx, model.ListUpdatesRequest{Since: &cut, Page: 1, PageSize: 10})
	if err != nil || total != 1 || len(items) != 1 {
		t.Fatalf("since filter: n=%d total=%d err=%v", len(items), total, err)
	}
}

func testCascadeDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	hook := moodHook(s)

	u, err := s.Updates().Create(ctx, &model.StatusUpdate{Body: "doomed", Mood: "happy"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Updates().Update(ctx, u.UpdateID, model.UpdatePatch{Mood: strptr("tired")}, hook); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := s.Comments().Create(ctx, &model.Comment{UpdateID: u.UpdateID, Author: "ana", Body: "rip"}); err != nil {
		t.Fatalf("Comment: %v", err)
	}
	if _, _, err := s.Reactions().Toggle(ctx, &model.Reaction{UpdateID: u.UpdateID, Kind: "sad", Actor: "ana"}); err != nil {
		t.Fatalf("Reaction: %v", err)
	}

	if err := s.Updates().Delete(ctx, u.UpdateID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := s.Updates().Get(ctx, u.UpdateID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("update must be gone, got %v", err)
	}
	if ts, err := s.Transitions().ListForUpdate(ctx, u.UpdateID, model.OrderChronological); err != nil || len(ts) != 0 {
		t.Fatalf("transitions must be gone: n=%d err=%v", len(ts), err)
	}
	if cs, _, err := s.Comments().List(ctx, model.ListCommentsRequest{UpdateID: u.UpdateID, Page: 1, PageSize: 10}); err != nil || len(cs) != 0 {
		t.Fatalf("comments must be gone: n=%d err=%v", len(cs), err)
	}
	if gs, err := s.Reactions().GroupCounts(ctx, u.UpdateID); err != nil || len(gs) != 0 {
		t.Fatalf("reactions must be gone: n=%d err=%v", len(gs), err)
	}

	if err := s.Updates().Delete(ctx, u.UpdateID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("second delete must be not found, got %v", err)
	}
}

func testReactionToggle(t *testing.T, s store.Store) {
	ctx := context.Background()

	u, err := s.Updates().Create(ctx, &model.StatusUpdate{Body: "react to me", Mood: "excited"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	r := &model.Reaction{UpdateID: u.UpdateID, Kind: "fire", Actor: "bob"}

	created1, wasCreated, err := s.Reactions().Toggle(ctx, r)
	if err != nil || !wasCreated || created1 == nil {
		t.Fatalf("first toggle must create: created=%v err=%v", wasCreated, err)
	}
	_, wasCreated, err = s.Reactions().Toggle(ctx, r)
	if err != nil || wasCreated {
		t.Fatalf("second toggle must remove: created=%v err=%v", wasCreated, err)
	}
	created2, wasCreated, err := s.Reactions().Toggle(ctx, r)
	if err != nil || !wasCreated || created2 == nil {
		t.Fatalf("third toggle must create again: created=%v err=%v", wasCreated, err)
	}

	// different kind and different actor both coexist
	if _, _, err := s.Reactions().Toggle(ctx, &model.Reaction{UpdateID: u.UpdateID, Kind: "love", Actor: "bob"}); err != nil {
		t.Fatalf("toggle other kind: %v", err)
	}
	if _, _, err := s.Reactions().Toggle(ctx, &model.Reaction{UpdateID: u.UpdateID, Kind: "fire", Actor: "carol"}); err != nil {
		t.Fatalf("toggle other actor: %v", err)
	}

	groups, err := s.Reactions().GroupCounts(ctx, u.UpdateID)
	if err != nil {
		t.Fatalf("GroupCounts: %v", err)
	}
	counts := map[string]int{}
	for _, g := range groups {
		counts[g.Kind] = g.Count
	}
	if counts["fire"] != 2 || counts["love"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}

	if err := s.Reactions().Delete(ctx, u.UpdateID, "fire", "bob"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Reactions().Delete(ctx, u.UpdateID, "fire", "bob"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("deleting a missing reaction must be not found, got %v", err)
	}
}

func testComments(t *testing.T, s store.Store) {
	ctx := context.Background()

	u, err := s.Updates().Create(ctx, &model.StatusUpdate{Body: "discuss", Mood: "calm"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	c1, err := s.Comments().Create(ctx, &model.Comment{UpdateID: u.UpdateID, Author: "ana", Body: "nice work"})
	if err != nil {
		t.Fatalf("Comment 1: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, err := s.Comments().Create(ctx, &model.Comment{UpdateID: u.UpdateID, Author: "bob", Body: "agreed"}); err != nil {
		t.Fatalf("Comment 2: %v", err)
	}

	got, err := s.Comments().GetByID(ctx, u.UpdateID, c1.CommentID)
	if err != nil || got.Body != "nice work" {
		t.Fatalf("GetByID: got=%+v err=%v", got, err)
	}

	items, total, err := s.Comments().List(ctx, model.ListCommentsRequest{UpdateID: u.UpdateID, Page: 1, PageSize: 10})
	if err != nil || total != 2 || len(items) != 2 {
		t.Fatalf("List: n=%d total=%d err=%v", len(items), total, err)
	}
	if items[0].Body != "agreed" {
		t.Fatalf("comments must list newest first, got %q", items[0].Body)
	}

	items, total, err = s.Comments().List(ctx, model.ListCommentsRequest{UpdateID: u.UpdateID, Query: "nice", Page: 1, PageSize: 10})
	if err != nil || total != 1 || len(items) != 1 {
		t.Fatalf("filtered list: n=%d total=%d err=%v", len(items), total, err)
	}

	if err := s.Comments().Delete(ctx, u.UpdateID, c1.CommentID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Comments().GetByID(ctx, u.UpdateID, c1.CommentID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("comment must be gone, got %v", err)
	}
}

func testNotFound(t *testing.T, s store.Store) {
	ctx := context.Background()
	missing := "00000000-0000-0000-0000-000000000000"

	if _, err := s.Updates().Get(ctx, missing); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Get: %v", err)
	}
	if _, err := s.Updates().Update(ctx, missing, model.UpdatePatch{Body: strptr("x")}, nil); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Update: %v", err)
	}
	if _, err := s.Updates().IncrementLikes(ctx, missing); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("IncrementLikes: %v", err)
	}
	if err := s.Updates().Delete(ctx, missing); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Comments().Create(ctx, &model.Comment{UpdateID: missing, Author: "ana", Body: "hi"}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Comment create: %v", err)
	}
	if _, _, err := s.Reactions().Toggle(ctx, &model.Reaction{UpdateID: missing, Kind: "like", Actor: "ana"}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Reaction toggle: %v", err)
	}
}
