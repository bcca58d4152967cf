package payload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/pulseboard/internal/model"
)

var testTime = time.Date(2026, 8, 30, 14, 30, 0, 0, time.FixedZone("CEST", 2*60*60))

func TestSerializeUpdate(t *testing.T) {
	r := NewRegistry()
	got, err := r.Serialize(KindUpdate, &model.StatusUpdate{
		UpdateID:     "u1",
		Body:         "hello",
		Mood:         "focused",
		LikesCount:   7,
		CreationTime: testTime,
		UpdateTime:   testTime,
	})
	require.NoError(t, err)

	out, ok := got.(Update)
	require.True(t, ok)
	assert.Equal(t, "u1", out.ID)
	assert.Equal(t, 7, out.LikesCount)
	assert.Equal(t, "2026-08-30T12:30:00Z", out.CreatedAt, "timestamps serialize as RFC 3339 UTC")
}

func TestSerializeTransitionLabels(t *testing.T) {
	r := NewRegistry()
	from := "in_review"
	got, err := r.Serialize(KindTransition, &model.Transition{
		TransitionID: "t1",
		From:         &from,
		To:           "published",
		CreationTime: testTime,
	})
	require.NoError(t, err)

	out, ok := got.(Transition)
	require.True(t, ok)
	assert.Equal(t, "in_review", *out.From, "stored token is not mutated")
	assert.Equal(t, "In Review", *out.FromLabel)
	assert.Equal(t, "Published", out.ToLabel)
	assert.Nil(t, out.Reason)
}

func TestSerializeTransitionNilFrom(t *testing.T) {
	r := NewRegistry()
	got, err := r.Serialize(KindTransition, &model.Transition{
		TransitionID: "t1",
		To:           "happy",
		CreationTime: testTime,
	})
	require.NoError(t, err)

	out := got.(Transition)
	assert.Nil(t, out.From)
	assert.Nil(t, out.FromLabel)
}

func TestSerializeRejectsWrongType(t *testing.T) {
	r := NewRegistry()
	_, err := r.Serialize(KindUpdate, &model.Comment{})
	assert.Error(t, err)

	_, err = r.Serialize("unregistered", &model.StatusUpdate{})
	assert.Error(t, err)
}

func TestManyNeverNil(t *testing.T) {
	r := NewRegistry()
	out, err := Many(r, KindComment, []*model.Comment{})
	require.NoError(t, err)
	require.NotNil(t, out, "empty collections must encode as [], not null")
	assert.Empty(t, out)
}
