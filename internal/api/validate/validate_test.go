package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulseboard/pulseboard/internal/vocab"
)

func TestUpdateBody(t *testing.T) {
	assert.Empty(t, UpdateBody("hello"))
	assert.Empty(t, UpdateBody(strings.Repeat("x", MaxUpdateBodyLen)))
	assert.Equal(t, []string{"body is required"}, UpdateBody(""))
	assert.Equal(t,
		[]string{"body exceeds 280 characters"},
		UpdateBody(strings.Repeat("x", MaxUpdateBodyLen+1)))
}

func TestMood(t *testing.T) {
	reg := vocab.Default()
	assert.Empty(t, Mood(reg, "happy"))
	assert.Equal(t, []string{"mood is required"}, Mood(reg, ""))
	assert.Equal(t, []string{`mood "grumpy" is not a recognized value`}, Mood(reg, "grumpy"))
}

func TestTransitionValue(t *testing.T) {
	reg := vocab.Default()
	assert.Empty(t, TransitionValue(reg, vocab.Moods, "to", "calm"))
	assert.Equal(t, []string{"from is required"}, TransitionValue(reg, vocab.Moods, "from", ""))
	assert.Equal(t,
		[]string{`to "published" is not a recognized value`},
		TransitionValue(reg, vocab.Moods, "to", "published"),
		"values from a different set are rejected")
}

func TestCommentBody(t *testing.T) {
	assert.Empty(t, CommentBody("fine"))
	assert.Equal(t, []string{"body is required"}, CommentBody(""))
	assert.Equal(t,
		[]string{"body exceeds 1000 characters"},
		CommentBody(strings.Repeat("x", MaxCommentBodyLen+1)))
}

func TestName(t *testing.T) {
	assert.Empty(t, Name("author", "ana"))
	assert.Equal(t, []string{"author is required"}, Name("author", ""))
	assert.Equal(t,
		[]string{"actor exceeds 100 characters"},
		Name("actor", strings.Repeat("a", MaxNameLen+1)))
}

func TestReactionKind(t *testing.T) {
	reg := vocab.Default()
	assert.Empty(t, ReactionKind(reg, "fire"))
	assert.Equal(t, []string{"kind is required"}, ReactionKind(reg, ""))
	assert.Equal(t, []string{`kind "meh" is not a recognized value`}, ReactionKind(reg, "meh"))
}

func TestReason(t *testing.T) {
	assert.Empty(t, Reason(nil))
	ok := "seemed right"
	assert.Empty(t, Reason(&ok))
	long := strings.Repeat("r", MaxReasonLen+1)
	assert.Equal(t, []string{"reason exceeds 500 characters"}, Reason(&long))
}
