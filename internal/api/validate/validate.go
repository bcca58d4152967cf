// Package validate holds field-level validation rules. Helpers return one
// message per violated rule so callers can accumulate every failure into a
// single ValidationError instead of stopping at the first.
package validate

import (
	"fmt"

	"github.com/pulseboard/pulseboard/internal/vocab"
)

const (
	MaxUpdateBodyLen  = 280
	MaxCommentBodyLen = 1000
	MaxNameLen        = 100
	MaxReasonLen      = 500
)

// UpdateBody checks the status-update body: required, at most 280 bytes.
func UpdateBody(body string) []string {
	var msgs []string
	if body == "" {
		msgs = append(msgs, "body is required")
	}
	if len(body) > MaxUpdateBodyLen {
		msgs = append(msgs, fmt.Sprintf("body exceeds %d characters", MaxUpdateBodyLen))
	}
	return msgs
}

// Mood checks membership in the closed mood vocabulary.
func Mood(reg *vocab.Registry, mood string) []string {
	if mood == "" {
		return []string{"mood is required"}
	}
	if !reg.IsValid(vocab.Moods, mood) {
		return []string{fmt.Sprintf("mood %q is not a recognized value", mood)}
	}
	return nil
}

// TransitionValue checks a transition from/to value against the set the
// transition log was configured with.
func TransitionValue(reg *vocab.Registry, set, field, value string) []string {
	if value == "" {
		return []string{field + " is required"}
	}
	if !reg.IsValid(set, value) {
		return []string{fmt.Sprintf("%s %q is not a recognized value", field, value)}
	}
	return nil
}

// CommentBody checks the comment body: required, at most 1000 bytes.
func CommentBody(body string) []string {
	var msgs []string
	if body == "" {
		msgs = append(msgs, "body is required")
	}
	if len(body) > MaxCommentBodyLen {
		msgs = append(msgs, fmt.Sprintf("body exceeds %d characters", MaxCommentBodyLen))
	}
	return msgs
}

// Name checks a short identifier field (comment author, reaction actor).
func Name(field, v string) []string {
	var msgs []string
	if v == "" {
		msgs = append(msgs, field+" is required")
	}
	if len(v) > MaxNameLen {
		msgs = append(msgs, fmt.Sprintf("%s exceeds %d characters", field, MaxNameLen))
	}
	return msgs
}

// ReactionKind checks membership in the closed reaction vocabulary.
func ReactionKind(reg *vocab.Registry, kind string) []string {
	if kind == "" {
		return []string{"kind is required"}
	}
	if !reg.IsValid(vocab.Reactions, kind) {
		return []string{fmt.Sprintf("kind %q is not a recognized value", kind)}
	}
	return nil
}

// Reason checks the optional transition reason length.
func Reason(reason *string) []string {
	if reason == nil {
		return nil
	}
	if len(*reason) > MaxReasonLen {
		return []string{fmt.Sprintf("reason exceeds %d characters", MaxReasonLen)}
	}
	return nil
}
