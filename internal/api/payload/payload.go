// Package payload converts domain objects into their wire form. Serializers
// are registered once at startup, keyed by entity kind; handlers never build
// response maps ad hoc. Internal-only fields (insertion sequence) are never
// exposed, and every timestamp is RFC 3339 in UTC.
package payload

import (
	"fmt"
	"time"

	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/vocab"
)

// Entity kinds with registered serializers.
const (
	KindUpdate        = "update"
	KindTransition    = "transition"
	KindComment       = "comment"
	KindReaction      = "reaction"
	KindReactionGroup = "reaction_group"
)

// Update is the wire form of a status update.
type Update struct {
	ID         string `json:"id"`
	Body       string `json:"body"`
	Mood       string `json:"mood"`
	LikesCount int    `json:"likes_count"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// Transition is the wire form of a timeline entry. Display labels are
// computed from the stored tokens without mutating them.
type Transition struct {
	ID        string  `json:"id"`
	From      *string `json:"from"`
	To        string  `json:"to"`
	FromLabel *string `json:"from_label"`
	ToLabel   string  `json:"to_label"`
	Reason    *string `json:"reason,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// Comment is the wire form of a comment.
type Comment struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

// Reaction is the wire form of a single reaction row.
type Reaction struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Actor     string `json:"actor"`
	CreatedAt string `json:"created_at"`
}

// ReactionGroup is the grouped-by-kind view.
type ReactionGroup struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// ToggleResult is returned when a reaction POST lands on the removal branch.
type ToggleResult struct {
	Toggled bool `json:"toggled"`
}

// SerializeFunc turns one domain object into its wire form.
type SerializeFunc func(v any) (any, error)

// Registry dispatches serialization by entity kind. Built once at startup.
type Registry struct {
	byKind map[string]SerializeFunc
}

// NewRegistry registers the serializer for every entity kind.
func NewRegistry() *Registry {
	r := &Registry{byKind: make(map[string]SerializeFunc)}
	r.byKind[KindUpdate] = serializeUpdate
	r.byKind[KindTransition] = serializeTransition
	r.byKind[KindComment] = serializeComment
	r.byKind[KindReaction] = serializeReaction
	r.byKind[KindReactionGroup] = serializeReactionGroup
	return r
}

// Serialize converts v using the serializer registered for kind.
func (r *Registry) Serialize(kind string, v any) (any, error) {
	fn, ok := r.byKind[kind]
	if !ok {
		return nil, fmt.Errorf("payload: no serializer registered for kind %q", kind)
	}
	return fn(v)
}

// Many serializes a slice for a paginated or array response. The result is
// never nil, so empty collections encode as [] rather than null.
func Many[T any](r *Registry, kind string, items []T) ([]any, error) {
	out := make([]any, 0, len(items))
	for _, it := range items {
		p, err := r.Serialize(kind, it)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func serializeUpdate(v any) (any, error) {
	m, ok := v.(*model.StatusUpdate)
	if !ok {
		return nil, fmt.Errorf("payload: expected *model.StatusUpdate, got %T", v)
	}
	return Update{
		ID:         m.UpdateID,
		Body:       m.Body,
		Mood:       m.Mood,
		LikesCount: m.LikesCount,
		CreatedAt:  formatTime(m.CreationTime),
		UpdatedAt:  formatTime(m.UpdateTime),
	}, nil
}

func serializeTransition(v any) (any, error) {
	m, ok := v.(*model.Transition)
	if !ok {
		return nil, fmt.Errorf("payload: expected *model.Transition, got %T", v)
	}
	out := Transition{
		ID:        m.TransitionID,
		From:      m.From,
		To:        m.To,
		ToLabel:   vocab.Label(m.To),
		Reason:    m.Reason,
		CreatedAt: formatTime(m.CreationTime),
	}
	if m.From != nil {
		label := vocab.Label(*m.From)
		out.FromLabel = &label
	}
	return out, nil
}

func serializeComment(v any) (any, error) {
	m, ok := v.(*model.Comment)
	if !ok {
		return nil, fmt.Errorf("payload: expected *model.Comment, got %T", v)
	}
	return Comment{
		ID:        m.CommentID,
		Author:    m.Author,
		Body:      m.Body,
		CreatedAt: formatTime(m.CreationTime),
	}, nil
}

func serializeReaction(v any) (any, error) {
	m, ok := v.(*model.Reaction)
	if !ok {
		return nil, fmt.Errorf("payload: expected *model.Reaction, got %T", v)
	}
	return Reaction{
		ID:        m.ReactionID,
		Kind:      m.Kind,
		Actor:     m.Actor,
		CreatedAt: formatTime(m.CreationTime),
	}, nil
}

func serializeReactionGroup(v any) (any, error) {
	m, ok := v.(*model.ReactionGroup)
	if !ok {
		return nil, fmt.Errorf("payload: expected *model.ReactionGroup, got %T", v)
	}
	return ReactionGroup{Kind: m.Kind, Count: m.Count}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
