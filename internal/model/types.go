package model

import "time"

// StatusUpdate is the primary tracked resource. Mood is the classification
// field whose changes are recorded in the transition timeline.
type StatusUpdate struct {
	UpdateID     string    `json:"updateId"`
	Body         string    `json:"body"`
	Mood         string    `json:"mood"`
	LikesCount   int       `json:"likesCount"`
	CreationTime time.Time `json:"creationTime"`
	UpdateTime   time.Time `json:"updateTime"`
}

// UpdatePatch carries a partial-field update. Nil fields are left untouched.
type UpdatePatch struct {
	Body *string `json:"body,omitempty"`
	Mood *string `json:"mood,omitempty"`
}

// Transition is one immutable record in an update's mood timeline.
// From is nil for a transition with no prior recorded state. Seq is the
// insertion sequence assigned by the store and breaks creation-time ties.
type Transition struct {
	TransitionID string    `json:"transitionId"`
	UpdateID     string    `json:"updateId"`
	Seq          int64     `json:"-"`
	From         *string   `json:"from"`
	To           string    `json:"to"`
	Reason       *string   `json:"reason,omitempty"`
	CreationTime time.Time `json:"creationTime"`
}

// TransitionOrder selects timeline ordering.
type TransitionOrder string

const (
	OrderChronological        TransitionOrder = "chronological"
	OrderReverseChronological TransitionOrder = "reverse_chronological"
)

// Comment is a child resource of a status update.
type Comment struct {
	CommentID    string    `json:"commentId"`
	UpdateID     string    `json:"updateId"`
	Author       string    `json:"author"`
	Body         string    `json:"body"`
	CreationTime time.Time `json:"creationTime"`
}

// Reaction is a child resource of a status update. At most one reaction of a
// given kind per actor per update.
type Reaction struct {
	ReactionID   string    `json:"reactionId"`
	UpdateID     string    `json:"updateId"`
	Kind         string    `json:"kind"`
	Actor        string    `json:"actor"`
	CreationTime time.Time `json:"creationTime"`
}

// ReactionGroup is the grouped-by-kind view returned by the reactions listing.
type ReactionGroup struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// ListUpdatesRequest captures filters used when listing updates.
// Query is a case-insensitive substring match against the body. Mood is an
// equality filter and must already be vocabulary-checked by the caller.
type ListUpdatesRequest struct {
	Query    string
	Mood     string
	Since    *time.Time
	Page     int
	PageSize int
}

// ListCommentsRequest captures filters used when listing comments of an update.
type ListCommentsRequest struct {
	UpdateID string
	Query    string
	Since    *time.Time
	Page     int
	PageSize int
}
