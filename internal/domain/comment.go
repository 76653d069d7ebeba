package domain

import "time"

// CommentStatus is the moderation state of a comment. The state machine is
// one-way: Pending -> Approved. Approved comments are immutable except for
// deletion.
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
)

// Comment represents a comment on a post. Comments form a tree through
// ParentID; the reply index is derived on read, never materialized as cyclic
// object references.
type Comment struct {
	ID        string        `json:"id"`
	PostID    string        `json:"post_id"`
	AuthorID  string        `json:"author_id"`
	ParentID  *string       `json:"parent_id,omitempty"`
	Body      string        `json:"body"`
	Status    CommentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}
