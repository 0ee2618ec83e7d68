package models

import (
	"time"
)

// Comment represents a single comment on a post - EXACTLY matches schema.sql
//
// A comment with a nil ParentCommentID is a root comment; otherwise it is a
// reply and its parent is always a root (replies never nest further).
// ReplyIDs is maintained on root comments only and mirrors the set of
// comments whose parent_comment_id points back at the root.
type Comment struct {
	ID              string    `json:"id" db:"id"`
	PostID          string    `json:"post_id" db:"post_id"`
	AuthorID        string    `json:"author_id" db:"author_id"`
	ParentCommentID *string   `json:"parent_comment_id,omitempty" db:"parent_comment_id"`
	ReplyIDs        []string  `json:"reply_ids" db:"reply_ids"`
	Content         string    `json:"content" db:"content"`
	IsApproved      bool      `json:"is_approved" db:"is_approved"`
	LikeCount       int       `json:"like_count" db:"like_count"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// IsRoot reports whether the comment sits directly on a post.
func (c *Comment) IsRoot() bool {
	return c.ParentCommentID == nil
}

// CreateCommentRequest - body for creating a root comment on a post
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// CreateReplyRequest - body for replying to a root comment
type CreateReplyRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// UpdateCommentRequest - body for editing comment content
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// SetApprovalRequest - body for the moderation endpoint
type SetApprovalRequest struct {
	Approved bool `json:"approved"`
}

// CommentView is a root comment with its replies attached, in the shape
// the comment section renders: replies are chronological within the root.
type CommentView struct {
	Comment
	Replies []Comment `json:"replies"`
}

// ThreadPage is one page of a post's comment section. Roots are
// newest-first; TotalPages is derived from TotalRoots and PageSize.
type ThreadPage struct {
	Comments   []CommentView `json:"comments"`
	TotalRoots int           `json:"total_roots"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
	HasNext    bool          `json:"has_next"`
	HasPrev    bool          `json:"has_prev"`
}

// DeleteResult reports how many comments a delete removed (1 for a
// reply, 1+N for a root with N replies).
type DeleteResult struct {
	DeletedCount int `json:"deleted_count"`
}

// LikeResult carries the counter value after an increment.
type LikeResult struct {
	LikeCount int `json:"like_count"`
}

const MaxCommentLength = 1000
