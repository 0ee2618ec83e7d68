// Package moderation owns the approval state machine and the visibility
// policy for comments.
//
// There are exactly two states: pending (every new comment) and
// approved. "Disapprove" transitions back to pending rather than into a
// distinct rejected state - moderators gatekeep visibility, they do not
// record a rejection audit.
package moderation

import (
	"context"

	"bloghub/pkg/models"
)

// ApprovalStore is the slice of the comment repository the engine needs.
type ApprovalStore interface {
	SetApproval(ctx context.Context, id string, approved bool) (*models.Comment, error)
}

// Engine applies approval transitions. It is authorization-agnostic and
// trusts its caller to have checked moderation capability.
type Engine struct {
	store ApprovalStore
}

// NewEngine creates a moderation engine over the given store.
func NewEngine(store ApprovalStore) *Engine {
	return &Engine{store: store}
}

// SetApproval moves a comment to approved (true) or back to pending
// (false). Either direction is always legal.
func (e *Engine) SetApproval(ctx context.Context, commentID string, approved bool) (*models.Comment, error) {
	return e.store.SetApproval(ctx, commentID, approved)
}

// IsVisible is the single source of truth for comment visibility: a
// comment is visible once approved, and always to its own author and to
// moderators. Read paths must route through this predicate instead of
// re-deriving it.
func IsVisible(c *models.Comment, viewer models.Viewer) bool {
	if c.IsApproved {
		return true
	}
	if viewer.CanModerate {
		return true
	}
	return !viewer.Anonymous() && viewer.ID == c.AuthorID
}
