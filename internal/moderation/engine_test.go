package moderation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloghub/pkg/models"
)

type approvalStoreStub struct {
	comments map[string]*models.Comment
}

func (s *approvalStoreStub) SetApproval(_ context.Context, id string, approved bool) (*models.Comment, error) {
	c, ok := s.comments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	c.IsApproved = approved
	return c, nil
}

func TestSetApprovalTransitions(t *testing.T) {
	store := &approvalStoreStub{comments: map[string]*models.Comment{
		"c1": {ID: "c1", AuthorID: "u1"},
	}}
	engine := NewEngine(store)
	ctx := context.Background()

	c, err := engine.SetApproval(ctx, "c1", true)
	require.NoError(t, err)
	assert.True(t, c.IsApproved)

	// Disapprove goes back to pending, not to a distinct rejected state
	c, err = engine.SetApproval(ctx, "c1", false)
	require.NoError(t, err)
	assert.False(t, c.IsApproved)

	_, err = engine.SetApproval(ctx, "missing", true)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestIsVisible(t *testing.T) {
	pending := &models.Comment{ID: "c1", AuthorID: "author"}
	approved := &models.Comment{ID: "c2", AuthorID: "author", IsApproved: true}

	anonymous := models.Viewer{}
	author := models.Viewer{ID: "author"}
	stranger := models.Viewer{ID: "someone-else"}
	mod := models.Viewer{ID: "mod", CanModerate: true}

	tests := []struct {
		name    string
		comment *models.Comment
		viewer  models.Viewer
		want    bool
	}{
		{"approved visible to anonymous", approved, anonymous, true},
		{"approved visible to stranger", approved, stranger, true},
		{"pending hidden from anonymous", pending, anonymous, false},
		{"pending hidden from stranger", pending, stranger, false},
		{"pending visible to author", pending, author, true},
		{"pending visible to moderator", pending, mod, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVisible(tt.comment, tt.viewer))
		})
	}
}

func TestIsVisibleAnonymousNeverMatchesEmptyAuthor(t *testing.T) {
	// A comment with an empty author id must not leak to anonymous
	// viewers through the author clause.
	orphan := &models.Comment{ID: "c3", AuthorID: ""}
	assert.False(t, IsVisible(orphan, models.Viewer{}))
}
