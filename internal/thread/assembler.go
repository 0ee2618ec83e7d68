// Package thread builds the read-side shape of a post's comment
// section: a paginated feed of root comments, each carrying its replies
// in conversation order.
package thread

import (
	"context"
	"sync"

	"bloghub/internal/moderation"
	"bloghub/pkg/models"
)

// Source is the slice of the comment repository the assembler reads
// from.
type Source interface {
	FindRootsByPost(ctx context.Context, postID string, approvedOnly bool, skip, limit int) ([]*models.Comment, error)
	FindRepliesByParent(ctx context.Context, parentID string, approvedOnly bool) ([]*models.Comment, error)
	CountRootsByPost(ctx context.Context, postID string, approvedOnly bool) (int, error)
}

// Assembler composes root pages and reply lists into ThreadPages.
type Assembler struct {
	source Source
}

// NewAssembler creates a thread assembler over the given source.
func NewAssembler(source Source) *Assembler {
	return &Assembler{source: source}
}

// Assemble produces one page of a post's comment section for a viewer.
//
// Anonymous viewers query approved comments only. Authenticated viewers
// and moderators query unfiltered and the visibility predicate is
// applied as the final pass, which is what lets a commenter see their
// own pending comment without a special-cased query.
//
// Ordering is fixed: roots newest-first (a feed), replies oldest-first
// within each root (a conversation). Reply fetches for the roots on the
// page are issued concurrently; results are reassembled by root index
// so concurrency never reorders the response.
func (a *Assembler) Assemble(ctx context.Context, postID string, viewer models.Viewer, page, pageSize int) (*models.ThreadPage, error) {
	approvedOnly := viewer.Anonymous() && !viewer.CanModerate

	totalRoots, err := a.source.CountRootsByPost(ctx, postID, approvedOnly)
	if err != nil {
		return nil, err
	}

	roots, err := a.source.FindRootsByPost(ctx, postID, approvedOnly, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	// The root snapshot is fixed here; replies inserted afterwards may
	// be missed but can never land under the wrong parent.
	replies := make([][]*models.Comment, len(roots))
	errs := make([]error, len(roots))

	var wg sync.WaitGroup
	for i, root := range roots {
		wg.Add(1)
		go func(i int, rootID string) {
			defer wg.Done()
			replies[i], errs[i] = a.source.FindRepliesByParent(ctx, rootID, approvedOnly)
		}(i, root.ID)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	views := make([]models.CommentView, 0, len(roots))
	for i, root := range roots {
		if !moderation.IsVisible(root, viewer) {
			continue
		}
		view := models.CommentView{Comment: *root, Replies: []models.Comment{}}
		for _, reply := range replies[i] {
			if moderation.IsVisible(reply, viewer) {
				view.Replies = append(view.Replies, *reply)
			}
		}
		views = append(views, view)
	}

	totalPages := (totalRoots + pageSize - 1) / pageSize

	return &models.ThreadPage{
		Comments:   views,
		TotalRoots: totalRoots,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}
