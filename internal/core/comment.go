// Package core - Comment Business Logic
// Transport-agnostic orchestration of the comment lifecycle: creation,
// threading, moderation, likes, deletion.
package core

import (
	"context"
	"fmt"

	"bloghub/internal/moderation"
	"bloghub/internal/repository"
	"bloghub/internal/thread"
	"bloghub/pkg/logger"
	"bloghub/pkg/models"
	"bloghub/pkg/utils"
)

// CommentService is the single entry point the rest of the application
// calls for anything comment-related.
type CommentService interface {
	CreateComment(ctx context.Context, postID, authorID, content string) (*models.Comment, error)
	CreateReply(ctx context.Context, parentCommentID, authorID, content string) (*models.Comment, error)
	EditComment(ctx context.Context, commentID string, editor models.Viewer, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID string, requester models.Viewer) (*models.DeleteResult, error)
	Like(ctx context.Context, commentID string) (*models.LikeResult, error)
	Approve(ctx context.Context, commentID string, approved bool, moderator models.Viewer) (*models.Comment, error)
	ListForPost(ctx context.Context, postID string, viewer models.Viewer, page, pageSize int) (*models.ThreadPage, error)
}

// ThreadCache is the optional read-side cache for anonymous thread
// pages. A nil cache disables caching entirely.
//
// Get returns the generation its lookup was pinned to; Set must
// receive that same generation so a page is only ever stored under the
// generation its data was read at. A negative generation tells Set to
// drop the write.
type ThreadCache interface {
	Get(ctx context.Context, postID string, page, pageSize int) (*models.ThreadPage, int64)
	Set(ctx context.Context, postID string, gen int64, page, pageSize int, threadPage *models.ThreadPage)
	InvalidatePost(ctx context.Context, postID string)
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	engine      *moderation.Engine
	assembler   *thread.Assembler
	cache       ThreadCache
}

// NewCommentService creates a new comment service
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	engine *moderation.Engine,
	assembler *thread.Assembler,
	cache ThreadCache,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		engine:      engine,
		assembler:   assembler,
		cache:       cache,
	}
}

// CreateComment creates a pending root comment on a published post.
func (s *commentService) CreateComment(ctx context.Context, postID, authorID, content string) (*models.Comment, error) {
	content, err := utils.NormalizeCommentContent(content)
	if err != nil {
		return nil, fmt.Errorf("comment content must be 1-%d characters: %w", models.MaxCommentLength, err)
	}

	if err := s.requirePublishedPost(ctx, postID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.InsertRoot(ctx, postID, authorID, content)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.invalidate(ctx, postID)
	logger.WithFields(map[string]interface{}{
		"comment_id": comment.ID,
		"post_id":    postID,
	}).Info("comment created")

	return comment, nil
}

// CreateReply creates a pending reply under a root comment. Replying to
// a reply is rejected - threads are one level deep.
func (s *commentService) CreateReply(ctx context.Context, parentCommentID, authorID, content string) (*models.Comment, error) {
	content, err := utils.NormalizeCommentContent(content)
	if err != nil {
		return nil, fmt.Errorf("reply content must be 1-%d characters: %w", models.MaxCommentLength, err)
	}

	parent, err := s.commentRepo.FindByID(ctx, parentCommentID)
	if err != nil {
		return nil, fmt.Errorf("parent comment: %w", err)
	}
	if !parent.IsRoot() {
		return nil, fmt.Errorf("cannot reply to a reply: %w", models.ErrInvalidState)
	}

	if err := s.requirePublishedPost(ctx, parent.PostID); err != nil {
		return nil, err
	}

	reply, err := s.commentRepo.InsertReply(ctx, parentCommentID, authorID, content)
	if err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}

	s.invalidate(ctx, reply.PostID)
	logger.WithFields(map[string]interface{}{
		"comment_id": reply.ID,
		"parent_id":  parentCommentID,
	}).Info("reply created")

	return reply, nil
}

// EditComment replaces comment content. Only the author or a moderator
// may edit.
func (s *commentService) EditComment(ctx context.Context, commentID string, editor models.Viewer, content string) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("comment: %w", err)
	}

	if err := requireAuthorOrModerator(comment, editor); err != nil {
		return nil, err
	}

	content, err = utils.NormalizeCommentContent(content)
	if err != nil {
		return nil, fmt.Errorf("comment content must be 1-%d characters: %w", models.MaxCommentLength, err)
	}

	updated, err := s.commentRepo.UpdateContent(ctx, commentID, content)
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	s.invalidate(ctx, updated.PostID)
	return updated, nil
}

// DeleteComment removes a comment; deleting a root cascades to its
// replies. Only the author or a moderator may delete.
func (s *commentService) DeleteComment(ctx context.Context, commentID string, requester models.Viewer) (*models.DeleteResult, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("comment: %w", err)
	}

	if err := requireAuthorOrModerator(comment, requester); err != nil {
		return nil, err
	}

	deleted, err := s.commentRepo.DeleteCascade(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete comment: %w", err)
	}

	s.invalidate(ctx, comment.PostID)
	logger.WithFields(map[string]interface{}{
		"comment_id":    commentID,
		"deleted_count": deleted,
	}).Info("comment deleted")

	return &models.DeleteResult{DeletedCount: deleted}, nil
}

// Like increments the aggregate like counter. Liking a comment that is
// not publicly visible is rejected. There is no per-user like record;
// the same caller may like repeatedly.
func (s *commentService) Like(ctx context.Context, commentID string) (*models.LikeResult, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("comment: %w", err)
	}
	if !comment.IsApproved {
		return nil, fmt.Errorf("comment %s is not approved: %w", commentID, models.ErrNotFound)
	}

	count, err := s.commentRepo.IncrementLikeCount(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to like comment: %w", err)
	}

	s.invalidate(ctx, comment.PostID)
	return &models.LikeResult{LikeCount: count}, nil
}

// Approve transitions a comment between pending and approved. The HTTP
// layer gates this behind moderator roles already; the check here is
// defensive so the core stays safe without its transport.
func (s *commentService) Approve(ctx context.Context, commentID string, approved bool, moderator models.Viewer) (*models.Comment, error) {
	if !moderator.CanModerate {
		return nil, fmt.Errorf("approval requires moderation capability: %w", models.ErrForbidden)
	}

	comment, err := s.engine.SetApproval(ctx, commentID, approved)
	if err != nil {
		return nil, fmt.Errorf("failed to set approval: %w", err)
	}

	s.invalidate(ctx, comment.PostID)
	logger.WithFields(map[string]interface{}{
		"comment_id": commentID,
		"approved":   approved,
	}).Info("comment approval changed")

	return comment, nil
}

// ListForPost returns one page of the post's comment section as seen by
// the viewer.
func (s *commentService) ListForPost(ctx context.Context, postID string, viewer models.Viewer, page, pageSize int) (*models.ThreadPage, error) {
	if err := s.requirePublishedPost(ctx, postID); err != nil {
		return nil, err
	}

	page, pageSize = utils.NormalizePagination(page, pageSize)

	// Only the anonymous view is cacheable; every authenticated viewer
	// potentially sees their own pending comments.
	cacheable := s.cache != nil && viewer.Anonymous() && !viewer.CanModerate
	var gen int64
	if cacheable {
		var cached *models.ThreadPage
		cached, gen = s.cache.Get(ctx, postID, page, pageSize)
		if cached != nil {
			return cached, nil
		}
	}

	threadPage, err := s.assembler.Assemble(ctx, postID, viewer, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble thread: %w", err)
	}

	if cacheable {
		// The generation was pinned before assembling; an invalidation
		// racing this request strands the write under the old
		// generation instead of overwriting the fresh one.
		s.cache.Set(ctx, postID, gen, page, pageSize, threadPage)
	}

	return threadPage, nil
}

func (s *commentService) requirePublishedPost(ctx context.Context, postID string) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	if !post.AcceptsComments() {
		return fmt.Errorf("post %s is not published: %w", postID, models.ErrNotFound)
	}
	return nil
}

func requireAuthorOrModerator(comment *models.Comment, viewer models.Viewer) error {
	if viewer.CanModerate {
		return nil
	}
	if !viewer.Anonymous() && viewer.ID == comment.AuthorID {
		return nil
	}
	return fmt.Errorf("only the comment author or a moderator may do this: %w", models.ErrForbidden)
}

func (s *commentService) invalidate(ctx context.Context, postID string) {
	if s.cache != nil {
		s.cache.InvalidatePost(ctx, postID)
	}
}
