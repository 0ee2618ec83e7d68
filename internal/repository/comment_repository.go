package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bloghub/pkg/logger"
	"bloghub/pkg/models"
)

// CommentRepository handles comment persistence and the referential
// integrity between a root comment and its replies.
//
// All atomicity is pushed into the database: the reply_ids array is
// mutated with array_append/array_remove, like_count with an in-place
// increment, and the reply insert and cascade delete each run inside a
// single transaction. Nothing here does read-then-write at the
// application level.
type CommentRepository interface {
	InsertRoot(ctx context.Context, postID, authorID, content string) (*models.Comment, error)
	InsertReply(ctx context.Context, parentCommentID, authorID, content string) (*models.Comment, error)
	FindByID(ctx context.Context, id string) (*models.Comment, error)
	FindRootsByPost(ctx context.Context, postID string, approvedOnly bool, skip, limit int) ([]*models.Comment, error)
	FindRepliesByParent(ctx context.Context, parentID string, approvedOnly bool) ([]*models.Comment, error)
	CountRootsByPost(ctx context.Context, postID string, approvedOnly bool) (int, error)
	UpdateContent(ctx context.Context, id, content string) (*models.Comment, error)
	SetApproval(ctx context.Context, id string, approved bool) (*models.Comment, error)
	IncrementLikeCount(ctx context.Context, id string) (int, error)
	DeleteCascade(ctx context.Context, id string) (int, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new PostgreSQL comment repository
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

const commentColumns = `id, post_id, author_id, parent_comment_id, reply_ids, content, is_approved, like_count, created_at, updated_at`

func scanComment(row pgx.Row) (*models.Comment, error) {
	c := &models.Comment{}
	err := row.Scan(
		&c.ID,
		&c.PostID,
		&c.AuthorID,
		&c.ParentCommentID,
		&c.ReplyIDs,
		&c.Content,
		&c.IsApproved,
		&c.LikeCount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// InsertRoot creates a pending root comment on a post. The post_id
// foreign key backstops the service-level published check, so a
// dangling post reference is rejected here even if the caller skipped
// the lookup.
func (r *commentRepository) InsertRoot(ctx context.Context, postID, authorID, content string) (*models.Comment, error) {
	query := `
		INSERT INTO comments (id, post_id, author_id, parent_comment_id, reply_ids, content, is_approved, like_count)
		VALUES ($1, $2, $3, NULL, '{}', $4, FALSE, 0)
		RETURNING ` + commentColumns

	comment, err := scanComment(r.pool.QueryRow(ctx, query, generateCommentID(), postID, authorID, content))
	if err != nil {
		return nil, r.mapDBError(err, "insert_root_comment")
	}
	return comment, nil
}

// InsertReply creates a reply under a root comment and appends its id to
// the parent's reply_ids, in one transaction. The parent row is locked
// for the duration so a concurrent reader never sees the reply without
// its linkage or the linkage without the reply.
func (r *commentRepository) InsertReply(ctx context.Context, parentCommentID, authorID, content string) (*models.Comment, error) {
	var comment *models.Comment

	err := r.withTransaction(ctx, func(tx pgx.Tx) error {
		var postID string
		var grandparent *string
		parentQuery := `SELECT post_id, parent_comment_id FROM comments WHERE id = $1 FOR UPDATE`
		err := tx.QueryRow(ctx, parentQuery, parentCommentID).Scan(&postID, &grandparent)
		if err != nil {
			return r.mapDBError(err, "load_reply_parent")
		}
		if grandparent != nil {
			return fmt.Errorf("comment %s is itself a reply: %w", parentCommentID, models.ErrInvalidState)
		}

		insertQuery := `
			INSERT INTO comments (id, post_id, author_id, parent_comment_id, reply_ids, content, is_approved, like_count)
			VALUES ($1, $2, $3, $4, '{}', $5, FALSE, 0)
			RETURNING ` + commentColumns

		comment, err = scanComment(tx.QueryRow(ctx, insertQuery, generateCommentID(), postID, authorID, parentCommentID, content))
		if err != nil {
			return r.mapDBError(err, "insert_reply")
		}

		linkQuery := `UPDATE comments SET reply_ids = array_append(reply_ids, $1) WHERE id = $2`
		if _, err := tx.Exec(ctx, linkQuery, comment.ID, parentCommentID); err != nil {
			return r.mapDBError(err, "link_reply")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return comment, nil
}

// FindByID retrieves a comment by ID
func (r *commentRepository) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	comment, err := scanComment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.mapDBError(err, "find_comment_by_id")
	}
	return comment, nil
}

// FindRootsByPost returns one page of root comments, newest first.
func (r *commentRepository) FindRootsByPost(ctx context.Context, postID string, approvedOnly bool, skip, limit int) ([]*models.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE post_id = $1 AND parent_comment_id IS NULL AND (NOT $2 OR is_approved)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, postID, approvedOnly, limit, skip)
	if err != nil {
		return nil, r.mapDBError(err, "find_roots_by_post")
	}
	defer rows.Close()

	return r.collectComments(rows, "scan_root_comment")
}

// FindRepliesByParent returns the replies of a root comment in
// chronological order.
func (r *commentRepository) FindRepliesByParent(ctx context.Context, parentID string, approvedOnly bool) ([]*models.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE parent_comment_id = $1 AND (NOT $2 OR is_approved)
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, parentID, approvedOnly)
	if err != nil {
		return nil, r.mapDBError(err, "find_replies_by_parent")
	}
	defer rows.Close()

	return r.collectComments(rows, "scan_reply")
}

// CountRootsByPost counts root comments for pagination totals.
func (r *commentRepository) CountRootsByPost(ctx context.Context, postID string, approvedOnly bool) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM comments
		WHERE post_id = $1 AND parent_comment_id IS NULL AND (NOT $2 OR is_approved)
	`

	var total int
	if err := r.pool.QueryRow(ctx, query, postID, approvedOnly).Scan(&total); err != nil {
		return 0, r.mapDBError(err, "count_roots_by_post")
	}
	return total, nil
}

// UpdateContent replaces the comment text and bumps updated_at.
func (r *commentRepository) UpdateContent(ctx context.Context, id, content string) (*models.Comment, error) {
	query := `
		UPDATE comments
		SET content = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + commentColumns

	comment, err := scanComment(r.pool.QueryRow(ctx, query, id, content))
	if err != nil {
		return nil, r.mapDBError(err, "update_comment_content")
	}
	return comment, nil
}

// SetApproval flips the moderation flag.
func (r *commentRepository) SetApproval(ctx context.Context, id string, approved bool) (*models.Comment, error) {
	query := `
		UPDATE comments
		SET is_approved = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + commentColumns

	comment, err := scanComment(r.pool.QueryRow(ctx, query, id, approved))
	if err != nil {
		return nil, r.mapDBError(err, "set_comment_approval")
	}
	return comment, nil
}

// IncrementLikeCount bumps the counter in place and returns the new
// value. Concurrent likers serialize on the row, none are lost.
func (r *commentRepository) IncrementLikeCount(ctx context.Context, id string) (int, error) {
	query := `
		UPDATE comments
		SET like_count = like_count + 1
		WHERE id = $1
		RETURNING like_count
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, r.mapDBError(err, "increment_like_count")
	}
	return count, nil
}

// DeleteCascade removes a comment. A root takes all of its replies with
// it; a reply is also pulled out of its parent's reply_ids. Both shapes
// run in one transaction so no orphaned reply or dangling reply_ids
// entry survives a failure.
func (r *commentRepository) DeleteCascade(ctx context.Context, id string) (int, error) {
	deleted := 0

	err := r.withTransaction(ctx, func(tx pgx.Tx) error {
		var parentID *string
		getQuery := `SELECT parent_comment_id FROM comments WHERE id = $1 FOR UPDATE`
		if err := tx.QueryRow(ctx, getQuery, id).Scan(&parentID); err != nil {
			return r.mapDBError(err, "load_delete_target")
		}

		if parentID != nil {
			unlinkQuery := `UPDATE comments SET reply_ids = array_remove(reply_ids, $1) WHERE id = $2`
			if _, err := tx.Exec(ctx, unlinkQuery, id, *parentID); err != nil {
				return r.mapDBError(err, "unlink_reply")
			}
		} else {
			repliesQuery := `DELETE FROM comments WHERE parent_comment_id = $1`
			tag, err := tx.Exec(ctx, repliesQuery, id)
			if err != nil {
				return r.mapDBError(err, "delete_replies")
			}
			deleted += int(tag.RowsAffected())
		}

		tag, err := tx.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
		if err != nil {
			return r.mapDBError(err, "delete_comment")
		}
		if tag.RowsAffected() == 0 {
			return r.mapDBError(pgx.ErrNoRows, "delete_comment")
		}
		deleted++

		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

func (r *commentRepository) collectComments(rows pgx.Rows, operation string) ([]*models.Comment, error) {
	var comments []*models.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, r.mapDBError(err, operation)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapDBError(err, operation)
	}
	return comments, nil
}

// withTransaction executes a function within a database transaction
func (r *commentRepository) withTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return r.mapDBError(err, "begin_transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return r.mapDBError(err, "commit_transaction")
	}
	return nil
}

// mapDBError maps database errors into the application taxonomy. The
// returned message reaches HTTP clients, so the raw driver error is
// logged here and never wrapped in.
func (r *commentRepository) mapDBError(err error, operation string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", operation, models.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation - dangling post or parent reference
			return fmt.Errorf("%s: invalid reference: %w", operation, models.ErrNotFound)
		case "22001", "23514": // value too long / check constraint
			return fmt.Errorf("%s: %w", operation, models.ErrInvalidInput)
		}
	}

	logger.Errorf("database error in %s: %v", operation, err)
	return fmt.Errorf("%s: %w", operation, models.ErrTransient)
}

func generateCommentID() string {
	return "comm-" + uuid.NewString()
}
