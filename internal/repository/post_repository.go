package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bloghub/pkg/models"
)

// PostRepository is the comment core's read-only window onto posts.
// Post CRUD belongs to the rest of the application; the core only needs
// existence and publication status.
type PostRepository interface {
	GetByID(ctx context.Context, id string) (*models.Post, error)
}

type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

// GetByID retrieves a post by ID
func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `
		SELECT id, author_id, title, status, created_at
		FROM posts
		WHERE id = $1
	`

	post := &models.Post{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Status,
		&post.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("post %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get_post_by_id: %v: %w", err, models.ErrTransient)
	}

	return post, nil
}
