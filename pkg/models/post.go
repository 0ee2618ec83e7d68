package models

import "time"

// PostStatus represents the publication state of a post. The comment
// core only ever inspects "published"; draft and archived exist so the
// lookup can report why commenting is closed.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// Post is the slice of the post entity the comment core depends on.
// Post CRUD itself lives outside this module.
type Post struct {
	ID        string     `json:"id" db:"id"`
	AuthorID  string     `json:"author_id" db:"author_id"`
	Title     string     `json:"title" db:"title"`
	Status    PostStatus `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// AcceptsComments reports whether comments may be created on the post.
func (p *Post) AcceptsComments() bool {
	return p.Status == PostStatusPublished
}
