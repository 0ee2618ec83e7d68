package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bloghub/pkg/models"
)

// memRepo is an in-memory stand-in for the Postgres repositories with
// the same semantics: taxonomy errors, depth guard, linked reply_ids,
// atomic like increments, cascade deletes. Timestamps come from a
// logical clock so ordering is deterministic.
type memRepo struct {
	mu       sync.Mutex
	comments map[string]*models.Comment
	posts    map[string]*models.Post
	seq      int
	nextID   int
}

func newMemRepo() *memRepo {
	return &memRepo{
		comments: make(map[string]*models.Comment),
		posts:    make(map[string]*models.Post),
	}
}

var memBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func (m *memRepo) tick() time.Time {
	m.seq++
	return memBase.Add(time.Duration(m.seq) * time.Second)
}

func (m *memRepo) addPost(id string, status models.PostStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[id] = &models.Post{ID: id, AuthorID: "post-author", Title: "post " + id, Status: status, CreatedAt: m.tick()}
}

func (m *memRepo) GetByID(_ context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, models.ErrNotFound)
	}
	copied := *post
	return &copied, nil
}

func copyComment(c *models.Comment) *models.Comment {
	copied := *c
	copied.ReplyIDs = append([]string(nil), c.ReplyIDs...)
	if c.ParentCommentID != nil {
		parent := *c.ParentCommentID
		copied.ParentCommentID = &parent
	}
	return &copied
}

func (m *memRepo) InsertRoot(_ context.Context, postID, authorID, content string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[postID]; !ok {
		return nil, fmt.Errorf("insert_root_comment: invalid reference: %w", models.ErrNotFound)
	}
	m.nextID++
	now := m.tick()
	c := &models.Comment{
		ID:        fmt.Sprintf("comm-%04d", m.nextID),
		PostID:    postID,
		AuthorID:  authorID,
		ReplyIDs:  []string{},
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.comments[c.ID] = c
	return copyComment(c), nil
}

func (m *memRepo) InsertReply(_ context.Context, parentCommentID, authorID, content string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	parent, ok := m.comments[parentCommentID]
	if !ok {
		return nil, fmt.Errorf("load_reply_parent: %w", models.ErrNotFound)
	}
	if parent.ParentCommentID != nil {
		return nil, fmt.Errorf("comment %s is itself a reply: %w", parentCommentID, models.ErrInvalidState)
	}
	m.nextID++
	now := m.tick()
	parentID := parentCommentID
	c := &models.Comment{
		ID:              fmt.Sprintf("comm-%04d", m.nextID),
		PostID:          parent.PostID,
		AuthorID:        authorID,
		ParentCommentID: &parentID,
		ReplyIDs:        []string{},
		Content:         content,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	m.comments[c.ID] = c
	parent.ReplyIDs = append(parent.ReplyIDs, c.ID)
	return copyComment(c), nil
}

func (m *memRepo) FindByID(_ context.Context, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return nil, fmt.Errorf("find_comment_by_id: %w", models.ErrNotFound)
	}
	return copyComment(c), nil
}

func (m *memRepo) FindRootsByPost(_ context.Context, postID string, approvedOnly bool, skip, limit int) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var roots []*models.Comment
	for _, c := range m.comments {
		if c.PostID == postID && c.ParentCommentID == nil && (!approvedOnly || c.IsApproved) {
			roots = append(roots, copyComment(c))
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].CreatedAt.After(roots[j].CreatedAt) })
	if skip >= len(roots) {
		return nil, nil
	}
	roots = roots[skip:]
	if limit < len(roots) {
		roots = roots[:limit]
	}
	return roots, nil
}

func (m *memRepo) FindRepliesByParent(_ context.Context, parentID string, approvedOnly bool) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var replies []*models.Comment
	for _, c := range m.comments {
		if c.ParentCommentID != nil && *c.ParentCommentID == parentID && (!approvedOnly || c.IsApproved) {
			replies = append(replies, copyComment(c))
		}
	}
	sort.Slice(replies, func(i, j int) bool { return replies[i].CreatedAt.Before(replies[j].CreatedAt) })
	return replies, nil
}

func (m *memRepo) CountRootsByPost(_ context.Context, postID string, approvedOnly bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.comments {
		if c.PostID == postID && c.ParentCommentID == nil && (!approvedOnly || c.IsApproved) {
			count++
		}
	}
	return count, nil
}

func (m *memRepo) UpdateContent(_ context.Context, id, content string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return nil, fmt.Errorf("update_comment_content: %w", models.ErrNotFound)
	}
	c.Content = content
	c.UpdatedAt = m.tick()
	return copyComment(c), nil
}

func (m *memRepo) SetApproval(_ context.Context, id string, approved bool) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return nil, fmt.Errorf("set_comment_approval: %w", models.ErrNotFound)
	}
	c.IsApproved = approved
	c.UpdatedAt = m.tick()
	return copyComment(c), nil
}

func (m *memRepo) IncrementLikeCount(_ context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return 0, fmt.Errorf("increment_like_count: %w", models.ErrNotFound)
	}
	c.LikeCount++
	return c.LikeCount, nil
}

func (m *memRepo) DeleteCascade(_ context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return 0, fmt.Errorf("load_delete_target: %w", models.ErrNotFound)
	}

	deleted := 0
	if c.ParentCommentID != nil {
		if parent, ok := m.comments[*c.ParentCommentID]; ok {
			kept := parent.ReplyIDs[:0]
			for _, rid := range parent.ReplyIDs {
				if rid != id {
					kept = append(kept, rid)
				}
			}
			parent.ReplyIDs = kept
		}
	} else {
		for rid, reply := range m.comments {
			if reply.ParentCommentID != nil && *reply.ParentCommentID == id {
				delete(m.comments, rid)
				deleted++
			}
		}
	}
	delete(m.comments, id)
	deleted++
	return deleted, nil
}
