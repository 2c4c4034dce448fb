// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"relato/internal/markdown"
	"relato/internal/models"
)

// CommentStore handles threaded comments and their moderation gate.
// Comment content is rendered from markdown to sanitized HTML once, at
// submission time. Parents must already exist and are never reassigned,
// which rules out cycles by construction.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// Submit creates an unapproved comment on a post. The author is resolved by
// email and auto-provisioned with a null password when unseen. A parent id,
// if given, must reference an existing comment on the same post; otherwise
// the submission fails with ErrInvalidParent. The user lookup, parent check,
// and insert share one transaction.
func (s *CommentStore) Submit(postID int64, authorName, authorEmail, content string, parentID *int64) (*models.Comment, error) {
	htmlContent, err := markdown.RenderComment(content)
	if err != nil {
		return nil, fmt.Errorf("render comment: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int64
	if err := tx.QueryRow(`SELECT id FROM posts WHERE id = $1`, postID).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("check post: %w", err)
	}

	// Resolve or provision the commenter.
	var userID int64
	err = tx.QueryRow(`SELECT id FROM users WHERE email = $1`, authorEmail).Scan(&userID)
	if err == sql.ErrNoRows {
		err = tx.QueryRow(`
			INSERT INTO users (email, name) VALUES ($1, $2) RETURNING id
		`, authorEmail, authorName).Scan(&userID)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve commenter: %w", err)
	}

	if parentID != nil {
		var parentPost int64
		err := tx.QueryRow(`SELECT post_id FROM comments WHERE id = $1`, *parentID).Scan(&parentPost)
		if err == sql.ErrNoRows {
			return nil, ErrInvalidParent
		}
		if err != nil {
			return nil, fmt.Errorf("check parent: %w", err)
		}
		if parentPost != postID {
			return nil, ErrInvalidParent
		}
	}

	c := &models.Comment{AuthorName: authorName, AuthorEmail: authorEmail}
	err = tx.QueryRow(`
		INSERT INTO comments (post_id, user_id, parent_id, content_html)
		VALUES ($1, $2, $3, $4)
		RETURNING id, post_id, user_id, parent_id, approved, content_html, created_at
	`, postID, userID, parentID, htmlContent).Scan(
		&c.ID, &c.PostID, &c.UserID, &c.ParentID, &c.Approved, &c.ContentHTML, &c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit comment: %w", err)
	}
	return c, nil
}

// Approve flips the moderation gate for a comment. Approving an already
// approved comment is a no-op, not an error.
func (s *CommentStore) Approve(commentID int64) error {
	res, err := s.db.Exec(`UPDATE comments SET approved = TRUE WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("approve comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("approve comment rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByID retrieves a single comment regardless of approval state.
// Returns nil if not found.
func (s *CommentStore) FindByID(id int64) (*models.Comment, error) {
	var c models.Comment
	err := s.db.QueryRow(`
		SELECT c.id, c.post_id, c.user_id, c.parent_id, c.approved, c.content_html, c.created_at,
		       u.name, u.email
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`, id).Scan(
		&c.ID, &c.PostID, &c.UserID, &c.ParentID, &c.Approved, &c.ContentHTML, &c.CreatedAt,
		&c.AuthorName, &c.AuthorEmail,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return &c, nil
}

// ListPending returns all comments awaiting moderation, oldest first.
func (s *CommentStore) ListPending() ([]models.Comment, error) {
	return s.listWhere(`c.approved = FALSE ORDER BY c.created_at ASC, c.id ASC`)
}

// ListForPost returns the approved comments of a post in creation order,
// with parent ids intact so callers can rebuild the reply tree.
func (s *CommentStore) ListForPost(postID int64) ([]models.Comment, error) {
	return s.listWhere(`c.approved = TRUE AND c.post_id = $1 ORDER BY c.created_at ASC, c.id ASC`, postID)
}

func (s *CommentStore) listWhere(clause string, args ...any) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.post_id, c.user_id, c.parent_id, c.approved, c.content_html, c.created_at,
		       u.name, u.email
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(
			&c.ID, &c.PostID, &c.UserID, &c.ParentID, &c.Approved, &c.ContentHTML, &c.CreatedAt,
			&c.AuthorName, &c.AuthorEmail,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
