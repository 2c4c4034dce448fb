// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"
)

// Comment is a threaded comment on a post. ContentHTML is rendered from the
// submitted markdown once, at write time. A comment surfaces publicly only
// after an admin flips Approved; new comments always start unapproved.
//
// ParentID points at an earlier comment on the same post. Parents must exist
// before their children are created and are never reassigned, so the
// parent/child relation can never form a cycle.
type Comment struct {
	ID          int64     `json:"id"`
	PostID      int64     `json:"post_id"`
	UserID      int64     `json:"user_id"`
	ParentID    *int64    `json:"parent_id,omitempty"`
	Approved    bool      `json:"approved"`
	ContentHTML string    `json:"content_html"`
	CreatedAt   time.Time `json:"created_at"`

	// AuthorName and AuthorEmail are joined in by store queries for display.
	AuthorName  string `json:"author_name,omitempty"`
	AuthorEmail string `json:"-"`
}

// CommentNode is a comment with its resolved replies, for rendering a thread.
type CommentNode struct {
	Comment
	Replies []*CommentNode `json:"replies,omitempty"`
}

// BuildCommentTree arranges a flat comment list into reply trees. Comments
// are indexed by id and parents resolved by plain lookup; a comment whose
// parent is absent from the input (e.g. the parent is still unapproved)
// is lifted to the top level rather than dropped. Sibling order follows
// the input order, so callers should pass comments sorted by creation time.
func BuildCommentTree(comments []Comment) []*CommentNode {
	arena := make(map[int64]*CommentNode, len(comments))
	for i := range comments {
		arena[comments[i].ID] = &CommentNode{Comment: comments[i]}
	}

	var roots []*CommentNode
	for i := range comments {
		node := arena[comments[i].ID]
		if node.ParentID != nil {
			if parent, ok := arena[*node.ParentID]; ok {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
