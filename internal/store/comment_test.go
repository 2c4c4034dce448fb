// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"fmt"
	"strings"
	"testing"
)

func TestCommentSubmitAutoProvisions(t *testing.T) {
	db := testDB(t)
	author := createTestUser(t, db)
	post := createTestPost(t, db, author.ID)
	comments := NewCommentStore(db)
	users := NewUserStore(db)

	email := fmt.Sprintf("reader-%s@example.com", uniqueSuffix())
	c, err := comments.Submit(post.ID, "Reader", email, "**bold** remark", nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	t.Cleanup(func() { db.Exec(`DELETE FROM users WHERE id = $1`, c.UserID) })

	if c.Approved {
		t.Error("new comment must start unapproved")
	}
	if !strings.Contains(c.ContentHTML, "<strong>bold</strong>") {
		t.Errorf("content not rendered: %q", c.ContentHTML)
	}

	u, err := users.FindByEmail(email)
	if err != nil {
		t.Fatalf("find commenter: %v", err)
	}
	if u == nil {
		t.Fatal("commenter was not provisioned")
	}
	if u.HasPassword() {
		t.Error("provisioned commenter has a password hash")
	}
	if users.CheckPassword(u, "anything") {
		t.Error("password check passed for an account without a hash")
	}

	// A second comment from the same email reuses the account.
	c2, err := comments.Submit(post.ID, "Reader", email, "again", nil)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if c2.UserID != c.UserID {
		t.Error("same email provisioned twice")
	}
}

func TestCommentSubmitMissingPost(t *testing.T) {
	db := testDB(t)
	comments := NewCommentStore(db)

	_, err := comments.Submit(-1, "Reader", "nobody@example.com", "hello", nil)
	if err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCommentInvalidParent(t *testing.T) {
	db := testDB(t)
	author := createTestUser(t, db)
	post := createTestPost(t, db, author.ID)
	other := createTestPost(t, db, author.ID)
	comments := NewCommentStore(db)

	email := fmt.Sprintf("reader-%s@example.com", uniqueSuffix())

	missing := int64(-1)
	_, err := comments.Submit(post.ID, "Reader", email, "reply to nothing", &missing)
	if err != ErrInvalidParent {
		t.Errorf("missing parent: err = %v, want ErrInvalidParent", err)
	}

	onOther, err := comments.Submit(other.ID, "Reader", email, "top level", nil)
	if err != nil {
		t.Fatalf("submit on other post: %v", err)
	}
	t.Cleanup(func() { db.Exec(`DELETE FROM users WHERE id = $1`, onOther.UserID) })

	_, err = comments.Submit(post.ID, "Reader", email, "cross-post reply", &onOther.ID)
	if err != ErrInvalidParent {
		t.Errorf("cross-post parent: err = %v, want ErrInvalidParent", err)
	}
}

func TestCommentApprove(t *testing.T) {
	db := testDB(t)
	author := createTestUser(t, db)
	post := createTestPost(t, db, author.ID)
	comments := NewCommentStore(db)

	email := fmt.Sprintf("reader-%s@example.com", uniqueSuffix())
	c, err := comments.Submit(post.ID, "Reader", email, "approve me", nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	t.Cleanup(func() { db.Exec(`DELETE FROM users WHERE id = $1`, c.UserID) })

	if err := comments.Approve(c.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	// Idempotent: approving again is not an error.
	if err := comments.Approve(c.ID); err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	if err := comments.Approve(-1); err != ErrNotFound {
		t.Errorf("approve missing: err = %v, want ErrNotFound", err)
	}

	got, err := comments.FindByID(c.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !got.Approved {
		t.Error("comment not approved")
	}
	if got.AuthorEmail != email {
		t.Errorf("author email = %q, want %q", got.AuthorEmail, email)
	}
}

func TestCommentListForPostApprovedOnly(t *testing.T) {
	db := testDB(t)
	author := createTestUser(t, db)
	post := createTestPost(t, db, author.ID)
	comments := NewCommentStore(db)

	email := fmt.Sprintf("reader-%s@example.com", uniqueSuffix())
	visible, err := comments.Submit(post.ID, "Reader", email, "first", nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	t.Cleanup(func() { db.Exec(`DELETE FROM users WHERE id = $1`, visible.UserID) })

	reply, err := comments.Submit(post.ID, "Reader", email, "a reply", &visible.ID)
	if err != nil {
		t.Fatalf("submit reply: %v", err)
	}
	hidden, err := comments.Submit(post.ID, "Reader", email, "pending", nil)
	if err != nil {
		t.Fatalf("submit pending: %v", err)
	}

	for _, id := range []int64{visible.ID, reply.ID} {
		if err := comments.Approve(id); err != nil {
			t.Fatalf("approve: %v", err)
		}
	}

	listed, err := comments.ListForPost(post.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("listed %d comments, want 2 approved", len(listed))
	}
	if listed[0].ID != visible.ID || listed[1].ID != reply.ID {
		t.Error("comments not in creation order")
	}
	if listed[1].ParentID == nil || *listed[1].ParentID != visible.ID {
		t.Error("reply lost its parent id")
	}

	pending, err := comments.ListPending()
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	var found bool
	for _, c := range pending {
		if c.ID == hidden.ID {
			found = true
		}
		if c.Approved {
			t.Error("approved comment in the pending list")
		}
	}
	if !found {
		t.Error("pending comment missing from moderation list")
	}
}
