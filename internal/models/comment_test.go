// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"testing"
)

func ptr(v int64) *int64 { return &v }

func TestBuildCommentTreeFlat(t *testing.T) {
	comments := []Comment{
		{ID: 1, PostID: 10},
		{ID: 2, PostID: 10},
		{ID: 3, PostID: 10},
	}

	roots := BuildCommentTree(comments)
	if len(roots) != 3 {
		t.Fatalf("roots: got %d, want 3", len(roots))
	}
	for _, r := range roots {
		if len(r.Replies) != 0 {
			t.Errorf("comment %d: expected no replies, got %d", r.ID, len(r.Replies))
		}
	}
}

func TestBuildCommentTreeNested(t *testing.T) {
	comments := []Comment{
		{ID: 1, PostID: 10},
		{ID: 2, PostID: 10, ParentID: ptr(1)},
		{ID: 3, PostID: 10, ParentID: ptr(2)},
		{ID: 4, PostID: 10, ParentID: ptr(1)},
		{ID: 5, PostID: 10},
	}

	roots := BuildCommentTree(comments)
	if len(roots) != 2 {
		t.Fatalf("roots: got %d, want 2", len(roots))
	}

	first := roots[0]
	if first.ID != 1 {
		t.Fatalf("first root: got %d, want 1", first.ID)
	}
	if len(first.Replies) != 2 {
		t.Fatalf("replies of 1: got %d, want 2", len(first.Replies))
	}
	if first.Replies[0].ID != 2 || first.Replies[1].ID != 4 {
		t.Errorf("reply order: got %d,%d, want 2,4", first.Replies[0].ID, first.Replies[1].ID)
	}
	if len(first.Replies[0].Replies) != 1 || first.Replies[0].Replies[0].ID != 3 {
		t.Error("expected comment 3 nested under comment 2")
	}
}

func TestBuildCommentTreeMissingParentLiftsToTop(t *testing.T) {
	// Parent 99 is not in the input (e.g. still unapproved) — the child
	// must surface at the top level instead of vanishing.
	comments := []Comment{
		{ID: 1, PostID: 10},
		{ID: 2, PostID: 10, ParentID: ptr(99)},
	}

	roots := BuildCommentTree(comments)
	if len(roots) != 2 {
		t.Fatalf("roots: got %d, want 2", len(roots))
	}
}

func TestPostIsComplete(t *testing.T) {
	p := &Post{Translations: map[string]PostTranslation{
		LocaleEN: {Title: "Hello"},
	}}
	if p.IsComplete() {
		t.Error("post with only en translation must not be complete")
	}

	p.Translations[LocaleES] = PostTranslation{Title: "Hola"}
	if !p.IsComplete() {
		t.Error("post with en+es translations must be complete")
	}
}

func TestIsSupportedLocale(t *testing.T) {
	for _, l := range []string{"en", "es"} {
		if !IsSupportedLocale(l) {
			t.Errorf("locale %q should be supported", l)
		}
	}
	for _, l := range []string{"fr", "", "EN", "en-US"} {
		if IsSupportedLocale(l) {
			t.Errorf("locale %q should not be supported", l)
		}
	}
}

func TestSerieNameFallback(t *testing.T) {
	s := &Serie{Names: map[string]string{LocaleEN: "Go Basics", LocaleES: "Fundamentos de Go"}}
	if got := s.Name("es"); got != "Fundamentos de Go" {
		t.Errorf("es name: got %q", got)
	}
	s.Names = map[string]string{LocaleEN: "Go Basics"}
	if got := s.Name("es"); got != "Go Basics" {
		t.Errorf("fallback name: got %q", got)
	}
}
