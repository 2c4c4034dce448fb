// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"strings"
	"testing"

	"relato/internal/models"
)

func TestPostSaveDerivesSlugs(t *testing.T) {
	db := testDB(t)
	author := createTestUser(t, db)
	post := createTestPost(t, db, author.ID)

	if !post.IsComplete() {
		t.Fatal("saved post is not complete")
	}
	en := post.Translation(models.LocaleEN)
	if !strings.HasPrefix(en.Slug, "first-steps-") {
		t.Errorf("en slug = %q, want first-steps-* prefix", en.Slug)
	}
	es := post.Translation(models.LocaleES)
	if !strings.HasPrefix(es.Slug, "primeros-pasos-") {
		t.Errorf("es slug = %q, want primeros-pasos-* prefix", es.Slug)
	}

	posts := NewPostStore(db)
	found, err := posts.FindBySlug(models.LocaleES, es.Slug)
	if err != nil {
		t.Fatalf("find by slug: %v", err)
	}
	if found == nil || found.ID != post.ID {
		t.Error("post not findable by its Spanish slug")
	}

	// The slug belongs to its locale; looking it up under the other one
	// must miss.
	wrong, err := posts.FindBySlug(models.LocaleEN, es.Slug)
	if err != nil {
		t.Fatalf("find by slug: %v", err)
	}
	if wrong != nil {
		t.Error("Spanish slug resolved under the English locale")
	}
}

func TestPostSaveIncompleteTranslations(t *testing.T) {
	db := testDB(t)
	author := createTestUser(t, db)
	posts := NewPostStore(db)

	_, err := posts.Save(SaveInput{
		AuthorID: author.ID,
		Translations: map[string]TranslationInput{
			models.LocaleEN: {Title: "Only English", Description: "half a post"},
		},
	})
	if err != ErrIncompleteTranslations {
		t.Errorf("err = %v, want ErrIncompleteTranslations", err)
	}
}

func TestPostSaveSlugConflict(t *testing.T) {
	db := testDB(t)
	author := createTestUser(t, db)
	posts := NewPostStore(db)
	first := createTestPost(t, db, author.ID)

	// A second post whose English title derives the same slug as the
	// first post's English translation.
	_, err := posts.Save(SaveInput{
		AuthorID: author.ID,
		Translations: map[string]TranslationInput{
			models.LocaleEN: {Title: first.Translation(models.LocaleEN).Title},
			models.LocaleES: {Title: "Algo Completamente Distinto " + uniqueSuffix()},
		},
	})
	if err != ErrSlugConflict {
		t.Errorf("cross-post conflict: err = %v, want ErrSlugConflict", err)
	}

	// Both locales of one post deriving the same slug is a conflict too.
	_, err = posts.Save(SaveInput{
		AuthorID: author.ID,
		Translations: map[string]TranslationInput{
			models.LocaleEN: {Title: "Identical Title"},
			models.LocaleES: {Title: "Identical Title"},
		},
	})
	if err != ErrSlugConflict {
		t.Errorf("same-post conflict: err = %v, want ErrSlugConflict", err)
	}
}

func TestPostUpdateKeepsContentRefWhenEmpty(t *testing.T) {
	db := testDB(t)
	author := createTestUser(t, db)
	post := createTestPost(t, db, author.ID)
	posts := NewPostStore(db)

	oldRef := post.Translation(models.LocaleEN).ContentRef
	updated, err := posts.Save(SaveInput{
		ID:       &post.ID,
		AuthorID: author.ID,
		Translations: map[string]TranslationInput{
			models.LocaleEN: {
				Title:       post.Translation(models.LocaleEN).Title,
				Description: "revised description",
				// Empty ContentRef: keep the existing artifact.
			},
			models.LocaleES: {
				Title:       post.Translation(models.LocaleES).Title,
				Description: post.Translation(models.LocaleES).Description,
				ContentRef:  "replacement.md",
			},
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	en := updated.Translation(models.LocaleEN)
	if en.ContentRef != oldRef {
		t.Errorf("en content ref = %q, want untouched %q", en.ContentRef, oldRef)
	}
	if en.Description != "revised description" {
		t.Errorf("en description = %q, not updated", en.Description)
	}
	if es := updated.Translation(models.LocaleES); es.ContentRef != "replacement.md" {
		t.Errorf("es content ref = %q, want replacement.md", es.ContentRef)
	}
}

func TestPostUpdateMissing(t *testing.T) {
	db := testDB(t)
	author := createTestUser(t, db)
	posts := NewPostStore(db)

	missing := int64(-1)
	_, err := posts.Save(SaveInput{
		ID:       &missing,
		AuthorID: author.ID,
		Translations: map[string]TranslationInput{
			models.LocaleEN: {Title: "Ghost " + uniqueSuffix()},
			models.LocaleES: {Title: "Fantasma " + uniqueSuffix()},
		},
	})
	if err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPostTags(t *testing.T) {
	db := testDB(t)
	author := createTestUser(t, db)
	posts := NewPostStore(db)
	tags := NewTagStore(db)

	name := "golang-" + uniqueSuffix()
	tag, err := tags.Create(name)
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	t.Cleanup(func() { db.Exec(`DELETE FROM tags WHERE id = $1`, tag.ID) })

	post := createTestPost(t, db, author.ID)
	updated, err := posts.Save(SaveInput{
		ID:       &post.ID,
		AuthorID: author.ID,
		TagIDs:   []int64{tag.ID},
		Translations: map[string]TranslationInput{
			models.LocaleEN: {Title: post.Translation(models.LocaleEN).Title},
			models.LocaleES: {Title: post.Translation(models.LocaleES).Title},
		},
	})
	if err != nil {
		t.Fatalf("update with tags: %v", err)
	}
	if len(updated.Tags) != 1 || updated.Tags[0].Name != name {
		t.Fatalf("tags = %v, want [%s]", updated.Tags, name)
	}

	byTag, err := posts.ListByTag(name)
	if err != nil {
		t.Fatalf("list by tag: %v", err)
	}
	if len(byTag) != 1 || byTag[0].ID != post.ID {
		t.Errorf("list by tag returned %d posts", len(byTag))
	}
}

func TestPostDeleteReturnsRefsAndCascades(t *testing.T) {
	db := testDB(t)
	author := createTestUser(t, db)
	post := createTestPost(t, db, author.ID)
	posts := NewPostStore(db)
	comments := NewCommentStore(db)

	c, err := comments.Submit(post.ID, "Visitor", "visitor-"+uniqueSuffix()+"@example.com", "nice post", nil)
	if err != nil {
		t.Fatalf("submit comment: %v", err)
	}
	t.Cleanup(func() { db.Exec(`DELETE FROM users WHERE id = $1`, c.UserID) })

	refs, err := posts.Delete(post.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(refs) != 2 {
		t.Errorf("refs = %v, want the two content refs", refs)
	}

	gone, err := comments.FindByID(c.ID)
	if err != nil {
		t.Fatalf("find comment: %v", err)
	}
	if gone != nil {
		t.Error("comment survived post deletion")
	}

	if _, err := posts.Delete(post.ID); err != ErrNotFound {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestListBySerieOrdering(t *testing.T) {
	db := testDB(t)
	author := createTestUser(t, db)
	posts := NewPostStore(db)
	series := NewSerieStore(db)

	serie, err := series.Create(map[string]string{models.LocaleEN: "Walkthrough " + uniqueSuffix()})
	if err != nil {
		t.Fatalf("create serie: %v", err)
	}
	t.Cleanup(func() { db.Exec(`DELETE FROM series WHERE id = $1`, serie.ID) })

	a := createTestPost(t, db, author.ID)
	b := createTestPost(t, db, author.ID)
	c := createTestPost(t, db, author.ID)

	if err := series.AddPost(serie.ID, a.ID, 2); err != nil {
		t.Fatalf("add post: %v", err)
	}
	if err := series.AddPost(serie.ID, b.ID, 1); err != nil {
		t.Fatalf("add post: %v", err)
	}
	// c joins the serie with no order assigned; it sorts after the
	// ordered posts.
	if _, err := db.Exec(`UPDATE posts SET serie_id = $1 WHERE id = $2`, serie.ID, c.ID); err != nil {
		t.Fatalf("join serie: %v", err)
	}

	got, err := posts.ListBySerie(serie.ID)
	if err != nil {
		t.Fatalf("list by serie: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d posts, want 3", len(got))
	}
	wantOrder := []int64{b.ID, a.ID, c.ID}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Errorf("position %d: post %d, want %d", i, got[i].ID, want)
		}
	}
}
