// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"relato/internal/models"
	"relato/internal/slug"
)

// PostStore handles the language-neutral post envelope together with its
// per-locale translation rows and tag associations. Every save runs in a
// single transaction so a post never becomes visible with half its
// translations or a partial tag set.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// TranslationInput carries one locale's fields for a save. An empty
// ContentRef on update keeps the translation's existing artifact reference.
type TranslationInput struct {
	Title       string
	Description string
	ContentRef  string
}

// SaveInput is the unit of work for creating or updating a post. A nil ID
// creates; a non-nil ID updates the existing post or fails with ErrNotFound.
type SaveInput struct {
	ID         *int64
	AuthorID   int64
	CategoryID *int64
	SerieID    *int64
	SerieOrder *int
	TagIDs     []int64
	// Translations must contain an entry for every supported locale.
	Translations map[string]TranslationInput
}

// Save creates or updates a post with both locale translations and its tag
// set, atomically. Slugs are derived from the titles; a derived slug already
// held by a different post fails the whole save with ErrSlugConflict.
func (s *PostStore) Save(in SaveInput) (*models.Post, error) {
	// Both locales are a precondition for saving, and each needs a title
	// for the slug derivation to mean anything.
	for _, locale := range models.SupportedLocales {
		tr, ok := in.Translations[locale]
		if !ok || tr.Title == "" {
			return nil, ErrIncompleteTranslations
		}
	}

	slugs := make(map[string]string, len(models.SupportedLocales))
	for _, locale := range models.SupportedLocales {
		slugs[locale] = slug.Derive(in.Translations[locale].Title)
	}
	// The two locales of one post must not derive the same slug either;
	// slugs are unique across the whole translation table.
	if slugs[models.LocaleEN] == slugs[models.LocaleES] {
		return nil, ErrSlugConflict
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var postID int64
	if in.ID != nil {
		postID = *in.ID
		res, err := tx.Exec(`
			UPDATE posts SET user_id = $1, category_id = $2, serie_id = $3, serie_order = $4
			WHERE id = $5
		`, in.AuthorID, in.CategoryID, in.SerieID, in.SerieOrder, postID)
		if err != nil {
			return nil, fmt.Errorf("update post: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("update post rows: %w", err)
		}
		if n == 0 {
			return nil, ErrNotFound
		}
	} else {
		err := tx.QueryRow(`
			INSERT INTO posts (user_id, category_id, serie_id, serie_order)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, in.AuthorID, in.CategoryID, in.SerieID, in.SerieOrder).Scan(&postID)
		if err != nil {
			return nil, fmt.Errorf("create post: %w", err)
		}
	}

	for _, locale := range models.SupportedLocales {
		tr := in.Translations[locale]

		// The unique index on slug would also catch collisions, but the
		// pre-check turns them into a typed error instead of a raw
		// constraint violation.
		var holder int64
		err := tx.QueryRow(`
			SELECT post_id FROM post_translations WHERE slug = $1 AND post_id <> $2
		`, slugs[locale], postID).Scan(&holder)
		if err == nil {
			return nil, ErrSlugConflict
		}
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("check slug: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO post_translations (post_id, locale, title, description, slug, content_ref)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (post_id, locale) DO UPDATE SET
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				slug = EXCLUDED.slug,
				content_ref = CASE
					WHEN EXCLUDED.content_ref = '' THEN post_translations.content_ref
					ELSE EXCLUDED.content_ref
				END
		`, postID, locale, tr.Title, tr.Description, slugs[locale], tr.ContentRef)
		if err != nil {
			return nil, fmt.Errorf("save translation %s: %w", locale, err)
		}
	}

	// Replace the tag set wholesale; order is not meaningful.
	if _, err := tx.Exec(`DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return nil, fmt.Errorf("clear post tags: %w", err)
	}
	for _, tagID := range in.TagIDs {
		if _, err := tx.Exec(`
			INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, tagID); err != nil {
			return nil, fmt.Errorf("associate tag %d: %w", tagID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit post save: %w", err)
	}

	return s.FindByID(postID)
}

// FindByID retrieves a post with translations and tags. Returns nil if not found.
func (s *PostStore) FindByID(id int64) (*models.Post, error) {
	p := &models.Post{}
	err := s.db.QueryRow(`
		SELECT id, user_id, category_id, serie_id, serie_order, created_at
		FROM posts WHERE id = $1
	`, id).Scan(&p.ID, &p.AuthorID, &p.CategoryID, &p.SerieID, &p.SerieOrder, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	if err := s.hydrate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// FindBySlug retrieves the post owning the slug, with the translation for
// the given locale attached. The slug must belong to that locale's
// translation row. Returns nil if not found.
func (s *PostStore) FindBySlug(locale, slugKey string) (*models.Post, error) {
	var postID int64
	err := s.db.QueryRow(`
		SELECT post_id FROM post_translations WHERE slug = $1 AND locale = $2
	`, slugKey, locale).Scan(&postID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return s.FindByID(postID)
}

// List returns all posts, newest first, with translations and tags hydrated.
// No pagination: the public listing renders the full set.
func (s *PostStore) List() ([]models.Post, error) {
	return s.list(`SELECT id, user_id, category_id, serie_id, serie_order, created_at
		FROM posts ORDER BY created_at DESC, id DESC`)
}

// ListByTag returns posts carrying the named tag, newest first.
func (s *PostStore) ListByTag(tagName string) ([]models.Post, error) {
	return s.list(`
		SELECT p.id, p.user_id, p.category_id, p.serie_id, p.serie_order, p.created_at
		FROM posts p
		JOIN post_tags pt ON pt.post_id = p.id
		JOIN tags t ON t.id = pt.tag_id
		WHERE t.name = $1
		ORDER BY p.created_at DESC, p.id DESC
	`, tagName)
}

// ListBySerie returns a serie's posts ordered by the author-assigned
// serie_order, ascending, with unordered posts after all ordered ones.
// Ties break by post id ascending.
func (s *PostStore) ListBySerie(serieID int64) ([]models.Post, error) {
	return s.list(`
		SELECT id, user_id, category_id, serie_id, serie_order, created_at
		FROM posts WHERE serie_id = $1
		ORDER BY serie_order ASC NULLS LAST, id ASC
	`, serieID)
}

func (s *PostStore) list(query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.CategoryID, &p.SerieID, &p.SerieOrder, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range posts {
		if err := s.hydrate(&posts[i]); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

// hydrate loads the translation map and tag set onto a post envelope.
func (s *PostStore) hydrate(p *models.Post) error {
	trRows, err := s.db.Query(`
		SELECT id, post_id, locale, title, description, slug, content_ref
		FROM post_translations WHERE post_id = $1
	`, p.ID)
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}
	defer trRows.Close()

	p.Translations = make(map[string]models.PostTranslation, len(models.SupportedLocales))
	for trRows.Next() {
		var tr models.PostTranslation
		if err := trRows.Scan(&tr.ID, &tr.PostID, &tr.Locale, &tr.Title, &tr.Description, &tr.Slug, &tr.ContentRef); err != nil {
			return fmt.Errorf("scan translation: %w", err)
		}
		p.Translations[tr.Locale] = tr
	}
	if err := trRows.Err(); err != nil {
		return err
	}

	tagRows, err := s.db.Query(`
		SELECT t.id, t.name FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name
	`, p.ID)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer tagRows.Close()

	p.Tags = nil
	for tagRows.Next() {
		var t models.Tag
		if err := tagRows.Scan(&t.ID, &t.Name); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		p.Tags = append(p.Tags, t)
	}
	return tagRows.Err()
}

// Delete removes a post. Translations, tag associations, and comments go
// with it (ON DELETE CASCADE on their foreign keys). The content artifact
// references of the deleted translations are returned so the caller can
// remove the files after the rows are gone.
func (s *PostStore) Delete(id int64) ([]string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`
		SELECT content_ref FROM post_translations WHERE post_id = $1 AND content_ref <> ''
	`, id)
	if err != nil {
		return nil, fmt.Errorf("collect content refs: %w", err)
	}
	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan content ref: %w", err)
		}
		refs = append(refs, ref)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	res, err := tx.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("delete post rows: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit post delete: %w", err)
	}
	return refs, nil
}
