// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"relato/internal/models"
)

// TagStore manages tags. Names are unique; creating an existing name
// returns the existing tag instead of a duplicate.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// Create inserts a tag, or returns the existing one with the same name.
func (s *TagStore) Create(name string) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRow(`
		INSERT INTO tags (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`, name).Scan(&t.ID, &t.Name)
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return &t, nil
}

// FindByName retrieves a tag by its exact name. Returns nil if not found.
func (s *TagStore) FindByName(name string) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRow(`SELECT id, name FROM tags WHERE name = $1`, name).Scan(&t.ID, &t.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by name: %w", err)
	}
	return &t, nil
}

// List returns all tags ordered by name.
func (s *TagStore) List() ([]models.Tag, error) {
	rows, err := s.db.Query(`SELECT id, name FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
