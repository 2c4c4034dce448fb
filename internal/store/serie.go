// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"relato/internal/models"
)

// SerieStore manages series: author-ordered groupings of posts with
// per-locale names.
type SerieStore struct {
	db *sql.DB
}

// NewSerieStore returns a new SerieStore.
func NewSerieStore(db *sql.DB) *SerieStore {
	return &SerieStore{db: db}
}

// Create inserts a serie with its per-locale names in one transaction.
// Missing locales are allowed for series; Serie.Name falls back to English.
func (s *SerieStore) Create(names map[string]string) (*models.Serie, error) {
	if names[models.LocaleEN] == "" {
		return nil, fmt.Errorf("create serie: english name is required")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	serie := &models.Serie{Names: make(map[string]string, len(names))}
	if err := tx.QueryRow(`
		INSERT INTO series DEFAULT VALUES RETURNING id, created_at
	`).Scan(&serie.ID, &serie.CreatedAt); err != nil {
		return nil, fmt.Errorf("create serie: %w", err)
	}

	for _, locale := range models.SupportedLocales {
		name := names[locale]
		if name == "" {
			continue
		}
		if _, err := tx.Exec(`
			INSERT INTO serie_translations (serie_id, locale, name) VALUES ($1, $2, $3)
		`, serie.ID, locale, name); err != nil {
			return nil, fmt.Errorf("create serie name %s: %w", locale, err)
		}
		serie.Names[locale] = name
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit serie: %w", err)
	}
	return serie, nil
}

// FindByID retrieves a serie with all its names. Returns nil if not found.
func (s *SerieStore) FindByID(id int64) (*models.Serie, error) {
	serie := &models.Serie{}
	err := s.db.QueryRow(`SELECT id, created_at FROM series WHERE id = $1`, id).
		Scan(&serie.ID, &serie.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find serie by id: %w", err)
	}
	if err := s.loadNames(serie); err != nil {
		return nil, err
	}
	return serie, nil
}

// List returns all series with names hydrated, oldest first.
func (s *SerieStore) List() ([]models.Serie, error) {
	rows, err := s.db.Query(`SELECT id, created_at FROM series ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var series []models.Serie
	for rows.Next() {
		var serie models.Serie
		if err := rows.Scan(&serie.ID, &serie.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan serie: %w", err)
		}
		series = append(series, serie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range series {
		if err := s.loadNames(&series[i]); err != nil {
			return nil, err
		}
	}
	return series, nil
}

// AddPost assigns a post to the serie at the given order position.
// Order is author-assigned, not computed; duplicate orders are allowed
// and break by post id when listing.
func (s *SerieStore) AddPost(serieID, postID int64, order int) error {
	var exists int64
	if err := s.db.QueryRow(`SELECT id FROM series WHERE id = $1`, serieID).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("check serie: %w", err)
	}

	res, err := s.db.Exec(`
		UPDATE posts SET serie_id = $1, serie_order = $2 WHERE id = $3
	`, serieID, order, postID)
	if err != nil {
		return fmt.Errorf("add post to serie: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add post to serie rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SerieStore) loadNames(serie *models.Serie) error {
	rows, err := s.db.Query(`
		SELECT locale, name FROM serie_translations WHERE serie_id = $1
	`, serie.ID)
	if err != nil {
		return fmt.Errorf("load serie names: %w", err)
	}
	defer rows.Close()

	serie.Names = make(map[string]string)
	for rows.Next() {
		var locale, name string
		if err := rows.Scan(&locale, &name); err != nil {
			return fmt.Errorf("scan serie name: %w", err)
		}
		serie.Names[locale] = name
	}
	return rows.Err()
}
