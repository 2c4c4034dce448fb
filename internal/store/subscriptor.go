// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"relato/internal/models"
)

// SubscriptorStore captures mailing-list emails. Nothing else happens to
// them; there is no confirmation or unsubscribe lifecycle.
type SubscriptorStore struct {
	db *sql.DB
}

// NewSubscriptorStore returns a new SubscriptorStore.
func NewSubscriptorStore(db *sql.DB) *SubscriptorStore {
	return &SubscriptorStore{db: db}
}

// Create records a subscription email.
func (s *SubscriptorStore) Create(email string) (*models.Subscriptor, error) {
	var sub models.Subscriptor
	err := s.db.QueryRow(`
		INSERT INTO subscriptors (email) VALUES ($1)
		RETURNING id, email, created_at
	`, email).Scan(&sub.ID, &sub.Email, &sub.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create subscriptor: %w", err)
	}
	return &sub, nil
}

// List returns all captured emails, oldest first.
func (s *SubscriptorStore) List() ([]models.Subscriptor, error) {
	rows, err := s.db.Query(`SELECT id, email, created_at FROM subscriptors ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptors: %w", err)
	}
	defer rows.Close()

	var subs []models.Subscriptor
	for rows.Next() {
		var sub models.Subscriptor
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subscriptor: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
