// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"relato/internal/database"
	"relato/internal/models"
)

var testSeq atomic.Int64

// testDB connects to the integration database, running migrations once.
// Tests skip when Postgres is not reachable so the unit suite stays green
// on machines without the compose stack.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "relato")
	password := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "relato_test")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
	db, err := database.Connect(dsn)
	if err != nil {
		t.Skipf("postgres not reachable, skipping: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// uniqueSuffix keeps fixture emails and titles from colliding across test
// runs against a shared database.
func uniqueSuffix() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), testSeq.Add(1))
}

// createTestUser inserts a password-bearing account and removes it again
// when the test finishes.
func createTestUser(t *testing.T, db *sql.DB) *models.User {
	t.Helper()

	users := NewUserStore(db)
	email := fmt.Sprintf("author-%s@example.com", uniqueSuffix())
	u, err := users.Create(email, "s3cret-pass", "Test Author", false)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() {
		db.Exec(`DELETE FROM users WHERE id = $1`, u.ID)
	})
	return u
}

// createTestPost saves a complete bilingual post and removes it (and its
// cascade) when the test finishes.
func createTestPost(t *testing.T, db *sql.DB, authorID int64) *models.Post {
	t.Helper()

	suffix := uniqueSuffix()
	posts := NewPostStore(db)
	p, err := posts.Save(SaveInput{
		AuthorID: authorID,
		Translations: map[string]TranslationInput{
			models.LocaleEN: {
				Title:       "First Steps " + suffix,
				Description: "An opening post",
				ContentRef:  "first-steps-" + suffix + ".md",
			},
			models.LocaleES: {
				Title:       "Primeros Pasos " + suffix,
				Description: "Una entrada inaugural",
				ContentRef:  "primeros-pasos-" + suffix + ".md",
			},
		},
	})
	if err != nil {
		t.Fatalf("create test post: %v", err)
	}
	t.Cleanup(func() {
		db.Exec(`DELETE FROM posts WHERE id = $1`, p.ID)
	})
	return p
}
