// Package database opens the Postgres pool the blog's stores share and
// brings the schema up to date with goose. Migrations are embedded, so a
// fresh deployment only needs the database credentials.
package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var embedMigrations embed.FS

// Connect opens the Postgres pool for the given DSN and verifies it with a
// ping before handing it out.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	slog.Info("postgres connected")
	return db, nil
}

// Migrate applies pending migrations from the embedded SQL files. Running
// it against an up-to-date schema is a no-op, so it is safe on every boot
// and in the integration test helpers.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	slog.Info("blog schema migrated")
	return nil
}
