// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Command relato runs the bilingual blog server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"relato/internal/cache"
	"relato/internal/config"
	"relato/internal/database"
	"relato/internal/handlers"
	"relato/internal/mail"
	"relato/internal/router"
	"relato/internal/search"
	"relato/internal/session"
	"relato/internal/storage"
	"relato/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	if err := database.Seed(db); err != nil {
		return err
	}

	valkey, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return err
	}
	defer valkey.Close()

	sessions := session.NewStore(valkey, !cfg.IsDev())
	pages := cache.NewPageCache(valkey, cache.DefaultPageTTL)

	indexer, err := search.NewElastic(cfg.SearchAddr)
	if err != nil {
		return err
	}

	notifier, err := mail.NewSMTP(
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword,
		cfg.MailFrom, cfg.MailAdmin, cfg.SiteName,
	)
	if err != nil {
		return err
	}

	files, err := storage.New(cfg.UploadDir)
	if err != nil {
		return err
	}

	posts := store.NewPostStore(db)
	comments := store.NewCommentStore(db)
	tags := store.NewTagStore(db)
	categories := store.NewCategoryStore(db)
	series := store.NewSerieStore(db)
	users := store.NewUserStore(db)
	subscriptors := store.NewSubscriptorStore(db)

	public := handlers.NewPublic(posts, comments, series, subscriptors, files, pages, indexer, notifier)
	auth := handlers.NewAuth(users, sessions, cfg.SiteName)
	admin := handlers.NewAdmin(posts, comments, tags, categories, series, users, subscriptors, files, pages, indexer)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.New(public, auth, admin, sessions),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.Addr(), "env", cfg.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	return nil
}
