// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router assembles the HTTP route tree.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"relato/internal/handlers"
	"relato/internal/middleware"
	"relato/internal/render"
	"relato/internal/session"
)

// commentRateLimit bounds comment and contact submissions per client IP.
const (
	commentRateLimit  = 5
	commentRateWindow = time.Minute
)

// New builds the application router. Public content routes live under a
// validated /{lang} prefix; the authoring and moderation surface sits
// behind the admin gate and answers 404 to anyone else.
func New(
	public *handlers.Public,
	auth *handlers.Auth,
	admin *handlers.Admin,
	sessions *session.Store,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessions))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/login", auth.Login)
	r.Post("/logout", auth.Logout)

	submitLimiter := middleware.NewRateLimiter(commentRateLimit, commentRateWindow)

	r.Route("/{lang}", func(r chi.Router) {
		r.Use(middleware.Locale)

		r.Get("/posts", public.ListPosts)
		r.Get("/posts/search", public.SearchPosts)
		r.Get("/posts/{slug}", public.ShowPost)
		r.With(submitLimiter.Middleware).Post("/posts/comment", public.SubmitComment)
		r.With(submitLimiter.Middleware).Post("/contact", public.Contact)
		r.Post("/subscribe", public.Subscribe)
		r.Get("/tags/{tag}", public.TagFilter)
		r.Get("/series/{id}/posts", public.SeriePosts)

		// Post authoring keeps its historical URL under the language
		// prefix even though one form carries both locales.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Use(middleware.CSRF)
			r.Post("/posts/create", admin.PostSave)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		// 2FA setup and verify need a session but not a completed code
		// check, or nobody could ever enroll or verify.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.CSRF)
			r.Post("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/verify", auth.TwoFAVerify)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Use(middleware.CSRF)

			r.Get("/posts/all", admin.PostsAll)
			r.Get("/posts/delete/{id}", admin.PostDelete)
			r.Get("/comments/all", admin.CommentsPending)
			r.Get("/comments/approve/{id}", admin.CommentApprove)
			r.Get("/users/all", admin.UsersList)
			r.Get("/tags", admin.TagsAll)
			r.Post("/tags", admin.TagCreate)
			r.Get("/categories", admin.CategoriesAll)
			r.Post("/categories", admin.CategoryCreate)
			r.Get("/series/all", admin.SeriesAll)
			r.Post("/series", admin.SerieCreate)
			r.Get("/series/{id}/posts", admin.SeriePosts)
			r.Get("/subscriptors", admin.SubscriptorsAll)
		})
	})

	return r
}
