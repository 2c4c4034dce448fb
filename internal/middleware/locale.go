// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"relato/internal/models"
)

const localeKey contextKey = "locale"

// Locale validates the {lang} URL segment against the supported locales
// and threads the value through the request context. Unknown languages
// 404 before any handler runs. The locale is an explicit parameter from
// here on — handlers and stores receive it, never read it from globals.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := chi.URLParam(r, "lang")
		if !models.IsSupportedLocale(lang) {
			http.NotFound(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), localeKey, lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LocaleFromCtx returns the validated locale for the request, defaulting
// to English when the route carries no {lang} segment.
func LocaleFromCtx(ctx context.Context) string {
	if l, ok := ctx.Value(localeKey).(string); ok {
		return l
	}
	return models.LocaleEN
}
