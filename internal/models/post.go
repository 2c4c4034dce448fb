// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"
)

// Supported locale codes. Every post must carry one translation per locale
// before it is publicly visible.
const (
	LocaleEN = "en"
	LocaleES = "es"
)

// SupportedLocales lists the locales a post translates into, in display order.
var SupportedLocales = []string{LocaleEN, LocaleES}

// IsSupportedLocale reports whether code is a locale the platform serves.
func IsSupportedLocale(code string) bool {
	for _, l := range SupportedLocales {
		if l == code {
			return true
		}
	}
	return false
}

// Post is the language-neutral envelope for a blog entry. It owns no readable
// fields of its own; titles, descriptions, and content references live in the
// per-locale translation rows.
type Post struct {
	ID         int64     `json:"id"`
	AuthorID   int64     `json:"author_id"`
	CategoryID *int64    `json:"category_id,omitempty"`
	SerieID    *int64    `json:"serie_id,omitempty"`
	SerieOrder *int      `json:"serie_order,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	// Translations maps locale code to the translation row. Populated by
	// store methods; a complete post has one entry per supported locale.
	Translations map[string]PostTranslation `json:"translations,omitempty"`

	// Tags associated with the post, unordered. Populated by store methods.
	Tags []Tag `json:"tags,omitempty"`
}

// Translation returns the row for the given locale, or nil when missing.
func (p *Post) Translation(locale string) *PostTranslation {
	if t, ok := p.Translations[locale]; ok {
		return &t
	}
	return nil
}

// IsComplete reports whether the post carries a translation for every
// supported locale. Incomplete posts must not be publicly visible.
func (p *Post) IsComplete() bool {
	for _, l := range SupportedLocales {
		if _, ok := p.Translations[l]; !ok {
			return false
		}
	}
	return true
}

// PostTranslation is one (post, locale) row: the readable face of a post in
// a single language. Slug is the URL key, unique across all locales.
// ContentRef names the markdown artifact stored on disk.
type PostTranslation struct {
	ID          int64  `json:"id"`
	PostID      int64  `json:"post_id"`
	Locale      string `json:"locale"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
	ContentRef  string `json:"content_ref"`
}

// MaxDescriptionLen caps the translation description field.
const MaxDescriptionLen = 180
