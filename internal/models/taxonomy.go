// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"
)

// Tag is a free-form label. Posts and tags are many-to-many.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Category is a coarse grouping; a post has at most one.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Serie is an author-ordered collection of posts. Its name is translated
// per locale, like post content.
type Serie struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Names maps locale code to the serie name in that language.
	Names map[string]string `json:"names,omitempty"`
}

// Name returns the serie name for the locale, falling back to English
// when the requested translation is missing.
func (s *Serie) Name(locale string) string {
	if n, ok := s.Names[locale]; ok && n != "" {
		return n
	}
	return s.Names[LocaleEN]
}

// Subscriptor is a bare mailing-list email capture. No further lifecycle.
type Subscriptor struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
