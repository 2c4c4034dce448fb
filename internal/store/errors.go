// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import "errors"

// Sentinel errors returned by store mutations. Finders report a missing row
// as (nil, nil); mutations on rows that must exist return ErrNotFound.
var (
	// ErrNotFound is returned when a mutation targets a row that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSlugConflict is returned when a derived slug is already taken by a
	// different post, in any locale. Slugs are globally unique URL keys.
	ErrSlugConflict = errors.New("slug already in use by another post")

	// ErrInvalidParent is returned when a comment names a parent that does
	// not exist or belongs to a different post.
	ErrInvalidParent = errors.New("parent comment missing or on another post")

	// ErrIncompleteTranslations is returned when a post save is missing a
	// translation for a supported locale. Both locales are a precondition
	// for saving.
	ErrIncompleteTranslations = errors.New("post requires a translation for every supported locale")
)
