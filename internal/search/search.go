// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package search mirrors published post titles and descriptions into an
// external keyword index and answers free-text queries with ranked slugs.
// The index holds projections only; callers re-hydrate slugs into full
// posts from the relational store.
package search

import (
	"context"
	"strings"
	"time"
)

// Document is the per-locale projection of a post pushed into the index.
// ID is the translation's slug; title and description are lowercased so
// queries match case-insensitively.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewDocument builds the index projection for one translation.
func NewDocument(slug, title, description string) Document {
	return Document{
		ID:          slug,
		Title:       strings.ToLower(title),
		Description: strings.ToLower(description),
		Timestamp:   time.Now(),
	}
}

// Indexer is the contract the content side programs against. Implementations
// talk to the external search engine; failures are the caller's to log and
// swallow — indexing never rolls back a committed post save.
type Indexer interface {
	// IndexPost upserts a projection into the locale's index.
	IndexPost(ctx context.Context, locale string, doc Document) error

	// DeletePost removes a slug from the locale's index. Deleting a slug
	// that was never indexed is not an error.
	DeletePost(ctx context.Context, locale, slug string) error

	// Search returns slugs ranked by relevance over title and description
	// for a free-text query in the locale's index.
	Search(ctx context.Context, locale, query string) ([]string, error)
}

// IndexName returns the locale-scoped index a post projection lives in.
func IndexName(locale string) string {
	return "post_" + locale
}

// Dedupe removes repeated slugs, keeping first occurrences in order.
// Results merged from more than one locale index can carry duplicates.
func Dedupe(slugs []string) []string {
	seen := make(map[string]bool, len(slugs))
	out := slugs[:0]
	for _, s := range slugs {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
