// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives the human-readable URL key for a post translation
// from its title.
package slug

import (
	"strings"
)

// Derive produces the URL key for a title: lowercased, with every space
// replaced by a hyphen. Each space maps to its own hyphen, so titles that
// differ only in run length ("A B" vs "A  B") derive distinct slugs. The
// derivation is deterministic — the same title always maps to the same
// slug, which is what makes the global uniqueness check in the post store
// meaningful. Handlers trim titles before saving, so leading and trailing
// spaces never reach the derivation.
// Example: "My First Post" → "my-first-post"
func Derive(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}
