// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"relato/internal/models"
)

// emailPattern is deliberately loose; the point is catching obvious typos,
// not RFC conformance.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// idParam parses the {id} URL segment as a positive int64.
func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return id, nil
}

// optionalInt64 parses a form field into a nullable id. An empty or "0"
// value means absent.
func optionalInt64(v string) (*int64, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == "0" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("must be a positive integer")
	}
	return &n, nil
}

// optionalInt parses a form field into a nullable int, for serie_order.
func optionalInt(v string) (*int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("must be an integer")
	}
	return &n, nil
}

// validateTranslation checks one locale's title and description fields,
// appending messages to the fields map keyed by the suffixed form name.
func validateTranslation(fields map[string]string, locale, title, description string) {
	if strings.TrimSpace(title) == "" {
		fields["title_"+locale] = "title is required"
	}
	if len([]rune(description)) > models.MaxDescriptionLen {
		fields["description_"+locale] = fmt.Sprintf("must be at most %d characters", models.MaxDescriptionLen)
	}
}
