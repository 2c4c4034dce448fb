// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage persists uploaded markdown artifacts on the local
// filesystem. Database rows reference artifacts by their stored filename,
// so callers must save replacement files before deleting the ones a row
// still points at.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// unsafeChars matches everything not allowed in a stored filename.
var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Store writes and removes content artifacts under a single directory.
type Store struct {
	dir string
}

// New creates the artifact directory if needed and returns a Store for it.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage mkdir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// SanitizeFilename reduces an uploaded filename to a safe flat name:
// path components are stripped, spaces become underscores, and anything
// outside [A-Za-z0-9_.-] is dropped. Collisions between different uploads
// sanitizing to the same name are possible; the last write wins.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")
	return name
}

// Save stores the reader's content under the sanitized filename and returns
// the name the artifact was stored as. An existing artifact with the same
// name is overwritten.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return "", fmt.Errorf("storage save: unusable filename %q", filename)
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("storage create: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("storage write: %w", err)
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("storage sync: %w", err)
	}
	return name, nil
}

// Read returns the content of a stored artifact.
func (s *Store) Read(name string) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, SanitizeFilename(name)))
	if err != nil {
		return nil, fmt.Errorf("storage read: %w", err)
	}
	return b, nil
}

// Remove deletes a stored artifact. A missing artifact is not an error —
// removal runs after replacements are saved, and a retried cleanup must
// not fail the request.
func (s *Store) Remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, SanitizeFilename(name)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage remove: %w", err)
	}
	return nil
}

// Path returns the absolute location of a stored artifact.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, SanitizeFilename(name))
}
