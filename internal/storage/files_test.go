// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"os"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"post.md", "post.md"},
		{"my post.md", "my_post.md"},
		{"../../etc/passwd", "passwd"},
		{"..\\..\\windows\\evil.md", "evil.md"},
		{"tildes-y-eñes.md", "tildes-y-ees.md"},
		{"...", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStoreSaveReadRemove(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	name, err := s.Save("first post.md", strings.NewReader("# hello"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if name != "first_post.md" {
		t.Errorf("stored name: got %q", name)
	}

	b, err := s.Read(name)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(b) != "# hello" {
		t.Errorf("content: got %q", b)
	}

	if err := s.Remove(name); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(s.Path(name)); !os.IsNotExist(err) {
		t.Error("artifact should be gone after Remove")
	}

	// Removing again is a no-op, not an error.
	if err := s.Remove(name); err != nil {
		t.Errorf("second Remove: %v", err)
	}
}

func TestStoreSaveRejectsUnusableName(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Save("...", strings.NewReader("x")); err == nil {
		t.Error("expected error for filename that sanitizes to nothing")
	}
}
