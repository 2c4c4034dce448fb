// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"strings"
	"testing"
)

func TestRenderPostBasic(t *testing.T) {
	out, err := RenderPost("# Title\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("RenderPost: %v", err)
	}
	if !strings.Contains(out, "<h1") {
		t.Errorf("expected heading in output: %q", out)
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("expected bold in output: %q", out)
	}
}

func TestRenderPostKeepsRawHTML(t *testing.T) {
	out, err := RenderPost("before\n\n<div class=\"aside\">kept</div>\n")
	if err != nil {
		t.Fatalf("RenderPost: %v", err)
	}
	if !strings.Contains(out, `<div class="aside">`) {
		t.Errorf("trusted raw HTML should pass through: %q", out)
	}
}

func TestRenderCommentSanitizes(t *testing.T) {
	out, err := RenderComment("hi <script>alert(1)</script>\n\n*ok*")
	if err != nil {
		t.Fatalf("RenderComment: %v", err)
	}
	if strings.Contains(out, "<script") {
		t.Errorf("script tag must not survive sanitization: %q", out)
	}
	if !strings.Contains(out, "<em>ok</em>") {
		t.Errorf("markdown formatting should survive: %q", out)
	}
}

func TestRenderCommentStripsEventHandlers(t *testing.T) {
	out, err := RenderComment(`[link](https://example.com) <img src=x onerror=alert(1)>`)
	if err != nil {
		t.Fatalf("RenderComment: %v", err)
	}
	if strings.Contains(out, "onerror") {
		t.Errorf("event handler must be stripped: %q", out)
	}
	if !strings.Contains(out, `href="https://example.com"`) {
		t.Errorf("plain link should survive: %q", out)
	}
}
