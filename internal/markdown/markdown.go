// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts Markdown source text into HTML using goldmark.
// Post bodies are authored by trusted admins and rendered with raw HTML
// pass-through; visitor comments go through RenderComment, which escapes
// raw HTML and sanitizes the output.
package markdown

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// post renders trusted post bodies. Raw HTML passes through unchanged.
var post = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // Tables, strikethrough, autolinks, task lists
		extension.Typographer, // Smart quotes and dashes
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(), // Post authors are admins; keep their raw HTML blocks
	),
)

// comment renders untrusted visitor comments. No unsafe pass-through.
var comment = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// ugcPolicy strips anything bluemonday considers unsafe in user content.
var ugcPolicy = bluemonday.UGCPolicy()

// RenderPost converts a trusted markdown post body into HTML.
func RenderPost(source string) (string, error) {
	var buf bytes.Buffer
	if err := post.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderComment converts visitor-submitted markdown into sanitized HTML.
// Rendering happens once, at submission time; the stored HTML is served
// as-is afterwards.
func RenderComment(source string) (string, error) {
	var buf bytes.Buffer
	if err := comment.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return ugcPolicy.Sanitize(buf.String()), nil
}
