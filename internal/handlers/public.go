// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"relato/internal/cache"
	"relato/internal/mail"
	"relato/internal/markdown"
	"relato/internal/middleware"
	"relato/internal/models"
	"relato/internal/render"
	"relato/internal/search"
	"relato/internal/storage"
	"relato/internal/store"
)

// Public handles the visitor-facing routes. Every route runs under the
// locale middleware, so the language is already validated by the time a
// handler sees it.
type Public struct {
	posts        *store.PostStore
	comments     *store.CommentStore
	series       *store.SerieStore
	subscriptors *store.SubscriptorStore
	files        *storage.Store
	pages        *cache.PageCache
	indexer      search.Indexer
	notifier     mail.Notifier
}

// NewPublic creates the public handler group.
func NewPublic(
	posts *store.PostStore,
	comments *store.CommentStore,
	series *store.SerieStore,
	subscriptors *store.SubscriptorStore,
	files *storage.Store,
	pages *cache.PageCache,
	indexer search.Indexer,
	notifier mail.Notifier,
) *Public {
	return &Public{
		posts:        posts,
		comments:     comments,
		series:       series,
		subscriptors: subscriptors,
		files:        files,
		pages:        pages,
		indexer:      indexer,
		notifier:     notifier,
	}
}

// postSummary is the listing projection of one post in one locale.
type postSummary struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	SerieID     *int64    `json:"serie_id,omitempty"`
	SerieOrder  *int      `json:"serie_order,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// postPage is the full detail view: the summary plus the rendered body,
// the approved comment tree, and the slugs of this post in each locale.
type postPage struct {
	postSummary
	ContentHTML string                `json:"content_html"`
	Comments    []*models.CommentNode `json:"comments"`
	Alternates  map[string]string     `json:"alternates"`
}

// summarize projects a post into one locale. Returns nil when the post has
// no translation for that locale.
func summarize(p *models.Post, locale string) *postSummary {
	tr := p.Translation(locale)
	if tr == nil {
		return nil
	}
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, t.Name)
	}
	return &postSummary{
		ID:          p.ID,
		Slug:        tr.Slug,
		Title:       tr.Title,
		Description: tr.Description,
		Tags:        tags,
		CategoryID:  p.CategoryID,
		SerieID:     p.SerieID,
		SerieOrder:  p.SerieOrder,
		CreatedAt:   p.CreatedAt,
	}
}

func summarizeAll(posts []models.Post, locale string) []postSummary {
	out := make([]postSummary, 0, len(posts))
	for i := range posts {
		if s := summarize(&posts[i], locale); s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// writeCached sends a previously cached JSON body verbatim.
func writeCached(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(body)
}

// ListPosts serves the post listing for a locale, newest first. The body
// is cached in Valkey for a few minutes.
func (h *Public) ListPosts(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromCtx(r.Context())

	if body, ok := h.pages.Get(r.Context(), cache.ListKey(locale)); ok {
		writeCached(w, body)
		return
	}

	posts, err := h.posts.List()
	if err != nil {
		render.InternalError(w, err)
		return
	}

	body := render.Capture(map[string]any{"posts": summarizeAll(posts, locale)})
	h.pages.Set(r.Context(), cache.ListKey(locale), body)
	writeCached(w, body)
}

// ShowPost serves one post page: metadata, the markdown body rendered to
// HTML from the stored artifact, and the approved comment tree.
func (h *Public) ShowPost(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromCtx(r.Context())
	slug := chi.URLParam(r, "slug")

	if body, ok := h.pages.Get(r.Context(), cache.PostKey(locale, slug)); ok {
		writeCached(w, body)
		return
	}

	post, err := h.posts.FindBySlug(locale, slug)
	if err != nil {
		render.InternalError(w, err)
		return
	}
	if post == nil {
		render.NotFound(w)
		return
	}
	summary := summarize(post, locale)

	var contentHTML string
	if ref := post.Translation(locale).ContentRef; ref != "" {
		raw, err := h.files.Read(ref)
		if err != nil {
			render.InternalError(w, err)
			return
		}
		contentHTML, err = markdown.RenderPost(string(raw))
		if err != nil {
			render.InternalError(w, err)
			return
		}
	}

	comments, err := h.comments.ListForPost(post.ID)
	if err != nil {
		render.InternalError(w, err)
		return
	}

	alternates := make(map[string]string, len(post.Translations))
	for loc, tr := range post.Translations {
		alternates[loc] = tr.Slug
	}

	page := postPage{
		postSummary: *summary,
		ContentHTML: contentHTML,
		Comments:    models.BuildCommentTree(comments),
		Alternates:  alternates,
	}

	body := render.Capture(page)
	h.pages.Set(r.Context(), cache.PostKey(locale, slug), body)
	writeCached(w, body)
}

// SearchPosts answers a free-text query against the keyword index. Both
// locale indices are consulted, the requested locale first; slugs are
// de-duplicated and re-hydrated from the database, and slugs the index
// still carries for deleted posts simply drop out.
func (h *Public) SearchPosts(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromCtx(r.Context())
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		render.JSON(w, http.StatusOK, map[string]any{"posts": []postSummary{}})
		return
	}

	locales := []string{locale}
	for _, l := range models.SupportedLocales {
		if l != locale {
			locales = append(locales, l)
		}
	}

	seen := make(map[int64]bool)
	results := []postSummary{}
	for _, l := range locales {
		slugs, err := h.indexer.Search(r.Context(), l, query)
		if err != nil {
			slog.Error("search index query", "locale", l, "error", err)
			continue
		}
		for _, s := range search.Dedupe(slugs) {
			post, err := h.posts.FindBySlug(l, s)
			if err != nil {
				render.InternalError(w, err)
				return
			}
			if post == nil || seen[post.ID] {
				continue
			}
			seen[post.ID] = true
			if sum := summarize(post, locale); sum != nil {
				results = append(results, *sum)
			}
		}
	}

	render.JSON(w, http.StatusOK, map[string]any{"posts": results})
}

// SubmitComment accepts a visitor comment on a post. The comment goes in
// unapproved; the visitor gets a mail receipt and the admin a moderation
// alert, both best-effort.
func (h *Public) SubmitComment(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromCtx(r.Context())

	if err := r.ParseForm(); err != nil {
		render.Error(w, http.StatusBadRequest, "malformed form")
		return
	}
	name := strings.TrimSpace(r.PostFormValue("name"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	content := r.PostFormValue("content")
	slug := strings.TrimSpace(r.PostFormValue("slug"))

	fields := map[string]string{}
	postID, err := optionalInt64(r.PostFormValue("post_id"))
	if err != nil {
		fields["post_id"] = err.Error()
	}
	// The post is named by id, or by its slug in the request locale.
	if postID == nil && slug == "" {
		fields["post_id"] = "post_id is required"
	}
	if name == "" {
		fields["name"] = "name is required"
	}
	if !validEmail(email) {
		fields["email"] = "a valid email is required"
	}
	if strings.TrimSpace(content) == "" {
		fields["content"] = "comment text is required"
	}
	parentField := "comment_id"
	parentRaw := r.PostFormValue("comment_id")
	if parentRaw == "" {
		parentField = "parent_id"
		parentRaw = r.PostFormValue("parent_id")
	}
	parentID, err := optionalInt64(parentRaw)
	if err != nil {
		fields[parentField] = err.Error()
	}
	if len(fields) > 0 {
		render.ValidationError(w, fields, map[string]string{
			"name": name, "email": email, "content": content,
		})
		return
	}

	var post *models.Post
	if postID != nil {
		post, err = h.posts.FindByID(*postID)
	} else {
		post, err = h.posts.FindBySlug(locale, slug)
	}
	if err != nil {
		render.InternalError(w, err)
		return
	}
	if post == nil {
		render.NotFound(w)
		return
	}

	comment, err := h.comments.Submit(post.ID, name, email, content, parentID)
	switch {
	case err == store.ErrInvalidParent:
		render.Error(w, http.StatusUnprocessableEntity, "parent comment does not exist on this post")
		return
	case err == store.ErrNotFound:
		render.NotFound(w)
		return
	case err != nil:
		render.InternalError(w, err)
		return
	}

	title := post.Translation(locale).Title
	if err := h.notifier.CommentReceipt(r.Context(), email, title); err != nil {
		slog.Error("comment receipt mail", "error", err)
	}
	if err := h.notifier.ModerationAlert(r.Context(), title, name, excerpt(content)); err != nil {
		slog.Error("moderation alert mail", "error", err)
	}

	render.JSON(w, http.StatusCreated, map[string]any{
		"id":       comment.ID,
		"approved": comment.Approved,
	})
}

// Subscribe captures a mailing-list email.
func (h *Public) Subscribe(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	if !validEmail(email) {
		render.ValidationError(w,
			map[string]string{"email": "a valid email is required"},
			map[string]string{"email": email},
		)
		return
	}

	sub, err := h.subscriptors.Create(email)
	if err != nil {
		render.InternalError(w, err)
		return
	}
	render.JSON(w, http.StatusCreated, map[string]string{"email": sub.Email})
}

// Contact forwards a contact-form message to the site admin with reply-to
// set to the sender.
func (h *Public) Contact(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PostFormValue("name"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	message := strings.TrimSpace(r.PostFormValue("message"))

	fields := map[string]string{}
	if name == "" {
		fields["name"] = "name is required"
	}
	if !validEmail(email) {
		fields["email"] = "a valid email is required"
	}
	if message == "" {
		fields["message"] = "message is required"
	}
	if len(fields) > 0 {
		render.ValidationError(w, fields, map[string]string{
			"name": name, "email": email, "message": message,
		})
		return
	}

	if err := h.notifier.ContactMessage(r.Context(), name, email, message); err != nil {
		slog.Error("contact mail", "error", err)
	}
	render.JSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

// TagFilter lists the posts carrying a tag, in the request locale.
func (h *Public) TagFilter(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromCtx(r.Context())
	tag := chi.URLParam(r, "tag")

	posts, err := h.posts.ListByTag(tag)
	if err != nil {
		render.InternalError(w, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]any{
		"tag":   tag,
		"posts": summarizeAll(posts, locale),
	})
}

// SeriePosts lists a serie's posts in author order.
func (h *Public) SeriePosts(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromCtx(r.Context())
	id, err := idParam(r)
	if err != nil {
		render.NotFound(w)
		return
	}

	serie, err := h.series.FindByID(id)
	if err != nil {
		render.InternalError(w, err)
		return
	}
	if serie == nil {
		render.NotFound(w)
		return
	}

	posts, err := h.posts.ListBySerie(id)
	if err != nil {
		render.InternalError(w, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]any{
		"serie": map[string]any{"id": serie.ID, "name": serie.Name(locale)},
		"posts": summarizeAll(posts, locale),
	})
}

// excerpt trims comment content for the moderation alert mail.
func excerpt(content string) string {
	const max = 200
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "…"
}
