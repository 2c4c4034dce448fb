// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"relato/internal/cache"
	"relato/internal/middleware"
	"relato/internal/models"
	"relato/internal/render"
	"relato/internal/search"
	"relato/internal/storage"
	"relato/internal/store"
)

// maxUploadBytes bounds the multipart post form, markdown files included.
const maxUploadBytes = 16 << 20

// Admin handles the authoring and moderation surface. Every route is
// behind the admin gate, which answers 404 to anyone else.
type Admin struct {
	posts        *store.PostStore
	comments     *store.CommentStore
	tags         *store.TagStore
	categories   *store.CategoryStore
	series       *store.SerieStore
	users        *store.UserStore
	subscriptors *store.SubscriptorStore
	files        *storage.Store
	pages        *cache.PageCache
	indexer      search.Indexer
}

// NewAdmin creates the admin handler group.
func NewAdmin(
	posts *store.PostStore,
	comments *store.CommentStore,
	tags *store.TagStore,
	categories *store.CategoryStore,
	series *store.SerieStore,
	users *store.UserStore,
	subscriptors *store.SubscriptorStore,
	files *storage.Store,
	pages *cache.PageCache,
	indexer search.Indexer,
) *Admin {
	return &Admin{
		posts:        posts,
		comments:     comments,
		tags:         tags,
		categories:   categories,
		series:       series,
		users:        users,
		subscriptors: subscriptors,
		files:        files,
		pages:        pages,
		indexer:      indexer,
	}
}

// PostSave creates or updates a post from a multipart form carrying both
// locales: title_<locale>, description_<locale>, and an optional markdown
// file upload content_<locale>. New files are written to storage before
// the database save; replaced files are removed only after the save
// commits. On a failed save the just-written files are cleaned up again.
func (h *Admin) PostSave(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		render.Error(w, http.StatusBadRequest, "malformed multipart form")
		return
	}

	postID, err := optionalInt64(r.PostFormValue("id"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid post id")
		return
	}

	fields := map[string]string{}
	values := map[string]string{}
	translations := make(map[string]store.TranslationInput, len(models.SupportedLocales))
	for _, locale := range models.SupportedLocales {
		title := strings.TrimSpace(r.PostFormValue("title_" + locale))
		description := strings.TrimSpace(r.PostFormValue("description_" + locale))
		validateTranslation(fields, locale, title, description)
		values["title_"+locale] = title
		values["description_"+locale] = description
		translations[locale] = store.TranslationInput{Title: title, Description: description}
	}

	categoryID, err := optionalInt64(r.PostFormValue("category_id"))
	if err != nil {
		fields["category_id"] = err.Error()
	}
	serieID, err := optionalInt64(r.PostFormValue("serie_id"))
	if err != nil {
		fields["serie_id"] = err.Error()
	}
	serieOrder, err := optionalInt(r.PostFormValue("serie_order"))
	if err != nil {
		fields["serie_order"] = err.Error()
	}
	if len(fields) > 0 {
		render.ValidationError(w, fields, values)
		return
	}

	// Resolve tag names to rows; creation is idempotent so re-submitting
	// an existing tag name just reuses it.
	var tagIDs []int64
	for _, name := range r.PostForm["tags"] {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag, err := h.tags.Create(name)
		if err != nil {
			render.InternalError(w, err)
			return
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	// On update, remember the previous state so replaced artifacts can be
	// removed and stale cache keys and index entries dropped afterwards.
	var previous *models.Post
	if postID != nil {
		previous, err = h.posts.FindByID(*postID)
		if err != nil {
			render.InternalError(w, err)
			return
		}
		if previous == nil {
			render.NotFound(w)
			return
		}
	}

	// Write uploaded markdown files before touching the database. An empty
	// ContentRef tells the store to keep the translation's existing file.
	var written []string
	for _, locale := range models.SupportedLocales {
		file, header, err := r.FormFile("content_" + locale)
		if err == http.ErrMissingFile {
			if postID == nil {
				fields["content_"+locale] = "a markdown file is required"
			}
			continue
		}
		if err != nil {
			render.Error(w, http.StatusBadRequest, "broken file upload")
			return
		}
		name := storage.SanitizeFilename(header.Filename)
		ref, err := h.files.Save(name, file)
		file.Close()
		if err != nil {
			render.InternalError(w, err)
			return
		}
		written = append(written, ref)
		tr := translations[locale]
		tr.ContentRef = ref
		translations[locale] = tr
	}
	if len(fields) > 0 {
		h.removeFiles(written)
		render.ValidationError(w, fields, values)
		return
	}

	post, err := h.posts.Save(store.SaveInput{
		ID:           postID,
		AuthorID:     sess.UserID,
		CategoryID:   categoryID,
		SerieID:      serieID,
		SerieOrder:   serieOrder,
		TagIDs:       tagIDs,
		Translations: translations,
	})
	switch {
	case err == store.ErrSlugConflict:
		h.removeFiles(written)
		render.Error(w, http.StatusConflict, "a post with this title already exists")
		return
	case err == store.ErrIncompleteTranslations:
		h.removeFiles(written)
		render.Error(w, http.StatusUnprocessableEntity, "both language versions are required")
		return
	case err == store.ErrNotFound:
		h.removeFiles(written)
		render.NotFound(w)
		return
	case err != nil:
		h.removeFiles(written)
		render.InternalError(w, err)
		return
	}

	// The save committed; now retire what it replaced.
	if previous != nil {
		for locale, oldTr := range previous.Translations {
			newTr := post.Translation(locale)
			if newTr == nil {
				continue
			}
			if oldTr.ContentRef != "" && oldTr.ContentRef != newTr.ContentRef {
				if err := h.files.Remove(oldTr.ContentRef); err != nil {
					slog.Error("remove replaced artifact", "ref", oldTr.ContentRef, "error", err)
				}
			}
			if oldTr.Slug != newTr.Slug {
				if err := h.indexer.DeletePost(r.Context(), locale, oldTr.Slug); err != nil {
					slog.Error("deindex old slug", "slug", oldTr.Slug, "error", err)
				}
			}
		}
		h.pages.InvalidatePost(r.Context(), slugsByLocale(previous))
	}

	for locale, tr := range post.Translations {
		doc := search.NewDocument(tr.Slug, tr.Title, tr.Description)
		if err := h.indexer.IndexPost(r.Context(), locale, doc); err != nil {
			slog.Error("index post", "locale", locale, "slug", tr.Slug, "error", err)
		}
	}
	h.pages.InvalidatePost(r.Context(), slugsByLocale(post))

	status := http.StatusCreated
	if postID != nil {
		status = http.StatusOK
	}
	render.JSON(w, status, postDetail(post))
}

// PostsAll lists every post with both translations, for the authoring UI.
func (h *Admin) PostsAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List()
	if err != nil {
		render.InternalError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(posts))
	for i := range posts {
		out = append(out, postDetail(&posts[i]))
	}
	render.JSON(w, http.StatusOK, map[string]any{"posts": out})
}

// PostDelete removes a post, its artifacts, its index entries, and its
// cached pages. Comments go with the post.
func (h *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		render.NotFound(w)
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		render.InternalError(w, err)
		return
	}
	if post == nil {
		render.NotFound(w)
		return
	}

	refs, err := h.posts.Delete(id)
	if err == store.ErrNotFound {
		render.NotFound(w)
		return
	}
	if err != nil {
		render.InternalError(w, err)
		return
	}

	h.removeFiles(refs)
	for locale, tr := range post.Translations {
		if err := h.indexer.DeletePost(r.Context(), locale, tr.Slug); err != nil {
			slog.Error("deindex post", "locale", locale, "slug", tr.Slug, "error", err)
		}
	}
	h.pages.InvalidatePost(r.Context(), slugsByLocale(post))

	render.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// CommentsPending lists comments awaiting moderation, oldest first.
func (h *Admin) CommentsPending(w http.ResponseWriter, r *http.Request) {
	comments, err := h.comments.ListPending()
	if err != nil {
		render.InternalError(w, err)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	render.JSON(w, http.StatusOK, map[string]any{"comments": comments})
}

// CommentApprove flips a comment's moderation gate and refreshes the
// cached pages of the post it belongs to.
func (h *Admin) CommentApprove(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		render.NotFound(w)
		return
	}

	comment, err := h.comments.FindByID(id)
	if err != nil {
		render.InternalError(w, err)
		return
	}
	if comment == nil {
		render.NotFound(w)
		return
	}

	if err := h.comments.Approve(id); err != nil {
		render.InternalError(w, err)
		return
	}

	if post, err := h.posts.FindByID(comment.PostID); err == nil && post != nil {
		h.pages.InvalidatePost(r.Context(), slugsByLocale(post))
	}

	render.JSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

// TagsAll lists every tag, for the authoring form's tag picker.
func (h *Admin) TagsAll(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List()
	if err != nil {
		render.InternalError(w, err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	render.JSON(w, http.StatusOK, map[string]any{"tags": tags})
}

// CategoriesAll lists every category.
func (h *Admin) CategoriesAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List()
	if err != nil {
		render.InternalError(w, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	render.JSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// SeriesAll lists every serie with its per-locale names.
func (h *Admin) SeriesAll(w http.ResponseWriter, r *http.Request) {
	series, err := h.series.List()
	if err != nil {
		render.InternalError(w, err)
		return
	}
	if series == nil {
		series = []models.Serie{}
	}
	render.JSON(w, http.StatusOK, map[string]any{"series": series})
}

// SubscriptorsAll lists the captured mailing-list emails.
func (h *Admin) SubscriptorsAll(w http.ResponseWriter, r *http.Request) {
	subscriptors, err := h.subscriptors.List()
	if err != nil {
		render.InternalError(w, err)
		return
	}
	if subscriptors == nil {
		subscriptors = []models.Subscriptor{}
	}
	render.JSON(w, http.StatusOK, map[string]any{"subscriptors": subscriptors})
}

// TagCreate adds a tag, or returns the existing one with that name.
func (h *Admin) TagCreate(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PostFormValue("name"))
	if name == "" {
		render.ValidationError(w, map[string]string{"name": "name is required"}, nil)
		return
	}
	tag, err := h.tags.Create(name)
	if err != nil {
		render.InternalError(w, err)
		return
	}
	render.JSON(w, http.StatusCreated, tag)
}

// CategoryCreate adds a category, or returns the existing one.
func (h *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PostFormValue("name"))
	if name == "" {
		render.ValidationError(w, map[string]string{"name": "name is required"}, nil)
		return
	}
	category, err := h.categories.Create(name)
	if err != nil {
		render.InternalError(w, err)
		return
	}
	render.JSON(w, http.StatusCreated, category)
}

// SerieCreate adds a serie with per-locale names. The English name is
// required; other locales fall back to it when missing.
func (h *Admin) SerieCreate(w http.ResponseWriter, r *http.Request) {
	names := make(map[string]string, len(models.SupportedLocales))
	for _, locale := range models.SupportedLocales {
		if n := strings.TrimSpace(r.PostFormValue("name_" + locale)); n != "" {
			names[locale] = n
		}
	}
	if names[models.LocaleEN] == "" {
		render.ValidationError(w, map[string]string{"name_en": "the English name is required"}, nil)
		return
	}
	serie, err := h.series.Create(names)
	if err != nil {
		render.InternalError(w, err)
		return
	}
	render.JSON(w, http.StatusCreated, serie)
}

// SeriePosts lists a serie's posts with ordering detail for the authoring UI.
func (h *Admin) SeriePosts(w http.ResponseWriter, r *http.Request) {
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
	out := make([]map[string]any, 0, len(posts))
	for i := range posts {
		out = append(out, postDetail(&posts[i]))
	}
	render.JSON(w, http.StatusOK, map[string]any{"serie": serie, "posts": out})
}

// UsersList lists the user directory for the admin UI.
func (h *Admin) UsersList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		render.InternalError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	render.JSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *Admin) removeFiles(refs []string) {
	for _, ref := range refs {
		if err := h.files.Remove(ref); err != nil {
			slog.Error("remove artifact", "ref", ref, "error", err)
		}
	}
}

// slugsByLocale maps each locale to the post's slug in it, for cache
// invalidation.
func slugsByLocale(p *models.Post) map[string]string {
	out := make(map[string]string, len(p.Translations))
	for locale, tr := range p.Translations {
		out[locale] = tr.Slug
	}
	return out
}

// postDetail is the admin projection of a post: envelope fields plus both
// translations.
func postDetail(p *models.Post) map[string]any {
	return map[string]any{
		"id":           p.ID,
		"author_id":    p.AuthorID,
		"category_id":  p.CategoryID,
		"serie_id":     p.SerieID,
		"serie_order":  p.SerieOrder,
		"created_at":   p.CreatedAt,
		"translations": p.Translations,
		"tags":         p.Tags,
	}
}
