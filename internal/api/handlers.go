package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aldergate/wunjo/internal/apperr"
	"github.com/aldergate/wunjo/internal/contentservice"
	"github.com/aldergate/wunjo/internal/index"
	"github.com/aldergate/wunjo/internal/lint"
)

// Handler holds API route handlers.
type Handler struct {
	svc *contentservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *contentservice.Service) *Handler {
	return &Handler{svc: svc}
}

// postPath extracts the post path from the URL (everything after /api/posts/).
// Supports encoded slashes from OpenAPI clients (e.g. solid%2Fpost.md).
func postPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// listOptions builds catalog list options from query parameters.
func listOptions(r *http.Request) index.ListOptions {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	return index.ListOptions{
		Tag:           q.Get("tag"),
		Category:      q.Get("category"),
		Contributor:   q.Get("contributor"),
		IncludeDrafts: q.Get("drafts") == "true",
		HomepageOnly:  q.Get("homepage") == "true",
		PinnedFirst:   q.Get("pinned_first") == "true",
		Sort:          q.Get("sort"),
		Limit:         limit,
		Offset:        offset,
	}
}

// ListPosts handles GET /api/posts.
//
//	@Summary		List posts with pagination, taxonomy filters, and draft gating
//	@Tags			posts
//	@Produce		json
//	@Param			limit			query		int		false	"Page size"
//	@Param			offset			query		int		false	"Page offset"
//	@Param			tag				query		string	false	"Filter by tag"
//	@Param			category		query		string	false	"Filter by category"
//	@Param			contributor		query		string	false	"Filter by contributor"
//	@Param			drafts			query		bool	false	"Include drafts"
//	@Param			homepage		query		bool	false	"Homepage posts only"
//	@Param			pinned_first	query		bool	false	"Float pinned posts first"
//	@Param			sort			query		string	false	"Sort field"	Enums(date, weight, title, path)
//	@Success		200				{object}	PostListResponse
//	@Security		BearerAuth
//	@Router			/posts [get]
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	items, total, err := h.svc.ListPosts(r.Context(), listOptions(r))
	if err != nil {
		slog.Error("list posts failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"posts": items,
		"total": total,
	})
}

// GetPost handles GET /api/posts/*.
//
//	@Summary		Get a single post by path
//	@Tags			posts
//	@Produce		json
//	@Param			path	path		string	true	"Post path"
//	@Success		200		{object}	PostDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/posts/{path} [get]
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	path := postPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	post, err := h.svc.GetPost(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get post failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// CreatePost handles POST /api/posts.
//
//	@Summary		Create a new post
//	@Tags			posts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreatePostRequest	true	"Post to create"
//	@Success		201		{object}	PostDetail
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/posts [post]
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" || req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path and content are required"))
		return
	}
	post, err := h.svc.CreatePost(r.Context(), req.Path, []byte(req.Content))
	if err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			writeJSON(w, http.StatusConflict, errorBody("post already exists"))
		} else {
			slog.Error("create post failed", slog.String("path", req.Path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// UpdatePost handles PUT /api/posts/*.
//
//	@Summary		Update a post with optimistic concurrency
//	@Tags			posts
//	@Accept			json
//	@Produce		json
//	@Param			path		path	string				true	"Post path"
//	@Param			If-Match	header	string				false	"SHA-256 checksum for optimistic concurrency"
//	@Param			body		body	UpdatePostRequest	true	"Updated content"
//	@Success		200			{object}	PostDetail
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/posts/{path} [put]
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	path := postPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("content is required"))
		return
	}

	ifMatch := r.Header.Get("If-Match")
	// Strip surrounding quotes if present (standard ETag format).
	ifMatch = strings.Trim(ifMatch, `"`)

	post, err := h.svc.UpdatePost(r.Context(), path, []byte(req.Content), ifMatch)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrConflict):
			writeJSON(w, http.StatusConflict, errorBody("checksum mismatch"))
		default:
			slog.Error("update post failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// DeletePost handles DELETE /api/posts/*.
//
//	@Summary		Delete a post
//	@Tags			posts
//	@Param			path	path	string	true	"Post path"
//	@Success		204		"Post deleted"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/posts/{path} [delete]
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	path := postPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.svc.DeletePost(r.Context(), path); err != nil {
		slog.Error("delete post failed", slog.String("path", path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across posts
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// RenderPost handles GET /api/render.
//
//	@Summary		Render a post body to HTML
//	@Tags			posts
//	@Produce		html
//	@Param			path	query		string	true	"Post path"
//	@Success		200		{string}	string	"Rendered HTML"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/render [get]
func (h *Handler) RenderPost(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'path' is required"))
		return
	}
	html, err := h.svc.RenderPost(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("render failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

// Related handles GET /api/related.
//
//	@Summary		Posts related through shared tags
//	@Tags			posts
//	@Produce		json
//	@Param			path	query		string	true	"Post path"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	RelatedResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/related [get]
func (h *Handler) Related(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'path' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	related, err := h.svc.Related(r.Context(), path, limit)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("related failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"related": related,
	})
}

// Taxonomy handles GET /api/taxonomy/{kind} for tags, categories, and contributors.
//
//	@Summary		Taxonomy terms with post counts
//	@Tags			taxonomy
//	@Produce		json
//	@Param			kind	path		string	true	"Taxonomy kind"	Enums(tags, categories, contributors)
//	@Success		200		{object}	TaxonomyResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/taxonomy/{kind} [get]
func (h *Handler) Taxonomy(w http.ResponseWriter, r *http.Request) {
	var (
		terms []index.TaxonomyCount
		err   error
	)
	kind := chi.URLParam(r, "kind")
	switch kind {
	case "tags":
		terms, err = h.svc.Tags(r.Context())
	case "categories":
		terms, err = h.svc.Categories(r.Context())
	case "contributors":
		terms, err = h.svc.Contributors(r.Context())
	default:
		writeJSON(w, http.StatusNotFound, errorBody("unknown taxonomy: "+kind))
		return
	}
	if err != nil {
		slog.Error("taxonomy failed", slog.String("kind", kind), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"terms": terms,
	})
}

// Lint handles GET /api/lint. With ?path= it lints one file, otherwise the
// whole content tree.
//
//	@Summary		Lint content files
//	@Tags			lint
//	@Produce		json
//	@Param			path	query		string	false	"Lint a single file"
//	@Success		200		{object}	LintResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/lint [get]
func (h *Handler) Lint(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")

	if path != "" {
		rep, err := h.svc.LintFile(r.Context(), path)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errorBody("not found"))
			} else {
				slog.Error("lint failed", slog.String("path", path), slog.String("error", err.Error()))
				writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			}
			return
		}
		writeJSON(w, http.StatusOK, LintResponse{Reports: []lint.Report{rep}, Clean: rep.Clean()})
		return
	}

	reports, err := h.svc.LintTree(r.Context())
	if err != nil {
		slog.Error("lint tree failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	clean := true
	for _, rep := range reports {
		if !rep.Clean() {
			clean = false
			break
		}
	}
	writeJSON(w, http.StatusOK, LintResponse{Reports: reports, Clean: clean})
}
