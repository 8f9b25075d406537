// Package contentservice coordinates storage, catalog, and rendering for the
// API and MCP layers.
package contentservice

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/aldergate/wunjo/internal/apperr"
	"github.com/aldergate/wunjo/internal/checksum"
	"github.com/aldergate/wunjo/internal/index"
	"github.com/aldergate/wunjo/internal/lint"
	"github.com/aldergate/wunjo/internal/parser"
	"github.com/aldergate/wunjo/internal/render"
	"github.com/aldergate/wunjo/internal/storage"
)

// PostDetail is the full representation of a post.
type PostDetail struct {
	Path         string         `json:"path"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Excerpt      string         `json:"excerpt,omitempty"`
	Date         time.Time      `json:"date"`
	Lastmod      time.Time      `json:"lastmod"`
	Draft        bool           `json:"draft"`
	Weight       int            `json:"weight"`
	Pinned       bool           `json:"pinned"`
	Homepage     bool           `json:"homepage"`
	Tags         []string       `json:"tags"`
	Categories   []string       `json:"categories"`
	Contributors []string       `json:"contributors"`
	Custom       map[string]any `json:"custom,omitempty"`
	Content      string         `json:"content"`
	Checksum     string         `json:"checksum"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// PostListItem is a lightweight item in a list response.
type PostListItem struct {
	Path         string    `json:"path"`
	Title        string    `json:"title"`
	Excerpt      string    `json:"excerpt,omitempty"`
	Date         time.Time `json:"date"`
	Draft        bool      `json:"draft"`
	Weight       int       `json:"weight"`
	Pinned       bool      `json:"pinned"`
	Tags         []string  `json:"tags"`
	Categories   []string  `json:"categories"`
	Contributors []string  `json:"contributors"`
	Checksum     string    `json:"checksum"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Service coordinates storage, catalog, and rendering operations.
type Service struct {
	store storage.Provider
	db    *index.DB
	rend  *render.Renderer
}

// NewService creates a new content service.
func NewService(store storage.Provider, db *index.DB, rend *render.Renderer) *Service {
	return &Service{store: store, db: db, rend: rend}
}

// GetPost reads a post from storage and parses it.
func (s *Service) GetPost(_ context.Context, path string) (*PostDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return s.buildPostDetail(path, data)
}

// RenderPost reads a post and renders its Markdown body to HTML.
// Bodies are rendered on request, never stored rendered.
func (s *Service) RenderPost(_ context.Context, path string) ([]byte, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	doc := parser.ParseLenient(data)
	return s.rend.Render([]byte(doc.Body))
}

// CreatePost writes a new post and indexes it.
func (s *Service) CreatePost(_ context.Context, path string, content []byte) (*PostDetail, error) {
	if s.store.Exists(path) {
		return nil, apperr.ErrAlreadyExists
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := s.IndexFile(path, content); err != nil {
		return nil, err
	}
	return s.buildPostDetail(path, content)
}

// UpdatePost writes updated content with optimistic concurrency: when ifMatch
// is non-empty it must equal the checksum of the current file.
func (s *Service) UpdatePost(_ context.Context, path string, content []byte, ifMatch string) (*PostDetail, error) {
	existing, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := s.IndexFile(path, content); err != nil {
		return nil, err
	}
	return s.buildPostDetail(path, content)
}

// DeletePost removes a post from storage and catalog.
func (s *Service) DeletePost(_ context.Context, path string) error {
	if err := s.store.Delete(path); err != nil {
		return err
	}
	return s.db.DeletePost(path)
}

// ListPosts returns a filtered page of posts. Drafts are excluded unless
// opts.IncludeDrafts is set.
func (s *Service) ListPosts(_ context.Context, opts index.ListOptions) ([]PostListItem, int, error) {
	rows, total, err := s.db.ListPosts(opts)
	if err != nil {
		return nil, 0, err
	}
	items := make([]PostListItem, len(rows))
	for i, r := range rows {
		items[i] = PostListItem{
			Path:         r.Path,
			Title:        r.Title,
			Excerpt:      r.Excerpt,
			Date:         r.Date,
			Draft:        r.Draft,
			Weight:       r.Weight,
			Pinned:       r.Pinned,
			Tags:         nonNilSlice(r.Tags),
			Categories:   nonNilSlice(r.Categories),
			Contributors: nonNilSlice(r.Contributors),
			Checksum:     r.Checksum,
			UpdatedAt:    r.UpdatedAt,
		}
	}
	return items, total, nil
}

// Search delegates full-text search to the catalog.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Tags returns the tag taxonomy with post counts.
func (s *Service) Tags(_ context.Context) ([]index.TaxonomyCount, error) {
	return s.db.Tags()
}

// Categories returns the category taxonomy with post counts.
func (s *Service) Categories(_ context.Context) ([]index.TaxonomyCount, error) {
	return s.db.Categories()
}

// Contributors returns contributors with post counts.
func (s *Service) Contributors(_ context.Context) ([]index.TaxonomyCount, error) {
	return s.db.Contributors()
}

// Related returns published posts sharing tags with the given post.
func (s *Service) Related(_ context.Context, path string, limit int) ([]index.RelatedPost, error) {
	if !s.store.Exists(path) {
		return nil, apperr.ErrNotFound
	}
	return s.db.Related(path, limit)
}

// LintFile lints a single content file.
func (s *Service) LintFile(_ context.Context, path string) (lint.Report, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return lint.Report{}, apperr.ErrNotFound
		}
		return lint.Report{}, err
	}
	return lint.File(path, data, s.store.Exists), nil
}

// LintTree lints every content file, returning one report per file.
func (s *Service) LintTree(_ context.Context) ([]lint.Report, error) {
	metas, err := s.store.List("")
	if err != nil {
		return nil, err
	}
	reports := make([]lint.Report, 0, len(metas))
	for _, m := range metas {
		data, readErr := s.store.Read(m.Path)
		if readErr != nil {
			continue
		}
		reports = append(reports, lint.File(m.Path, data, s.store.Exists))
	}
	return reports, nil
}

// IndexFile parses data and upserts it into the catalog.
// Exported so that callers that already hold the raw bytes can reuse it.
func (s *Service) IndexFile(path string, data []byte) error {
	doc := parser.ParseLenient(data)
	return s.db.UpsertPost(index.PostRow{
		Path:         path,
		Title:        doc.Title,
		Description:  doc.Meta.Description,
		Excerpt:      doc.Excerpt,
		Date:         doc.Meta.Date,
		Lastmod:      doc.Meta.Lastmod,
		Draft:        doc.Meta.Draft,
		Weight:       doc.Meta.Weight,
		Pinned:       doc.Meta.Pinned,
		Homepage:     doc.Meta.Homepage,
		Checksum:     checksum.Sum(data),
		Tags:         nonNilSlice(doc.Meta.Tags),
		Categories:   nonNilSlice(doc.Meta.Categories),
		Contributors: nonNilSlice(doc.Meta.Contributors),
		UpdatedAt:    time.Now(),
	}, doc.Body)
}

// buildPostDetail constructs a PostDetail from raw data without re-reading the file.
func (s *Service) buildPostDetail(path string, data []byte) (*PostDetail, error) {
	doc, err := parser.Parse(data)
	if err != nil {
		// Malformed front-matter still yields a readable post.
		doc = parser.ParseLenient(data)
	}
	return &PostDetail{
		Path:         path,
		Title:        doc.Title,
		Description:  doc.Meta.Description,
		Excerpt:      doc.Excerpt,
		Date:         doc.Meta.Date,
		Lastmod:      doc.Meta.Lastmod,
		Draft:        doc.Meta.Draft,
		Weight:       doc.Meta.Weight,
		Pinned:       doc.Meta.Pinned,
		Homepage:     doc.Meta.Homepage,
		Tags:         nonNilSlice(doc.Meta.Tags),
		Categories:   nonNilSlice(doc.Meta.Categories),
		Contributors: nonNilSlice(doc.Meta.Contributors),
		Custom:       doc.Meta.Custom,
		Content:      string(data),
		Checksum:     checksum.Sum(data),
		UpdatedAt:    time.Now(),
	}, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
