package api

import (
	"github.com/aldergate/wunjo/internal/contentservice"
	"github.com/aldergate/wunjo/internal/index"
	"github.com/aldergate/wunjo/internal/lint"
)

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	Path    string `json:"path" example:"solid/single-responsibility.md" validate:"required"`
	Content string `json:"content" example:"---\ntitle: Hello\n---\nBody" validate:"required"`
}

// UpdatePostRequest is the request body for updating a post.
type UpdatePostRequest struct {
	Content string `json:"content" example:"---\ntitle: Updated\n---\nBody" validate:"required"`
}

// PostDetail is the full post response type (aliased from the domain layer).
type PostDetail = contentservice.PostDetail

// PostListItem is a lightweight item in a list response (aliased from the domain layer).
type PostListItem = contentservice.PostListItem

// PostListResponse wraps paginated post listings.
type PostListResponse struct {
	Posts []PostListItem `json:"posts" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Path    string `json:"path" example:"solid/open-closed.md" validate:"required"`
	Title   string `json:"title" example:"The Open/Closed Principle" validate:"required"`
	Snippet string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// TaxonomyResponse wraps taxonomy terms with post counts.
type TaxonomyResponse struct {
	Terms []index.TaxonomyCount `json:"terms" validate:"required"`
}

// RelatedResponse wraps posts related through shared tags.
type RelatedResponse struct {
	Related []index.RelatedPost `json:"related" validate:"required"`
}

// LintResponse wraps lint reports plus an overall pass flag.
type LintResponse struct {
	Reports []lint.Report `json:"reports" validate:"required"`
	Clean   bool          `json:"clean" example:"true" validate:"required"`
}

// AttachmentUploadResponse is returned after a successful attachment upload.
type AttachmentUploadResponse struct {
	Filename string `json:"filename" example:"diagram.png" validate:"required"`
	Size     int64  `json:"size" example:"12345" validate:"required"`
	URL      string `json:"url" example:"/attachments/diagram.png" validate:"required"`
}
