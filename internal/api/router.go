package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aldergate/wunjo/internal/contentservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// contentRoot is used to resolve the attachments directory.
func NewRouter(svc *contentservice.Service, authEnabled bool, token string, sseHandler http.Handler, contentRoot string) chi.Router {
	h := NewHandler(svc)
	ah := NewAttachmentHandler(contentRoot)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Posts CRUD.
	r.Get("/posts", h.ListPosts)
	r.Post("/posts", h.CreatePost)
	r.Get("/posts/*", h.GetPost)
	r.Put("/posts/*", h.UpdatePost)
	r.Delete("/posts/*", h.DeletePost)

	// Search.
	r.Get("/search", h.Search)

	// Rendering and relationships (query-param paths: wildcard routes above
	// own the /posts/* space).
	r.Get("/render", h.RenderPost)
	r.Get("/related", h.Related)

	// Taxonomies.
	r.Get("/taxonomy/{kind}", h.Taxonomy)

	// Lint.
	r.Get("/lint", h.Lint)

	// Attachments upload (auth-protected).
	r.Post("/attachments", ah.Upload)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
