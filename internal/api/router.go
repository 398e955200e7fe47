package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/othala/internal/ingest"
	"github.com/starford/othala/internal/library"
	"github.com/starford/othala/internal/sse"
	"github.com/starford/othala/internal/taxonomy"
)

// NewRouter creates a chi router with all API routes mounted.
// broker, if non-nil, is mounted at GET /events for live item updates.
func NewRouter(repo *library.Repository, tax *taxonomy.Store, blobs *ingest.Store, broker *sse.Broker) chi.Router {
	h := NewHandler(repo, tax, broker)
	uh := NewUploadHandler(repo, blobs, h.publish)

	r := chi.NewRouter()

	// Items CRUD. The upload route must stay distinct from the id routes.
	r.Get("/items", h.ListItems)
	r.Post("/items", h.CreateItem)
	r.Post("/items/upload", uh.Upload)
	r.Get("/items/{id}", h.GetItem)
	r.Put("/items/{id}", h.UpdateItem)
	r.Delete("/items/{id}", h.DeleteItem)

	// Search.
	r.Get("/search", h.Search)

	// Taxonomy.
	r.Get("/categories", h.ListCategories)
	r.Post("/categories", h.AddCategory)
	r.Get("/tags", h.ListTags)
	r.Post("/tags", h.AddTag)

	// Stats and bulk transfer.
	r.Get("/stats", h.Stats)
	r.Get("/export", h.Export)
	r.Post("/import", h.Import)

	// SSE endpoint.
	if broker != nil {
		r.Get("/events", broker.ServeHTTP)
	}

	return r
}

// BlobRoutes returns the handler for serving stored blobs, mounted outside
// the /api prefix at /uploads/{filename}.
func BlobRoutes(repo *library.Repository, blobs *ingest.Store) http.HandlerFunc {
	uh := NewUploadHandler(repo, blobs, nil)
	return uh.ServeBlob
}
