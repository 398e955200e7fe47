package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/library"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/query"
	"github.com/starford/othala/internal/sse"
	"github.com/starford/othala/internal/taxonomy"
)

const maxBodyBytes = 10 << 20 // 10 MB for JSON bodies

// Handler holds API route handlers.
type Handler struct {
	repo   *library.Repository
	tax    *taxonomy.Store
	broker *sse.Broker
}

// NewHandler creates a new Handler. broker may be nil (no event fan-out).
func NewHandler(repo *library.Repository, tax *taxonomy.Store, broker *sse.Broker) *Handler {
	return &Handler{repo: repo, tax: tax, broker: broker}
}

func (h *Handler) publish(kind, id string) {
	if h.broker != nil {
		h.broker.PublishItemEvent(kind, id)
	}
}

// writeError maps the error taxonomy onto HTTP statuses. Store, parse, and
// orphaned-blob failures all surface as 500, but orphans get their own log
// line and body so operators can sweep the named file.
func writeError(w http.ResponseWriter, err error, op string) {
	var orphan *apperr.OrphanedBlob
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrFileTypeRejected), errors.Is(err, apperr.ErrFileTooLarge):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.As(err, &orphan):
		slog.Error("orphaned blob left on disk",
			slog.String("op", op),
			slog.String("filename", orphan.Filename),
			slog.String("error", orphan.Err.Error()))
		writeJSON(w, http.StatusInternalServerError,
			errorBody("file stored but catalog write failed: "+orphan.Filename))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListItems handles GET /api/items.
//
//	@Summary	List items with filtering, sorting, and pagination
//	@Tags		items
//	@Produce	json
//	@Param		search		query		string	false	"Substring search"
//	@Param		category	query		string	false	"Category id"
//	@Param		tag			query		string	false	"Tag"
//	@Param		type		query		string	false	"Item type"	Enums(note, link, file)
//	@Param		sort		query		string	false	"Sort order"	Enums(oldest, title)
//	@Param		limit		query		int		false	"Page size"
//	@Param		offset		query		int		false	"Page offset"
//	@Success	200			{object}	ListResponse
//	@Router		/items [get]
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	lib, err := h.repo.List()
	if err != nil {
		writeError(w, err, "list items")
		return
	}
	res := query.Apply(lib.Items, query.Params{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Type:     q.Get("type"),
		Sort:     q.Get("sort"),
		Limit:    limit,
		Offset:   offset,
	})
	writeJSON(w, http.StatusOK, ListResponse{
		Items:  res.Items,
		Total:  res.Total,
		Offset: res.Offset,
		Limit:  res.Limit,
		Stats:  lib.Stats,
	})
}

// GetItem handles GET /api/items/{id}. Each successful read counts a view.
//
//	@Summary	Get a single item by id
//	@Tags		items
//	@Produce	json
//	@Success	200	{object}	models.Item
//	@Failure	404	{object}	errResponse
//	@Router		/items/{id} [get]
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.repo.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, "get item")
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// CreateItem handles POST /api/items.
//
//	@Summary	Create a note or link item
//	@Tags		items
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreateItemRequest	true	"Item to create"
//	@Success	201		{object}	ItemResponse
//	@Failure	400		{object}	errResponse
//	@Router		/items [post]
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	it, err := h.repo.Create(req.draft())
	if err != nil {
		writeError(w, err, "create item")
		return
	}
	h.publish("created", it.ID)
	writeJSON(w, http.StatusCreated, ItemResponse{Success: true, Item: it})
}

// UpdateItem handles PUT /api/items/{id}.
//
//	@Summary	Partially update an item
//	@Tags		items
//	@Accept		json
//	@Produce	json
//	@Param		body	body		UpdateItemRequest	true	"Fields to overwrite"
//	@Success	200		{object}	ItemResponse
//	@Failure	404		{object}	errResponse
//	@Router		/items/{id} [put]
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var patch models.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	id := chi.URLParam(r, "id")
	it, err := h.repo.Update(id, patch)
	if err != nil {
		writeError(w, err, "update item")
		return
	}
	h.publish("updated", id)
	writeJSON(w, http.StatusOK, ItemResponse{Success: true, Item: it})
}

// DeleteItem handles DELETE /api/items/{id}.
//
//	@Summary	Delete an item and its backing blob
//	@Tags		items
//	@Produce	json
//	@Success	200	{object}	map[string]bool
//	@Failure	404	{object}	errResponse
//	@Router		/items/{id} [delete]
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.Delete(id); err != nil {
		writeError(w, err, "delete item")
		return
	}
	h.publish("deleted", id)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Search handles GET /api/search: a fixed top-50 quick search for the
// command palette, distinct from the fully parameterized listing.
//
//	@Summary	Quick search across title, description, tags, and content
//	@Tags		search
//	@Produce	json
//	@Param		q	query		string	true	"Search term"
//	@Success	200	{object}	SearchResponse
//	@Failure	400	{object}	errResponse
//	@Router		/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	lib, err := h.repo.List()
	if err != nil {
		writeError(w, err, "search")
		return
	}
	res := query.Apply(lib.Items, query.Params{Search: q, Limit: query.DefaultLimit})
	writeJSON(w, http.StatusOK, SearchResponse{Results: res.Items, Total: res.Total})
}

// ListCategories handles GET /api/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.tax.Categories()
	if err != nil {
		writeError(w, err, "list categories")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

// AddCategory handles POST /api/categories.
func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	cat, err := h.tax.AddCategory(req.Name, req.Icon, req.Color)
	if err != nil {
		writeError(w, err, "add category")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "category": cat})
}

// ListTags handles GET /api/tags.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tax.Tags()
	if err != nil {
		writeError(w, err, "list tags")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

// AddTag handles POST /api/tags. Re-adding an existing tag succeeds without
// inserting a duplicate.
func (h *Handler) AddTag(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Tag == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("tag is required"))
		return
	}
	tags, err := h.tax.AddTag(req.Tag)
	if err != nil {
		writeError(w, err, "add tag")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "tags": tags})
}

// Stats handles GET /api/stats: global counters plus the per-category
// breakdown.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, lastUpdated, err := h.repo.GlobalStats()
	if err != nil {
		writeError(w, err, "stats")
		return
	}
	cats, err := h.tax.Categories()
	if err != nil {
		writeError(w, err, "stats")
		return
	}
	breakdown, err := h.repo.CategoryBreakdown(cats)
	if err != nil {
		writeError(w, err, "stats")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"totalItems":  stats.TotalItems,
		"totalFiles":  stats.TotalFiles,
		"totalLinks":  stats.TotalLinks,
		"totalSize":   stats.TotalSize,
		"lastUpdated": lastUpdated,
		"categories":  breakdown,
	})
}

// Export handles GET /api/export: the three persisted documents in one body.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	lib, err := h.repo.List()
	if err != nil {
		writeError(w, err, "export")
		return
	}
	cats, err := h.tax.Categories()
	if err != nil {
		writeError(w, err, "export")
		return
	}
	tags, err := h.tax.Tags()
	if err != nil {
		writeError(w, err, "export")
		return
	}
	writeJSON(w, http.StatusOK, ExportDocument{
		Library:    lib,
		Categories: &models.CategorySet{Categories: cats},
		Tags:       &models.TagSet{Tags: tags},
	})
}

// Import handles POST /api/import. Any subset of the three documents may be
// supplied; each supplied document is overwritten whole.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req ExportDocument
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Library != nil {
		if err := h.repo.Replace(req.Library); err != nil {
			writeError(w, err, "import library")
			return
		}
	}
	if req.Categories != nil {
		if err := h.tax.ReplaceCategories(req.Categories); err != nil {
			writeError(w, err, "import categories")
			return
		}
	}
	if req.Tags != nil {
		if err := h.tax.ReplaceTags(req.Tags); err != nil {
			writeError(w, err, "import tags")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
