// Package library implements the item repository: CRUD over catalog records
// plus the incrementally maintained aggregate counters.
package library

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/storage"
)

// DocumentKey is the storage key of the items document.
const DocumentKey = "items"

// BlobStore is the slice of the ingestion layer the repository needs for
// the delete-time compensating action.
type BlobStore interface {
	// Remove deletes a stored blob. A missing blob is not an error.
	Remove(storedFilename string) error
}

// Draft carries the caller-supplied fields for a new item. Omitted optional
// fields get defaults at creation time.
type Draft struct {
	Type        string
	Title       string
	Description string
	URL         string
	Content     string
	Category    string
	Tags        []string
	Country     string
	Source      string
}

// Repository owns the items document.
//
// Every mutation follows read-whole-document, modify in memory, write-whole-
// document. A single in-process mutex serializes all operations on the
// document, which removes the lost-update race between concurrent writers.
// That is a mutual-exclusion discipline, not a transaction: a crash between
// blob write and metadata write can still orphan a blob (surfaced as
// apperr.OrphanedBlob).
type Repository struct {
	mu    sync.Mutex
	store storage.Provider
	blobs BlobStore
}

// NewRepository creates a repository over the given document store. blobs
// may be nil when no file ingestion is wired (tests, import-only tools).
func NewRepository(store storage.Provider, blobs BlobStore) *Repository {
	return &Repository{store: store, blobs: blobs}
}

// load reads the items document, seeding an empty library when none has
// been persisted yet.
func (r *Repository) load() (*models.Library, error) {
	var lib models.Library
	if err := storage.LoadJSON(r.store, DocumentKey, &lib); err != nil {
		if storage.IsNotExist(err) {
			return &models.Library{Items: []models.Item{}}, nil
		}
		return nil, err
	}
	if lib.Items == nil {
		lib.Items = []models.Item{}
	}
	return &lib, nil
}

func (r *Repository) persist(lib *models.Library) error {
	lib.LastUpdated = time.Now().UTC()
	return storage.SaveJSON(r.store, DocumentKey, lib)
}

// List returns a snapshot of all items plus the current counters. The
// snapshot is decoded fresh from storage, so callers never hold a reference
// into repository state.
func (r *Repository) List() (*models.Library, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Get returns the item with the given id. Each successful call increments
// the item's view counter and persists it before returning. The returned
// snapshot carries the count of reads before this one, so the first read
// after create reports zero views.
func (r *Repository) Get(id string) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lib, err := r.load()
	if err != nil {
		return nil, err
	}
	idx := findItem(lib.Items, id)
	if idx < 0 {
		return nil, apperr.ErrNotFound
	}
	it := lib.Items[idx].Clone()
	lib.Items[idx].Views++
	if err := r.persist(lib); err != nil {
		return nil, err
	}
	return &it, nil
}

// Create validates the draft, fills defaults, prepends the item (default
// ordering is most-recent-first), updates the counters, and persists.
func (r *Repository) Create(d Draft) (*models.Item, error) {
	if d.Title == "" {
		return nil, fmt.Errorf("%w: title is required", apperr.ErrInvalidInput)
	}

	it := newItem(d)

	r.mu.Lock()
	defer r.mu.Unlock()

	lib, err := r.load()
	if err != nil {
		return nil, err
	}
	prepend(lib, it)
	if err := r.persist(lib); err != nil {
		return nil, err
	}
	out := it.Clone()
	return &out, nil
}

// CreateFromUpload creates a file-type record for an already-stored blob.
// The blob is durably on disk before this is called; if the metadata write
// fails the blob is orphaned, and that is reported as apperr.OrphanedBlob
// rather than a plain store error.
func (r *Repository) CreateFromUpload(d Draft, file models.FileInfo, fileType, textPreview string) (*models.Item, error) {
	if d.Title == "" {
		d.Title = file.OriginalName
	}
	d.Type = models.TypeFile

	it := newItem(d)
	f := file
	it.File = &f
	it.FileType = fileType
	it.TextPreview = textPreview

	r.mu.Lock()
	defer r.mu.Unlock()

	lib, err := r.load()
	if err != nil {
		return nil, err
	}
	prepend(lib, it)
	if err := r.persist(lib); err != nil {
		return nil, &apperr.OrphanedBlob{Filename: file.StoredFilename, Err: err}
	}
	out := it.Clone()
	return &out, nil
}

// Update applies the patch to the item with the given id. Only fields
// present in the patch are overwritten; `updated` is set to the current time.
func (r *Repository) Update(id string, patch models.ItemPatch) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lib, err := r.load()
	if err != nil {
		return nil, err
	}
	idx := findItem(lib.Items, id)
	if idx < 0 {
		return nil, apperr.ErrNotFound
	}

	it := &lib.Items[idx]
	// Remember pre-patch type in case the patch flips it; the counters track
	// type membership, not field history.
	prevType := it.Type
	patch.Apply(it)
	now := time.Now().UTC()
	it.Updated = &now

	if it.Type != prevType {
		adjustTypeCounters(&lib.Stats, prevType, -1)
		adjustTypeCounters(&lib.Stats, it.Type, +1)
	}

	if err := r.persist(lib); err != nil {
		return nil, err
	}
	out := it.Clone()
	return &out, nil
}

// Delete removes the item, decrements the counters, persists, and then
// best-effort-removes the backing blob. Blob removal is a compensating
// action with its own failure channel: a failure is logged and does not
// fail the delete.
func (r *Repository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lib, err := r.load()
	if err != nil {
		return err
	}
	idx := findItem(lib.Items, id)
	if idx < 0 {
		return apperr.ErrNotFound
	}

	it := lib.Items[idx]
	lib.Items = append(lib.Items[:idx], lib.Items[idx+1:]...)
	lib.Stats.TotalItems--
	adjustTypeCounters(&lib.Stats, it.Type, -1)
	if it.File != nil {
		lib.Stats.TotalSize -= it.File.SizeBytes
	}

	if err := r.persist(lib); err != nil {
		return err
	}

	if it.File != nil && r.blobs != nil {
		if err := r.blobs.Remove(it.File.StoredFilename); err != nil {
			slog.Warn("blob cleanup failed after delete",
				slog.String("id", id),
				slog.String("filename", it.File.StoredFilename),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

// Replace overwrites the whole items document. Used by the import endpoint,
// which performs a full overwrite of supplied documents.
func (r *Repository) Replace(lib *models.Library) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lib.Items == nil {
		lib.Items = []models.Item{}
	}
	return r.persist(lib)
}

func newItem(d Draft) models.Item {
	if d.Type == "" {
		d.Type = models.TypeNote
	}
	if d.Category == "" {
		d.Category = models.DefaultCategory
	}
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.Item{
		ID:          newItemID(),
		Type:        d.Type,
		Title:       d.Title,
		Description: d.Description,
		URL:         d.URL,
		Content:     d.Content,
		Category:    d.Category,
		Tags:        tags,
		Country:     d.Country,
		Source:      d.Source,
		Created:     time.Now().UTC(),
	}
}

// prepend inserts the item at the head of the sequence and bumps the
// counters it contributes to.
func prepend(lib *models.Library, it models.Item) {
	lib.Items = append([]models.Item{it}, lib.Items...)
	lib.Stats.TotalItems++
	adjustTypeCounters(&lib.Stats, it.Type, +1)
	if it.File != nil {
		lib.Stats.TotalSize += it.File.SizeBytes
	}
}

// adjustTypeCounters keeps totalFiles/totalLinks in step with type
// membership. delta is +1 or -1.
func adjustTypeCounters(s *models.Stats, itemType string, delta int) {
	switch itemType {
	case models.TypeFile:
		s.TotalFiles += delta
	case models.TypeLink:
		s.TotalLinks += delta
	}
}

func findItem(items []models.Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// newItemID builds an id from a millisecond timestamp prefix and a random
// suffix: sortable by creation time, negligible collision probability.
func newItemID() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("%x-%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}
