package api

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/othala/internal/ingest"
	"github.com/starford/othala/internal/library"
)

// UploadHandler accepts multipart uploads and serves stored blobs.
type UploadHandler struct {
	repo   *library.Repository
	blobs  *ingest.Store
	notify func(kind, id string)
}

// NewUploadHandler creates the handler. notify may be nil.
func NewUploadHandler(repo *library.Repository, blobs *ingest.Store, notify func(kind, id string)) *UploadHandler {
	if notify == nil {
		notify = func(string, string) {}
	}
	return &UploadHandler{repo: repo, blobs: blobs, notify: notify}
}

// Upload handles POST /api/items/upload (multipart/form-data, field "file"
// plus the optional item metadata fields).
//
// The blob is durably written before the catalog record is committed. If the
// record write then fails, the stored blob is orphaned; that condition is
// reported distinctly (see writeError) instead of being folded into a
// generic failure.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Headroom over the blob ceiling for the multipart framing and the
	// metadata fields.
	r.Body = http.MaxBytesReader(w, r.Body, h.blobs.MaxBytes()+(1<<20))

	if err := r.ParseMultipartForm(h.blobs.MaxBytes()); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(header.Filename)); byExt != "" {
			mimeType = byExt
		}
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	info, err := h.blobs.Save(data, mimeType, header.Filename)
	if err != nil {
		writeError(w, err, "store blob")
		return
	}

	fileType := ingest.Classify(mimeType, header.Filename)
	preview := ""
	if ingest.IsTextLike(mimeType) {
		preview = h.blobs.TextPreview(info.StoredFilename)
	}

	it, err := h.repo.CreateFromUpload(draftFromForm(r), info, fileType, preview)
	if err != nil {
		writeError(w, err, "create upload item")
		return
	}
	h.notify("created", it.ID)
	writeJSON(w, http.StatusCreated, ItemResponse{Success: true, Item: it})
}

// draftFromForm collects the optional metadata fields sent alongside the
// file. Tags arrive as a comma-separated form value.
func draftFromForm(r *http.Request) library.Draft {
	var tags []string
	if raw := r.FormValue("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return library.Draft{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		URL:         r.FormValue("url"),
		Content:     r.FormValue("content"),
		Category:    r.FormValue("category"),
		Tags:        tags,
		Country:     r.FormValue("country"),
		Source:      r.FormValue("source"),
	}
}

// ServeBlob handles GET /uploads/{filename}.
func (h *UploadHandler) ServeBlob(w http.ResponseWriter, r *http.Request) {
	abs, err := h.blobs.Open(chi.URLParam(r, "filename"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}
