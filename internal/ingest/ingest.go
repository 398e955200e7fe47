// Package ingest turns an uploaded blob into a durably stored file plus the
// metadata the item repository needs to catalog it.
package ingest

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
)

// DefaultMaxBytes is the upload ceiling when none is configured.
const DefaultMaxBytes = 50 << 20 // 50 MB

const previewChars = 500

// allowedTypes is the fixed media-type allow-list. Anything with a "text/"
// prefix is additionally allowed.
var allowedTypes = map[string]bool{
	"application/pdf": true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-powerpoint": true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"application/zip":          true,
	"application/json":         true,
	"application/octet-stream": true,
	"image/png":                true,
	"image/jpeg":               true,
	"image/gif":                true,
	"image/webp":               true,
	"image/svg+xml":            true,
	"video/mp4":                true,
	"video/webm":               true,
	"audio/mpeg":               true,
	"audio/wav":                true,
	"audio/ogg":                true,
}

// typeLabels maps exact media types to their catalog file type. Prefix
// classes (image/video/audio/text) and the office extension fallback are
// handled in Classify.
var typeLabels = map[string]string{
	"application/pdf": "pdf",
	"application/msword": "word",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "word",
	"application/vnd.ms-excel": "excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": "excel",
	"application/vnd.ms-powerpoint": "powerpoint",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "powerpoint",
	"application/json": "text",
}

var extLabels = map[string]string{
	".pdf":  "pdf",
	".doc":  "word",
	".docx": "word",
	".xls":  "excel",
	".xlsx": "excel",
	".ppt":  "powerpoint",
	".pptx": "powerpoint",
}

// Everything outside [A-Za-z0-9.-] becomes an underscore, so a stored name
// can never traverse out of the uploads directory.
var unsafeRe = regexp.MustCompile(`[^A-Za-z0-9.-]`)

// Store owns the uploads directory.
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore creates the uploads directory if needed.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("ingest: resolve dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("ingest: create dir: %w", err)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Store{dir: abs, maxBytes: maxBytes}, nil
}

// Dir returns the absolute uploads directory path.
func (s *Store) Dir() string { return s.dir }

// MaxBytes returns the configured upload ceiling.
func (s *Store) MaxBytes() int64 { return s.maxBytes }

// Allowed reports whether the declared media type passes validation.
func Allowed(mimeType string) bool {
	return allowedTypes[baseType(mimeType)] || IsTextLike(mimeType)
}

// IsTextLike reports whether the media type warrants a text preview.
func IsTextLike(mimeType string) bool {
	bt := baseType(mimeType)
	return strings.HasPrefix(bt, "text/") || bt == "application/json"
}

// Save validates and durably stores the blob, returning the metadata for
// the catalog record. The declared media type and original filename come
// from the client and are recorded as-is; only the generated storage name
// is trusted for disk addressing.
func (s *Store) Save(data []byte, mimeType, originalName string) (models.FileInfo, error) {
	if !Allowed(mimeType) {
		return models.FileInfo{}, fmt.Errorf("%w: %s", apperr.ErrFileTypeRejected, mimeType)
	}
	if int64(len(data)) > s.maxBytes {
		return models.FileInfo{}, fmt.Errorf("%w: %d bytes (max %d)", apperr.ErrFileTooLarge, len(data), s.maxBytes)
	}

	stored := newBlobName(originalName)
	abs := filepath.Join(s.dir, stored)
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return models.FileInfo{}, fmt.Errorf("ingest: write blob: %w", err)
	}

	sum := sha256.Sum256(data)
	return models.FileInfo{
		OriginalName:   originalName,
		StoredFilename: stored,
		RelativePath:   path.Join("uploads", stored),
		MimeType:       mimeType,
		SizeBytes:      int64(len(data)),
		Checksum:       hex.EncodeToString(sum[:]),
	}, nil
}

// Classify maps the declared media type to a catalog file type, with a
// filename-extension fallback for office formats that arrive as generic
// binary. Anything unclassified is "file".
func Classify(mimeType, originalName string) string {
	bt := baseType(mimeType)
	if label, ok := typeLabels[bt]; ok {
		return label
	}
	switch {
	case strings.HasPrefix(bt, "image/"):
		return "image"
	case strings.HasPrefix(bt, "video/"):
		return "video"
	case strings.HasPrefix(bt, "audio/"):
		return "audio"
	case strings.HasPrefix(bt, "text/"):
		return "text"
	}
	if label, ok := extLabels[strings.ToLower(filepath.Ext(originalName))]; ok {
		return label
	}
	return "file"
}

// TextPreview reads up to the first 500 characters of a stored blob. Any
// read failure is swallowed: a missing preview is not a fatal condition.
func (s *Store) TextPreview(storedFilename string) string {
	abs, err := s.blobPath(storedFilename)
	if err != nil {
		return ""
	}
	f, err := os.Open(abs)
	if err != nil {
		return ""
	}
	defer f.Close()

	// 4 bytes per rune covers the worst UTF-8 case.
	buf := make([]byte, previewChars*4)
	n, err := f.Read(buf)
	if n == 0 && err != nil {
		return ""
	}
	runes := []rune(string(buf[:n]))
	if len(runes) > previewChars {
		runes = runes[:previewChars]
	}
	return string(runes)
}

// Remove deletes a stored blob. A blob that is already gone is not an error.
func (s *Store) Remove(storedFilename string) error {
	abs, err := s.blobPath(storedFilename)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ingest: remove blob: %w", err)
	}
	return nil
}

// Open returns the absolute path for serving a stored blob, rejecting
// anything that is not a plain generated name.
func (s *Store) Open(storedFilename string) (string, error) {
	return s.blobPath(storedFilename)
}

func (s *Store) blobPath(name string) (string, error) {
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("ingest: invalid blob name: %q", name)
	}
	return filepath.Join(s.dir, cleaned), nil
}

// newBlobName prefixes the sanitized original name with a random token so
// two uploads of the same file never collide.
func newBlobName(originalName string) string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf) + "_" + sanitizeFilename(originalName)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = unsafeRe.ReplaceAllString(name, "_")
	for strings.Contains(name, "..") {
		name = strings.ReplaceAll(name, "..", "_.")
	}
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}

func baseType(mimeType string) string {
	return strings.TrimSpace(strings.ToLower(strings.Split(mimeType, ";")[0]))
}
