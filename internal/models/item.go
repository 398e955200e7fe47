// Package models defines the domain types for Othala.
package models

import "time"

// Item types.
const (
	TypeNote = "note"
	TypeLink = "link"
	TypeFile = "file"
)

// DefaultCategory is assigned when a create request carries no category.
const DefaultCategory = "other"

// Item represents a single catalog record: a note, a link, or an uploaded file.
type Item struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url,omitempty"`
	Content     string     `json:"content,omitempty"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	Country     string     `json:"country,omitempty"`
	Source      string     `json:"source,omitempty"`
	File        *FileInfo  `json:"file,omitempty"`
	FileType    string     `json:"fileType,omitempty"`
	TextPreview string     `json:"textPreview,omitempty"`
	Created     time.Time  `json:"created"`
	Updated     *time.Time `json:"updated"`
	Views       int        `json:"views"`
	Starred     bool       `json:"starred"`
}

// FileInfo describes the stored blob backing a file-type item.
// StoredFilename is the generated on-disk name; OriginalName is whatever
// the client supplied and is kept for display only.
type FileInfo struct {
	OriginalName   string `json:"originalName"`
	StoredFilename string `json:"storedFilename"`
	RelativePath   string `json:"relativePath"`
	MimeType       string `json:"mimeType"`
	SizeBytes      int64  `json:"sizeBytes"`
	Checksum       string `json:"checksum,omitempty"`
}

// Stats holds the incrementally maintained aggregate counters.
type Stats struct {
	TotalItems int   `json:"totalItems"`
	TotalFiles int   `json:"totalFiles"`
	TotalLinks int   `json:"totalLinks"`
	TotalSize  int64 `json:"totalSize"`
}

// Library is the persisted items document: the item sequence (newest first)
// plus the counters derived from it.
type Library struct {
	Items       []Item    `json:"items"`
	Stats       Stats     `json:"stats"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Recompute returns the counters obtained by scanning items from scratch.
// The persisted Stats must always equal this value; tests use it to verify
// the invariant after mutation sequences.
func (l *Library) Recompute() Stats {
	var s Stats
	s.TotalItems = len(l.Items)
	for _, it := range l.Items {
		switch it.Type {
		case TypeFile:
			s.TotalFiles++
		case TypeLink:
			s.TotalLinks++
		}
		if it.File != nil {
			s.TotalSize += it.File.SizeBytes
		}
	}
	return s
}

// Clone returns a deep copy of the library so callers can hand out snapshots
// without exposing internal storage by reference.
func (l *Library) Clone() *Library {
	out := &Library{
		Items:       make([]Item, len(l.Items)),
		Stats:       l.Stats,
		LastUpdated: l.LastUpdated,
	}
	for i, it := range l.Items {
		out.Items[i] = it.Clone()
	}
	return out
}

// Clone returns a deep copy of the item.
func (i Item) Clone() Item {
	out := i
	if i.Tags != nil {
		out.Tags = append([]string(nil), i.Tags...)
	}
	if i.File != nil {
		f := *i.File
		out.File = &f
	}
	if i.Updated != nil {
		u := *i.Updated
		out.Updated = &u
	}
	return out
}
