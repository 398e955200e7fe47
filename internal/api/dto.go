package api

import (
	"github.com/starford/othala/internal/library"
	"github.com/starford/othala/internal/models"
)

// CreateItemRequest is the request body for creating a note or link item.
type CreateItemRequest struct {
	Title       string   `json:"title" example:"Field report"`
	Type        string   `json:"type,omitempty" example:"note"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	Content     string   `json:"content,omitempty"`
	Category    string   `json:"category,omitempty" example:"research"`
	Tags        []string `json:"tags,omitempty"`
	Country     string   `json:"country,omitempty"`
	Source      string   `json:"source,omitempty"`
}

func (r CreateItemRequest) draft() library.Draft {
	return library.Draft{
		Type:        r.Type,
		Title:       r.Title,
		Description: r.Description,
		URL:         r.URL,
		Content:     r.Content,
		Category:    r.Category,
		Tags:        r.Tags,
		Country:     r.Country,
		Source:      r.Source,
	}
}

// UpdateItemRequest is the patch body for updating an item. Absent keys
// leave the field untouched; present keys overwrite, including with empty
// values.
type UpdateItemRequest = models.ItemPatch

// ItemResponse wraps a single mutated item.
type ItemResponse struct {
	Success bool         `json:"success"`
	Item    *models.Item `json:"item"`
}

// ListResponse is the paginated listing payload.
type ListResponse struct {
	Items  []models.Item `json:"items"`
	Total  int           `json:"total"`
	Offset int           `json:"offset"`
	Limit  int           `json:"limit"`
	Stats  models.Stats  `json:"stats"`
}

// SearchResponse wraps quick-search results.
type SearchResponse struct {
	Results []models.Item `json:"results"`
	Total   int           `json:"total"`
}

// CategoryRequest is the body for adding a category.
type CategoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

// TagRequest is the body for adding a tag.
type TagRequest struct {
	Tag string `json:"tag"`
}

// ExportDocument is the full dump: the three persisted documents in one
// body. The same shape is accepted by import, where any subset may be
// supplied; supplied documents are overwritten whole.
type ExportDocument struct {
	Library    *models.Library     `json:"library,omitempty"`
	Categories *models.CategorySet `json:"categories,omitempty"`
	Tags       *models.TagSet      `json:"tags,omitempty"`
}
