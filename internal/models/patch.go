package models

// ItemPatch is a partial update. A nil field means "leave untouched"; a
// non-nil field overwrites, so setting a field to its zero value (clearing
// it) is representable and distinct from omitting it. JSON decoding maps
// absent keys to nil pointers, which is exactly the wire semantics the API
// needs.
type ItemPatch struct {
	Type        *string   `json:"type"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	URL         *string   `json:"url"`
	Content     *string   `json:"content"`
	Category    *string   `json:"category"`
	Tags        *[]string `json:"tags"`
	Country     *string   `json:"country"`
	Source      *string   `json:"source"`
	Starred     *bool     `json:"starred"`
}

// Apply overwrites the item's fields with the patch's present values.
func (p ItemPatch) Apply(it *Item) {
	if p.Type != nil {
		it.Type = *p.Type
	}
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.URL != nil {
		it.URL = *p.URL
	}
	if p.Content != nil {
		it.Content = *p.Content
	}
	if p.Category != nil {
		it.Category = *p.Category
	}
	if p.Tags != nil {
		it.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Country != nil {
		it.Country = *p.Country
	}
	if p.Source != nil {
		it.Source = *p.Source
	}
	if p.Starred != nil {
		it.Starred = *p.Starred
	}
}

// Empty reports whether the patch carries no changes.
func (p ItemPatch) Empty() bool {
	return p.Type == nil && p.Title == nil && p.Description == nil &&
		p.URL == nil && p.Content == nil && p.Category == nil &&
		p.Tags == nil && p.Country == nil && p.Source == nil && p.Starred == nil
}
