package models

// Category classifies items. ID is a deterministic slug derived from Name;
// submitting a second name that normalizes to the same slug overwrites the
// existing entry (known limitation, no versioning).
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

// CategorySet is the persisted categories document.
type CategorySet struct {
	Categories []Category `json:"categories"`
}

// TagSet is the persisted tags document. Order is insertion order; inserts
// of an existing tag are no-ops.
type TagSet struct {
	Tags []string `json:"tags"`
}
