// Package taxonomy manages the category and tag vocabularies.
package taxonomy

import (
	"regexp"
	"strings"
	"sync"

	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/storage"
)

// Document keys.
const (
	CategoriesKey = "categories"
	TagsKey       = "tags"
)

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the deterministic category id from a display name:
// lowercase, every run of non-alphanumeric characters collapsed to a single
// hyphen. Distinct names can normalize to the same slug, in which case the
// later one overwrites the earlier entry.
func Slugify(name string) string {
	s := slugRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// DefaultCategories seeds a fresh install. "other" must exist because it is
// the fallback category for new items.
func DefaultCategories() []models.Category {
	return []models.Category{
		{ID: "documents", Name: "Documents", Icon: "file-text", Color: "#4a7cbd"},
		{ID: "media", Name: "Media", Icon: "image", Color: "#b05c9e"},
		{ID: "links", Name: "Links", Icon: "link", Color: "#4aa17c"},
		{ID: "research", Name: "Research", Icon: "book-open", Color: "#c28a3c"},
		{ID: "other", Name: "Other", Icon: "folder", Color: "#8a8f98"},
	}
}

// DefaultTags seeds a fresh install.
func DefaultTags() []string {
	return []string{"important", "reference", "archive", "todo"}
}

// Store persists the two taxonomy documents. The same mutex discipline as
// the item repository applies: one lock serializes read-modify-write cycles.
type Store struct {
	mu    sync.Mutex
	store storage.Provider
}

// NewStore creates a taxonomy store over the given document store.
func NewStore(store storage.Provider) *Store {
	return &Store{store: store}
}

// Categories returns all categories, seeding the defaults on first use.
func (s *Store) Categories() ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, err := s.loadCategories()
	if err != nil {
		return nil, err
	}
	return set.Categories, nil
}

// AddCategory adds (or, on slug collision, overwrites) a category and
// returns the stored entry.
func (s *Store) AddCategory(name, icon, color string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.loadCategories()
	if err != nil {
		return nil, err
	}

	cat := models.Category{ID: Slugify(name), Name: name, Icon: icon, Color: color}
	replaced := false
	for i := range set.Categories {
		if set.Categories[i].ID == cat.ID {
			set.Categories[i] = cat
			replaced = true
			break
		}
	}
	if !replaced {
		set.Categories = append(set.Categories, cat)
	}

	if err := storage.SaveJSON(s.store, CategoriesKey, set); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Tags returns all tags, seeding the defaults on first use.
func (s *Store) Tags() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, err := s.loadTags()
	if err != nil {
		return nil, err
	}
	return set.Tags, nil
}

// AddTag inserts a tag, preserving insertion order. Adding an existing tag
// is a no-op, not an error.
func (s *Store) AddTag(tag string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.loadTags()
	if err != nil {
		return nil, err
	}
	for _, t := range set.Tags {
		if t == tag {
			return set.Tags, nil
		}
	}
	set.Tags = append(set.Tags, tag)
	if err := storage.SaveJSON(s.store, TagsKey, set); err != nil {
		return nil, err
	}
	return set.Tags, nil
}

// ReplaceCategories overwrites the categories document (import path).
func (s *Store) ReplaceCategories(set *models.CategorySet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set.Categories == nil {
		set.Categories = []models.Category{}
	}
	return storage.SaveJSON(s.store, CategoriesKey, set)
}

// ReplaceTags overwrites the tags document (import path).
func (s *Store) ReplaceTags(set *models.TagSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set.Tags == nil {
		set.Tags = []string{}
	}
	return storage.SaveJSON(s.store, TagsKey, set)
}

func (s *Store) loadCategories() (*models.CategorySet, error) {
	var set models.CategorySet
	if err := storage.LoadJSON(s.store, CategoriesKey, &set); err != nil {
		if storage.IsNotExist(err) {
			return &models.CategorySet{Categories: DefaultCategories()}, nil
		}
		return nil, err
	}
	if set.Categories == nil {
		set.Categories = []models.Category{}
	}
	return &set, nil
}

func (s *Store) loadTags() (*models.TagSet, error) {
	var set models.TagSet
	if err := storage.LoadJSON(s.store, TagsKey, &set); err != nil {
		if storage.IsNotExist(err) {
			return &models.TagSet{Tags: DefaultTags()}, nil
		}
		return nil, err
	}
	if set.Tags == nil {
		set.Tags = []string{}
	}
	return &set, nil
}
