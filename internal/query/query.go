// Package query implements the stateless filter/sort/paginate pass over an
// item snapshot. It is a pure function of its inputs: no locks, no side
// effects, no access to storage.
package query

import (
	"sort"
	"strings"

	"github.com/starford/othala/internal/models"
)

// DefaultLimit is applied when a request carries no explicit page size.
const DefaultLimit = 50

// Sort modes. Anything else (including empty) sorts newest first.
const (
	SortOldest = "oldest"
	SortTitle  = "title"
)

// Params are the filter/sort/pagination knobs. Zero values mean "no filter",
// default sort, offset 0, and DefaultLimit.
type Params struct {
	Search   string
	Category string
	Tag      string
	Type     string
	Sort     string
	Limit    int
	Offset   int
}

// Result is one page of matches. Total is the filtered count before
// pagination.
type Result struct {
	Items  []models.Item
	Total  int
	Offset int
	Limit  int
}

// Apply filters, sorts, and paginates the snapshot. The input slice is not
// modified; matched items are copied into a fresh slice before sorting.
func Apply(items []models.Item, p Params) Result {
	matched := make([]models.Item, 0, len(items))
	for _, it := range items {
		if matches(it, p) {
			matched = append(matched, it)
		}
	}

	sortItems(matched, p.Sort)

	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}

	total := len(matched)
	page := []models.Item{}
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		page = matched[offset:end]
	}

	return Result{Items: page, Total: total, Offset: offset, Limit: limit}
}

// matches AND-combines the predicates. The search term is OR-combined across
// title, description, tags, and content; absent optional fields simply do
// not match.
func matches(it models.Item, p Params) bool {
	if p.Category != "" && it.Category != p.Category {
		return false
	}
	if p.Type != "" && it.Type != p.Type {
		return false
	}
	if p.Tag != "" && !hasTag(it.Tags, p.Tag) {
		return false
	}
	if p.Search != "" && !searchMatch(it, p.Search) {
		return false
	}
	return true
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func searchMatch(it models.Item, term string) bool {
	needle := strings.ToLower(term)
	if strings.Contains(strings.ToLower(it.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(it.Description), needle) {
		return true
	}
	for _, t := range it.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(it.Content), needle)
}

func sortItems(items []models.Item, mode string) {
	switch mode {
	case SortOldest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Created.Before(items[j].Created)
		})
	case SortTitle:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Title < items[j].Title
		})
	default:
		// Newest first.
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Created.After(items[j].Created)
		})
	}
}
