package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/storage"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	fs, err := storage.NewFS(t.TempDir())
	require.NoError(t, err)
	return NewStore(fs)
}

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Research", "research"},
		{"Field Reports", "field-reports"},
		{"Maps & Charts!", "maps-charts"},
		{"  padded  ", "padded"},
		{"Déjà vu", "d-j-vu"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Slugify(c.in), "Slugify(%q)", c.in)
	}
}

func TestDefaultsSeededOnFirstUse(t *testing.T) {
	s := testStore(t)

	cats, err := s.Categories()
	require.NoError(t, err)
	assert.Equal(t, DefaultCategories(), cats)

	tags, err := s.Tags()
	require.NoError(t, err)
	assert.Equal(t, DefaultTags(), tags)
}

func TestDefaultsIncludeFallbackCategory(t *testing.T) {
	found := false
	for _, c := range DefaultCategories() {
		if c.ID == models.DefaultCategory {
			found = true
		}
	}
	assert.True(t, found, "the default item category must exist in the seed set")
}

func TestAddCategory(t *testing.T) {
	s := testStore(t)

	cat, err := s.AddCategory("Field Reports", "clipboard", "#aa3355")
	require.NoError(t, err)
	assert.Equal(t, "field-reports", cat.ID)

	cats, err := s.Categories()
	require.NoError(t, err)
	assert.Len(t, cats, len(DefaultCategories())+1)
}

func TestAddCategoryOverwritesOnSlugCollision(t *testing.T) {
	s := testStore(t)

	_, err := s.AddCategory("Field Reports", "clipboard", "#aa3355")
	require.NoError(t, err)
	// Different display name, same slug: the prior entry is overwritten.
	cat, err := s.AddCategory("field reports", "", "#000000")
	require.NoError(t, err)
	assert.Equal(t, "field-reports", cat.ID)

	cats, err := s.Categories()
	require.NoError(t, err)
	var matches []models.Category
	for _, c := range cats {
		if c.ID == "field-reports" {
			matches = append(matches, c)
		}
	}
	require.Len(t, matches, 1)
	assert.Equal(t, "field reports", matches[0].Name)
	assert.Equal(t, "#000000", matches[0].Color)
}

func TestAddTagIsIdempotent(t *testing.T) {
	s := testStore(t)

	tags, err := s.AddTag("osint")
	require.NoError(t, err)
	assert.Contains(t, tags, "osint")

	again, err := s.AddTag("osint")
	require.NoError(t, err)
	assert.Equal(t, tags, again, "re-adding must not duplicate")
}

func TestTagOrderIsInsertionOrder(t *testing.T) {
	s := testStore(t)
	_, err := s.AddTag("zulu")
	require.NoError(t, err)
	tags, err := s.AddTag("alpha")
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(tags), 2)
	assert.Equal(t, "zulu", tags[len(tags)-2])
	assert.Equal(t, "alpha", tags[len(tags)-1])
}

func TestReplaceDocuments(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.ReplaceCategories(&models.CategorySet{
		Categories: []models.Category{{ID: "solo", Name: "Solo"}},
	}))
	cats, err := s.Categories()
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "solo", cats[0].ID)

	require.NoError(t, s.ReplaceTags(&models.TagSet{Tags: []string{"only"}}))
	tags, err := s.Tags()
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, tags)
}
