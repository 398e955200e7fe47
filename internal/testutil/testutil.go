// Package testutil provides shared test helpers for setting up document and
// blob stores.
package testutil

import (
	"testing"

	"github.com/starford/othala/internal/ingest"
	"github.com/starford/othala/internal/library"
	"github.com/starford/othala/internal/storage"
	"github.com/starford/othala/internal/taxonomy"
)

// TestStore creates a filesystem document store in a temp directory.
func TestStore(t *testing.T) storage.Provider {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestBlobs creates a blob store in a temp directory with the default
// upload ceiling.
func TestBlobs(t *testing.T) *ingest.Store {
	t.Helper()
	blobs, err := ingest.NewStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	return blobs
}

// TestRepo wires a repository, taxonomy store, and blob store over temp
// directories.
func TestRepo(t *testing.T) (*library.Repository, *taxonomy.Store, *ingest.Store) {
	t.Helper()
	store := TestStore(t)
	blobs := TestBlobs(t)
	return library.NewRepository(store, blobs), taxonomy.NewStore(store), blobs
}
