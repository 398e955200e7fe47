package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/othala/internal/apperr"
)

func tempFS(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestSaveAndLoad(t *testing.T) {
	s := tempFS(t)
	data := []byte(`{"items":[]}`)
	if err := s.Save("items", data); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load("items")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestLoadMissingKey(t *testing.T) {
	s := tempFS(t)
	_, err := s.Load("items")
	if !errors.Is(err, ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := tempFS(t)
	_ = s.Save("tags", []byte("v1"))
	if err := s.Save("tags", []byte("v2")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := s.Load("tags")
	if string(got) != "v2" {
		t.Errorf("content = %q, want v2", got)
	}
}

func TestInvalidKeyRejected(t *testing.T) {
	s := tempFS(t)
	for _, key := range []string{"", "../escape", "Upper", "a/b", "items.json"} {
		if err := s.Save(key, []byte("x")); err == nil {
			t.Errorf("Save(%q) should fail", key)
		}
		if _, err := s.Load(key); err == nil {
			t.Errorf("Load(%q) should fail", key)
		}
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	_ = s.Save("items", []byte("data"))
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "items.json" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("dir contents = %v, want [items.json]", names)
	}
}

func TestLoadJSONParseError(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "items.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var target struct{ Items []string }
	err = LoadJSON(s, "items", &target)
	if !errors.Is(err, apperr.ErrParse) {
		t.Errorf("err = %v, want apperr.ErrParse", err)
	}
	if IsNotExist(err) {
		t.Error("parse failure must not look like absence")
	}
}

func TestSaveLoadJSONRoundTrip(t *testing.T) {
	s := tempFS(t)
	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	in := doc{Name: "library", Count: 3}
	if err := SaveJSON(s, "items", &in); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}
	var out doc
	if err := LoadJSON(s, "items", &out); err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
