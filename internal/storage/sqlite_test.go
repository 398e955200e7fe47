package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func tempSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteSaveAndLoad(t *testing.T) {
	s := tempSQLite(t)
	if err := s.Save("items", []byte(`{"items":[]}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load("items")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != `{"items":[]}` {
		t.Errorf("content = %q", got)
	}
}

func TestSQLiteMissingKey(t *testing.T) {
	s := tempSQLite(t)
	_, err := s.Load("categories")
	if !errors.Is(err, ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestSQLiteUpsert(t *testing.T) {
	s := tempSQLite(t)
	_ = s.Save("tags", []byte("v1"))
	if err := s.Save("tags", []byte("v2")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := s.Load("tags")
	if string(got) != "v2" {
		t.Errorf("content = %q, want v2", got)
	}
}

func TestSQLiteInvalidKey(t *testing.T) {
	s := tempSQLite(t)
	if err := s.Save("../escape", []byte("x")); err == nil {
		t.Error("invalid key should fail")
	}
}
