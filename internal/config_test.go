package internal

import (
	"strings"
	"testing"
)

func TestStoreConfig_EmptyBackendDefaultsFS(t *testing.T) {
	cfg := StoreConfig{Backend: "", Path: "./data"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty backend should default to fs: %v", err)
	}
	if cfg.Backend != BackendFS {
		t.Errorf("backend = %q, want %q", cfg.Backend, BackendFS)
	}
}

func TestStoreConfig_FSRequiresPath(t *testing.T) {
	cfg := StoreConfig{Backend: BackendFS, Path: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("fs backend with empty path should fail")
	}
	if !strings.Contains(err.Error(), "path is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStoreConfig_SQLiteRequiresPath(t *testing.T) {
	cfg := StoreConfig{Backend: BackendSQLite, SQLitePath: ""}
	if err := cfg.Validate(); err == nil {
		t.Fatal("sqlite backend with empty sqlite_path should fail")
	}

	cfg = StoreConfig{Backend: BackendSQLite, SQLitePath: "./othala.db"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sqlite backend with path should pass: %v", err)
	}
}

func TestStoreConfig_UnknownBackend(t *testing.T) {
	cfg := StoreConfig{Backend: "etcd", Path: "./data"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown backend should fail validation")
	}
}

func TestHTTPConfig_PortBounds(t *testing.T) {
	cfg := HTTPConfig{Port: 0}
	if err := cfg.Validate(); err == nil {
		t.Fatal("port 0 should fail")
	}
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("port above 65535 should fail")
	}
	cfg.Port = 8080
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid port should pass: %v", err)
	}
	if cfg.Address() != ":8080" {
		t.Errorf("address = %q, want :8080", cfg.Address())
	}
}

func TestUploadsConfig_DirRequired(t *testing.T) {
	cfg := UploadsConfig{Dir: ""}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty uploads dir should fail")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Store.Backend != BackendFS {
		t.Errorf("default backend = %q, want %q", cfg.Store.Backend, BackendFS)
	}
}

func TestFullConfig_StoreValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Store.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch store error")
	}
}
