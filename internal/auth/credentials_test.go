package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissing(t *testing.T) {
	s := NewStore(t.TempDir())
	if got := s.Load(); got != nil {
		t.Errorf("Load with no file should return nil, got %+v", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	if err := s.Save(&Credentials{Token: "tok-abc", Email: "u@example.com"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "credentials.json"))
	if err != nil {
		t.Fatalf("credentials file missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("credentials file perm = %o, want 0600", perm)
	}

	creds := s.Load()
	if creds == nil {
		t.Fatal("Load returned nil after Save")
	}
	if creds.Token != "tok-abc" {
		t.Errorf("token = %q, want tok-abc", creds.Token)
	}
	if creds.SavedAt.IsZero() {
		t.Error("SavedAt should be stamped on save")
	}
}

func TestClear(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := s.Save(&Credentials{Token: "t"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if s.Load() != nil {
		t.Error("Load should return nil after Clear")
	}

	// Clearing again is not an error.
	if err := s.Clear(); err != nil {
		t.Errorf("Clear on missing file should be nil, got %v", err)
	}
}

func TestLoadRejectsEmptyToken(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	if err := os.WriteFile(filepath.Join(dir, "credentials.json"), []byte(`{"token":""}`), 0600); err != nil {
		t.Fatal(err)
	}
	if s.Load() != nil {
		t.Error("empty token should read as not logged in")
	}
}
