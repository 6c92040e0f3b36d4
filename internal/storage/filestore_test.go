package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"extynct-community/internal/model"
)

func TestFileStoreFirstLoadCreatesEmptyTable(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	var accounts []model.Account
	if _, err := s.Load(context.Background(), TableAccounts, &accounts); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(accounts) != 0 {
		t.Fatalf("fresh table not empty: %+v", accounts)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "accounts.json"))
	if err != nil {
		t.Fatalf("table file was not created: %v", err)
	}
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Fatalf("fresh table content = %q", raw)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	in := []model.Post{{ID: "post_1", Title: "Hello"}}
	if _, err := s.Store(ctx, TablePosts, in, "", ""); err != nil {
		t.Fatalf("Store: %v", err)
	}

	var out []model.Post
	if _, err := s.Load(ctx, TablePosts, &out); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 1 || out[0].Title != "Hello" {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestFileStoreResetsCorruptTable(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "sessions.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	var sessions []model.Session
	if _, err := s.Load(context.Background(), TableSessions, &sessions); err != nil {
		t.Fatalf("Load after corruption: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("corrupt table should reset to empty, got %+v", sessions)
	}
}
