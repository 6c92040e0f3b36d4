package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// FileStore keeps each table as a pretty-printed JSON array file under a
// data directory. Writes are whole-file rewrites with no locking, so two
// concurrent writers race and the loser's write is silently lost. That
// last-write-wins guarantee is deliberately weaker than the
// repository-backed variant's sha-gated writes.
type FileStore struct {
	dir string
}

// NewFileStore ensures the data directory exists.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(table string) string {
	return filepath.Join(s.dir, table+".json")
}

// Load reads the table file, creating it empty on first use. A corrupt
// file is reset to an empty collection rather than failing every
// subsequent request.
func (s *FileStore) Load(_ context.Context, table string, out any) (string, error) {
	path := s.path(table)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := s.writeFile(path, emptyArray()); err != nil {
			return "", err
		}
		raw = emptyArray()
	} else if err != nil {
		return "", fmt.Errorf("read table %s: %w", table, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("[storage] Resetting corrupt table %s: %v", table, err)
		if err := s.writeFile(path, emptyArray()); err != nil {
			return "", err
		}
		return "", json.Unmarshal(emptyArray(), out)
	}
	return "", nil
}

// Store rewrites the whole table file. Versions are ignored: this
// backend is last-write-wins by design constraint.
func (s *FileStore) Store(_ context.Context, table string, in any, _, _ string) (string, error) {
	text, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize table %s: %w", table, err)
	}
	if err := s.writeFile(s.path(table), append(text, '\n')); err != nil {
		return "", err
	}
	return "", nil
}

func (s *FileStore) writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func emptyArray() []byte { return []byte("[]\n") }
