package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskStore writes uploads under a local directory served statically at
// publicPrefix. Filenames are timestamp-prefixed to avoid collisions.
type DiskStore struct {
	dir          string
	publicPrefix string
}

func NewDiskStore(dir, publicPrefix string) *DiskStore {
	return &DiskStore{dir: dir, publicPrefix: strings.TrimSuffix(publicPrefix, "/")}
}

// Dir returns the upload directory so the router can serve it.
func (s *DiskStore) Dir() string { return s.dir }

func (s *DiskStore) Put(_ context.Context, name, _ string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), safeName(name))
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload %s: %w", filename, err)
	}
	return s.publicPrefix + "/" + filename, nil
}

// safeName keeps [A-Za-z0-9_.-] and collapses the rest to hyphens.
func safeName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_', r == '.', r == '-':
			return r
		default:
			return '-'
		}
	}, filepath.Base(name))
	if cleaned == "" || cleaned == "." {
		return "file"
	}
	return cleaned
}
