// Package kvstore is a small key/value adapter over one JSON file per
// key. Availability is probed once at open; when the probe fails every
// write reports false but reads keep serving the in-memory mirror, so
// callers degrade to session-only persistence instead of failing hard.
package kvstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	dir       string
	available bool
	mirror    map[string]json.RawMessage
}

// Open probes dir with a throwaway write and seeds the memory mirror
// from any key files already present.
func Open(dir string) *Store {
	s := &Store{
		dir:    dir,
		mirror: make(map[string]json.RawMessage),
	}
	s.available = s.probe()
	s.seed()
	return s
}

func (s *Store) probe() bool {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return false
	}
	probe := filepath.Join(s.dir, ".kvstore-probe")
	if err := os.WriteFile(probe, []byte("1"), 0o644); err != nil {
		return false
	}
	_ = os.Remove(probe)
	return true
}

func (s *Store) seed() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil || !json.Valid(raw) {
			continue
		}
		s.mirror[strings.TrimSuffix(name, ".json")] = raw
	}
}

// Available reports whether the startup probe succeeded.
func (s *Store) Available() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.available
}

// Read unmarshals the stored value for key into out and reports whether
// the key existed. The value is decoded from the stored JSON, so callers
// always receive an independent copy they can mutate freely.
func (s *Store) Read(key string, out any) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.mirror[fileKey(key)]
	if !ok {
		return false
	}
	if out == nil {
		return true
	}
	return json.Unmarshal(raw, out) == nil
}

// Write stores value under key and reports whether the value reached
// disk. The memory mirror is updated regardless, so a false return still
// leaves the value readable for the lifetime of the process. A nil value
// deletes the key.
func (s *Store) Write(key string, value any) bool {
	if value == nil {
		return s.Delete(key)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fk := fileKey(key)
	s.mirror[fk] = raw

	if !s.available {
		return false
	}
	return os.WriteFile(s.path(fk), raw, 0o644) == nil
}

// Delete removes the key and reports whether the removal reached disk.
// Deleting an absent key succeeds.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	fk := fileKey(key)
	delete(s.mirror, fk)

	if !s.available {
		return false
	}
	err := os.Remove(s.path(fk))
	return err == nil || os.IsNotExist(err)
}

func (s *Store) path(fk string) string {
	return filepath.Join(s.dir, fk+".json")
}

// fileKey flattens a dotted key into a safe file name.
func fileKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
}
