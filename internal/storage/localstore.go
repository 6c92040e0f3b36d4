package storage

import (
	"context"
	"log"
	"sync"

	"extynct-community/internal/kvstore"
	"extynct-community/internal/model"
)

// keyPrefix namespaces table keys in the key/value adapter. The same
// prefix is used for the active-account pointer and repository config so
// one directory holds the whole client-side state.
const keyPrefix = "extynct."

// LocalStore adapts the key/value store to the table contract. It never
// hard-fails on an unavailable disk: the kvstore mirror keeps serving
// reads and absorbing writes for the life of the process, which is the
// session-only degradation mode.
type LocalStore struct {
	kv *kvstore.Store

	warnOnce sync.Once
}

func NewLocalStore(kv *kvstore.Store) *LocalStore {
	return &LocalStore{kv: kv}
}

// Available reports whether writes are actually reaching disk.
func (s *LocalStore) Available() bool { return s.kv.Available() }

// Load reads the table; a missing key leaves out at its zero value,
// which is the empty collection.
func (s *LocalStore) Load(_ context.Context, table string, out any) (string, error) {
	s.kv.Read(keyPrefix+table, out)
	return "", nil
}

// Store writes the table. Unversioned: concurrent submissions within one
// process are serialized by the kvstore lock, nothing more.
func (s *LocalStore) Store(_ context.Context, table string, in any, _, _ string) (string, error) {
	if !s.kv.Write(keyPrefix+table, in) {
		s.warnOnce.Do(func() {
			log.Printf("[storage] %v; %s changes are memory-only for this session", model.ErrStorageUnavailable, table)
		})
	}
	return "", nil
}
