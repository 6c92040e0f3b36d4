package storage

import (
	"context"
	"encoding/json"
	"log"

	"extynct-community/internal/repoclient"
)

// GitHubStore keeps each table as a JSON file in a hosted git repository
// and threads the blob SHA through as the version token. This is the
// only variant with a real concurrency guard: a Store carrying a stale
// SHA fails with model.ErrVersionConflict instead of losing an update.
type GitHubStore struct {
	client *repoclient.Client
}

func NewGitHubStore(client *repoclient.Client) *GitHubStore {
	return &GitHubStore{client: client}
}

// Client exposes the underlying repository client for media uploads.
func (s *GitHubStore) Client() *repoclient.Client { return s.client }

// Load fetches the table file. A file that does not exist yet, holds a
// non-array, or fails to parse all coerce to the empty collection so a
// half-initialized repository never blocks the forms.
func (s *GitHubStore) Load(ctx context.Context, table string, out any) (string, error) {
	raw, sha, err := s.client.FetchCollection(ctx, s.client.CollectionPath(table))
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return sha, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("[storage] Table %s holds unparseable content; treating as empty: %v", table, err)
	}
	return sha, nil
}

// Store writes the table with the compare-and-swap token. One write
// attempt per call; conflict handling belongs to the caller.
func (s *GitHubStore) Store(ctx context.Context, table string, in any, version, message string) (string, error) {
	return s.client.SaveCollection(ctx, s.client.CollectionPath(table), in, version, message)
}
