package service

import (
	"extynct-community/internal/kvstore"
	"extynct-community/internal/model"
)

const (
	repoConfigKey = "extynct.repo.config"
	repoTokenKey  = "extynct.repo.token"
)

// RepoConfigStore persists the repository capability descriptor. The
// write token lives under its own key so it can be cleared without
// discarding the owner/repo/branch part.
type RepoConfigStore struct {
	kv       *kvstore.Store
	defaults model.RepoConfig
}

func NewRepoConfigStore(kv *kvstore.Store, defaults model.RepoConfig) *RepoConfigStore {
	return &RepoConfigStore{kv: kv, defaults: defaults.Normalize()}
}

// Get merges the stored override onto the defaults and attaches the
// stored token.
func (s *RepoConfigStore) Get() model.RepoConfig {
	cfg := s.defaults

	var stored model.RepoConfig
	if s.kv.Read(repoConfigKey, &stored) {
		if stored.Owner != "" {
			cfg.Owner = stored.Owner
		}
		if stored.Repo != "" {
			cfg.Repo = stored.Repo
		}
		if stored.Branch != "" {
			cfg.Branch = stored.Branch
		}
		if stored.DataDir != "" {
			cfg.DataDir = stored.DataDir
		}
		if stored.MediaDir != "" {
			cfg.MediaDir = stored.MediaDir
		}
	}

	var token string
	if s.kv.Read(repoTokenKey, &token) {
		cfg.Token = token
	}
	return cfg.Normalize()
}

// Set stores the override (token excluded; it has its own key).
func (s *RepoConfigStore) Set(cfg model.RepoConfig) {
	s.kv.Write(repoConfigKey, cfg.Normalize())
}

// SetToken stores or, for an empty token, clears the write credential.
func (s *RepoConfigStore) SetToken(token string) {
	if token == "" {
		s.kv.Delete(repoTokenKey)
		return
	}
	s.kv.Write(repoTokenKey, token)
}

// ClearToken drops the write credential only.
func (s *RepoConfigStore) ClearToken() {
	s.kv.Delete(repoTokenKey)
}

// Clear drops the whole descriptor, token included.
func (s *RepoConfigStore) Clear() {
	s.kv.Delete(repoConfigKey)
	s.kv.Delete(repoTokenKey)
}
