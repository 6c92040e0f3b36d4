package service

import (
	"testing"

	"extynct-community/internal/kvstore"
	"extynct-community/internal/model"
)

func TestRepoConfigStore_DefaultsAndOverrides(t *testing.T) {
	kv := kvstore.Open(t.TempDir())
	store := NewRepoConfigStore(kv, model.RepoConfig{
		Owner: "extynct-games",
		Repo:  "site-data",
	})

	cfg := store.Get()
	if cfg.Owner != "extynct-games" || cfg.Branch != model.DefaultBranch {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.IsConfigured() {
		t.Error("config without a token must not count as configured")
	}

	store.Set(model.RepoConfig{Branch: "staging"})
	store.SetToken("ghp_secret")

	cfg = store.Get()
	if cfg.Branch != "staging" {
		t.Errorf("branch = %q, want the stored override", cfg.Branch)
	}
	if cfg.Owner != "extynct-games" {
		t.Errorf("owner = %q, defaults must survive a partial override", cfg.Owner)
	}
	if cfg.Token != "ghp_secret" || !cfg.IsConfigured() {
		t.Errorf("cfg = %+v, want configured with token", cfg)
	}
}

func TestRepoConfigStore_TokenLifecycle(t *testing.T) {
	kv := kvstore.Open(t.TempDir())
	store := NewRepoConfigStore(kv, model.RepoConfig{Owner: "o", Repo: "r"})

	store.SetToken("ghp_secret")
	store.ClearToken()
	if cfg := store.Get(); cfg.Token != "" {
		t.Errorf("token = %q after clear", cfg.Token)
	}

	// An empty SetToken clears too.
	store.SetToken("ghp_other")
	store.SetToken("")
	if cfg := store.Get(); cfg.Token != "" {
		t.Errorf("token = %q after empty set", cfg.Token)
	}
}

func TestRepoConfigStore_ClearDropsEverything(t *testing.T) {
	kv := kvstore.Open(t.TempDir())
	store := NewRepoConfigStore(kv, model.RepoConfig{Owner: "o", Repo: "r"})

	store.Set(model.RepoConfig{Branch: "staging"})
	store.SetToken("ghp_secret")
	store.Clear()

	cfg := store.Get()
	if cfg.Branch != model.DefaultBranch || cfg.Token != "" {
		t.Errorf("cfg = %+v after clear", cfg)
	}
}

func TestActiveAccountStore(t *testing.T) {
	dir := t.TempDir()
	kv := kvstore.Open(dir)
	store := NewActiveAccountStore(kv)

	if store.Get() != nil {
		t.Fatal("fresh store must have no active account")
	}

	store.Set(&model.ActiveAccount{Username: "nova_racer", Email: "nova@example.com"})
	active := store.Get()
	if active == nil || active.Username != "nova_racer" {
		t.Fatalf("active = %+v", active)
	}

	// A reopened store sees the persisted pointer.
	reopened := NewActiveAccountStore(kvstore.Open(dir))
	if active := reopened.Get(); active == nil || active.Email != "nova@example.com" {
		t.Fatalf("reopened active = %+v", active)
	}

	store.Clear()
	if store.Get() != nil {
		t.Error("active account survives Clear")
	}
}
