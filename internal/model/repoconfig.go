package model

import "errors"

// RepoConfig describes where the repository-backed "database" lives. The
// token is a write credential and is stored under its own key so it can
// be cleared without losing the rest of the config.
type RepoConfig struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	Branch   string `json:"branch"`
	Token    string `json:"-"`
	DataDir  string `json:"dataDir"`
	MediaDir string `json:"mediaDir"`
}

// TokenPlaceholder is the sample value shipped in config templates. A
// token equal to it counts as not configured.
const TokenPlaceholder = "YOUR_GITHUB_TOKEN"

// Defaults applied when fields are left empty.
const (
	DefaultBranch   = "main"
	DefaultDataDir  = "hidden/community"
	DefaultMediaDir = "uploads/community"
)

// Normalize fills defaulted fields in place and returns the config.
func (c RepoConfig) Normalize() RepoConfig {
	if c.Branch == "" {
		c.Branch = DefaultBranch
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.MediaDir == "" {
		c.MediaDir = DefaultMediaDir
	}
	return c
}

// IsConfigured reports whether the config names a writable repository.
func (c RepoConfig) IsConfigured() bool {
	if c.Owner == "" || c.Repo == "" || c.Token == "" {
		return false
	}
	return c.Token != TokenPlaceholder
}

var (
	// ErrNotConfigured is returned when remote operations run without a
	// complete repository configuration. Administrative, not user error.
	ErrNotConfigured = errors.New("repository owner, name, and access token are not configured yet")

	// ErrVersionConflict is returned when a compare-and-swap write loses
	// to a concurrent writer. Callers may re-fetch and retry.
	ErrVersionConflict = errors.New("the collection changed while saving; fetch the latest copy and retry")

	// ErrStorageUnavailable is returned when the persistent store failed
	// its availability probe. Reads keep working from the memory mirror.
	ErrStorageUnavailable = errors.New("persistent storage is unavailable; changes will not survive a restart")
)
