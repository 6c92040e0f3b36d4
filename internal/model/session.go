package model

import (
	"errors"
	"time"
)

// Session is a server-tracked authentication record. The token is opaque
// random hex; possession of it proves authentication.
type Session struct {
	Token     string    `json:"token"`
	AccountID string    `json:"accountId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionTokenBytes is the entropy of a minted session token.
const SessionTokenBytes = 32

var (
	// ErrSessionNotFound is returned when no session matches the token
	ErrSessionNotFound = errors.New("session expired")

	// ErrSessionOrphaned is returned when a session references an account
	// that no longer exists; the session is purged when this is detected.
	ErrSessionOrphaned = errors.New("account no longer exists")

	// ErrSignInRequired is returned for authenticated operations without a session
	ErrSignInRequired = errors.New("sign in required")

	// ErrMissingToken is returned when no token accompanies the request
	ErrMissingToken = errors.New("missing session token")
)
