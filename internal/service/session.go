package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"extynct-community/internal/model"
	"extynct-community/internal/storage"
)

// SessionService manages the server variant's token sessions, persisted
// as a flat sessions table next to accounts and posts.
type SessionService struct {
	tables   storage.TableStore
	accounts *AccountService
}

func NewSessionService(tables storage.TableStore, accounts *AccountService) *SessionService {
	return &SessionService{tables: tables, accounts: accounts}
}

// Mint issues an opaque random token and persists the session.
func (s *SessionService) Mint(ctx context.Context, accountID string) (string, error) {
	buf := make([]byte, model.SessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("mint session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	var sessions []model.Session
	version, err := s.tables.Load(ctx, storage.TableSessions, &sessions)
	if err != nil {
		return "", fmt.Errorf("load sessions: %w", err)
	}

	sessions = append(sessions, model.Session{
		Token:     token,
		AccountID: accountID,
		CreatedAt: time.Now().UTC(),
	})

	if _, err := s.tables.Store(ctx, storage.TableSessions, sessions, version, "Add session"); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}
	return token, nil
}

// Resolve looks up the session's account. A session whose account has
// vanished is dangling; it is purged on the spot and reported as
// orphaned.
func (s *SessionService) Resolve(ctx context.Context, token string) (*model.Account, error) {
	if token == "" {
		return nil, model.ErrMissingToken
	}

	var sessions []model.Session
	if _, err := s.tables.Load(ctx, storage.TableSessions, &sessions); err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	var session *model.Session
	for i := range sessions {
		if sessions[i].Token == token {
			session = &sessions[i]
			break
		}
	}
	if session == nil {
		return nil, model.ErrSessionNotFound
	}

	account, err := s.accounts.FindByID(ctx, session.AccountID)
	if err != nil {
		_ = s.Remove(ctx, token)
		return nil, model.ErrSessionOrphaned
	}
	return account, nil
}

// Remove deletes the session for the token. Removing a token that was
// never minted, or was already removed, succeeds: sign-out is
// idempotent.
func (s *SessionService) Remove(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	var sessions []model.Session
	version, err := s.tables.Load(ctx, storage.TableSessions, &sessions)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	filtered := sessions[:0]
	for _, session := range sessions {
		if session.Token != token {
			filtered = append(filtered, session)
		}
	}
	if len(filtered) == len(sessions) {
		return nil
	}

	if _, err := s.tables.Store(ctx, storage.TableSessions, filtered, version, "Remove session"); err != nil {
		return fmt.Errorf("persist sessions: %w", err)
	}
	return nil
}
