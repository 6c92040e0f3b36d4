package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"extynct-community/internal/hash"
	"extynct-community/internal/model"
	"extynct-community/internal/storage"
)

// AccountService implements account creation and sign-in as compound
// operations over a table store: fetch fresh, validate against the fresh
// copy, append, write back with the version token. Either the account is
// both appended and persisted or nothing changes.
type AccountService struct {
	tables storage.TableStore
	active *ActiveAccountStore // nil in the token-based server variant
}

func NewAccountService(tables storage.TableStore, active *ActiveAccountStore) *AccountService {
	return &AccountService{tables: tables, active: active}
}

// Create validates the sign-up input, checks uniqueness against a
// freshly fetched collection, and persists the new account. A write that
// loses the compare-and-swap race is retried exactly once against a
// re-fetched collection.
func (s *AccountService) Create(ctx context.Context, req *model.CreateAccountRequest) (*model.Account, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if username == "" || email == "" {
		return nil, model.Validation("Username and email are required.")
	}
	if !model.UsernameRE.MatchString(username) {
		return nil, model.Validation("Usernames must be 3-20 characters using letters, numbers, underscores, or hyphens.")
	}
	if !model.EmailRE.MatchString(email) {
		return nil, model.Validation("Enter a valid email address.")
	}
	if len(req.Password) < model.MinPasswordLength {
		return nil, model.Validation("Use a password with at least eight characters.")
	}
	if req.Password != req.Confirm {
		return nil, model.Validation("Passwords do not match.")
	}

	account := &model.Account{
		ID:           "acct_" + uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash.Hash(req.Password),
		CreatedAt:    time.Now().UTC(),
	}

	err := s.appendAccount(ctx, account)
	if errors.Is(err, model.ErrVersionConflict) {
		err = s.appendAccount(ctx, account)
	}
	if err != nil {
		return nil, err
	}

	if s.active != nil {
		s.active.Set(&model.ActiveAccount{Username: account.Username, Email: account.Email})
	}
	return account, nil
}

// appendAccount performs one fetch-validate-append-store attempt.
func (s *AccountService) appendAccount(ctx context.Context, account *model.Account) error {
	var accounts []model.Account
	version, err := s.tables.Load(ctx, storage.TableAccounts, &accounts)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}

	usernameLower := strings.ToLower(account.Username)
	for i := range accounts {
		if strings.ToLower(accounts[i].Username) == usernameLower {
			return model.ErrUsernameTaken
		}
		if strings.ToLower(accounts[i].Email) == account.Email {
			return model.ErrEmailTaken
		}
	}

	accounts = append(accounts, *account)
	_, err = s.tables.Store(ctx, storage.TableAccounts, accounts, version, "Add forum account "+account.Username)
	return err
}

// SignIn matches the identifier case-insensitively against usernames and
// emails of a freshly fetched collection and compares digests exactly.
func (s *AccountService) SignIn(ctx context.Context, req *model.SignInRequest) (*model.Account, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" {
		return nil, model.Validation("Enter your email or username and password.")
	}

	account, err := s.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if err := hash.Verify(req.Password, account.PasswordHash); err != nil {
		return nil, err
	}

	if s.active != nil {
		s.active.Set(&model.ActiveAccount{Username: account.Username, Email: account.Email})
	}
	return account, nil
}

// SignOut clears the active-account pointer. Signing out while already
// signed out changes nothing and is not an error.
func (s *AccountService) SignOut() {
	if s.active != nil {
		s.active.Clear()
	}
}

// Active returns the denormalized session pointer, or nil.
func (s *AccountService) Active() *model.ActiveAccount {
	if s.active == nil {
		return nil
	}
	return s.active.Get()
}

// FindByIdentifier resolves a username or email, case-insensitively.
func (s *AccountService) FindByIdentifier(ctx context.Context, identifier string) (*model.Account, error) {
	var accounts []model.Account
	if _, err := s.tables.Load(ctx, storage.TableAccounts, &accounts); err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	lowered := strings.ToLower(strings.TrimSpace(identifier))
	for i := range accounts {
		if strings.ToLower(accounts[i].Username) == lowered || strings.ToLower(accounts[i].Email) == lowered {
			return &accounts[i], nil
		}
	}
	return nil, model.ErrAccountNotFound
}

// FindByID resolves an account id, used when resolving sessions.
func (s *AccountService) FindByID(ctx context.Context, id string) (*model.Account, error) {
	if id == "" {
		return nil, model.ErrAccountNotFound
	}
	var accounts []model.Account
	if _, err := s.tables.Load(ctx, storage.TableAccounts, &accounts); err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i], nil
		}
	}
	return nil, model.ErrAccountNotFound
}
