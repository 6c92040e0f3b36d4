package service

import (
	"extynct-community/internal/kvstore"
	"extynct-community/internal/model"
)

const activeAccountKey = "extynct.activeAccount"

// ActiveAccountStore keeps the denormalized {username, email} pointer
// that stands in for a session in the non-token variants.
type ActiveAccountStore struct {
	kv *kvstore.Store
}

func NewActiveAccountStore(kv *kvstore.Store) *ActiveAccountStore {
	return &ActiveAccountStore{kv: kv}
}

// Get returns the active account, or nil when signed out.
func (s *ActiveAccountStore) Get() *model.ActiveAccount {
	var account model.ActiveAccount
	if !s.kv.Read(activeAccountKey, &account) {
		return nil
	}
	if account.Username == "" {
		return nil
	}
	return &account
}

// Set stores the pointer; nil clears it.
func (s *ActiveAccountStore) Set(account *model.ActiveAccount) {
	if account == nil {
		s.Clear()
		return
	}
	s.kv.Write(activeAccountKey, account)
}

// Clear signs out. Clearing an already-clear pointer is fine.
func (s *ActiveAccountStore) Clear() {
	s.kv.Delete(activeAccountKey)
}
