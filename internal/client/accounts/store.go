// Package accounts maintains the device-local roster of authenticated
// accounts and the switch protocol between them. The roster is bounded,
// keyed by username and persisted as JSON so it survives restarts.
package accounts

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/lucasmnd/toile/backend/internal/apperrors"
)

// MaxAccounts bounds the roster size per device.
const MaxAccounts = 3

// Store is the file-backed account roster. Mutations persist immediately,
// matching the write-through behavior of browser local storage.
type Store struct {
	path string

	mu       sync.Mutex
	accounts []Account
	adding   bool
	now      func() time.Time
}

// NewStore creates a Store persisting at path. Call Load before use.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Load reads the roster from disk. A missing file yields an empty roster.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.accounts = []Account{}
			return nil
		}
		return err
	}
	defer f.Close()

	var accounts []Account
	if err := json.NewDecoder(f).Decode(&accounts); err != nil {
		return err
	}
	s.accounts = accounts
	return nil
}

func (s *Store) save() error {
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(s.accounts)
}

// AddOrUpdate upserts an account by username. A non-empty token is stored
// with a fresh expiry; an empty token preserves whatever token and expiry
// the roster already holds for that username. Adding a new account to a
// full roster fails with a CapacityError.
func (s *Store) AddOrUpdate(acc Account, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.accounts {
		if existing.Username != acc.Username {
			continue
		}
		acc.Token = existing.Token
		acc.TokenExpiry = existing.TokenExpiry
		if token != "" {
			expiry := s.now().Add(TokenTTL)
			acc.Token = token
			acc.TokenExpiry = &expiry
		}
		s.accounts[i] = acc
		return s.save()
	}

	if len(s.accounts) >= MaxAccounts {
		return apperrors.NewCapacity("account roster is full (max %d)", MaxAccounts)
	}
	if token != "" {
		expiry := s.now().Add(TokenTTL)
		acc.Token = token
		acc.TokenExpiry = &expiry
	}
	s.accounts = append(s.accounts, acc)
	return s.save()
}

// Remove drops the account with the given username. Returns false when the
// username is not in the roster.
func (s *Store) Remove(username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, acc := range s.accounts {
		if acc.Username == username {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return true, s.save()
		}
	}
	return false, nil
}

// Get returns the account with the given username.
func (s *Store) Get(username string) (Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.accounts {
		if acc.Username == username {
			return acc, true
		}
	}
	return Account{}, false
}

// List returns a copy of the roster in insertion order.
func (s *Store) List() []Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// Len returns the roster size.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

// StartAdd begins the add-account flow. It fails fast, with no state change,
// when the roster is already at capacity.
func (s *Store) StartAdd() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.accounts) >= MaxAccounts {
		return false
	}
	s.adding = true
	return true
}

// FinishAdd clears the add-account flag.
func (s *Store) FinishAdd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adding = false
}

// Adding reports whether the add-account flow is in progress.
func (s *Store) Adding() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adding
}
