// Package memory provides an in-memory Store implementation. It backs local
// development and the test suite; production deployments use the postgres
// store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/revobank/revobank/internal/interfaces"
	"github.com/revobank/revobank/internal/models"
)

// Store keeps all state in maps guarded by one mutex. Every read returns a
// copy so callers can never mutate internal state.
type Store struct {
	mu           sync.Mutex
	users        map[string]models.User
	accounts     map[string]models.Account
	transactions []models.Transaction
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]models.User),
		accounts: make(map[string]models.Account),
	}
}

func (s *Store) CreateUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return interfaces.ErrDuplicateUser
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, interfaces.ErrUserNotFound
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, interfaces.ErrUserNotFound
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, interfaces.ErrUserNotFound
}

func (s *Store) UpdateUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return interfaces.ErrUserNotFound
	}
	for id, u := range s.users {
		if id == user.ID {
			continue
		}
		if u.Username == user.Username || u.Email == user.Email {
			return interfaces.ErrDuplicateUser
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *Store) CreateAccount(ctx context.Context, account models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.AccountNumber == account.AccountNumber {
			return interfaces.ErrDuplicateAccountNumber
		}
	}
	s.accounts[account.ID] = account
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return models.Account{}, interfaces.ErrAccountNotFound
	}
	return a, nil
}

func (s *Store) ListAccountsByUser(ctx context.Context, userID string) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Account
	for _, a := range s.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateAccount(ctx context.Context, account models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.ID]; !ok {
		return interfaces.ErrAccountNotFound
	}
	s.accounts[account.ID] = account
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return interfaces.ErrAccountNotFound
	}
	delete(s.accounts, id)
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Transaction{}, interfaces.ErrTransactionNotFound
}

func (s *Store) ListTransactions(ctx context.Context, accountIDs []string, typ models.TransactionType) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make(map[string]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		ids[id] = struct{}{}
	}

	var out []models.Transaction
	for _, t := range s.transactions {
		if typ != "" && t.Type != typ {
			continue
		}
		if _, ok := ids[deref(t.FromAccountID)]; ok {
			out = append(out, t)
			continue
		}
		if _, ok := ids[deref(t.ToAccountID)]; ok {
			out = append(out, t)
		}
	}
	// Most recent first; equal timestamps keep insertion order.
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Apply writes the transaction and the new account balances inside one
// critical section, mirroring the atomicity the postgres store gets from a
// database transaction.
func (s *Store) Apply(ctx context.Context, tx models.Transaction, accounts ...models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range accounts {
		if _, ok := s.accounts[a.ID]; !ok {
			return interfaces.ErrAccountNotFound
		}
	}
	for _, a := range accounts {
		s.accounts[a.ID] = a
	}
	s.transactions = append(s.transactions, tx)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Compile-time check that Store satisfies the persistence boundary.
var _ interfaces.Store = (*Store)(nil)
