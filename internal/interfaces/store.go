package interfaces

import (
	"context"
	"errors"

	"github.com/revobank/revobank/internal/models"
)

// Sentinel errors reported by Store implementations. The duplicate errors map
// to unique constraints in the postgres schema; the memory store enforces the
// same rules so both backends behave identically.
var (
	ErrUserNotFound           = errors.New("user not found")
	ErrAccountNotFound        = errors.New("account not found")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrDuplicateUser          = errors.New("username or email already exists")
	ErrDuplicateAccountNumber = errors.New("account number already exists")
)

// Store is the persistence boundary for users, accounts, and the transaction
// ledger. Transactions are append-only: there is no update or delete method
// for them by design.
type Store interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) error

	CreateAccount(ctx context.Context, account models.Account) error
	GetAccount(ctx context.Context, id string) (models.Account, error)
	ListAccountsByUser(ctx context.Context, userID string) ([]models.Account, error)
	UpdateAccount(ctx context.Context, account models.Account) error
	DeleteAccount(ctx context.Context, id string) error

	GetTransaction(ctx context.Context, id string) (models.Transaction, error)
	// ListTransactions returns transactions touching any of the given
	// accounts, optionally narrowed to one type, most recent first.
	ListTransactions(ctx context.Context, accountIDs []string, typ models.TransactionType) ([]models.Transaction, error)

	// Apply persists the transaction and the new balances of the given
	// accounts as a single atomic unit. Either everything lands or nothing
	// does.
	Apply(ctx context.Context, tx models.Transaction, accounts ...models.Account) error
}
