package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/revobank/revobank/internal/interfaces"
	"github.com/revobank/revobank/internal/models"
	"github.com/shopspring/decimal"
)

// maxNumberAttempts bounds the retry loop when a freshly generated account
// number collides with an existing one.
const maxNumberAttempts = 5

// CreateAccount opens a new account for userID with a generated account
// number. The initial balance may be zero or positive.
func (l *Ledger) CreateAccount(ctx context.Context, userID, accountType string, initialBalance decimal.Decimal) (models.Account, error) {
	if accountType == "" {
		return models.Account{}, fmt.Errorf("%w: account type is required", ErrValidation)
	}
	if initialBalance.IsNegative() {
		return models.Account{}, fmt.Errorf("%w: initial balance cannot be negative", ErrValidation)
	}

	account := models.Account{
		ID:          uuid.New().String(),
		UserID:      userID,
		AccountType: accountType,
		Balance:     initialBalance,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		account.AccountNumber = newAccountNumber()
		err := l.store.CreateAccount(ctx, account)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, interfaces.ErrDuplicateAccountNumber) {
			return models.Account{}, fmt.Errorf("create account: %w", err)
		}
	}
	return models.Account{}, fmt.Errorf("create account: %w", interfaces.ErrDuplicateAccountNumber)
}

// GetAccount returns an account owned by userID.
func (l *Ledger) GetAccount(ctx context.Context, userID, accountID string) (models.Account, error) {
	return l.ownedAccount(ctx, userID, accountID)
}

// ListAccounts returns all accounts owned by userID.
func (l *Ledger) ListAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	accounts, err := l.store.ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	return accounts, nil
}

// UpdateAccount mutates the account type and/or active flag of an account
// owned by userID. Balances are only ever changed by ledger operations.
func (l *Ledger) UpdateAccount(ctx context.Context, userID, accountID string, update AccountUpdate) (models.Account, error) {
	unlock := l.lockAccounts(accountID)
	defer unlock()

	account, err := l.ownedAccount(ctx, userID, accountID)
	if err != nil {
		return models.Account{}, err
	}

	if update.AccountType != nil {
		if *update.AccountType == "" {
			return models.Account{}, fmt.Errorf("%w: account type cannot be empty", ErrValidation)
		}
		account.AccountType = *update.AccountType
	}
	if update.Active != nil {
		account.Active = *update.Active
	}

	if err := l.store.UpdateAccount(ctx, account); err != nil {
		return models.Account{}, fmt.Errorf("update account: %w", err)
	}
	return account, nil
}

// DeleteAccount removes an account owned by userID. Accounts with a non-zero
// balance are refused; the transaction history referencing the account is
// kept, the ledger stays append-only.
func (l *Ledger) DeleteAccount(ctx context.Context, userID, accountID string) error {
	unlock := l.lockAccounts(accountID)
	defer unlock()

	account, err := l.ownedAccount(ctx, userID, accountID)
	if err != nil {
		return err
	}
	if !account.Balance.IsZero() {
		return ErrNonZeroBalance
	}
	return l.store.DeleteAccount(ctx, accountID)
}

// newAccountNumber derives a human-readable account number from a random
// UUID: "ACC-" plus its first eight hex characters, uppercased. Uniqueness is
// backed by the store's unique constraint, with CreateAccount retrying on a
// collision.
func newAccountNumber() string {
	hexID := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "ACC-" + strings.ToUpper(hexID[:8])
}
