package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeTransfer   TransactionType = "transfer"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeTransfer:
		return true
	}
	return false
}

// Transaction is an immutable ledger entry. Exactly one account reference is
// set for deposits (to) and withdrawals (from); transfers set both. There is
// no update or delete path once a transaction is recorded.
type Transaction struct {
	ID            string          `json:"id"`
	Type          TransactionType `json:"transaction_type"`
	Amount        decimal.Decimal `json:"amount"`
	FromAccountID *string         `json:"from_account_id,omitempty"`
	ToAccountID   *string         `json:"to_account_id,omitempty"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Touches reports whether the transaction references the given account on
// either side.
func (t Transaction) Touches(accountID string) bool {
	if t.FromAccountID != nil && *t.FromAccountID == accountID {
		return true
	}
	if t.ToAccountID != nil && *t.ToAccountID == accountID {
		return true
	}
	return false
}
