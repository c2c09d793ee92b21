package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds a monetary balance owned by exactly one user.
// Balance never goes negative; the ledger engine enforces that before any
// mutation reaches the store.
type Account struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	AccountNumber string          `json:"account_number"`
	AccountType   string          `json:"account_type"`
	Balance       decimal.Decimal `json:"balance"`
	Active        bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
}
