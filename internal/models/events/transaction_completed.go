package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCompleted is emitted after a money movement has been durably
// committed. FromAccountID / ToAccountID are empty when the transaction type
// has no account on that side.
type TransactionCompleted struct {
	TransactionID string          `json:"transaction_id"`
	Type          string          `json:"transaction_type"`
	FromAccountID string          `json:"from_account_id,omitempty"`
	ToAccountID   string          `json:"to_account_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
