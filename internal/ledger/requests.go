package ledger

import (
	"fmt"

	"github.com/revobank/revobank/internal/models"
	"github.com/shopspring/decimal"
)

// DepositRequest credits an account owned by the requesting user.
type DepositRequest struct {
	ToAccountID string
	Amount      decimal.Decimal
	Description string
}

// Validate checks the request shape before it reaches the engine.
func (r DepositRequest) Validate() error {
	if r.ToAccountID == "" {
		return fmt.Errorf("%w: destination account is required", ErrValidation)
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// WithdrawRequest debits an account owned by the requesting user.
type WithdrawRequest struct {
	FromAccountID string
	Amount        decimal.Decimal
	Description   string
}

// Validate checks the request shape before it reaches the engine.
func (r WithdrawRequest) Validate() error {
	if r.FromAccountID == "" {
		return fmt.Errorf("%w: source account is required", ErrValidation)
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// TransferRequest moves money between two accounts. Only the source account
// has to belong to the requesting user; the destination may belong to anyone.
type TransferRequest struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Description   string
}

// Validate checks the request shape before it reaches the engine.
func (r TransferRequest) Validate() error {
	if r.FromAccountID == "" {
		return fmt.Errorf("%w: source account is required", ErrValidation)
	}
	if r.ToAccountID == "" {
		return fmt.Errorf("%w: destination account is required", ErrValidation)
	}
	if r.FromAccountID == r.ToAccountID {
		return ErrSameAccount
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// TransactionFilter narrows a transaction listing. Zero values mean no
// filtering on that dimension.
type TransactionFilter struct {
	AccountID string
	Type      models.TransactionType
}

// AccountUpdate carries the mutable account fields. Nil pointers leave the
// field untouched.
type AccountUpdate struct {
	AccountType *string
	Active      *bool
}
