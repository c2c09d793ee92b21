package ledger

import "errors"

// Domain errors returned by the ledger engine. The HTTP layer maps these to
// status codes; within the engine they are terminal, an operation that
// returns one has made no state change.
var (
	// ErrValidation covers missing or malformed request fields.
	ErrValidation = errors.New("invalid request")

	// ErrInvalidAmount is returned when an amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrUnauthorized is returned when the requesting user does not own the
	// referenced account or transaction.
	ErrUnauthorized = errors.New("unauthorized access to resource")

	// ErrInsufficientBalance is returned when a withdrawal or transfer
	// exceeds the source account balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrNonZeroBalance is returned when deleting an account that still
	// holds funds.
	ErrNonZeroBalance = errors.New("cannot delete account with non-zero balance")

	// ErrSameAccount is returned when a transfer names the same account on
	// both sides.
	ErrSameAccount = errors.New("source and destination accounts are the same")
)
