package ledger

import (
	"context"
	"regexp"
	"testing"

	"github.com/revobank/revobank/internal/interfaces"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountNumberPattern = regexp.MustCompile(`^ACC-[0-9A-F]{8}$`)

func TestCreateAccount(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	account, err := l.CreateAccount(ctx, "alice", "savings", decimal.NewFromInt(250))
	require.NoError(t, err)

	assert.Equal(t, "alice", account.UserID)
	assert.Equal(t, "savings", account.AccountType)
	assert.True(t, account.Active)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(250)))
	assert.Regexp(t, accountNumberPattern, account.AccountNumber)
	assert.NotEmpty(t, account.ID)

	// account numbers must differ between accounts
	second, err := l.CreateAccount(ctx, "alice", "checking", decimal.Zero)
	require.NoError(t, err)
	assert.NotEqual(t, account.AccountNumber, second.AccountNumber)
}

func TestCreateAccountValidation(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.CreateAccount(ctx, "alice", "", decimal.Zero)
	require.ErrorIs(t, err, ErrValidation)

	_, err = l.CreateAccount(ctx, "alice", "savings", decimal.NewFromInt(-1))
	require.ErrorIs(t, err, ErrValidation)
}

func TestGetAccountOwnership(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()
	account := seedAccount(t, store, "alice", 100)

	got, err := l.GetAccount(ctx, "alice", account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	_, err = l.GetAccount(ctx, "bob", account.ID)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = l.GetAccount(ctx, "alice", "missing")
	require.ErrorIs(t, err, interfaces.ErrAccountNotFound)
}

func TestListAccounts(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()
	seedAccount(t, store, "alice", 10)
	seedAccount(t, store, "alice", 20)
	seedAccount(t, store, "bob", 30)

	accounts, err := l.ListAccounts(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	none, err := l.ListAccounts(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateAccount(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()
	account := seedAccount(t, store, "alice", 100)

	newType := "savings"
	inactive := false
	updated, err := l.UpdateAccount(ctx, "alice", account.ID, AccountUpdate{
		AccountType: &newType,
		Active:      &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "savings", updated.AccountType)
	assert.False(t, updated.Active)
	// balance is untouched by field updates
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(100)))

	_, err = l.UpdateAccount(ctx, "bob", account.ID, AccountUpdate{AccountType: &newType})
	require.ErrorIs(t, err, ErrUnauthorized)

	empty := ""
	_, err = l.UpdateAccount(ctx, "alice", account.ID, AccountUpdate{AccountType: &empty})
	require.ErrorIs(t, err, ErrValidation)
}

func TestDeleteAccount(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()
	funded := seedAccount(t, store, "alice", 100)
	empty := seedAccount(t, store, "alice", 0)

	err := l.DeleteAccount(ctx, "alice", funded.ID)
	require.ErrorIs(t, err, ErrNonZeroBalance)
	// still queryable after the refused delete
	_, err = l.GetAccount(ctx, "alice", funded.ID)
	require.NoError(t, err)

	require.NoError(t, l.DeleteAccount(ctx, "alice", empty.ID))
	_, err = l.GetAccount(ctx, "alice", empty.ID)
	require.ErrorIs(t, err, interfaces.ErrAccountNotFound)

	accounts, err := l.ListAccounts(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	err = l.DeleteAccount(ctx, "bob", funded.ID)
	require.ErrorIs(t, err, ErrUnauthorized)
}
