package memory

import (
	"context"
	"testing"
	"time"

	"github.com/revobank/revobank/internal/interfaces"
	"github.com/revobank/revobank/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAccount(id, userID, number string) models.Account {
	return models.Account{
		ID:            id,
		UserID:        userID,
		AccountNumber: number,
		AccountType:   "checking",
		Balance:       decimal.NewFromInt(100),
		Active:        true,
		CreatedAt:     time.Now().UTC(),
	}
}

func TestUserUniqueness(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, models.User{ID: "u1", Username: "jane", Email: "jane@example.com"}))

	err := s.CreateUser(ctx, models.User{ID: "u2", Username: "jane", Email: "other@example.com"})
	require.ErrorIs(t, err, interfaces.ErrDuplicateUser)

	err = s.CreateUser(ctx, models.User{ID: "u3", Username: "janet", Email: "jane@example.com"})
	require.ErrorIs(t, err, interfaces.ErrDuplicateUser)

	byName, err := s.GetUserByUsername(ctx, "jane")
	require.NoError(t, err)
	assert.Equal(t, "u1", byName.ID)

	byEmail, err := s.GetUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)

	_, err = s.GetUser(ctx, "missing")
	require.ErrorIs(t, err, interfaces.ErrUserNotFound)
}

func TestAccountNumberUniqueness(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.CreateAccount(ctx, testAccount("a1", "u1", "ACC-11111111")))
	err := s.CreateAccount(ctx, testAccount("a2", "u1", "ACC-11111111"))
	require.ErrorIs(t, err, interfaces.ErrDuplicateAccountNumber)
}

func TestApplyIsAtomic(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.CreateAccount(ctx, testAccount("a1", "u1", "ACC-00000001")))

	known := testAccount("a1", "u1", "ACC-00000001")
	known.Balance = decimal.NewFromInt(40)
	ghost := testAccount("ghost", "u1", "ACC-00000002")

	from := "a1"
	tx := models.Transaction{
		ID:            "t1",
		Type:          models.TypeWithdrawal,
		Amount:        decimal.NewFromInt(60),
		FromAccountID: &from,
		CreatedAt:     time.Now().UTC(),
	}

	// one unknown account fails the whole unit: no balance change, no entry
	err := s.Apply(ctx, tx, known, ghost)
	require.ErrorIs(t, err, interfaces.ErrAccountNotFound)

	account, err := s.GetAccount(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(100)))

	_, err = s.GetTransaction(ctx, "t1")
	require.ErrorIs(t, err, interfaces.ErrTransactionNotFound)

	// valid unit lands both writes
	require.NoError(t, s.Apply(ctx, tx, known))
	account, err = s.GetAccount(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(40)))

	got, err := s.GetTransaction(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.TypeWithdrawal, got.Type)
}

func TestListTransactionsFilterAndOrder(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Now().UTC()

	a1, a2 := "a1", "a2"
	entries := []models.Transaction{
		{ID: "t1", Type: models.TypeDeposit, Amount: decimal.NewFromInt(10), ToAccountID: &a1, CreatedAt: base},
		{ID: "t2", Type: models.TypeWithdrawal, Amount: decimal.NewFromInt(5), FromAccountID: &a1, CreatedAt: base.Add(time.Second)},
		{ID: "t3", Type: models.TypeTransfer, Amount: decimal.NewFromInt(3), FromAccountID: &a1, ToAccountID: &a2, CreatedAt: base.Add(2 * time.Second)},
	}
	require.NoError(t, s.CreateAccount(ctx, testAccount(a1, "u1", "ACC-A")))
	require.NoError(t, s.CreateAccount(ctx, testAccount(a2, "u2", "ACC-B")))
	for _, e := range entries {
		acc, err := s.GetAccount(ctx, a1)
		require.NoError(t, err)
		require.NoError(t, s.Apply(ctx, e, acc))
	}

	all, err := s.ListTransactions(ctx, []string{a1}, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "t3", all[0].ID)
	assert.Equal(t, "t2", all[1].ID)
	assert.Equal(t, "t1", all[2].ID)

	deposits, err := s.ListTransactions(ctx, []string{a1}, models.TypeDeposit)
	require.NoError(t, err)
	require.Len(t, deposits, 1)
	assert.Equal(t, "t1", deposits[0].ID)

	onlyA2, err := s.ListTransactions(ctx, []string{a2}, "")
	require.NoError(t, err)
	require.Len(t, onlyA2, 1)
	assert.Equal(t, "t3", onlyA2[0].ID)

	none, err := s.ListTransactions(ctx, []string{"elsewhere"}, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteAccount(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.CreateAccount(ctx, testAccount("a1", "u1", "ACC-1")))

	require.NoError(t, s.DeleteAccount(ctx, "a1"))
	_, err := s.GetAccount(ctx, "a1")
	require.ErrorIs(t, err, interfaces.ErrAccountNotFound)

	err = s.DeleteAccount(ctx, "a1")
	require.ErrorIs(t, err, interfaces.ErrAccountNotFound)
}
