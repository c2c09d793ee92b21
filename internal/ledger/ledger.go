// Package ledger implements the balance-mutation and transaction-ledger
// engine: ownership and sufficiency checks, atomic balance updates, and the
// append-only transaction history that explains every balance.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/revobank/revobank/internal/interfaces"
	"github.com/revobank/revobank/internal/models"
	"github.com/revobank/revobank/internal/models/events"
)

// Ledger validates and executes money-movement requests. Mutations on a
// given account are serialized through a per-account mutex so that two
// concurrent operations can never both pass a sufficiency check against a
// stale balance, regardless of the store backend.
type Ledger struct {
	store  interfaces.Store
	events interfaces.EventPublisher
	logger *slog.Logger

	mapMu sync.Mutex
	muMap map[string]*sync.Mutex
}

// New builds a Ledger around the given store. The publisher may be nil, in
// which case no events are emitted.
func New(store interfaces.Store, publisher interfaces.EventPublisher, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		store:  store,
		events: publisher,
		logger: logger,
		muMap:  make(map[string]*sync.Mutex),
	}
}

func (l *Ledger) accountLock(accountID string) *sync.Mutex {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	mu, ok := l.muMap[accountID]
	if !ok {
		mu = &sync.Mutex{}
		l.muMap[accountID] = mu
	}
	return mu
}

// lockAccounts acquires the mutexes for the given accounts in id order, so
// two opposite-direction transfers cannot deadlock. It returns the matching
// unlock function.
func (l *Ledger) lockAccounts(ids ...string) func() {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	locks := make([]*sync.Mutex, 0, len(sorted))
	for _, id := range sorted {
		mu := l.accountLock(id)
		mu.Lock()
		locks = append(locks, mu)
	}
	return func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}
}

// Deposit credits an account owned by userID and appends the matching
// transaction. Both effects land atomically or not at all.
func (l *Ledger) Deposit(ctx context.Context, userID string, req DepositRequest) (models.Transaction, models.Account, error) {
	if err := req.Validate(); err != nil {
		return models.Transaction{}, models.Account{}, err
	}

	unlock := l.lockAccounts(req.ToAccountID)
	defer unlock()

	account, err := l.ownedAccount(ctx, userID, req.ToAccountID)
	if err != nil {
		return models.Transaction{}, models.Account{}, err
	}

	account.Balance = account.Balance.Add(req.Amount)
	tx := models.Transaction{
		ID:          uuid.New().String(),
		Type:        models.TypeDeposit,
		Amount:      req.Amount,
		ToAccountID: &account.ID,
		Description: defaultDescription(req.Description, "Deposit"),
		CreatedAt:   time.Now().UTC(),
	}

	if err := l.store.Apply(ctx, tx, account); err != nil {
		return models.Transaction{}, models.Account{}, fmt.Errorf("apply deposit: %w", err)
	}

	l.publish(ctx, tx)
	return tx, account, nil
}

// Withdraw debits an account owned by userID after checking the balance
// covers the amount.
func (l *Ledger) Withdraw(ctx context.Context, userID string, req WithdrawRequest) (models.Transaction, models.Account, error) {
	if err := req.Validate(); err != nil {
		return models.Transaction{}, models.Account{}, err
	}

	unlock := l.lockAccounts(req.FromAccountID)
	defer unlock()

	account, err := l.ownedAccount(ctx, userID, req.FromAccountID)
	if err != nil {
		return models.Transaction{}, models.Account{}, err
	}
	if account.Balance.LessThan(req.Amount) {
		return models.Transaction{}, models.Account{}, ErrInsufficientBalance
	}

	account.Balance = account.Balance.Sub(req.Amount)
	tx := models.Transaction{
		ID:            uuid.New().String(),
		Type:          models.TypeWithdrawal,
		Amount:        req.Amount,
		FromAccountID: &account.ID,
		Description:   defaultDescription(req.Description, "Withdrawal"),
		CreatedAt:     time.Now().UTC(),
	}

	if err := l.store.Apply(ctx, tx, account); err != nil {
		return models.Transaction{}, models.Account{}, fmt.Errorf("apply withdrawal: %w", err)
	}

	l.publish(ctx, tx)
	return tx, account, nil
}

// Transfer moves money from an account owned by userID to any other account.
// The destination does not have to belong to the requesting user; crediting
// another user's account is how inter-user transfers work.
func (l *Ledger) Transfer(ctx context.Context, userID string, req TransferRequest) (models.Transaction, models.Account, models.Account, error) {
	if err := req.Validate(); err != nil {
		return models.Transaction{}, models.Account{}, models.Account{}, err
	}

	unlock := l.lockAccounts(req.FromAccountID, req.ToAccountID)
	defer unlock()

	from, err := l.store.GetAccount(ctx, req.FromAccountID)
	if err != nil {
		return models.Transaction{}, models.Account{}, models.Account{}, fmt.Errorf("source account: %w", err)
	}
	to, err := l.store.GetAccount(ctx, req.ToAccountID)
	if err != nil {
		return models.Transaction{}, models.Account{}, models.Account{}, fmt.Errorf("destination account: %w", err)
	}
	if from.UserID != userID {
		return models.Transaction{}, models.Account{}, models.Account{}, fmt.Errorf("source account: %w", ErrUnauthorized)
	}
	if from.Balance.LessThan(req.Amount) {
		return models.Transaction{}, models.Account{}, models.Account{}, ErrInsufficientBalance
	}

	from.Balance = from.Balance.Sub(req.Amount)
	to.Balance = to.Balance.Add(req.Amount)
	tx := models.Transaction{
		ID:            uuid.New().String(),
		Type:          models.TypeTransfer,
		Amount:        req.Amount,
		FromAccountID: &from.ID,
		ToAccountID:   &to.ID,
		Description:   defaultDescription(req.Description, "Transfer"),
		CreatedAt:     time.Now().UTC(),
	}

	if err := l.store.Apply(ctx, tx, from, to); err != nil {
		return models.Transaction{}, models.Account{}, models.Account{}, fmt.Errorf("apply transfer: %w", err)
	}

	l.publish(ctx, tx)
	return tx, from, to, nil
}

// ListTransactions returns the transactions touching any account owned by
// userID, most recent first, optionally narrowed by account and type.
func (l *Ledger) ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]models.Transaction, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", ErrValidation, filter.Type)
	}

	accounts, err := l.store.ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.ID)
	}
	if len(ids) == 0 {
		return []models.Transaction{}, nil
	}

	if filter.AccountID != "" {
		owned := false
		for _, id := range ids {
			if id == filter.AccountID {
				owned = true
				break
			}
		}
		if !owned {
			return nil, ErrUnauthorized
		}
		ids = []string{filter.AccountID}
	}

	txs, err := l.store.ListTransactions(ctx, ids, filter.Type)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	return txs, nil
}

// GetTransaction returns a transaction if the requesting user owns at least
// one of its referenced accounts.
func (l *Ledger) GetTransaction(ctx context.Context, userID, transactionID string) (models.Transaction, error) {
	tx, err := l.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return models.Transaction{}, err
	}

	accounts, err := l.store.ListAccountsByUser(ctx, userID)
	if err != nil {
		return models.Transaction{}, err
	}
	for _, a := range accounts {
		if tx.Touches(a.ID) {
			return tx, nil
		}
	}
	return models.Transaction{}, ErrUnauthorized
}

// ownedAccount fetches an account and verifies ownership. Callers must hold
// the account lock when the result feeds a mutation.
func (l *Ledger) ownedAccount(ctx context.Context, userID, accountID string) (models.Account, error) {
	account, err := l.store.GetAccount(ctx, accountID)
	if err != nil {
		return models.Account{}, err
	}
	if account.UserID != userID {
		return models.Account{}, ErrUnauthorized
	}
	return account, nil
}

func (l *Ledger) publish(ctx context.Context, tx models.Transaction) {
	if l.events == nil {
		return
	}
	evt := events.TransactionCompleted{
		TransactionID: tx.ID,
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		Description:   tx.Description,
		OccurredAt:    tx.CreatedAt,
	}
	if tx.FromAccountID != nil {
		evt.FromAccountID = *tx.FromAccountID
	}
	if tx.ToAccountID != nil {
		evt.ToAccountID = *tx.ToAccountID
	}
	if err := l.events.Publish(ctx, evt); err != nil {
		l.logger.Warn("failed to publish transaction event", "transaction_id", tx.ID, "err", err)
	}
}

func defaultDescription(desc, fallback string) string {
	if desc == "" {
		return fallback
	}
	return desc
}
