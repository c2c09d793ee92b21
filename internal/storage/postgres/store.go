// Package postgres implements the Store boundary on top of PostgreSQL using
// lib/pq. Money movement goes through a single database transaction so the
// balance update and the ledger append land together or not at all.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/revobank/revobank/internal/interfaces"
	"github.com/revobank/revobank/internal/models"
)

type Store struct {
	db *sql.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateUser(ctx context.Context, user models.User) error {
	const query = `INSERT INTO users (id, username, email, password_hash, first_name, last_name, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.CreatedAt)
	return mapConstraintErr(err)
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	const query = `SELECT id, username, email, password_hash, first_name, last_name, created_at
	FROM users WHERE id = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	const query = `SELECT id, username, email, password_hash, first_name, last_name, created_at
	FROM users WHERE username = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, username))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT id, username, email, password_hash, first_name, last_name, created_at
	FROM users WHERE email = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *Store) UpdateUser(ctx context.Context, user models.User) error {
	const query = `UPDATE users SET username = $2, email = $3, password_hash = $4, first_name = $5, last_name = $6
	WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName)
	if err != nil {
		return mapConstraintErr(err)
	}
	return requireRow(res, interfaces.ErrUserNotFound)
}

func (s *Store) CreateAccount(ctx context.Context, account models.Account) error {
	const query = `INSERT INTO accounts (id, user_id, account_number, account_type, balance, is_active, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		account.ID, account.UserID, account.AccountNumber, account.AccountType,
		account.Balance, account.Active, account.CreatedAt)
	return mapConstraintErr(err)
}

func (s *Store) GetAccount(ctx context.Context, id string) (models.Account, error) {
	const query = `SELECT id, user_id, account_number, account_type, balance, is_active, created_at
	FROM accounts WHERE id = $1`
	return scanAccount(s.db.QueryRowContext(ctx, query, id))
}

func (s *Store) ListAccountsByUser(ctx context.Context, userID string) ([]models.Account, error) {
	const query = `SELECT id, user_id, account_number, account_type, balance, is_active, created_at
	FROM accounts WHERE user_id = $1 ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (s *Store) UpdateAccount(ctx context.Context, account models.Account) error {
	const query = `UPDATE accounts SET account_type = $2, balance = $3, is_active = $4 WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, account.ID, account.AccountType, account.Balance, account.Active)
	if err != nil {
		return err
	}
	return requireRow(res, interfaces.ErrAccountNotFound)
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, interfaces.ErrAccountNotFound)
}

func (s *Store) GetTransaction(ctx context.Context, id string) (models.Transaction, error) {
	const query = `SELECT id, transaction_type, amount, from_account_id, to_account_id, description, created_at
	FROM transactions WHERE id = $1`
	return scanTransaction(s.db.QueryRowContext(ctx, query, id))
}

func (s *Store) ListTransactions(ctx context.Context, accountIDs []string, typ models.TransactionType) ([]models.Transaction, error) {
	query := `SELECT id, transaction_type, amount, from_account_id, to_account_id, description, created_at
	FROM transactions
	WHERE (from_account_id = ANY($1) OR to_account_id = ANY($1))`
	args := []any{pq.Array(accountIDs)}

	if typ != "" {
		query += ` AND transaction_type = $2`
		args = append(args, string(typ))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// Apply runs the unit-of-work for one money movement: every balance update
// plus the transaction insert inside a single database transaction.
func (s *Store) Apply(ctx context.Context, tx models.Transaction, accounts ...models.Account) (err error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	const update = `UPDATE accounts SET balance = $2 WHERE id = $1`
	for _, account := range accounts {
		var res sql.Result
		res, err = dbTx.ExecContext(ctx, update, account.ID, account.Balance)
		if err != nil {
			return err
		}
		if err = requireRow(res, interfaces.ErrAccountNotFound); err != nil {
			return err
		}
	}

	const insert = `INSERT INTO transactions (id, transaction_type, amount, from_account_id, to_account_id, description, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = dbTx.ExecContext(ctx, insert,
		tx.ID, string(tx.Type), tx.Amount, tx.FromAccountID, tx.ToAccountID, tx.Description, tx.CreatedAt)
	if err != nil {
		return err
	}

	return dbTx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, interfaces.ErrUserNotFound
	}
	return u, err
}

func scanAccount(row scanner) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.UserID, &a.AccountNumber, &a.AccountType, &a.Balance, &a.Active, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, interfaces.ErrAccountNotFound
	}
	return a, err
}

func scanTransaction(row scanner) (models.Transaction, error) {
	var (
		t    models.Transaction
		typ  string
		from sql.NullString
		to   sql.NullString
	)
	err := row.Scan(&t.ID, &typ, &t.Amount, &from, &to, &t.Description, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, interfaces.ErrTransactionNotFound
	}
	if err != nil {
		return models.Transaction{}, err
	}
	t.Type = models.TransactionType(typ)
	if from.Valid {
		t.FromAccountID = &from.String
	}
	if to.Valid {
		t.ToAccountID = &to.String
	}
	return t, nil
}

// mapConstraintErr turns unique-violation errors into the store sentinels.
func mapConstraintErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		if strings.Contains(pqErr.Constraint, "account_number") {
			return fmt.Errorf("%w: %s", interfaces.ErrDuplicateAccountNumber, pqErr.Constraint)
		}
		return fmt.Errorf("%w: %s", interfaces.ErrDuplicateUser, pqErr.Constraint)
	}
	return err
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

var _ interfaces.Store = (*Store)(nil)
