// Package api exposes the banking operations over HTTP. Handlers validate
// the request shape, call the ledger engine or auth service, and translate
// domain errors into status codes; no business rules live here.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/revobank/revobank/internal/auth"
	"github.com/revobank/revobank/internal/ledger"
	"github.com/revobank/revobank/internal/models"
	"github.com/shopspring/decimal"
)

// API bundles the handler dependencies.
type API struct {
	ledger *ledger.Ledger
	auth   *auth.Service
	logger *slog.Logger
}

// New builds the HTTP API around the ledger engine and auth service.
func New(l *ledger.Ledger, a *auth.Service, logger *slog.Logger) *API {
	return &API{ledger: l, auth: a, logger: logger}
}

type createUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
}

type createAccountRequest struct {
	AccountType    string          `json:"account_type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type updateAccountRequest struct {
	AccountType *string `json:"account_type"`
	IsActive    *bool   `json:"is_active"`
}

type createTransactionRequest struct {
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	FromAccountID   string          `json:"from_account_id"`
	ToAccountID     string          `json:"to_account_id"`
	Description     string          `json:"description"`
}

func (a *API) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, token, err := a.auth.Register(r.Context(), auth.RegisterRequest{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]any{
		"message":      "User created successfully",
		"user":         user,
		"access_token": token,
	})
}

func (a *API) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		httpError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, token, err := a.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		a.domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"message":      "Login successful",
		"user":         user,
		"access_token": token,
	})
}

func (a *API) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := a.auth.GetUser(r.Context(), UserID(r.Context()))
	if err != nil {
		a.domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

func (a *API) UpdateCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := a.auth.UpdateUser(r.Context(), UserID(r.Context()), auth.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "User updated successfully",
		"user":    user,
	})
}

func (a *API) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	accounts, err := a.ledger.ListAccounts(r.Context(), UserID(r.Context()))
	if err != nil {
		a.domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"accounts": accounts})
}

func (a *API) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	account, err := a.ledger.CreateAccount(r.Context(), UserID(r.Context()), req.AccountType, req.InitialBalance)
	if err != nil {
		a.domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "Account created successfully",
		"account": account,
	})
}

func (a *API) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	account, err := a.ledger.GetAccount(r.Context(), UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, account)
}

func (a *API) UpdateAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	account, err := a.ledger.UpdateAccount(r.Context(), UserID(r.Context()), r.PathValue("id"), ledger.AccountUpdate{
		AccountType: req.AccountType,
		Active:      req.IsActive,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "Account updated successfully",
		"account": account,
	})
}

func (a *API) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.ledger.DeleteAccount(r.Context(), UserID(r.Context()), r.PathValue("id")); err != nil {
		a.domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"message": "Account deleted successfully"})
}

func (a *API) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	filter := ledger.TransactionFilter{
		AccountID: r.URL.Query().Get("account_id"),
		Type:      models.TransactionType(r.URL.Query().Get("type")),
	}

	txs, err := a.ledger.ListTransactions(r.Context(), UserID(r.Context()), filter)
	if err != nil {
		a.domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"transactions": txs})
}

func (a *API) GetTransactionHandler(w http.ResponseWriter, r *http.Request) {
	tx, err := a.ledger.GetTransaction(r.Context(), UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, tx)
}

// CreateTransactionHandler dispatches on transaction_type to the matching
// ledger operation.
func (a *API) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	userID := UserID(r.Context())

	switch models.TransactionType(req.TransactionType) {
	case models.TypeDeposit:
		tx, account, err := a.ledger.Deposit(r.Context(), userID, ledger.DepositRequest{
			ToAccountID: req.ToAccountID,
			Amount:      req.Amount,
			Description: req.Description,
		})
		if err != nil {
			a.domainError(w, err)
			return
		}
		jsonResponse(w, http.StatusCreated, map[string]any{
			"message":         "Deposit successful",
			"transaction":     tx,
			"updated_balance": account.Balance,
		})

	case models.TypeWithdrawal:
		tx, account, err := a.ledger.Withdraw(r.Context(), userID, ledger.WithdrawRequest{
			FromAccountID: req.FromAccountID,
			Amount:        req.Amount,
			Description:   req.Description,
		})
		if err != nil {
			a.domainError(w, err)
			return
		}
		jsonResponse(w, http.StatusCreated, map[string]any{
			"message":         "Withdrawal successful",
			"transaction":     tx,
			"updated_balance": account.Balance,
		})

	case models.TypeTransfer:
		tx, from, to, err := a.ledger.Transfer(r.Context(), userID, ledger.TransferRequest{
			FromAccountID: req.FromAccountID,
			ToAccountID:   req.ToAccountID,
			Amount:        req.Amount,
			Description:   req.Description,
		})
		if err != nil {
			a.domainError(w, err)
			return
		}
		jsonResponse(w, http.StatusCreated, map[string]any{
			"message":                     "Transfer successful",
			"transaction":                 tx,
			"source_account_balance":      from.Balance,
			"destination_account_balance": to.Balance,
		})

	default:
		httpError(w, http.StatusBadRequest, "invalid transaction type")
	}
}

func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
