package api

import "net/http"

// Router wires all HTTP routes. Everything except registration, login, and
// the health check sits behind the auth middleware.
func (a *API) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", a.HealthHandler)

	// User routes
	mux.HandleFunc("POST /users", a.CreateUserHandler)
	mux.HandleFunc("POST /users/login", a.LoginHandler)
	mux.HandleFunc("GET /users/me", a.AuthMiddleware(a.GetCurrentUserHandler))
	mux.HandleFunc("PUT /users/me", a.AuthMiddleware(a.UpdateCurrentUserHandler))

	// Account routes
	mux.HandleFunc("GET /accounts", a.AuthMiddleware(a.ListAccountsHandler))
	mux.HandleFunc("POST /accounts", a.AuthMiddleware(a.CreateAccountHandler))
	mux.HandleFunc("GET /accounts/{id}", a.AuthMiddleware(a.GetAccountHandler))
	mux.HandleFunc("PUT /accounts/{id}", a.AuthMiddleware(a.UpdateAccountHandler))
	mux.HandleFunc("DELETE /accounts/{id}", a.AuthMiddleware(a.DeleteAccountHandler))

	// Transaction routes
	mux.HandleFunc("GET /transactions", a.AuthMiddleware(a.ListTransactionsHandler))
	mux.HandleFunc("POST /transactions", a.AuthMiddleware(a.CreateTransactionHandler))
	mux.HandleFunc("GET /transactions/{id}", a.AuthMiddleware(a.GetTransactionHandler))

	return a.LoggingMiddleware(mux)
}
