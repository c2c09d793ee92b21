// Package auth handles user registration, login, and access tokens. It is
// glue around the store: the ledger engine never sees credentials, it only
// receives the already-authenticated user id.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/revobank/revobank/internal/interfaces"
	"github.com/revobank/revobank/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUsernameTaken is returned when registering with an existing username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken is returned when registering or updating to an existing email.
	ErrEmailTaken = errors.New("email already exists")
	// ErrInvalidCredentials is returned on unknown username or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingFields is returned when a required registration field is empty.
	ErrMissingFields = errors.New("username, email, and password are required")
)

// Service manages user accounts and issues access tokens.
type Service struct {
	store  interfaces.Store
	tokens *TokenIssuer
}

// NewService builds an auth service around the store and token issuer.
func NewService(store interfaces.Store, tokens *TokenIssuer) *Service {
	return &Service{store: store, tokens: tokens}
}

// RegisterRequest carries the fields for creating a user. First and last
// name are optional.
type RegisterRequest struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UserUpdate carries the mutable user fields. Nil pointers leave the field
// untouched.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
}

// Register creates a user with a bcrypt-hashed password and returns the user
// together with a fresh access token.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (models.User, string, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return models.User{}, "", ErrMissingFields
	}

	if _, err := s.store.GetUserByUsername(ctx, req.Username); err == nil {
		return models.User{}, "", ErrUsernameTaken
	} else if !errors.Is(err, interfaces.ErrUserNotFound) {
		return models.User{}, "", err
	}
	if _, err := s.store.GetUserByEmail(ctx, req.Email); err == nil {
		return models.User{}, "", ErrEmailTaken
	} else if !errors.Is(err, interfaces.ErrUserNotFound) {
		return models.User{}, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return models.User{}, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Login verifies the credentials and returns the user with a fresh token.
func (s *Service) Login(ctx context.Context, username, password string) (models.User, string, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, interfaces.ErrUserNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// GetUser returns the user for an authenticated id.
func (s *Service) GetUser(ctx context.Context, id string) (models.User, error) {
	return s.store.GetUser(ctx, id)
}

// UpdateUser applies the given field changes to the authenticated user.
func (s *Service) UpdateUser(ctx context.Context, id string, update UserUpdate) (models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Email != nil && *update.Email != user.Email {
		if existing, err := s.store.GetUserByEmail(ctx, *update.Email); err == nil && existing.ID != id {
			return models.User{}, ErrEmailTaken
		} else if err != nil && !errors.Is(err, interfaces.ErrUserNotFound) {
			return models.User{}, err
		}
		user.Email = *update.Email
	}
	if update.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Verify exposes token verification for the HTTP middleware.
func (s *Service) Verify(token string) (string, error) {
	return s.tokens.Verify(token)
}
