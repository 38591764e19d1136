// Package users coordinates account signup and login.
package users

import (
	"context"
	"errors"

	"gigfeed/internal/apperror"
	"gigfeed/internal/auth"
	"gigfeed/internal/models"
	"gigfeed/internal/store"
)

// Store defines persistence operations for users.
type Store interface {
	CreateUser(ctx context.Context, username, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (int64, error)
}

// Service coordinates user account operations.
type Service struct {
	store  Store
	tokens *auth.TokenService
}

// New constructs a users Service.
func New(store Store, tokens *auth.TokenService) *Service {
	return &Service{store: store, tokens: tokens}
}

// Signup registers a new user.
func (s *Service) Signup(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, apperror.Validation("username and password are required")
	}

	user, err := s.store.CreateUser(ctx, username, password)
	if errors.Is(err, store.ErrUserExists) {
		return nil, apperror.Conflict("username already taken")
	}
	return user, err
}

// Login validates credentials and issues an access token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	userID, err := s.store.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			return "", apperror.Unauthorized("invalid username or password")
		}
		return "", err
	}
	return s.tokens.Generate(userID)
}
