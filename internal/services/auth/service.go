// Package auth verifies credentials against the identity store and issues
// JWT bearer tokens.
package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/models"
)

// Both a missing user and a wrong password surface as ErrInvalidCredentials;
// the response never reveals which part was wrong. An inactive account is
// reported distinctly.
var (
	ErrInvalidCredentials = errors.New("Invalid username or password")
	ErrInactiveAccount    = errors.New("Account is inactive")
)

// UserSource is the identity collaborator: principal lookup and role names.
type UserSource interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	RolesFor(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type Service struct {
	users  UserSource
	issuer *TokenIssuer
}

func NewService(users UserSource, issuer *TokenIssuer) *Service {
	return &Service{users: users, issuer: issuer}
}

func (s *Service) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	roles, err := s.users.RolesFor(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return s.issuer.GenerateToken(user, roles)
}
