// Package services holds the application logic between the HTTP boundary
// and the repositories.
package services

import (
	"context"
	"errors"

	"github.com/akarpovs/filedepot/internal/common"
	"github.com/akarpovs/filedepot/internal/logging"
	"github.com/akarpovs/filedepot/internal/server/auth"
	"github.com/akarpovs/filedepot/internal/server/models"
	"github.com/akarpovs/filedepot/internal/server/repositories/users"
	"github.com/akarpovs/filedepot/internal/server/sessions"
)

// UserService implements registration and the session lifecycle.
type UserService struct {
	users    users.Repository
	sessions *sessions.Store
	log      logging.Logger
}

func NewUserService(repo users.Repository, sess *sessions.Store, log logging.Logger) *UserService {
	return &UserService{users: repo, sessions: sess, log: log}
}

// Register creates a user from a plaintext password. Only the digest is
// stored.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, common.NewValidation("missing_email", "Missing email")
	}
	if password == "" {
		return nil, common.NewValidation("missing_password", "Missing password")
	}

	user, err := s.users.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: auth.HashPassword(password),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user registered", "id", user.ID)
	return user, nil
}

// Login verifies a Basic credential header and opens a session. Every
// failure mode collapses to the same generic auth rejection.
func (s *UserService) Login(ctx context.Context, header string) (string, error) {
	email, password, err := auth.DecodeBasic(header)
	if err != nil {
		return "", err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.NewAuth()
		}
		return "", err
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return "", common.NewAuth()
	}

	token, err := s.sessions.Create(user.ID)
	if err != nil {
		return "", err
	}
	s.log.Info(ctx, "session opened", "user", user.ID)
	return token, nil
}

// Logout revokes the session token. Unknown tokens revoke silently.
func (s *UserService) Logout(_ context.Context, token string) {
	s.sessions.Revoke(token)
}

// ResolveToken maps a session token to a user id.
func (s *UserService) ResolveToken(token string) (string, bool) {
	return s.sessions.Resolve(token)
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}
