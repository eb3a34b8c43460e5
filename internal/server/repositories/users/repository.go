// Package users provides the repository for identity records.
package users

import (
	"context"

	"github.com/akarpovs/filedepot/internal/server/models"
)

// Repository persists users. Emails are unique and matched exactly,
// case-sensitively.
type Repository interface {
	// Create inserts a new user and returns it with the assigned id.
	// A duplicate email yields a validation error.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByEmail returns the user with exactly the given email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByID returns the user with the given id.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
