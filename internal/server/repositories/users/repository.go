// Package users persists accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Repository stores users. Email is unique: Create reports a conflict with
// common.ErrorAlreadyExists, and lookups of absent users return
// common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// Delete removes the user together with everything it owns.
	Delete(ctx context.Context, id string) error
}
