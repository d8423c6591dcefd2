// Package users persists accounts: username, password hash and role.
package users

import (
	"context"

	"github.com/dmitrijs2005/liftlog/internal/server/models"
)

// Repository abstracts persistence of user accounts.
type Repository interface {
	// Create inserts a user unless the username is taken, in which case it
	// returns common.ErrorConflict. The check and insert are one statement.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByID and GetByUserName return common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)

	// UpdatePasswordHash, UpdateRole and Delete report whether a row was touched.
	UpdatePasswordHash(ctx context.Context, id, hash string) (bool, error)
	UpdateRole(ctx context.Context, id string, role models.Role) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)

	Count(ctx context.Context) (int64, error)

	// List returns all users, newest first.
	List(ctx context.Context) ([]models.User, error)
}
