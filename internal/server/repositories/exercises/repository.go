// Package exercises persists the exercise catalogue: shared defaults plus
// each user's custom entries.
package exercises

import (
	"context"

	"github.com/dmitrijs2005/liftlog/internal/server/models"
)

type Repository interface {
	// Create inserts a custom exercise owned by e.UserID.
	Create(ctx context.Context, e *models.Exercise) (*models.Exercise, error)

	// GetByID returns common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.Exercise, error)

	// ListAvailable returns the defaults and userID's own exercises ordered
	// by category, then name.
	ListAvailable(ctx context.Context, userID string) ([]models.Exercise, error)

	// Update and Delete only touch custom exercises owned by userID and
	// report whether a row matched.
	Update(ctx context.Context, userID string, e *models.Exercise) (bool, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
}
