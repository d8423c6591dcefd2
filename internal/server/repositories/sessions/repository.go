// Package sessions persists server-side login sessions keyed by token digest.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/server/models"
)

// Repository abstracts persistence of login sessions.
type Repository interface {
	// Create stores a new session.
	Create(ctx context.Context, s *models.Session) error

	// Get returns the session stored under token, or common.ErrorNotFound.
	Get(ctx context.Context, token string) (*models.Session, error)

	// Delete removes a session; deleting an absent one is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteAllForUserExcept removes every session of userID other than
	// keepToken and returns how many were removed.
	DeleteAllForUserExcept(ctx context.Context, userID, keepToken string) (int64, error)

	// DeleteExpired removes sessions with expires_at <= now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
