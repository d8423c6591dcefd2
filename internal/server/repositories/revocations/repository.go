// Package revocations persists the deny-list used by signed session cookies:
// single revoked token ids and per-user "not before" cut-offs.
package revocations

import (
	"context"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/server/models"
)

type Repository interface {
	// Revoke records jti as revoked until expiresAt. Revoking twice is fine.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// SetUserCutoff replaces the user's cut-off.
	SetUserCutoff(ctx context.Context, r *models.SessionRevocation) error
	// GetUserCutoff returns common.ErrorNotFound when the user has none.
	GetUserCutoff(ctx context.Context, userID string) (*models.SessionRevocation, error)

	// Prune drops revoked ids that expired by now and cut-offs older than
	// cutoffHorizon, which no unexpired token can predate.
	Prune(ctx context.Context, now, cutoffHorizon time.Time) (int64, error)
}
