package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/dmitrijs2005/liftlog/internal/dbx"
	"github.com/dmitrijs2005/liftlog/internal/metrics"
	"github.com/dmitrijs2005/liftlog/internal/server/auth"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
	"github.com/google/uuid"
)

// SignedSessionManager issues HS256 tokens that carry the user id and a
// token id. Nothing is stored per login; logout and "sign out everywhere"
// are recorded in the revocation tables.
type SignedSessionManager struct {
	store   *Store
	secret  []byte
	ttl     time.Duration
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewSignedSessionManager signs with secret. A non-positive ttl falls back
// to common.DefaultSessionTTL.
func NewSignedSessionManager(s *Store, secret string, ttl time.Duration, m *metrics.Metrics) *SignedSessionManager {
	if ttl <= 0 {
		ttl = common.DefaultSessionTTL
	}
	return &SignedSessionManager{store: s, secret: []byte(secret), ttl: ttl, metrics: m, now: utcNow}
}

// Create signs a token for userID that expires after the manager's TTL.
func (m *SignedSessionManager) Create(ctx context.Context, userID string) (string, error) {
	token, err := auth.GenerateToken(userID, uuid.NewString(), m.now(), m.ttl, m.secret)
	if err != nil {
		return "", common.ErrorInternal
	}
	m.metrics.SessionCreated()
	return token, nil
}

// FindValid verifies the signature and expiry at the manager's clock, then
// consults the revocation tables.
func (m *SignedSessionManager) FindValid(ctx context.Context, token string) (string, bool, error) {
	claims, err := auth.ParseTokenAt(token, m.secret, m.now())
	if err != nil {
		return "", false, nil
	}
	userID := claims.UserID()
	issued := claims.IssuedAt.Time

	ok, err := run(ctx, m.store, func(ctx context.Context, conn dbx.Conn) (bool, error) {
		repo := m.store.Repos.Revocations(conn)

		revoked, err := repo.IsRevoked(ctx, claims.ID)
		if err != nil || revoked {
			return false, err
		}

		cut, err := repo.GetUserCutoff(ctx, userID)
		if errors.Is(err, common.ErrorNotFound) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		if !issued.After(cut.NotBefore) && claims.ID != cut.KeepID {
			return false, nil
		}
		return true, nil
	})
	if err != nil || !ok {
		return "", false, err
	}
	return userID, true, nil
}

// Delete revokes the token's id until the token would have expired anyway.
// Tokens that no longer verify need no revocation.
func (m *SignedSessionManager) Delete(ctx context.Context, token string) error {
	claims, err := auth.ParseTokenAt(token, m.secret, m.now())
	if err != nil {
		return nil
	}
	return exec(ctx, m.store, func(ctx context.Context, conn dbx.Conn) error {
		return m.store.Repos.Revocations(conn).Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
	})
}

// DeleteAllForUserExcept records a per-user cut-off: tokens issued up to
// now are refused unless they carry keepToken's id.
func (m *SignedSessionManager) DeleteAllForUserExcept(ctx context.Context, userID, keepToken string) error {
	var keepID string
	if claims, err := auth.ParseTokenAt(keepToken, m.secret, m.now()); err == nil && claims.UserID() == userID {
		keepID = claims.ID
	}

	cut := &models.SessionRevocation{UserID: userID, NotBefore: m.now(), KeepID: keepID}
	if err := exec(ctx, m.store, func(ctx context.Context, conn dbx.Conn) error {
		return m.store.Repos.Revocations(conn).SetUserCutoff(ctx, cut)
	}); err != nil {
		return err
	}
	m.metrics.SessionsRevoked(1)
	return nil
}

// CleanupExpired drops revocations that can no longer match a live token:
// revoked ids past their expiry and cut-offs older than one TTL.
func (m *SignedSessionManager) CleanupExpired(ctx context.Context) (int64, error) {
	now := m.now()
	return run(ctx, m.store, func(ctx context.Context, conn dbx.Conn) (int64, error) {
		return m.store.Repos.Revocations(conn).Prune(ctx, now, now.Add(-m.ttl))
	})
}
