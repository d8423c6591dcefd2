package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/dmitrijs2005/liftlog/internal/cryptox"
	"github.com/dmitrijs2005/liftlog/internal/dbx"
	"github.com/dmitrijs2005/liftlog/internal/metrics"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
)

// SessionManager issues and resolves the opaque value carried by the
// session cookie. A token that is unknown, expired, forged or revoked is
// reported as ok == false with a nil error; errors mean storage trouble.
type SessionManager interface {
	Create(ctx context.Context, userID string) (string, error)
	FindValid(ctx context.Context, token string) (userID string, ok bool, err error)
	Delete(ctx context.Context, token string) error
	DeleteAllForUserExcept(ctx context.Context, userID, keepToken string) error
	CleanupExpired(ctx context.Context) (int64, error)
}

var newSessionToken = func() (string, error) { return common.MakeRandHexString(32) }

func utcNow() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// StoreSessionManager keeps sessions in the database under the SHA-256 of
// the token.
type StoreSessionManager struct {
	store   *Store
	ttl     time.Duration
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewStoreSessionManager keeps sessions for ttl, or
// common.DefaultSessionTTL when ttl is not positive.
func NewStoreSessionManager(s *Store, ttl time.Duration, m *metrics.Metrics) *StoreSessionManager {
	if ttl <= 0 {
		ttl = common.DefaultSessionTTL
	}
	return &StoreSessionManager{store: s, ttl: ttl, metrics: m, now: utcNow}
}

// Create stores a new session for userID and returns the token for the
// cookie. Only its digest is persisted.
func (m *StoreSessionManager) Create(ctx context.Context, userID string) (string, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", common.ErrorInternal
	}

	now := m.now()
	sess := &models.Session{
		Token:     cryptox.HashToken(token),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := exec(ctx, m.store, func(ctx context.Context, conn dbx.Conn) error {
		return m.store.Repos.Sessions(conn).Create(ctx, sess)
	}); err != nil {
		return "", err
	}

	m.metrics.SessionCreated()
	return token, nil
}

// FindValid deletes an expired session in the same unit of work that read it.
func (m *StoreSessionManager) FindValid(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}
	digest := cryptox.HashToken(token)

	type result struct {
		userID string
		ok     bool
	}
	res, err := run(ctx, m.store, func(ctx context.Context, conn dbx.Conn) (result, error) {
		repo := m.store.Repos.Sessions(conn)
		sess, err := repo.Get(ctx, digest)
		if errors.Is(err, common.ErrorNotFound) {
			return result{}, nil
		}
		if err != nil {
			return result{}, err
		}
		if sess.Expired(m.now()) {
			return result{}, repo.Delete(ctx, digest)
		}
		return result{userID: sess.UserID, ok: true}, nil
	})
	if err != nil {
		return "", false, err
	}
	return res.userID, res.ok, nil
}

// Delete removes the session behind token. Unknown tokens are ignored.
func (m *StoreSessionManager) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	digest := cryptox.HashToken(token)
	return exec(ctx, m.store, func(ctx context.Context, conn dbx.Conn) error {
		return m.store.Repos.Sessions(conn).Delete(ctx, digest)
	})
}

// DeleteAllForUserExcept removes every session of userID other than
// keepToken's.
func (m *StoreSessionManager) DeleteAllForUserExcept(ctx context.Context, userID, keepToken string) error {
	keep := cryptox.HashToken(keepToken)
	n, err := run(ctx, m.store, func(ctx context.Context, conn dbx.Conn) (int64, error) {
		return m.store.Repos.Sessions(conn).DeleteAllForUserExcept(ctx, userID, keep)
	})
	if err != nil {
		return err
	}
	m.metrics.SessionsRevoked(int(n))
	return nil
}

// CleanupExpired removes every session whose expiry has passed and reports
// how many went.
func (m *StoreSessionManager) CleanupExpired(ctx context.Context) (int64, error) {
	now := m.now()
	return run(ctx, m.store, func(ctx context.Context, conn dbx.Conn) (int64, error) {
		return m.store.Repos.Sessions(conn).DeleteExpired(ctx, now)
	})
}
