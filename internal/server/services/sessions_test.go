package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/cryptox"
	"github.com/dmitrijs2005/liftlog/internal/server/auth"
	"github.com/dmitrijs2005/liftlog/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTTL = time.Hour

// managerFactory builds a SessionManager over env whose clock is driven by
// the returned setter.
type managerFactory func(env *testEnv) (SessionManager, func(time.Time))

var managers = map[string]managerFactory{
	"store": func(env *testEnv) (SessionManager, func(time.Time)) {
		m := NewStoreSessionManager(env.store, testTTL, nil)
		return m, func(t time.Time) { m.now = func() time.Time { return t } }
	},
	"signed": func(env *testEnv) (SessionManager, func(time.Time)) {
		m := NewSignedSessionManager(env.store, "test-secret", testTTL, nil)
		return m, func(t time.Time) { m.now = func() time.Time { return t } }
	},
}

func forEachManager(t *testing.T, fn func(t *testing.T, env *testEnv, sm SessionManager, setNow func(time.Time))) {
	for name, factory := range managers {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			sm, setNow := factory(env)
			setNow(utcNow())
			fn(t, env, sm, setNow)
		})
	}
}

func mustValid(t *testing.T, sm SessionManager, token, wantUser string) {
	t.Helper()
	uid, ok, err := sm.FindValid(context.Background(), token)
	require.NoError(t, err)
	require.True(t, ok, "token should be valid")
	assert.Equal(t, wantUser, uid)
}

func mustInvalid(t *testing.T, sm SessionManager, token string) {
	t.Helper()
	uid, ok, err := sm.FindValid(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, ok, "token should be invalid")
	assert.Empty(t, uid)
}

func TestSessionManager_CreateFindDelete(t *testing.T) {
	forEachManager(t, func(t *testing.T, env *testEnv, sm SessionManager, _ func(time.Time)) {
		alice := env.user(t, "alice")

		token, err := sm.Create(bg, alice.ID)
		require.NoError(t, err)
		mustValid(t, sm, token, alice.ID)

		mustInvalid(t, sm, "")
		mustInvalid(t, sm, "not-a-token")
		mustInvalid(t, sm, token+"x")

		require.NoError(t, sm.Delete(bg, token))
		mustInvalid(t, sm, token)
		require.NoError(t, sm.Delete(bg, token), "delete is idempotent")
	})
}

func TestSessionManager_Expiry(t *testing.T) {
	forEachManager(t, func(t *testing.T, env *testEnv, sm SessionManager, setNow func(time.Time)) {
		alice := env.user(t, "alice")
		now := utcNow()

		setNow(now.Add(-2 * testTTL))
		old, err := sm.Create(bg, alice.ID)
		require.NoError(t, err)

		setNow(now)
		fresh, err := sm.Create(bg, alice.ID)
		require.NoError(t, err)

		mustInvalid(t, sm, old)
		mustValid(t, sm, fresh, alice.ID)

		_, err = sm.CleanupExpired(bg)
		require.NoError(t, err)
		n, err := sm.CleanupExpired(bg)
		require.NoError(t, err)
		assert.Zero(t, n, "second sweep finds nothing")

		mustValid(t, sm, fresh, alice.ID)
	})
}

func TestSessionManager_ValidUntilExpiry(t *testing.T) {
	forEachManager(t, func(t *testing.T, env *testEnv, sm SessionManager, setNow func(time.Time)) {
		alice := env.user(t, "alice")
		start := utcNow().Truncate(time.Second)

		setNow(start)
		token, err := sm.Create(bg, alice.ID)
		require.NoError(t, err)

		setNow(start.Add(testTTL - time.Millisecond))
		mustValid(t, sm, token, alice.ID)

		setNow(start.Add(testTTL))
		mustInvalid(t, sm, token)
	})
}

func TestSessionManager_DeleteAllForUserExcept(t *testing.T) {
	forEachManager(t, func(t *testing.T, env *testEnv, sm SessionManager, setNow func(time.Time)) {
		alice := env.user(t, "alice")
		bob := env.user(t, "bob")
		now := utcNow()

		setNow(now.Add(-10 * time.Second))
		t1, err := sm.Create(bg, alice.ID)
		require.NoError(t, err)
		t2, err := sm.Create(bg, alice.ID)
		require.NoError(t, err)
		t3, err := sm.Create(bg, alice.ID)
		require.NoError(t, err)
		tb, err := sm.Create(bg, bob.ID)
		require.NoError(t, err)

		setNow(now.Add(-5 * time.Second))
		require.NoError(t, sm.DeleteAllForUserExcept(bg, alice.ID, t2))

		mustInvalid(t, sm, t1)
		mustValid(t, sm, t2, alice.ID)
		mustInvalid(t, sm, t3)
		mustValid(t, sm, tb, bob.ID)

		setNow(now.Add(-time.Second))
		later, err := sm.Create(bg, alice.ID)
		require.NoError(t, err)
		mustValid(t, sm, later, alice.ID)
	})
}

func TestStoreSessionManager_StoresDigestOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	sm := NewStoreSessionManager(env.store, testTTL, nil)

	token, err := sm.Create(bg, alice.ID)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	var stored string
	require.NoError(t, env.db.QueryRow(`SELECT token FROM sessions WHERE user_id = $1`, alice.ID).Scan(&stored))
	assert.NotEqual(t, token, stored)
	assert.Equal(t, cryptox.HashToken(token), stored)
}

func TestStoreSessionManager_LazyExpiryDeletesRow(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	sm := NewStoreSessionManager(env.store, testTTL, nil)

	start := utcNow()
	sm.now = func() time.Time { return start }
	token, err := sm.Create(bg, alice.ID)
	require.NoError(t, err)

	sm.now = func() time.Time { return start.Add(testTTL) }
	mustInvalid(t, sm, token)

	var n int
	require.NoError(t, env.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n))
	assert.Zero(t, n, "expired row removed on read")

	sm.now = func() time.Time { return start }
	mustInvalid(t, sm, token)
}

func TestSignedSessionManager_ForeignSecret(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")

	a := NewSignedSessionManager(env.store, "secret-a", testTTL, nil)
	b := NewSignedSessionManager(env.store, "secret-b", testTTL, nil)

	token, err := a.Create(bg, alice.ID)
	require.NoError(t, err)
	mustValid(t, a, token, alice.ID)
	mustInvalid(t, b, token)
}

func TestSignedSessionManager_RefusesDefaultKeyTokens(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")

	sm := NewSignedSessionManager(env.store, strings.Repeat("s", config.MinSecretKeyLen), testTTL, nil)
	now := utcNow()
	sm.now = func() time.Time { return now }

	forged, err := auth.GenerateToken(alice.ID, "forged", now, testTTL, []byte(config.DevSecretKey))
	require.NoError(t, err)
	mustInvalid(t, sm, forged)

	own, err := sm.Create(bg, alice.ID)
	require.NoError(t, err)
	mustValid(t, sm, own, alice.ID)
}
