package services

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials_RoundTrip(t *testing.T) {
	env := newTestEnv(t)

	u, err := env.creds.Create(bg, "  alice ", "secret1", models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.UserName)
	assert.True(t, strings.HasPrefix(u.PasswordHash, "$argon2id$"))

	got, err := env.creds.Verify(bg, "alice", "secret1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, models.RoleUser, got.Role)
}

func TestCredentials_FailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.creds.Create(bg, "alice", "secret1", models.RoleUser)
	require.NoError(t, err)

	wrongPass, errA := env.creds.Verify(bg, "alice", "nope-nope")
	unknown, errB := env.creds.Verify(bg, "mallory", "secret1")

	assert.Nil(t, wrongPass)
	assert.Nil(t, unknown)
	assert.NoError(t, errA)
	assert.NoError(t, errB)
}

func TestCredentials_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.creds.Create(bg, "alice", "secret1", models.RoleUser)
	require.NoError(t, err)

	_, err = env.creds.Create(bg, "alice", "other-pass", models.RoleAdmin)
	assert.ErrorIs(t, err, common.ErrorConflict)

	n, err := env.creds.Count(bg)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCredentials_Validation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name, user, pass string
		role             models.Role
	}{
		{"empty username", "   ", "secret1", models.RoleUser},
		{"long username", strings.Repeat("a", MaxUserNameLen+1), "secret1", models.RoleUser},
		{"short password", "bob", "12345", models.RoleUser},
		{"bad role", "bob", "secret1", models.Role("root")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.creds.Create(bg, tc.user, tc.pass, tc.role)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestCredentials_MalformedStoredHash(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "legacy") // stored hash is not a PHC string

	u, err := env.creds.Verify(bg, "legacy", "whatever")
	assert.Nil(t, u)
	assert.ErrorIs(t, err, common.ErrorPasswordHash)
	assert.NotErrorIs(t, err, common.ErrorStorage)
}

func TestCredentials_StorageFailure(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Close())

	u, err := env.creds.Verify(bg, "alice", "secret1")
	assert.Nil(t, u)
	assert.ErrorIs(t, err, common.ErrorStorage)
}

func TestCredentials_Mutations(t *testing.T) {
	env := newTestEnv(t)
	u, err := env.creds.Create(bg, "alice", "secret1", models.RoleUser)
	require.NoError(t, err)

	ok, err := env.creds.ChangePassword(bg, u.ID, "secret2")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := env.creds.Verify(bg, "alice", "secret1")
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = env.creds.Verify(bg, "alice", "secret2")
	require.NoError(t, err)
	assert.NotNil(t, got)

	ok, err = env.creds.UpdateRole(bg, u.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := env.creds.FindByID(bg, u.ID)
	require.NoError(t, err)
	assert.True(t, found.IsAdmin())

	ok, err = env.creds.Delete(bg, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = env.creds.FindByUsername(bg, "alice")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	ok, err = env.creds.Delete(bg, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
