package httpapi

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRoutes_NonAdminForbidden(t *testing.T) {
	app := newTestApp(t)
	app.setup(t, "root", "secret1")
	root, err := app.creds.FindByUsername(bg, "root")
	require.NoError(t, err)
	bob := app.addUser(t, "bob", "secret1")
	token := app.login(t, "bob", "secret1")

	for _, path := range []string{"/users/" + root.ID + "/delete", "/users/" + bob.ID + "/promote"} {
		rec := app.do(http.MethodPost, path, nil, token)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
	rec := app.do(http.MethodPost, "/users/new", url.Values{"username": {"eve"}, "password": {"secret1"}}, token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/users/new", nil, token).Code)

	_, err = app.creds.FindByID(bg, root.ID)
	assert.NoError(t, err)
	got, err := app.creds.FindByID(bg, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, got.Role)
	_, err = app.creds.FindByUsername(bg, "eve")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	// listing is open to every signed-in user
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/users", nil, token).Code)
}

func TestAdminRoutes_Anonymous(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(http.MethodPost, "/users/new", url.Values{"username": {"eve"}, "password": {"secret1"}}, "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, loginPath, rec.Header().Get("Location"))
}

func TestAdminRoutes_ManageUsers(t *testing.T) {
	app := newTestApp(t)
	token := app.setup(t, "root", "secret1")
	root, err := app.creds.FindByUsername(bg, "root")
	require.NoError(t, err)

	rec := app.do(http.MethodPost, "/users/"+root.ID+"/delete", nil, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You cannot delete your own account", errorBody(t, rec))
	_, err = app.creds.FindByID(bg, root.ID)
	require.NoError(t, err)

	rec = app.do(http.MethodPost, "/users/new", url.Values{"username": {"bob"}, "password": {"secret1"}}, token)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/users", rec.Header().Get("Location"))

	rec = app.do(http.MethodPost, "/users/new", url.Values{"username": {"bob"}, "password": {"secret1"}}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username already exists", errorBody(t, rec))

	rec = app.do(http.MethodPost, "/users/new", url.Values{"username": {"carol"}, "password": {"123"}}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password must be at least 6 characters", errorBody(t, rec))

	bob, err := app.creds.FindByUsername(bg, "bob")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, bob.Role)

	rec = app.do(http.MethodPost, "/users/"+bob.ID+"/promote", nil, token)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	bob, err = app.creds.FindByID(bg, bob.ID)
	require.NoError(t, err)
	assert.True(t, bob.IsAdmin())

	rec = app.do(http.MethodPost, "/users/"+bob.ID+"/delete", nil, token)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodPost, "/users/"+bob.ID+"/delete", nil, token).Code)
}

func TestAdminRoutes_DemotedAdminLosesAccess(t *testing.T) {
	app := newTestApp(t)
	app.setup(t, "root", "secret1")
	bob := app.addUser(t, "bob", "secret1")
	_, err := app.creds.UpdateRole(bg, bob.ID, models.RoleAdmin)
	require.NoError(t, err)
	token := app.login(t, "bob", "secret1")

	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/users/new", nil, token).Code)

	_, err = app.creds.UpdateRole(bg, bob.ID, models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/users/new", nil, token).Code)
}
