// Package repotest provides migrated in-memory SQLite databases for tests.
package repotest

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/server/migrations"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// NewSQLiteDB opens a private in-memory database with foreign keys on and
// the full schema applied. It is closed when the test ends.
func NewSQLiteDB(t testing.TB) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_time_format=sqlite", uuid.NewString())
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrations.SQLite)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "sqlite"))

	return db
}

// InsertUser adds a bare user row and returns its id.
func InsertUser(t testing.TB, db *sql.DB, userName, role string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO users (id, username, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, userName, "hash", role, Now())
	require.NoError(t, err)
	return id
}

// Now is the current UTC time at the precision both dialects store.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
