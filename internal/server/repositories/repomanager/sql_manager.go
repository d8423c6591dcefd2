package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"

	"github.com/dmitrijs2005/liftlog/internal/dbx"
	"github.com/dmitrijs2005/liftlog/internal/filex"
	"github.com/dmitrijs2005/liftlog/internal/server/config"
	"github.com/dmitrijs2005/liftlog/internal/server/migrations"
	"github.com/dmitrijs2005/liftlog/internal/server/repositories/exercises"
	"github.com/dmitrijs2005/liftlog/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/liftlog/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/liftlog/internal/server/repositories/users"
	"github.com/dmitrijs2005/liftlog/internal/server/repositories/workouts"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

var gooseUpContext = goose.UpContext

// sqlitePragmas keeps foreign keys enforced and stores times in a text form
// that sorts chronologically.
const sqlitePragmas = "_pragma=foreign_keys(1)&_time_format=sqlite"

type dialect struct {
	goose string
	fs    fs.FS
	dir   string
}

var dialects = map[string]dialect{
	config.DriverSQLite:   {goose: "sqlite3", fs: migrations.SQLite, dir: "sqlite"},
	config.DriverPostgres: {goose: "pgx", fs: migrations.Postgres, dir: "postgres"},
}

// SQLRepositoryManager serves both dialects: every query uses $n
// placeholders, which modernc sqlite and pgx both accept.
type SQLRepositoryManager struct {
	dialect dialect
}

func NewSQLRepositoryManager(driver string) (*SQLRepositoryManager, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return &SQLRepositoryManager{dialect: d}, nil
}

// Open opens the database for driver, adding the pragmas sqlite needs.
func Open(driver, dsn string) (*sql.DB, error) {
	if _, ok := dialects[driver]; !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if driver == config.DriverSQLite {
		if path, ok := sqliteFile(dsn); ok {
			if _, err := filex.EnsureParentDir(path); err != nil {
				return nil, err
			}
		}
		dsn = withSQLitePragmas(dsn)
	}
	return sql.Open(driver, dsn)
}

// sqliteFile returns the on-disk path named by dsn, if any.
func sqliteFile(dsn string) (string, bool) {
	path, query, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if path == "" || path == ":memory:" || strings.Contains(query, "mode=memory") {
		return "", false
	}
	return path, true
}

func withSQLitePragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=foreign_keys") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqlitePragmas
	}
	return dsn + "?" + sqlitePragmas
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Revocations(db dbx.DBTX) revocations.Repository {
	return revocations.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Exercises(db dbx.DBTX) exercises.Repository {
	return exercises.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Workouts(db dbx.DBTX) workouts.Repository {
	return workouts.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(m.dialect.fs)
	if err := goose.SetDialect(m.dialect.goose); err != nil {
		return err
	}

	if err := gooseUpContext(ctx, db, m.dialect.dir); err != nil {
		return err
	}

	return nil
}
