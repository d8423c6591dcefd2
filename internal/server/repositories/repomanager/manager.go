// Package repomanager opens the database and hands out repositories bound
// to a single connection or transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/liftlog/internal/dbx"
	"github.com/dmitrijs2005/liftlog/internal/server/repositories/exercises"
	"github.com/dmitrijs2005/liftlog/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/liftlog/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/liftlog/internal/server/repositories/users"
	"github.com/dmitrijs2005/liftlog/internal/server/repositories/workouts"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Revocations(db dbx.DBTX) revocations.Repository
	Exercises(db dbx.DBTX) exercises.Repository
	Workouts(db dbx.DBTX) workouts.Repository
}
