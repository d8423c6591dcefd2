package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/dbx"
	"github.com/dmitrijs2005/liftlog/internal/logging"
	"github.com/dmitrijs2005/liftlog/internal/server/config"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
	"github.com/dmitrijs2005/liftlog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/liftlog/internal/server/repositories/repotest"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db       *sql.DB
	store    *Store
	creds    *CredentialService
	records  *RecordService
	workouts *WorkoutService
	exercise *ExerciseService
	stats    *StatsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := repotest.NewSQLiteDB(t)
	rm, err := repomanager.NewSQLRepositoryManager(config.DriverSQLite)
	require.NoError(t, err)

	st := NewStore(dbx.NewBridge(db, 4, time.Second), rm)
	rec := NewRecordService(st)
	return &testEnv{
		db:       db,
		store:    st,
		creds:    NewCredentialService(st),
		records:  rec,
		workouts: NewWorkoutService(st, rec),
		exercise: NewExerciseService(st),
		stats:    NewStatsService(st, rec),
	}
}

func (e *testEnv) user(t *testing.T, name string) models.Identity {
	t.Helper()
	id := repotest.InsertUser(t, e.db, name, string(models.RoleUser))
	return models.Identity{ID: id, UserName: name, Role: models.RoleUser}
}

func (e *testEnv) accounts(sm SessionManager) *AccountService {
	return NewAccountService(e.creds, sm, logging.NewDiscardLogger(), nil)
}

func ptr[T any](v T) *T { return &v }

var bg = context.Background()
