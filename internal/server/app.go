// Package server wires configuration, storage, services and the HTTP and
// gRPC endpoints into one process and runs it until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/liftlog/internal/dbx"
	"github.com/dmitrijs2005/liftlog/internal/logging"
	"github.com/dmitrijs2005/liftlog/internal/metrics"
	"github.com/dmitrijs2005/liftlog/internal/server/config"
	"github.com/dmitrijs2005/liftlog/internal/server/httpapi"
	"github.com/dmitrijs2005/liftlog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/liftlog/internal/server/services"
	"github.com/gin-gonic/gin"

	gs "github.com/dmitrijs2005/liftlog/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	http    *httpapi.Server
	grpc    *gs.GRPCServer
	sweeper *services.SessionSweeper
}

// OpenStore opens the configured database, applies pending migrations and
// puts a bridge sized by DBMaxConns in front of it.
func OpenStore(ctx context.Context, c *config.Config, m *metrics.Metrics) (*services.Store, *sql.DB, error) {
	rm, err := repomanager.NewSQLRepositoryManager(c.DatabaseDriver)
	if err != nil {
		return nil, nil, err
	}

	db, err := repomanager.Open(c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrations error: %w", err)
	}

	b := dbx.NewBridge(db, c.DBMaxConns, c.DBAcquireTimeout)
	b.OnWait(m.ObserveSlotWait)

	return services.NewStore(b, rm), db, nil
}

// NewSessionManager picks the session back end named by SessionStrategy.
func NewSessionManager(c *config.Config, st *services.Store, m *metrics.Metrics) services.SessionManager {
	if c.SessionStrategy == config.SessionStrategySigned {
		return services.NewSignedSessionManager(st, c.SecretKey, c.SessionTTL, m)
	}
	return services.NewStoreSessionManager(st, c.SessionTTL, m)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	m := metrics.New()

	st, db, err := OpenStore(ctx, c, m)
	if err != nil {
		return nil, err
	}

	sm := NewSessionManager(c, st, m)
	creds := services.NewCredentialService(st)
	rec := services.NewRecordService(st)
	workouts := services.NewWorkoutService(st, rec)

	svc := httpapi.Services{
		Accounts:    services.NewAccountService(creds, sm, logger, m),
		Credentials: creds,
		Sessions:    sm,
		Workouts:    workouts,
		Exercises:   services.NewExerciseService(st),
		Records:     rec,
		Stats:       services.NewStatsService(st, rec),
		Export:      services.NewExportService(st, workouts, rec, c),
	}

	gin.SetMode(gin.ReleaseMode)
	hs := httpapi.NewServer(c.EndpointAddrHTTP, svc, httpapi.Options{
		CookieTTL:    c.SessionTTL,
		CookieSecure: c.CookieSecure,
	}, logger, m)

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		http:    hs,
		grpc:    gs.NewGRPCServer(c.EndpointAddrGRPC, logger, db, 0),
		sweeper: services.NewSessionSweeper(sm, c.SessionCleanupInterval, logger, m),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// serve runs one endpoint; a failure stops the whole app.
func (app *App) serve(ctx context.Context, cancelFunc context.CancelFunc, name string, run func(context.Context) error) {
	if err := run(ctx); err != nil {
		app.logger.Error(ctx, "server failed", "server", name, "error", err)
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "driver", app.config.DatabaseDriver, "sessions", app.config.SessionStrategy)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.serve(ctx, cancelFunc, "http", app.http.Run)
	}()
	go func() {
		defer wg.Done()
		app.serve(ctx, cancelFunc, "grpc", app.grpc.Run)
	}()
	go func() {
		defer wg.Done()
		app.sweeper.Run(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
