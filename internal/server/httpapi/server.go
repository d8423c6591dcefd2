// Package httpapi is the web layer: gin routing, the session extractors and
// the JSON views of every page.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/logging"
	"github.com/dmitrijs2005/liftlog/internal/metrics"
	"github.com/dmitrijs2005/liftlog/internal/server/services"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Services are the collaborators the handlers call into.
type Services struct {
	Accounts    *services.AccountService
	Credentials *services.CredentialService
	Sessions    services.SessionManager
	Workouts    *services.WorkoutService
	Exercises   *services.ExerciseService
	Records     *services.RecordService
	Stats       *services.StatsService
	Export      *services.ExportService
}

// Options configure the session cookie.
type Options struct {
	CookieTTL    time.Duration
	CookieSecure bool
}

type Server struct {
	address string
	svc     Services
	opts    Options
	logger  logging.Logger
	metrics *metrics.Metrics
	engine  *gin.Engine
}

func NewServer(address string, svc Services, opts Options, l logging.Logger, m *metrics.Metrics) *Server {
	s := &Server{
		address: address,
		svc:     svc,
		opts:    opts,
		logger:  l.With("module", "http_server"),
		metrics: m,
	}

	s.engine = gin.New()
	s.engine.Use(s.requestLogger(), gin.Recovery())
	s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			s.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
