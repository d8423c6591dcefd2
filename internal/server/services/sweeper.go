package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/logging"
	"github.com/dmitrijs2005/liftlog/internal/metrics"
)

// SessionSweeper periodically removes expired sessions.
type SessionSweeper struct {
	sessions SessionManager
	interval time.Duration
	logger   logging.Logger
	metrics  *metrics.Metrics
}

func NewSessionSweeper(sm SessionManager, interval time.Duration, l logging.Logger, m *metrics.Metrics) *SessionSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SessionSweeper{sessions: sm, interval: interval, logger: l.With("module", "sweeper"), metrics: m}
}

// Sweep runs one cleanup pass.
func (s *SessionSweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := s.sessions.CleanupExpired(ctx)
	if err != nil {
		s.logger.Error(ctx, "session cleanup failed", "error", err)
		return 0, err
	}
	s.metrics.SessionsSwept(n)
	if n > 0 {
		s.logger.Info(ctx, "expired sessions removed", "count", n)
	}
	return n, nil
}

// Run sweeps every interval until ctx is cancelled.
func (s *SessionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.Sweep(ctx)
		}
	}
}
