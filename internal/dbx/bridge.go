package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"golang.org/x/sync/semaphore"
)

// ErrScheduling is returned when a unit of work could not be scheduled:
// the pool stayed exhausted for the whole acquire timeout or the caller gave
// up while waiting. It never wraps an error produced by the unit of work.
var ErrScheduling = errors.New("storage worker unavailable")

// Bridge runs blocking storage work on a bounded number of slots. Each slot
// corresponds to one open connection of the underlying *sql.DB.
type Bridge struct {
	db             *sql.DB
	slots          *semaphore.Weighted
	acquireTimeout time.Duration
	onWait         func(time.Duration)
}

// NewBridge sizes db's pool to workers and returns a Bridge over it.
// acquireTimeout <= 0 means callers wait until their context ends.
func NewBridge(db *sql.DB, workers int, acquireTimeout time.Duration) *Bridge {
	if workers < 1 {
		workers = 1
	}
	db.SetMaxOpenConns(workers)
	db.SetMaxIdleConns(workers)

	return &Bridge{
		db:             db,
		slots:          semaphore.NewWeighted(int64(workers)),
		acquireTimeout: acquireTimeout,
	}
}

// DB exposes the pool for callers that need it outside a unit of work
// (migrations, health pings).
func (b *Bridge) DB() *sql.DB {
	return b.db
}

// OnWait registers a hook that receives how long each unit waited for a
// slot. It must be set before the bridge is shared.
func (b *Bridge) OnWait(fn func(time.Duration)) {
	b.onWait = fn
}

func (b *Bridge) acquire(ctx context.Context) error {
	start := time.Now()

	actx := ctx
	if b.acquireTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, b.acquireTimeout)
		defer cancel()
	}

	err := b.slots.Acquire(actx, 1)
	if b.onWait != nil {
		b.onWait(time.Since(start))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrScheduling, err)
	}
	return nil
}

// Run executes fn on exactly one checked-out connection and returns its
// result unchanged. Once a slot is acquired fn runs to completion on a
// context detached from ctx's cancellation, so a client that disconnects
// mid-write does not leave half-applied work behind. The slot and the
// connection are always returned.
func Run[T any](ctx context.Context, b *Bridge, fn func(ctx context.Context, conn Conn) (T, error)) (T, error) {
	var zero T

	if err := b.acquire(ctx); err != nil {
		return zero, err
	}
	defer b.slots.Release(1)

	wctx := context.WithoutCancel(ctx)

	conn, err := b.db.Conn(wctx)
	if err != nil {
		return zero, fmt.Errorf("%w: checkout: %w", common.ErrorStorage, err)
	}
	defer conn.Close()

	return fn(wctx, conn)
}

// Exec is Run for units of work that only report an error.
func Exec(ctx context.Context, b *Bridge, fn func(ctx context.Context, conn Conn) error) error {
	_, err := Run(ctx, b, func(ctx context.Context, conn Conn) (struct{}, error) {
		return struct{}{}, fn(ctx, conn)
	})
	return err
}
