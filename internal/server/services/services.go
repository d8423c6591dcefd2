// Package services contains the server's business logic. Every storage
// call goes through a dbx.Bridge unit of work and repositories are obtained
// from a repomanager.RepositoryManager bound to that unit's connection.
package services

import (
	"context"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/dmitrijs2005/liftlog/internal/dbx"
	"github.com/dmitrijs2005/liftlog/internal/server/repositories/repomanager"
)

// Store is the pair every service needs to reach the database.
type Store struct {
	Bridge *dbx.Bridge
	Repos  repomanager.RepositoryManager
}

func NewStore(b *dbx.Bridge, rm repomanager.RepositoryManager) *Store {
	return &Store{Bridge: b, Repos: rm}
}

// run is dbx.Run with driver and scheduling failures marked as storage
// errors. Domain sentinels returned by fn pass through unchanged.
func run[T any](ctx context.Context, s *Store, fn func(ctx context.Context, conn dbx.Conn) (T, error)) (T, error) {
	v, err := dbx.Run(ctx, s.Bridge, fn)
	return v, common.StorageError(err)
}

func exec(ctx context.Context, s *Store, fn func(ctx context.Context, conn dbx.Conn) error) error {
	return common.StorageError(dbx.Exec(ctx, s.Bridge, fn))
}
