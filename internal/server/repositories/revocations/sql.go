package revocations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/dmitrijs2005/liftlog/internal/dbx"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	query :=
		`INSERT INTO revoked_sessions (jti, expires_at) VALUES ($1, $2)
		 ON CONFLICT (jti) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, jti, expiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM revoked_sessions WHERE jti = $1`, jti).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) SetUserCutoff(ctx context.Context, rv *models.SessionRevocation) error {
	query :=
		`INSERT INTO session_revocations (user_id, not_before, keep_id) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET not_before = excluded.not_before, keep_id = excluded.keep_id`

	if _, err := r.db.ExecContext(ctx, query, rv.UserID, rv.NotBefore, rv.KeepID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) GetUserCutoff(ctx context.Context, userID string) (*models.SessionRevocation, error) {
	query :=
		`SELECT user_id, not_before, keep_id FROM session_revocations
		 WHERE user_id = $1`

	rv := &models.SessionRevocation{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&rv.UserID, &rv.NotBefore, &rv.KeepID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rv, nil
}

func (r *SQLRepository) Prune(ctx context.Context, now, cutoffHorizon time.Time) (int64, error) {
	var total int64
	for _, step := range []struct {
		query string
		arg   time.Time
	}{
		{`DELETE FROM revoked_sessions WHERE expires_at <= $1`, now},
		{`DELETE FROM session_revocations WHERE not_before <= $1`, cutoffHorizon},
	} {
		res, err := r.db.ExecContext(ctx, step.query, step.arg)
		if err != nil {
			return total, fmt.Errorf("db error: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("db error: %w", err)
		}
		total += n
	}
	return total, nil
}
