package workouts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/dmitrijs2005/liftlog/internal/dbx"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
	"github.com/google/uuid"
)

var (
	newID = uuid.NewString
	now   = func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectSession = `SELECT id, user_id, date, notes, share_token, created_at FROM workout_sessions`

func scanSession(s scanner, extra ...any) (*models.WorkoutSession, error) {
	w := &models.WorkoutSession{}
	var notes, share sql.NullString
	dest := append([]any{&w.ID, &w.UserID, &w.Date, &notes, &share, &w.CreatedAt}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	if notes.Valid {
		w.Notes = &notes.String
	}
	if share.Valid {
		w.ShareToken = &share.String
	}
	return w, nil
}

func (r *SQLRepository) CreateSession(ctx context.Context, w *models.WorkoutSession) (*models.WorkoutSession, error) {
	query :=
		`INSERT INTO workout_sessions (id, user_id, date, notes, share_token, created_at)
		 VALUES ($1, $2, $3, $4, NULL, $5)`

	out := *w
	out.ID = newID()
	out.ShareToken = nil
	out.CreatedAt = now()

	if _, err := r.db.ExecContext(ctx, query, out.ID, out.UserID, out.Date, out.Notes, out.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &out, nil
}

func (r *SQLRepository) getSession(ctx context.Context, where string, arg string) (*models.WorkoutSession, error) {
	w, err := scanSession(r.db.QueryRowContext(ctx, selectSession+" WHERE "+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return w, nil
}

func (r *SQLRepository) GetSession(ctx context.Context, id string) (*models.WorkoutSession, error) {
	return r.getSession(ctx, "id = $1", id)
}

func (r *SQLRepository) GetSessionByShareToken(ctx context.Context, token string) (*models.WorkoutSession, error) {
	return r.getSession(ctx, "share_token = $1", token)
}

func (r *SQLRepository) UpdateSession(ctx context.Context, id, userID, date string, notes *string) (bool, error) {
	return r.execAffected(ctx,
		`UPDATE workout_sessions SET date = $1, notes = $2 WHERE id = $3 AND user_id = $4`,
		date, notes, id, userID)
}

func (r *SQLRepository) DeleteSession(ctx context.Context, id, userID string) (bool, error) {
	return r.execAffected(ctx, `DELETE FROM workout_sessions WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *SQLRepository) SetShareToken(ctx context.Context, id, userID string, token *string) (bool, error) {
	return r.execAffected(ctx,
		`UPDATE workout_sessions SET share_token = $1 WHERE id = $2 AND user_id = $3`,
		token, id, userID)
}

func (r *SQLRepository) ListSessions(ctx context.Context, userID string, limit, offset int) ([]models.WorkoutSummary, error) {
	query :=
		`SELECT s.id, s.user_id, s.date, s.notes, s.share_token, s.created_at,
		        COUNT(DISTINCT l.exercise_id), COUNT(l.id)
		 FROM workout_sessions s
		 LEFT JOIN workout_logs l ON l.session_id = s.id
		 WHERE s.user_id = $1
		 GROUP BY s.id
		 ORDER BY s.date DESC, s.created_at DESC
		 LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.WorkoutSummary
	for rows.Next() {
		var exercises, sets int
		w, err := scanSession(rows, &exercises, &sets)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, models.WorkoutSummary{WorkoutSession: *w, ExerciseCount: exercises, SetCount: sets})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) CountSessions(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM workout_sessions WHERE user_id = $1`, userID)
}

func (r *SQLRepository) CountSessionsSince(ctx context.Context, userID, since string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM workout_sessions WHERE user_id = $1 AND date >= $2`, userID, since)
}

func (r *SQLRepository) VolumeSince(ctx context.Context, userID, since string) (float64, error) {
	query :=
		`SELECT COALESCE(SUM(l.weight * l.reps), 0)
		 FROM workout_logs l
		 JOIN workout_sessions s ON l.session_id = s.id
		 WHERE s.user_id = $1 AND s.date >= $2`

	var v float64
	if err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&v); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *SQLRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) execAffected(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}
