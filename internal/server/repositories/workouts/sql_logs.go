package workouts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
	"github.com/dmitrijs2005/liftlog/internal/server/records"
)

func rpePtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func (r *SQLRepository) NextSetNumber(ctx context.Context, sessionID, exerciseID string) (int, error) {
	return r.count(ctx,
		`SELECT COALESCE(MAX(set_number), 0) + 1 FROM workout_logs WHERE session_id = $1 AND exercise_id = $2`,
		sessionID, exerciseID)
}

func (r *SQLRepository) CreateLog(ctx context.Context, l *models.WorkoutLog) (*models.WorkoutLog, error) {
	query :=
		`INSERT INTO workout_logs (id, session_id, exercise_id, set_number, reps, weight, rpe, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	out := *l
	out.ID = newID()
	out.CreatedAt = now()

	_, err := r.db.ExecContext(ctx, query,
		out.ID, out.SessionID, out.ExerciseID, out.SetNumber, out.Reps, out.Weight, out.RPE, out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &out, nil
}

func (r *SQLRepository) GetLog(ctx context.Context, id string) (*models.WorkoutLog, error) {
	query :=
		`SELECT id, session_id, exercise_id, set_number, reps, weight, rpe, created_at
		 FROM workout_logs WHERE id = $1`

	l := &models.WorkoutLog{}
	var rpe sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&l.ID, &l.SessionID, &l.ExerciseID, &l.SetNumber, &l.Reps, &l.Weight, &rpe, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	l.RPE = rpePtr(rpe)
	return l, nil
}

func (r *SQLRepository) UpdateLog(ctx context.Context, l *models.WorkoutLog) (bool, error) {
	return r.execAffected(ctx,
		`UPDATE workout_logs SET reps = $1, weight = $2, rpe = $3 WHERE id = $4 AND session_id = $5`,
		l.Reps, l.Weight, l.RPE, l.ID, l.SessionID)
}

func (r *SQLRepository) DeleteLog(ctx context.Context, id, sessionID string) (bool, error) {
	return r.execAffected(ctx, `DELETE FROM workout_logs WHERE id = $1 AND session_id = $2`, id, sessionID)
}

func (r *SQLRepository) ListLogs(ctx context.Context, sessionID string) ([]models.AnnotatedLog, error) {
	query :=
		`SELECT l.id, l.session_id, l.exercise_id, e.name, l.set_number, l.reps, l.weight, l.rpe, l.created_at
		 FROM workout_logs l
		 JOIN exercises e ON l.exercise_id = e.id
		 WHERE l.session_id = $1
		 ORDER BY l.created_at, l.set_number`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.AnnotatedLog
	for rows.Next() {
		var a models.AnnotatedLog
		var rpe sql.NullInt64
		if err := rows.Scan(&a.ID, &a.SessionID, &a.ExerciseID, &a.ExerciseName,
			&a.SetNumber, &a.Reps, &a.Weight, &rpe, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		a.RPE = rpePtr(rpe)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) MaxWeights(ctx context.Context, userID string) (map[string]float64, error) {
	query :=
		`SELECT l.exercise_id, MAX(l.weight)
		 FROM workout_logs l
		 JOIN workout_sessions s ON l.session_id = s.id
		 WHERE s.user_id = $1
		 GROUP BY l.exercise_id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var id string
		var w float64
		if err := rows.Scan(&id, &w); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out[id] = w
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) ListSets(ctx context.Context, userID, exerciseID string) ([]records.Entry, error) {
	query :=
		`SELECT l.exercise_id, e.name, l.weight, l.created_at
		 FROM workout_logs l
		 JOIN workout_sessions s ON l.session_id = s.id
		 JOIN exercises e ON l.exercise_id = e.id
		 WHERE s.user_id = $1`
	args := []any{userID}
	if exerciseID != "" {
		query += ` AND l.exercise_id = $2`
		args = append(args, exerciseID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []records.Entry
	for rows.Next() {
		var e records.Entry
		if err := rows.Scan(&e.ExerciseID, &e.ExerciseName, &e.Weight, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) History(ctx context.Context, userID, exerciseID string, limit int) ([]models.HistoryEntry, error) {
	query :=
		`SELECT s.date, l.reps, l.weight, l.rpe
		 FROM workout_logs l
		 JOIN workout_sessions s ON l.session_id = s.id
		 WHERE s.user_id = $1 AND l.exercise_id = $2
		 ORDER BY s.date DESC, l.set_number
		 LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, userID, exerciseID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.HistoryEntry
	for rows.Next() {
		var h models.HistoryEntry
		var rpe sql.NullInt64
		if err := rows.Scan(&h.Date, &h.Reps, &h.Weight, &rpe); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		h.RPE = rpePtr(rpe)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
