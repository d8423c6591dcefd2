package exercises

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/dmitrijs2005/liftlog/internal/dbx"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
	"github.com/google/uuid"
)

var newID = uuid.NewString

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

const selectExercise = `SELECT id, name, category, muscle_group, equipment, is_default, user_id FROM exercises`

type scanner interface {
	Scan(dest ...any) error
}

func scanExercise(s scanner) (*models.Exercise, error) {
	e := &models.Exercise{}
	var equipment, userID sql.NullString
	if err := s.Scan(&e.ID, &e.Name, &e.Category, &e.MuscleGroup, &equipment, &e.IsDefault, &userID); err != nil {
		return nil, err
	}
	if equipment.Valid {
		e.Equipment = &equipment.String
	}
	if userID.Valid {
		e.UserID = &userID.String
	}
	return e, nil
}

func (r *SQLRepository) Create(ctx context.Context, e *models.Exercise) (*models.Exercise, error) {
	query :=
		`INSERT INTO exercises (id, name, category, muscle_group, equipment, is_default, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	out := *e
	out.ID = newID()
	out.IsDefault = false

	_, err := r.db.ExecContext(ctx, query, out.ID, out.Name, out.Category, out.MuscleGroup, out.Equipment, false, out.UserID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &out, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.Exercise, error) {
	e, err := scanExercise(r.db.QueryRowContext(ctx, selectExercise+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *SQLRepository) ListAvailable(ctx context.Context, userID string) ([]models.Exercise, error) {
	rows, err := r.db.QueryContext(ctx,
		selectExercise+` WHERE is_default = TRUE OR user_id = $1 ORDER BY category, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) Update(ctx context.Context, userID string, e *models.Exercise) (bool, error) {
	query :=
		`UPDATE exercises SET name = $1, category = $2, muscle_group = $3, equipment = $4
		 WHERE id = $5 AND user_id = $6 AND is_default = FALSE`

	res, err := r.db.ExecContext(ctx, query, e.Name, e.Category, e.MuscleGroup, e.Equipment, e.ID, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM exercises WHERE id = $1 AND user_id = $2 AND is_default = FALSE`, id, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}
