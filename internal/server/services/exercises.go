package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/dmitrijs2005/liftlog/internal/dbx"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
)

// ExerciseInput is the editable part of a custom exercise.
type ExerciseInput struct {
	Name        string
	Category    string
	MuscleGroup string
	Equipment   string
}

func (in ExerciseInput) validate() (*models.Exercise, error) {
	e := &models.Exercise{
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		MuscleGroup: strings.TrimSpace(in.MuscleGroup),
	}
	if e.Name == "" {
		return nil, common.ValidationError("Exercise name is required")
	}
	if !models.ValidCategory(e.Category) {
		return nil, common.ValidationError("Unknown category")
	}
	if eq := strings.TrimSpace(in.Equipment); eq != "" {
		e.Equipment = &eq
	}
	return e, nil
}

type ExerciseService struct {
	store *Store
}

func NewExerciseService(s *Store) *ExerciseService {
	return &ExerciseService{store: s}
}

// List returns the defaults plus the user's own exercises.
func (s *ExerciseService) List(ctx context.Context, userID string) ([]models.Exercise, error) {
	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) ([]models.Exercise, error) {
		return s.store.Repos.Exercises(conn).ListAvailable(ctx, userID)
	})
}

// Get returns common.ErrorNotFound for another user's custom exercise.
func (s *ExerciseService) Get(ctx context.Context, userID, id string) (*models.Exercise, error) {
	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) (*models.Exercise, error) {
		return visibleExercise(ctx, s.store, conn, userID, id)
	})
}

func visibleExercise(ctx context.Context, st *Store, db dbx.DBTX, userID, id string) (*models.Exercise, error) {
	e, err := st.Repos.Exercises(db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.VisibleTo(userID) {
		return nil, common.ErrorNotFound
	}
	return e, nil
}

func (s *ExerciseService) Create(ctx context.Context, userID string, in ExerciseInput) (*models.Exercise, error) {
	e, err := in.validate()
	if err != nil {
		return nil, err
	}
	e.UserID = &userID
	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) (*models.Exercise, error) {
		return s.store.Repos.Exercises(conn).Create(ctx, e)
	})
}

// Update and Delete treat defaults and other users' exercises as missing.
func (s *ExerciseService) Update(ctx context.Context, userID, id string, in ExerciseInput) error {
	e, err := in.validate()
	if err != nil {
		return err
	}
	e.ID = id
	return exec(ctx, s.store, func(ctx context.Context, conn dbx.Conn) error {
		return found(s.store.Repos.Exercises(conn).Update(ctx, userID, e))
	})
}

func (s *ExerciseService) Delete(ctx context.Context, userID, id string) error {
	return exec(ctx, s.store, func(ctx context.Context, conn dbx.Conn) error {
		return found(s.store.Repos.Exercises(conn).Delete(ctx, id, userID))
	})
}
