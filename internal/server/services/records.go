package services

import (
	"context"

	"github.com/dmitrijs2005/liftlog/internal/dbx"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
	"github.com/dmitrijs2005/liftlog/internal/server/records"
)

// RecordService answers personal-record questions from the sets currently
// stored. Nothing is cached between calls.
type RecordService struct {
	store *Store
}

func NewRecordService(s *Store) *RecordService {
	return &RecordService{store: s}
}

// CurrentPR returns nil when the user never logged the exercise.
func (s *RecordService) CurrentPR(ctx context.Context, userID, exerciseID string) (*models.PersonalRecord, error) {
	sets, err := run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) ([]records.Entry, error) {
		return s.store.Repos.Workouts(conn).ListSets(ctx, userID, exerciseID)
	})
	if err != nil {
		return nil, err
	}
	pr, ok := records.Best(sets)
	if !ok {
		return nil, nil
	}
	return &pr, nil
}

func (s *RecordService) AllPRs(ctx context.Context, userID string) ([]models.PersonalRecord, error) {
	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) ([]models.PersonalRecord, error) {
		return s.allPRs(ctx, conn, userID)
	})
}

func (s *RecordService) allPRs(ctx context.Context, db dbx.DBTX, userID string) ([]models.PersonalRecord, error) {
	sets, err := s.store.Repos.Workouts(db).ListSets(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	return records.ByExercise(sets), nil
}

// Annotate marks which of logs match userID's best weight for their exercise.
func (s *RecordService) Annotate(ctx context.Context, userID string, logs []models.AnnotatedLog) ([]models.AnnotatedLog, error) {
	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) ([]models.AnnotatedLog, error) {
		return s.annotate(ctx, conn, userID, logs)
	})
}

func (s *RecordService) annotate(ctx context.Context, db dbx.DBTX, userID string, logs []models.AnnotatedLog) ([]models.AnnotatedLog, error) {
	maxima, err := s.store.Repos.Workouts(db).MaxWeights(ctx, userID)
	if err != nil {
		return nil, err
	}
	return records.Annotate(logs, maxima), nil
}
