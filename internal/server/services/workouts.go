package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/dmitrijs2005/liftlog/internal/dbx"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
)

const (
	WorkoutsPerPage = 10
	dateLayout      = "2006-01-02"
)

var newShareToken = func() (string, error) { return common.MakeRandHexString(16) }

// SetInput is a set as entered by the user.
type SetInput struct {
	ExerciseID string
	Reps       int
	Weight     float64
	RPE        *int
}

func validateSet(reps int, weight float64, rpe *int) error {
	if reps <= 0 {
		return common.ValidationError("Reps must be greater than 0")
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return common.ValidationError("Weight must be a number")
	}
	if weight < 0 {
		return common.ValidationError("Weight cannot be negative")
	}
	if rpe != nil && (*rpe < 1 || *rpe > 10) {
		return common.ValidationError("RPE must be between 1 and 10")
	}
	return nil
}

// WorkoutService manages a user's workout sessions and their sets.
type WorkoutService struct {
	store   *Store
	records *RecordService
	now     func() time.Time
}

func NewWorkoutService(s *Store, r *RecordService) *WorkoutService {
	return &WorkoutService{store: s, records: r, now: time.Now}
}

func (s *WorkoutService) normalize(date string, notes *string) (string, *string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = s.now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return "", nil, common.ValidationError("Date must be YYYY-MM-DD")
	}
	if notes != nil {
		n := strings.TrimSpace(*notes)
		if n == "" {
			notes = nil
		} else {
			notes = &n
		}
	}
	return date, notes, nil
}

// List returns page (1-based) of the user's workouts, newest first.
func (s *WorkoutService) List(ctx context.Context, userID string, page int) (*models.WorkoutPage, error) {
	if page < 1 {
		page = 1
	}
	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) (*models.WorkoutPage, error) {
		repo := s.store.Repos.Workouts(conn)
		total, err := repo.CountSessions(ctx, userID)
		if err != nil {
			return nil, err
		}
		list, err := repo.ListSessions(ctx, userID, WorkoutsPerPage, (page-1)*WorkoutsPerPage)
		if err != nil {
			return nil, err
		}
		pages := (total + WorkoutsPerPage - 1) / WorkoutsPerPage
		if pages < 1 {
			pages = 1
		}
		if list == nil {
			list = []models.WorkoutSummary{}
		}
		return &models.WorkoutPage{Workouts: list, Page: page, TotalPages: pages}, nil
	})
}

func (s *WorkoutService) Create(ctx context.Context, userID, date string, notes *string) (*models.WorkoutSession, error) {
	date, notes, err := s.normalize(date, notes)
	if err != nil {
		return nil, err
	}
	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) (*models.WorkoutSession, error) {
		return s.store.Repos.Workouts(conn).CreateSession(ctx, &models.WorkoutSession{UserID: userID, Date: date, Notes: notes})
	})
}

// ownedSession loads id and hides it unless userID owns it.
func (s *WorkoutService) ownedSession(ctx context.Context, db dbx.DBTX, userID, id string) (*models.WorkoutSession, error) {
	w, err := s.store.Repos.Workouts(db).GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return w, nil
}

func (s *WorkoutService) detail(ctx context.Context, db dbx.DBTX, w *models.WorkoutSession) (*models.WorkoutDetail, error) {
	logs, err := s.store.Repos.Workouts(db).ListLogs(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	logs, err = s.records.annotate(ctx, db, w.UserID, logs)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []models.AnnotatedLog{}
	}
	return &models.WorkoutDetail{WorkoutSession: *w, Logs: logs}, nil
}

// Get returns the session with its sets, each flagged when it currently
// equals the owner's best weight for that exercise.
func (s *WorkoutService) Get(ctx context.Context, userID, id string) (*models.WorkoutDetail, error) {
	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) (*models.WorkoutDetail, error) {
		w, err := s.ownedSession(ctx, conn, userID, id)
		if err != nil {
			return nil, err
		}
		return s.detail(ctx, conn, w)
	})
}

func (s *WorkoutService) Update(ctx context.Context, userID, id, date string, notes *string) error {
	date, notes, err := s.normalize(date, notes)
	if err != nil {
		return err
	}
	return exec(ctx, s.store, func(ctx context.Context, conn dbx.Conn) error {
		return found(s.store.Repos.Workouts(conn).UpdateSession(ctx, id, userID, date, notes))
	})
}

func (s *WorkoutService) Delete(ctx context.Context, userID, id string) error {
	return exec(ctx, s.store, func(ctx context.Context, conn dbx.Conn) error {
		return found(s.store.Repos.Workouts(conn).DeleteSession(ctx, id, userID))
	})
}

// AddLog appends a set, numbering it after the last set of the same
// exercise in this session.
func (s *WorkoutService) AddLog(ctx context.Context, userID, sessionID string, in SetInput) (*models.WorkoutLog, error) {
	if err := validateSet(in.Reps, in.Weight, in.RPE); err != nil {
		return nil, err
	}
	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) (*models.WorkoutLog, error) {
		var out *models.WorkoutLog
		err := dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
			if _, err := s.ownedSession(ctx, tx, userID, sessionID); err != nil {
				return err
			}
			if _, err := visibleExercise(ctx, s.store, tx, userID, in.ExerciseID); err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					return common.ValidationError("Unknown exercise")
				}
				return err
			}

			repo := s.store.Repos.Workouts(tx)
			next, err := repo.NextSetNumber(ctx, sessionID, in.ExerciseID)
			if err != nil {
				return err
			}
			out, err = repo.CreateLog(ctx, &models.WorkoutLog{
				SessionID:  sessionID,
				ExerciseID: in.ExerciseID,
				SetNumber:  next,
				Reps:       in.Reps,
				Weight:     in.Weight,
				RPE:        in.RPE,
			})
			return err
		})
		return out, err
	})
}

// UpdateLog edits reps, weight and rpe of a set in one of the user's sessions.
func (s *WorkoutService) UpdateLog(ctx context.Context, userID, sessionID, logID string, in SetInput) error {
	if err := validateSet(in.Reps, in.Weight, in.RPE); err != nil {
		return err
	}
	return exec(ctx, s.store, func(ctx context.Context, conn dbx.Conn) error {
		if _, err := s.ownedSession(ctx, conn, userID, sessionID); err != nil {
			return err
		}
		return found(s.store.Repos.Workouts(conn).UpdateLog(ctx, &models.WorkoutLog{
			ID: logID, SessionID: sessionID, Reps: in.Reps, Weight: in.Weight, RPE: in.RPE,
		}))
	})
}

func (s *WorkoutService) DeleteLog(ctx context.Context, userID, sessionID, logID string) error {
	return exec(ctx, s.store, func(ctx context.Context, conn dbx.Conn) error {
		if _, err := s.ownedSession(ctx, conn, userID, sessionID); err != nil {
			return err
		}
		return found(s.store.Repos.Workouts(conn).DeleteLog(ctx, logID, sessionID))
	})
}

// Share mints a fresh share token, replacing any previous one.
func (s *WorkoutService) Share(ctx context.Context, userID, id string) (string, error) {
	token, err := newShareToken()
	if err != nil {
		return "", common.ErrorInternal
	}
	err = exec(ctx, s.store, func(ctx context.Context, conn dbx.Conn) error {
		return found(s.store.Repos.Workouts(conn).SetShareToken(ctx, id, userID, &token))
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *WorkoutService) Unshare(ctx context.Context, userID, id string) error {
	return exec(ctx, s.store, func(ctx context.Context, conn dbx.Conn) error {
		return found(s.store.Repos.Workouts(conn).SetShareToken(ctx, id, userID, nil))
	})
}

// Shared resolves a share token to a read-only view, with records computed
// for the owner.
func (s *WorkoutService) Shared(ctx context.Context, token string) (*models.SharedWorkout, error) {
	if token == "" {
		return nil, common.ErrorNotFound
	}
	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) (*models.SharedWorkout, error) {
		w, err := s.store.Repos.Workouts(conn).GetSessionByShareToken(ctx, token)
		if err != nil {
			return nil, err
		}
		owner, err := s.store.Repos.Users(conn).GetByID(ctx, w.UserID)
		if err != nil {
			return nil, err
		}
		d, err := s.detail(ctx, conn, w)
		if err != nil {
			return nil, err
		}
		return &models.SharedWorkout{WorkoutDetail: *d, OwnerName: owner.UserName}, nil
	})
}

// found turns a "no row matched" mutation into common.ErrorNotFound.
func found(ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrorNotFound
	}
	return nil
}
