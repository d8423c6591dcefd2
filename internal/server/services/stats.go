package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/dbx"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
	"github.com/dmitrijs2005/liftlog/internal/server/records"
)

// HistoryLimit caps the sets returned for one exercise.
const HistoryLimit = 50

type StatsService struct {
	store   *Store
	records *RecordService
	now     func() time.Time
}

func NewStatsService(s *Store, r *RecordService) *StatsService {
	return &StatsService{store: s, records: r, now: time.Now}
}

func (s *StatsService) daysAgo(n int) string {
	return s.now().AddDate(0, 0, -n).Format(dateLayout)
}

// Summary counts workouts in the last 7 and 30 days and the volume lifted
// in the last 7.
func (s *StatsService) Summary(ctx context.Context, userID string) (*models.Stats, error) {
	week, month := s.daysAgo(7), s.daysAgo(30)

	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) (*models.Stats, error) {
		repo := s.store.Repos.Workouts(conn)
		st := &models.Stats{}
		var err error
		if st.WorkoutsLast7Days, err = repo.CountSessionsSince(ctx, userID, week); err != nil {
			return nil, err
		}
		if st.WorkoutsLast30Days, err = repo.CountSessionsSince(ctx, userID, month); err != nil {
			return nil, err
		}
		if st.VolumeLast7Days, err = repo.VolumeSince(ctx, userID, week); err != nil {
			return nil, err
		}
		if st.TotalWorkouts, err = repo.CountSessions(ctx, userID); err != nil {
			return nil, err
		}
		return st, nil
	})
}

// Dashboard is the summary plus the most recent records.
type Dashboard struct {
	Stats     *models.Stats           `json:"stats"`
	RecentPRs []models.PersonalRecord `json:"recent_prs"`
}

const dashboardPRs = 5

func (s *StatsService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	st, err := s.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	prs, err := s.records.AllPRs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(prs) > dashboardPRs {
		prs = prs[:dashboardPRs]
	}
	if prs == nil {
		prs = []models.PersonalRecord{}
	}
	return &Dashboard{Stats: st, RecentPRs: prs}, nil
}

// ExerciseHistory returns the latest sets of one exercise with record flags.
func (s *StatsService) ExerciseHistory(ctx context.Context, userID, exerciseID string) (*models.ExerciseHistory, error) {
	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) (*models.ExerciseHistory, error) {
		e, err := visibleExercise(ctx, s.store, conn, userID, exerciseID)
		if err != nil {
			return nil, err
		}

		repo := s.store.Repos.Workouts(conn)
		sets, err := repo.ListSets(ctx, userID, exerciseID)
		if err != nil {
			return nil, err
		}
		entries, err := repo.History(ctx, userID, exerciseID, HistoryLimit)
		if err != nil {
			return nil, err
		}

		h := &models.ExerciseHistory{Exercise: *e, Entries: []models.HistoryEntry{}}
		if pr, ok := records.Best(sets); ok {
			h.Record = &pr
			for i := range entries {
				entries[i].IsPR = entries[i].Weight == pr.Value
			}
		}
		if entries != nil {
			h.Entries = entries
		}
		return h, nil
	})
}
