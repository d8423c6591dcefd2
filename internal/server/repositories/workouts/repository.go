// Package workouts persists workout sessions and the sets logged in them.
//
// Session lookups by id are not scoped to a user; callers compare
// WorkoutSession.UserID themselves. Mutations take the owner id and report
// whether a row matched.
package workouts

import (
	"context"

	"github.com/dmitrijs2005/liftlog/internal/server/models"
	"github.com/dmitrijs2005/liftlog/internal/server/records"
)

type Repository interface {
	CreateSession(ctx context.Context, w *models.WorkoutSession) (*models.WorkoutSession, error)
	GetSession(ctx context.Context, id string) (*models.WorkoutSession, error)
	GetSessionByShareToken(ctx context.Context, token string) (*models.WorkoutSession, error)
	UpdateSession(ctx context.Context, id, userID, date string, notes *string) (bool, error)
	DeleteSession(ctx context.Context, id, userID string) (bool, error)
	// SetShareToken stores token, or clears sharing when token is nil.
	SetShareToken(ctx context.Context, id, userID string, token *string) (bool, error)

	// ListSessions returns a page of summaries, newest date first.
	ListSessions(ctx context.Context, userID string, limit, offset int) ([]models.WorkoutSummary, error)
	CountSessions(ctx context.Context, userID string) (int, error)
	// CountSessionsSince and VolumeSince compare against a YYYY-MM-DD date.
	CountSessionsSince(ctx context.Context, userID, since string) (int, error)
	VolumeSince(ctx context.Context, userID, since string) (float64, error)

	NextSetNumber(ctx context.Context, sessionID, exerciseID string) (int, error)
	CreateLog(ctx context.Context, l *models.WorkoutLog) (*models.WorkoutLog, error)
	GetLog(ctx context.Context, id string) (*models.WorkoutLog, error)
	// UpdateLog changes reps, weight and rpe only.
	UpdateLog(ctx context.Context, l *models.WorkoutLog) (bool, error)
	DeleteLog(ctx context.Context, id, sessionID string) (bool, error)
	// ListLogs returns the session's sets with exercise names, IsPR unset.
	ListLogs(ctx context.Context, sessionID string) ([]models.AnnotatedLog, error)

	// MaxWeights is the heaviest weight per exercise over all of userID's sets.
	MaxWeights(ctx context.Context, userID string) (map[string]float64, error)
	// ListSets returns every set of userID, optionally limited to one
	// exercise when exerciseID is not empty.
	ListSets(ctx context.Context, userID, exerciseID string) ([]records.Entry, error)
	// History returns the latest sets for one exercise, IsPR unset.
	History(ctx context.Context, userID, exerciseID string, limit int) ([]models.HistoryEntry, error)
}
