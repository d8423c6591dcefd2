// Package records derives personal records from logged sets.
//
// Nothing here is stored: a record is always recomputed from the sets that
// exist right now, so editing or deleting a set can only ever move it to the
// next best remaining set.
package records

import (
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/server/models"
)

// Entry is the part of a logged set that matters for records.
type Entry struct {
	ExerciseID   string
	ExerciseName string
	Weight       float64
	CreatedAt    time.Time
}

// better reports whether a beats b: heavier wins, equal weight goes to the
// more recent set.
func better(a, b Entry) bool {
	if a.Weight != b.Weight {
		return a.Weight > b.Weight
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func toRecord(e Entry) models.PersonalRecord {
	return models.PersonalRecord{
		ExerciseID:   e.ExerciseID,
		ExerciseName: e.ExerciseName,
		Value:        e.Weight,
		AchievedAt:   e.CreatedAt,
	}
}

// Best returns the record over entries, which are assumed to share one
// exercise. ok is false when entries is empty.
func Best(entries []Entry) (pr models.PersonalRecord, ok bool) {
	if len(entries) == 0 {
		return models.PersonalRecord{}, false
	}
	top := entries[0]
	for _, e := range entries[1:] {
		if better(e, top) {
			top = e
		}
	}
	return toRecord(top), true
}

// ByExercise returns one record per exercise, most recently achieved first.
func ByExercise(entries []Entry) []models.PersonalRecord {
	top := make(map[string]Entry)
	for _, e := range entries {
		cur, seen := top[e.ExerciseID]
		if !seen || better(e, cur) {
			top[e.ExerciseID] = e
		}
	}

	out := make([]models.PersonalRecord, 0, len(top))
	for _, e := range top {
		out = append(out, toRecord(e))
	}
	slices.SortFunc(out, func(a, b models.PersonalRecord) int {
		if c := b.AchievedAt.Compare(a.AchievedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ExerciseName, b.ExerciseName)
	})
	return out
}

// Maxima returns the heaviest weight per exercise.
func Maxima(entries []Entry) map[string]float64 {
	m := make(map[string]float64)
	for _, e := range entries {
		if cur, seen := m[e.ExerciseID]; !seen || e.Weight > cur {
			m[e.ExerciseID] = e.Weight
		}
	}
	return m
}

// Annotate sets IsPR on every log whose weight equals the maximum for its
// exercise. Logs of exercises missing from maxima are never records.
func Annotate(logs []models.AnnotatedLog, maxima map[string]float64) []models.AnnotatedLog {
	for i := range logs {
		best, ok := maxima[logs[i].ExerciseID]
		logs[i].IsPR = ok && logs[i].Weight == best
	}
	return logs
}
