package records

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/server/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func bench(weight float64, offset time.Duration) Entry {
	return Entry{ExerciseID: "bench", ExerciseName: "Bench Press", Weight: weight, CreatedAt: t0.Add(offset)}
}

func TestBest_Empty(t *testing.T) {
	_, ok := Best(nil)
	assert.False(t, ok)
}

func TestBest_RecomputedAfterDeletion(t *testing.T) {
	sets := []Entry{bench(100, 0), bench(110, time.Minute), bench(105, 2*time.Minute)}

	pr, ok := Best(sets)
	require.True(t, ok)
	assert.Equal(t, 110.0, pr.Value)
	assert.True(t, pr.AchievedAt.Equal(t0.Add(time.Minute)))

	// the 110 set is deleted
	pr, ok = Best([]Entry{sets[0], sets[2]})
	require.True(t, ok)
	assert.Equal(t, 105.0, pr.Value)
	assert.True(t, pr.AchievedAt.Equal(t0.Add(2*time.Minute)))
}

func TestBest_TieGoesToLatest(t *testing.T) {
	pr, ok := Best([]Entry{bench(100, time.Hour), bench(100, 0), bench(90, 2*time.Hour)})
	require.True(t, ok)
	assert.True(t, pr.AchievedAt.Equal(t0.Add(time.Hour)))
}

func TestByExercise(t *testing.T) {
	squat := func(w float64, off time.Duration) Entry {
		return Entry{ExerciseID: "squat", ExerciseName: "Squat", Weight: w, CreatedAt: t0.Add(off)}
	}
	row := func(w float64, off time.Duration) Entry {
		return Entry{ExerciseID: "row", ExerciseName: "Barbell Row", Weight: w, CreatedAt: t0.Add(off)}
	}

	got := ByExercise([]Entry{
		bench(100, 0), bench(120, time.Hour),
		squat(140, 3*time.Hour), squat(130, 4*time.Hour),
		row(80, time.Hour),
	})

	want := []models.PersonalRecord{
		{ExerciseID: "squat", ExerciseName: "Squat", Value: 140, AchievedAt: t0.Add(3 * time.Hour)},
		{ExerciseID: "row", ExerciseName: "Barbell Row", Value: 80, AchievedAt: t0.Add(time.Hour)},
		{ExerciseID: "bench", ExerciseName: "Bench Press", Value: 120, AchievedAt: t0.Add(time.Hour)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ByExercise mismatch (-want +got):\n%s", diff)
	}
}

func TestAnnotate(t *testing.T) {
	log := func(ex string, w float64) models.AnnotatedLog {
		return models.AnnotatedLog{WorkoutLog: models.WorkoutLog{ExerciseID: ex, Weight: w}}
	}
	entries := []Entry{bench(100, 0), bench(110, time.Minute), {ExerciseID: "squat", Weight: 150}}

	logs := Annotate([]models.AnnotatedLog{
		log("bench", 100), log("bench", 110), log("bench", 110), log("squat", 150), log("deadlift", 200),
	}, Maxima(entries))

	var flags []bool
	for _, l := range logs {
		flags = append(flags, l.IsPR)
	}
	assert.Equal(t, []bool{false, true, true, true, false}, flags)
}

func TestMaxima_Empty(t *testing.T) {
	assert.Empty(t, Maxima(nil))
}
