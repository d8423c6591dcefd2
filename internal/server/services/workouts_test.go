package services

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bench = "default-bench-press"

func prFlags(d *models.WorkoutDetail) map[float64]bool {
	out := make(map[float64]bool)
	for _, l := range d.Logs {
		out[l.Weight] = l.IsPR
	}
	return out
}

func TestRecords_FollowCurrentData(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")

	w, err := env.workouts.Create(bg, alice.ID, "2025-03-01", nil)
	require.NoError(t, err)

	var heavy *models.WorkoutLog
	for _, weight := range []float64{100, 110, 105} {
		l, err := env.workouts.AddLog(bg, alice.ID, w.ID, SetInput{ExerciseID: bench, Reps: 5, Weight: weight})
		require.NoError(t, err)
		if weight == 110 {
			heavy = l
		}
	}

	d, err := env.workouts.Get(bg, alice.ID, w.ID)
	require.NoError(t, err)
	assert.Equal(t, map[float64]bool{100: false, 110: true, 105: false}, prFlags(d))

	pr, err := env.records.CurrentPR(bg, alice.ID, bench)
	require.NoError(t, err)
	require.NotNil(t, pr)
	assert.Equal(t, 110.0, pr.Value)
	assert.Equal(t, "Bench Press", pr.ExerciseName)

	require.NoError(t, env.workouts.DeleteLog(bg, alice.ID, w.ID, heavy.ID))

	d, err = env.workouts.Get(bg, alice.ID, w.ID)
	require.NoError(t, err)
	assert.Equal(t, map[float64]bool{100: false, 105: true}, prFlags(d))

	pr, err = env.records.CurrentPR(bg, alice.ID, bench)
	require.NoError(t, err)
	assert.Equal(t, 105.0, pr.Value)

	// a second 105 ties: both sets are records
	_, err = env.workouts.AddLog(bg, alice.ID, w.ID, SetInput{ExerciseID: bench, Reps: 3, Weight: 105})
	require.NoError(t, err)
	d, err = env.workouts.Get(bg, alice.ID, w.ID)
	require.NoError(t, err)
	n := 0
	for _, l := range d.Logs {
		if l.IsPR {
			n++
		}
	}
	assert.Equal(t, 2, n)

	none, err := env.records.CurrentPR(bg, alice.ID, "default-squat")
	require.NoError(t, err)
	assert.Nil(t, none)

	all, err := env.records.AllPRs(bg, alice.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 105.0, all[0].Value)
}

func TestRecords_ArePerUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	wa, err := env.workouts.Create(bg, alice.ID, "2025-03-01", nil)
	require.NoError(t, err)
	wb, err := env.workouts.Create(bg, bob.ID, "2025-03-01", nil)
	require.NoError(t, err)

	_, err = env.workouts.AddLog(bg, alice.ID, wa.ID, SetInput{ExerciseID: bench, Reps: 5, Weight: 80})
	require.NoError(t, err)
	_, err = env.workouts.AddLog(bg, bob.ID, wb.ID, SetInput{ExerciseID: bench, Reps: 5, Weight: 120})
	require.NoError(t, err)

	d, err := env.workouts.Get(bg, alice.ID, wa.ID)
	require.NoError(t, err)
	require.Len(t, d.Logs, 1)
	assert.True(t, d.Logs[0].IsPR)
}

func TestWorkouts_SetNumbering(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	w, err := env.workouts.Create(bg, alice.ID, "", ptr("  "))
	require.NoError(t, err)
	assert.Nil(t, w.Notes)
	_, err = time.Parse(dateLayout, w.Date)
	assert.NoError(t, err, "empty date defaults to today")

	var got []int
	for _, ex := range []string{bench, bench, "default-squat", bench} {
		l, err := env.workouts.AddLog(bg, alice.ID, w.ID, SetInput{ExerciseID: ex, Reps: 5, Weight: 60})
		require.NoError(t, err)
		got = append(got, l.SetNumber)
	}
	assert.Equal(t, []int{1, 2, 1, 3}, got)
}

func TestWorkouts_Validation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	w, err := env.workouts.Create(bg, alice.ID, "2025-03-01", nil)
	require.NoError(t, err)

	bad := []SetInput{
		{ExerciseID: bench, Reps: 0, Weight: 10},
		{ExerciseID: bench, Reps: 5, Weight: -1},
		{ExerciseID: bench, Reps: 5, Weight: 10, RPE: ptr(0)},
		{ExerciseID: bench, Reps: 5, Weight: 10, RPE: ptr(11)},
		{ExerciseID: "no-such-exercise", Reps: 5, Weight: 10},
	}
	for i, in := range bad {
		_, err := env.workouts.AddLog(bg, alice.ID, w.ID, in)
		assert.ErrorIs(t, err, common.ErrorValidation, "case %d", i)
	}

	_, err = env.workouts.Create(bg, alice.ID, "03/01/2025", nil)
	assert.ErrorIs(t, err, common.ErrorValidation)

	l, err := env.workouts.AddLog(bg, alice.ID, w.ID, SetInput{ExerciseID: bench, Reps: 5, Weight: 0, RPE: ptr(10)})
	require.NoError(t, err, "zero weight and rpe 10 are allowed")

	err = env.workouts.UpdateLog(bg, alice.ID, w.ID, l.ID, SetInput{Reps: -2, Weight: 10})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestWorkouts_NonFiniteWeightRejected(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	w, err := env.workouts.Create(bg, alice.ID, "2025-03-01", nil)
	require.NoError(t, err)

	l, err := env.workouts.AddLog(bg, alice.ID, w.ID, SetInput{ExerciseID: bench, Reps: 5, Weight: 100})
	require.NoError(t, err)

	for _, weight := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := env.workouts.AddLog(bg, alice.ID, w.ID, SetInput{ExerciseID: bench, Reps: 5, Weight: weight})
		assert.ErrorIs(t, err, common.ErrorValidation, "add %v", weight)
		assert.Equal(t, "Weight must be a number", common.Reason(err))

		err = env.workouts.UpdateLog(bg, alice.ID, w.ID, l.ID, SetInput{Reps: 5, Weight: weight})
		assert.ErrorIs(t, err, common.ErrorValidation, "update %v", weight)
	}

	pr, err := env.records.CurrentPR(bg, alice.ID, bench)
	require.NoError(t, err)
	require.NotNil(t, pr)
	assert.Equal(t, 100.0, pr.Value)

	d, err := env.workouts.Get(bg, alice.ID, w.ID)
	require.NoError(t, err)
	assert.Len(t, d.Logs, 1)
	_, err = json.Marshal(d)
	assert.NoError(t, err)
}

func TestWorkouts_CrossUserIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	w, err := env.workouts.Create(bg, alice.ID, "2025-03-01", ptr("mine"))
	require.NoError(t, err)
	l, err := env.workouts.AddLog(bg, alice.ID, w.ID, SetInput{ExerciseID: bench, Reps: 5, Weight: 100})
	require.NoError(t, err)

	_, err = env.workouts.Get(bg, bob.ID, w.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, env.workouts.Update(bg, bob.ID, w.ID, "2025-03-02", nil), common.ErrorNotFound)
	assert.ErrorIs(t, env.workouts.Delete(bg, bob.ID, w.ID), common.ErrorNotFound)
	_, err = env.workouts.AddLog(bg, bob.ID, w.ID, SetInput{ExerciseID: bench, Reps: 1, Weight: 1})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, env.workouts.UpdateLog(bg, bob.ID, w.ID, l.ID, SetInput{Reps: 1, Weight: 1}), common.ErrorNotFound)
	assert.ErrorIs(t, env.workouts.DeleteLog(bg, bob.ID, w.ID, l.ID), common.ErrorNotFound)
	_, err = env.workouts.Share(bg, bob.ID, w.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	// nothing changed
	d, err := env.workouts.Get(bg, alice.ID, w.ID)
	require.NoError(t, err)
	require.Len(t, d.Logs, 1)
	assert.Equal(t, 100.0, d.Logs[0].Weight)
	assert.Equal(t, "2025-03-01", d.Date)

	// a log addressed through another session of the owner is not found either
	other, err := env.workouts.Create(bg, alice.ID, "2025-03-02", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, env.workouts.DeleteLog(bg, alice.ID, other.ID, l.ID), common.ErrorNotFound)
}

func TestWorkouts_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	w, err := env.workouts.Create(bg, alice.ID, "2025-03-01", nil)
	require.NoError(t, err)
	l, err := env.workouts.AddLog(bg, alice.ID, w.ID, SetInput{ExerciseID: bench, Reps: 5, Weight: 100})
	require.NoError(t, err)

	require.NoError(t, env.workouts.Update(bg, alice.ID, w.ID, "2025-03-05", ptr("moved")))
	require.NoError(t, env.workouts.UpdateLog(bg, alice.ID, w.ID, l.ID, SetInput{Reps: 3, Weight: 102.5, RPE: ptr(9)}))

	d, err := env.workouts.Get(bg, alice.ID, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-05", d.Date)
	require.NotNil(t, d.Notes)
	assert.Equal(t, "moved", *d.Notes)
	require.Len(t, d.Logs, 1)
	assert.Equal(t, 3, d.Logs[0].Reps)
	assert.Equal(t, 102.5, d.Logs[0].Weight)
	assert.Equal(t, bench, d.Logs[0].ExerciseID, "exercise is not editable")

	require.NoError(t, env.workouts.Delete(bg, alice.ID, w.ID))
	_, err = env.workouts.Get(bg, alice.ID, w.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestWorkouts_Pagination(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")

	for i := 1; i <= 12; i++ {
		_, err := env.workouts.Create(bg, alice.ID, fmt.Sprintf("2025-01-%02d", i), nil)
		require.NoError(t, err)
	}

	p1, err := env.workouts.List(bg, alice.ID, 1)
	require.NoError(t, err)
	assert.Len(t, p1.Workouts, WorkoutsPerPage)
	assert.Equal(t, 2, p1.TotalPages)
	assert.Equal(t, "2025-01-12", p1.Workouts[0].Date)

	p2, err := env.workouts.List(bg, alice.ID, 2)
	require.NoError(t, err)
	assert.Len(t, p2.Workouts, 2)
	assert.Equal(t, "2025-01-01", p2.Workouts[1].Date)

	p0, err := env.workouts.List(bg, alice.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, p0.Page)

	empty, err := env.workouts.List(bg, env.user(t, "bob").ID, 1)
	require.NoError(t, err)
	assert.Empty(t, empty.Workouts)
	assert.Equal(t, 1, empty.TotalPages)
}

func TestWorkouts_Sharing(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	w, err := env.workouts.Create(bg, alice.ID, "2025-03-01", nil)
	require.NoError(t, err)
	_, err = env.workouts.AddLog(bg, alice.ID, w.ID, SetInput{ExerciseID: bench, Reps: 5, Weight: 100})
	require.NoError(t, err)

	token, err := env.workouts.Share(bg, alice.ID, w.ID)
	require.NoError(t, err)
	assert.Len(t, token, 32)

	shared, err := env.workouts.Shared(bg, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", shared.OwnerName)
	require.Len(t, shared.Logs, 1)
	assert.True(t, shared.Logs[0].IsPR)

	again, err := env.workouts.Share(bg, alice.ID, w.ID)
	require.NoError(t, err)
	assert.NotEqual(t, token, again)
	_, err = env.workouts.Shared(bg, token)
	assert.ErrorIs(t, err, common.ErrorNotFound, "re-sharing replaces the old link")

	require.NoError(t, env.workouts.Unshare(bg, alice.ID, w.ID))
	_, err = env.workouts.Shared(bg, again)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = env.workouts.Shared(bg, "")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
