package services

import (
	"testing"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExercises_Ownership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	e, err := env.exercise.Create(bg, alice.ID, ExerciseInput{Name: " Hip Thrust ", Category: "Legs", MuscleGroup: "glutes", Equipment: "barbell"})
	require.NoError(t, err)
	assert.Equal(t, "Hip Thrust", e.Name)
	assert.Equal(t, "legs", e.Category)

	got, err := env.exercise.Get(bg, alice.ID, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Equipment)
	assert.Equal(t, "barbell", *got.Equipment)

	_, err = env.exercise.Get(bg, bob.ID, e.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	in := ExerciseInput{Name: "Glute Bridge", Category: "legs"}
	assert.ErrorIs(t, env.exercise.Update(bg, bob.ID, e.ID, in), common.ErrorNotFound)
	assert.ErrorIs(t, env.exercise.Delete(bg, bob.ID, e.ID), common.ErrorNotFound)
	assert.ErrorIs(t, env.exercise.Update(bg, alice.ID, bench, in), common.ErrorNotFound, "defaults are read-only")
	assert.ErrorIs(t, env.exercise.Delete(bg, alice.ID, bench), common.ErrorNotFound)

	require.NoError(t, env.exercise.Update(bg, alice.ID, e.ID, in))
	got, err = env.exercise.Get(bg, alice.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Glute Bridge", got.Name)
	assert.Nil(t, got.Equipment)

	aliceList, err := env.exercise.List(bg, alice.ID)
	require.NoError(t, err)
	bobList, err := env.exercise.List(bg, bob.ID)
	require.NoError(t, err)
	assert.Len(t, aliceList, len(bobList)+1)

	require.NoError(t, env.exercise.Delete(bg, alice.ID, e.ID))
	_, err = env.exercise.Get(bg, alice.ID, e.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestExercises_Validation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")

	_, err := env.exercise.Create(bg, alice.ID, ExerciseInput{Name: "   ", Category: "legs"})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = env.exercise.Create(bg, alice.ID, ExerciseInput{Name: "Juggling", Category: "cardio"})
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, "Unknown category", common.Reason(err))
}
