package models

import (
	"slices"
	"time"
)

// Categories lists the exercise categories accepted on create and update.
var Categories = []string{"chest", "back", "legs", "shoulders", "arms", "core"}

// ValidCategory reports whether c is one of Categories.
func ValidCategory(c string) bool {
	return slices.Contains(Categories, c)
}

// Exercise is either a shared default (UserID nil) or a user's own.
type Exercise struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	MuscleGroup string  `json:"muscle_group"`
	Equipment   *string `json:"equipment,omitempty"`
	UserID      *string `json:"-"`
	IsDefault   bool    `json:"is_default"`
}

// OwnedBy reports whether userID may edit the exercise.
func (e *Exercise) OwnedBy(userID string) bool {
	return !e.IsDefault && e.UserID != nil && *e.UserID == userID
}

// VisibleTo reports whether userID may log sets against the exercise.
func (e *Exercise) VisibleTo(userID string) bool {
	return e.IsDefault || e.OwnedBy(userID)
}

// PersonalRecord is the heaviest set a user has logged for an exercise.
type PersonalRecord struct {
	ExerciseID   string    `json:"exercise_id"`
	ExerciseName string    `json:"exercise_name"`
	Value        float64   `json:"value"`
	AchievedAt   time.Time `json:"achieved_at"`
}
