package models

import "time"

// WorkoutSession is one logged training day. Not to be confused with a
// login Session.
type WorkoutSession struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	Date       string    `json:"date"`
	Notes      *string   `json:"notes,omitempty"`
	ShareToken *string   `json:"share_token,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// WorkoutLog is a single set.
type WorkoutLog struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	ExerciseID string    `json:"exercise_id"`
	SetNumber  int       `json:"set_number"`
	Reps       int       `json:"reps"`
	Weight     float64   `json:"weight"`
	RPE        *int      `json:"rpe,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// AnnotatedLog is a set joined with its exercise name and whether it
// currently matches the user's best weight for that exercise.
type AnnotatedLog struct {
	WorkoutLog
	ExerciseName string `json:"exercise_name"`
	IsPR         bool   `json:"is_pr"`
}

// WorkoutSummary is a list row: the session plus aggregate counts.
type WorkoutSummary struct {
	WorkoutSession
	ExerciseCount int `json:"exercise_count"`
	SetCount      int `json:"set_count"`
}

// WorkoutDetail is a session with its annotated sets, in set order.
type WorkoutDetail struct {
	WorkoutSession
	Logs []AnnotatedLog `json:"logs"`
}

// HistoryEntry is one set in an exercise history view.
type HistoryEntry struct {
	Date   string  `json:"date"`
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
	RPE    *int    `json:"rpe,omitempty"`
	IsPR   bool    `json:"is_pr"`
}

// Stats are the dashboard counters.
type Stats struct {
	WorkoutsLast7Days  int     `json:"workouts_last_7_days"`
	WorkoutsLast30Days int     `json:"workouts_last_30_days"`
	VolumeLast7Days    float64 `json:"volume_last_7_days"`
	TotalWorkouts      int     `json:"total_workouts"`
}

// WorkoutPage is one page of a user's workouts, newest date first.
type WorkoutPage struct {
	Workouts   []WorkoutSummary `json:"workouts"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

// SharedWorkout is the public, read-only view behind a share link.
type SharedWorkout struct {
	WorkoutDetail
	OwnerName string `json:"owner_name"`
}

// ExerciseHistory is an exercise with its current record and latest sets.
type ExerciseHistory struct {
	Exercise Exercise        `json:"exercise"`
	Record   *PersonalRecord `json:"record,omitempty"`
	Entries  []HistoryEntry  `json:"entries"`
}

// Export is the document uploaded by a history export.
type Export struct {
	UserName   string           `json:"username"`
	ExportedAt time.Time        `json:"exported_at"`
	Workouts   []WorkoutDetail  `json:"workouts"`
	Records    []PersonalRecord `json:"records"`
}
