package workouts

import "time"

// Entry is one parsed workout block, before calories are estimated.
type Entry struct {
	Category    string  `json:"category"`
	Name        string  `json:"workoutName"`
	Sets        int     `json:"sets"`
	Reps        int     `json:"reps"`
	WeightKg    float64 `json:"weightKg"`
	DurationMin float64 `json:"durationMin"`
}

// WorkoutRecord is a persisted workout. Records are never updated.
type WorkoutRecord struct {
	ID     int `json:"id"`
	UserID int `json:"userId"`
	Entry
	CaloriesBurned float64   `json:"caloriesBurned"`
	Date           time.Time `json:"date"`
}

type WorkoutsByDate struct {
	Date          string          `json:"date"`
	Workouts      []WorkoutRecord `json:"workouts"`
	TotalCalories float64         `json:"totalCalories"`
}
