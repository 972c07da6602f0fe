package workouts

import "math"

// CaloriesPerMinutePerKg is the flat burn rate used for every workout.
const CaloriesPerMinutePerKg = 5

// EstimateCalories returns duration * weight * CaloriesPerMinutePerKg.
// Duration and weight are truncated to whole numbers before multiplying,
// so 45.9 min at 80.5 kg counts as 45 min at 80 kg.
func EstimateCalories(entry Entry) float64 {
	duration := math.Trunc(entry.DurationMin)
	weight := math.Trunc(entry.WeightKg)
	if !(duration > 0) || !(weight > 0) {
		return 0
	}
	return duration * weight * CaloriesPerMinutePerKg
}
