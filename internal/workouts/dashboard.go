package workouts

import (
	"sort"
	"strconv"
	"time"
)

const weeklySeriesDays = 7

type DailyCalories struct {
	Label         string  `json:"label"`
	Date          string  `json:"date"`
	TotalCalories float64 `json:"totalCalories"`
}

type CategoryCalories struct {
	Category      string  `json:"category"`
	TotalCalories float64 `json:"totalCalories"`
}

type DashboardSummary struct {
	TotalCaloriesToday    float64            `json:"totalCaloriesToday"`
	TotalWorkoutsToday    int                `json:"totalWorkoutsToday"`
	AvgCaloriesPerWorkout float64            `json:"avgCaloriesPerWorkout"`
	WeeklySeries          []DailyCalories    `json:"weeklySeries"`
	CategoryBreakdown     []CategoryCalories `json:"categoryBreakdown"`
}

// DayWindow returns [start of day, start of next day) for t in t's location.
func DayWindow(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// WeekWindow returns the window covering the weeklySeriesDays days that end with t's day.
func WeekWindow(t time.Time) (time.Time, time.Time) {
	todayStart, tomorrowStart := DayWindow(t)
	return todayStart.AddDate(0, 0, -(weeklySeriesDays - 1)), tomorrowStart
}

func dayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// Summarize builds the dashboard for now from the given records.
// Records outside the week ending today are ignored.
func Summarize(records []WorkoutRecord, now time.Time) *DashboardSummary {
	loc := now.Location()
	todayStart, tomorrowStart := DayWindow(now)
	weekStart := todayStart.AddDate(0, 0, -(weeklySeriesDays - 1))

	summary := &DashboardSummary{
		WeeklySeries:      make([]DailyCalories, 0, weeklySeriesDays),
		CategoryBreakdown: make([]CategoryCalories, 0),
	}

	perDay := map[string]float64{}
	perCategory := map[string]float64{}
	for _, rec := range records {
		date := rec.Date.In(loc)
		if date.Before(weekStart) || !date.Before(tomorrowStart) {
			continue
		}
		perDay[dayKey(date)] += rec.CaloriesBurned

		if date.Before(todayStart) {
			continue
		}
		summary.TotalCaloriesToday += rec.CaloriesBurned
		summary.TotalWorkoutsToday++
		perCategory[rec.Category] += rec.CaloriesBurned
	}

	if summary.TotalWorkoutsToday > 0 {
		summary.AvgCaloriesPerWorkout = summary.TotalCaloriesToday / float64(summary.TotalWorkoutsToday)
	}

	for i := 0; i < weeklySeriesDays; i++ {
		day := weekStart.AddDate(0, 0, i)
		summary.WeeklySeries = append(summary.WeeklySeries, DailyCalories{
			Label:         strconv.Itoa(day.Day()),
			Date:          dayKey(day),
			TotalCalories: perDay[dayKey(day)],
		})
	}

	for category, total := range perCategory {
		summary.CategoryBreakdown = append(summary.CategoryBreakdown, CategoryCalories{
			Category:      category,
			TotalCalories: total,
		})
	}
	sort.Slice(summary.CategoryBreakdown, func(i, j int) bool {
		return summary.CategoryBreakdown[i].Category < summary.CategoryBreakdown[j].Category
	})

	return summary
}
