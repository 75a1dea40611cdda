package usecase

import (
	"time"

	"github.com/mindfulplate/backend/internal/domain"
)

// PatternConfig holds the analysis window and day-classification thresholds.
type PatternConfig struct {
	WindowDays   int
	LowProtein   float64
	HighCalories float64
}

// PatternAnalyzer computes historical eating statistics over a bounded
// window of history entries. The window is day-based: entries whose
// timestamp falls within the last WindowDays days of the reference time.
type PatternAnalyzer struct {
	windowDays   int
	lowProtein   float64
	highCalories float64
}

// NewPatternAnalyzer creates an analyzer with the given configuration,
// falling back to sensible defaults for missing values.
func NewPatternAnalyzer(config PatternConfig) *PatternAnalyzer {
	windowDays := config.WindowDays
	if windowDays <= 0 {
		windowDays = 14
	}
	lowProtein := config.LowProtein
	if lowProtein <= 0 {
		lowProtein = 60
	}
	highCalories := config.HighCalories
	if highCalories <= 0 {
		highCalories = 2200
	}
	return &PatternAnalyzer{
		windowDays:   windowDays,
		lowProtein:   lowProtein,
		highCalories: highCalories,
	}
}

// Analyze summarizes the entries within the window ending at now. Averages
// are taken across the distinct calendar dates present, not across entries.
// An empty window yields a summary marked InsufficientData so callers can
// tell "no data" apart from "data shows zero".
func (a *PatternAnalyzer) Analyze(history []domain.HistoryEntry, now time.Time) domain.PatternSummary {
	cutoff := now.AddDate(0, 0, -a.windowDays)

	type dayTotals struct {
		calories float64
		protein  float64
	}
	days := make(map[string]*dayTotals)
	frequency := make(map[string]int)
	totalMeals := 0

	for _, entry := range history {
		if entry.Timestamp.Before(cutoff) || entry.Timestamp.After(now) {
			continue
		}
		totalMeals++

		date := entry.Timestamp.Format("2006-01-02")
		totals, ok := days[date]
		if !ok {
			totals = &dayTotals{}
			days[date] = totals
		}
		totals.calories += entry.TotalNutrition.Calories
		totals.protein += entry.TotalNutrition.Protein

		for _, food := range entry.Foods {
			frequency[food.DisplayName]++
		}
	}

	if totalMeals == 0 {
		return domain.PatternSummary{InsufficientData: true, FoodFrequency: map[string]int{}}
	}

	summary := domain.PatternSummary{
		TotalMeals:    totalMeals,
		FoodFrequency: frequency,
	}

	var sumCalories, sumProtein float64
	for _, totals := range days {
		sumCalories += totals.calories
		sumProtein += totals.protein
		if totals.protein < a.lowProtein {
			summary.LowProteinDays++
		}
		if totals.calories > a.highCalories {
			summary.HighCalorieDays++
		}
	}
	summary.AvgCalories = sumCalories / float64(len(days))
	summary.AvgProtein = sumProtein / float64(len(days))

	return summary
}
