package domain

import "time"

// HistoryEntry is one logged meal. The core reads entries supplied by the
// history repository and never mutates them.
type HistoryEntry struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	Timestamp      time.Time      `json:"timestamp"`
	MealType       string         `json:"mealType"`
	Foods          []ResolvedFood `json:"foods"`
	TotalNutrition NutrientVector `json:"totalNutrition"`
	OriginalText   string         `json:"originalText,omitempty"`
}

// PatternSummary holds historical eating statistics computed over a bounded
// window of history entries. It is derived per call and never cached.
type PatternSummary struct {
	// InsufficientData is set when the window contains no entries, so
	// callers can tell "no data" apart from "data shows zero".
	InsufficientData bool `json:"insufficientData"`

	TotalMeals      int            `json:"totalMeals"`
	AvgCalories     float64        `json:"avgCalories"`
	AvgProtein      float64        `json:"avgProtein"`
	FoodFrequency   map[string]int `json:"foodFrequency"`
	LowProteinDays  int            `json:"lowProteinDays"`
	HighCalorieDays int            `json:"highCalorieDays"`
}

// RecommendationType categorizes advisory messages.
type RecommendationType string

const (
	RecommendationProtein  RecommendationType = "protein"
	RecommendationCalories RecommendationType = "calories"
	RecommendationVariety  RecommendationType = "variety"
	RecommendationPositive RecommendationType = "positive"
	RecommendationWelcome  RecommendationType = "welcome"
)

// Recommendation is one advisory message. Recommendations are generated
// fresh per call and ordered by generation order.
type Recommendation struct {
	Type    RecommendationType `json:"type"`
	Message string             `json:"message"`
	Icon    string             `json:"icon"`
}

// Intent is the coarse classification of a user message, decided before the
// resolution pipeline runs.
type Intent string

const (
	IntentGreeting Intent = "greeting"
	IntentQuestion Intent = "question"
	IntentLogFood  Intent = "log_food"
)
