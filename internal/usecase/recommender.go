package usecase

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/mindfulplate/backend/internal/domain"
)

// Thresholds holds the nutrition targets the rule engine evaluates against.
// Protein thresholds are ordered: LowProtein < GoodProtein < TargetProtein.
type Thresholds struct {
	LowProtein     float64
	GoodProtein    float64
	TargetProtein  float64
	LowCalories    float64
	HighCalories   float64
	TargetCalories float64

	// FoodFrequencyAlert is the repeat count that triggers a variety
	// suggestion.
	FoodFrequencyAlert int
}

// DefaultThresholds returns the standard targets.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LowProtein:         60,
		GoodProtein:        80,
		TargetProtein:      120,
		LowCalories:        1200,
		HighCalories:       2200,
		TargetCalories:     2000,
		FoodFrequencyAlert: 3,
	}
}

const (
	// strongProteinBar is the protein level that earns the strong positive
	// message when calories are also on target.
	strongProteinBar = 100.0

	// calorieSlack widens the calorie target for the milder positive
	// message.
	calorieSlack = 100.0

	// minMealsForUnderEating guards the low-calorie warning against a
	// single small early-day entry.
	minMealsForUnderEating = 2

	// minMealsForConsistency is the logged-meal count that earns the
	// habit-building message.
	minMealsForConsistency = 3
)

// defaultEncouragements is the fallback pool used when no rule fires.
var defaultEncouragements = []string{
	"Great job logging your meal! 😊",
	"You're doing great! Keep logging your meals to track your progress.",
	"Every log counts. Keep it up! ✨",
}

// Recommender maps current totals and historical patterns to an ordered list
// of advisory messages. The randomness source is injected so tests can seed
// it and assert that the fallback message is a member of the pool.
type Recommender struct {
	thresholds     Thresholds
	encouragements []string
	rng            *rand.Rand
}

// NewRecommender creates a rule engine. A nil rng gets a time-seeded source;
// an empty pool gets the default encouragements.
func NewRecommender(thresholds Thresholds, encouragements []string, rng *rand.Rand) *Recommender {
	if len(encouragements) == 0 {
		encouragements = defaultEncouragements
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Recommender{
		thresholds:     thresholds,
		encouragements: encouragements,
		rng:            rng,
	}
}

// Recommend evaluates the rules in fixed order against today's running
// totals (today's logged entries plus the current meal) and the pattern
// summary. Rules from different groups are independent; a call may produce
// zero, one, or several recommendations. A brand-new user with no history
// gets a single welcome message.
func (r *Recommender) Recommend(
	currentMeal domain.NutrientVector,
	history []domain.HistoryEntry,
	patterns domain.PatternSummary,
	now time.Time,
) []domain.Recommendation {
	if len(history) == 0 && currentMeal.IsZero() {
		return []domain.Recommendation{{
			Type:    domain.RecommendationWelcome,
			Message: "Welcome! Start logging your meals to get personalized recommendations.",
			Icon:    "👋",
		}}
	}

	// Stored timestamps are UTC; group by the caller's calendar day.
	today := now.Format("2006-01-02")
	todayMeals := 0
	todayProtein := currentMeal.Protein
	todayCalories := currentMeal.Calories
	for _, entry := range history {
		if entry.Timestamp.In(now.Location()).Format("2006-01-02") != today {
			continue
		}
		todayMeals++
		todayProtein += entry.TotalNutrition.Protein
		todayCalories += entry.TotalNutrition.Calories
	}

	t := r.thresholds
	var recs []domain.Recommendation

	// Protein rules are mutually exclusive by threshold ordering.
	if todayProtein < t.LowProtein {
		recs = append(recs, domain.Recommendation{
			Type: domain.RecommendationProtein,
			Message: fmt.Sprintf(
				"You're at %.0fg protein today. Your goal is %.0fg - try adding grilled chicken, salmon, or Greek yogurt to your next meal! 💪",
				math.Round(todayProtein), t.TargetProtein),
			Icon: "💪",
		})
	} else if todayProtein >= t.GoodProtein && todayProtein < t.TargetProtein {
		recs = append(recs, domain.Recommendation{
			Type: domain.RecommendationProtein,
			Message: fmt.Sprintf(
				"Nice! You're at %.0fg protein - almost at your %.0fg goal! Keep it up!",
				math.Round(todayProtein), t.TargetProtein),
			Icon: "🎯",
		})
	}

	if todayCalories > t.HighCalories {
		recs = append(recs, domain.Recommendation{
			Type: domain.RecommendationCalories,
			Message: fmt.Sprintf(
				"You're at %.0f calories today. Maybe go for something lighter next time? You've got this! 😊",
				math.Round(todayCalories)),
			Icon: "⚠️",
		})
	} else if todayCalories < t.LowCalories && todayMeals >= minMealsForUnderEating {
		recs = append(recs, domain.Recommendation{
			Type: domain.RecommendationCalories,
			Message: fmt.Sprintf(
				"You're only at %.0f calories. Make sure you're eating enough to fuel your body! 🍽️",
				math.Round(todayCalories)),
			Icon: "🍽️",
		})
	}

	if name, count, ok := mostFrequentFood(patterns.FoodFrequency); ok && count >= t.FoodFrequencyAlert {
		recs = append(recs, domain.Recommendation{
			Type: domain.RecommendationVariety,
			Message: fmt.Sprintf(
				"I noticed you've had %s %d times recently. Nothing wrong with that, but variety is the spice of life! Try something new? 🔄",
				name, count),
			Icon: "🔄",
		})
	}

	if todayProtein >= strongProteinBar && todayCalories <= t.TargetCalories {
		recs = append(recs, domain.Recommendation{
			Type:    domain.RecommendationPositive,
			Message: "Wow! You're crushing it today! Perfect protein, great calorie balance. This is exactly what we're aiming for! 🎉🔥",
			Icon:    "✅",
		})
	} else if todayProtein >= t.GoodProtein && todayCalories <= t.TargetCalories+calorieSlack {
		recs = append(recs, domain.Recommendation{
			Type:    domain.RecommendationPositive,
			Message: "Looking good! You're hitting your nutrition goals today. Keep this momentum going! 💪",
			Icon:    "✅",
		})
	}

	if todayMeals >= minMealsForConsistency {
		recs = append(recs, domain.Recommendation{
			Type:    domain.RecommendationPositive,
			Message: "Love the consistency! You've logged 3+ meals today. That's how you build lasting habits! 🌟",
			Icon:    "🌟",
		})
	}

	if len(recs) == 0 {
		recs = append(recs, domain.Recommendation{
			Type:    domain.RecommendationPositive,
			Message: r.encouragements[r.rng.Intn(len(r.encouragements))],
			Icon:    "✨",
		})
	}

	return recs
}

// mostFrequentFood picks the highest-count food. Map iteration order is not
// deterministic in Go, so ties are broken by name to keep the choice stable.
func mostFrequentFood(frequency map[string]int) (string, int, bool) {
	if len(frequency) == 0 {
		return "", 0, false
	}
	names := make([]string, 0, len(frequency))
	for name := range frequency {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	for _, name := range names[1:] {
		if frequency[name] > frequency[best] {
			best = name
		}
	}
	return best, frequency[best], true
}
