package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mindfulplate/backend/internal/domain"
)

// ingredientPrompt asks the user for ingredients when nothing was
// recognized.
const ingredientPrompt = "I don't recognize that food. Could you tell me what ingredients are in it?"

// LogServiceConfig holds configuration for the log service.
type LogServiceConfig struct {
	WindowDays int

	// Clock is injectable for tests; nil means time.Now.
	Clock func() time.Time
}

// LogService is the entry point consumed by the delivery layer: it resolves
// a meal description, aggregates nutrition, analyzes history, generates
// recommendations, and persists the resulting log entry.
type LogService struct {
	pipeline    *Pipeline
	analyzer    *PatternAnalyzer
	recommender *Recommender
	history     domain.HistoryRepository
	windowDays  int
	clock       func() time.Time
}

// NewLogService wires the core components together.
func NewLogService(
	pipeline *Pipeline,
	analyzer *PatternAnalyzer,
	recommender *Recommender,
	history domain.HistoryRepository,
	config LogServiceConfig,
) *LogService {
	windowDays := config.WindowDays
	if windowDays <= 0 {
		windowDays = 14
	}
	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}
	return &LogService{
		pipeline:    pipeline,
		analyzer:    analyzer,
		recommender: recommender,
		history:     history,
		windowDays:  windowDays,
		clock:       clock,
	}
}

// ProcessResult is the full outcome of logging one meal description.
type ProcessResult struct {
	Foods               []domain.ResolvedFood   `json:"foods"`
	TotalNutrition      domain.NutrientVector   `json:"totalNutrition"`
	Recommendations     []domain.Recommendation `json:"recommendations"`
	NeedsClarification  bool                    `json:"needsClarification"`
	ClarificationPrompt string                  `json:"clarificationPrompt,omitempty"`
	NoMatch             bool                    `json:"noMatch"`
	UserMessage         string                  `json:"userMessage,omitempty"`
}

// Process resolves the meal text, computes totals and recommendations, and
// saves the entry. Unrecognized input and ambiguity are result fields, not
// errors; only infrastructure failures surface as errors.
func (s *LogService) Process(ctx context.Context, userID, text, mealType string) (*ProcessResult, error) {
	if userID == "" || strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.process(ctx, userID, text, mealType, s.pipeline.Resolve)
}

// ProcessIngredients logs a meal described as an ingredient list. Clients
// call this (instead of Process) when answering the ingredient prompt that
// follows a no-match, so each ingredient is weighted as part of a mixed dish
// rather than as a standalone full serving.
func (s *LogService) ProcessIngredients(ctx context.Context, userID, text, mealType string) (*ProcessResult, error) {
	if userID == "" || strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidRequest
	}
	resolve := func(_ context.Context, text string) (*Resolution, error) {
		return s.pipeline.ResolveIngredients(text)
	}
	return s.process(ctx, userID, text, mealType, resolve)
}

func (s *LogService) process(
	ctx context.Context,
	userID, text, mealType string,
	resolve func(context.Context, string) (*Resolution, error),
) (*ProcessResult, error) {
	if mealType == "" {
		mealType = "snack"
	}

	now := s.clock()
	history, err := s.history.RecentEntries(ctx, userID, now.AddDate(0, 0, -s.windowDays))
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	resolution, err := resolve(ctx, text)
	if err != nil {
		return nil, err
	}

	switch resolution.Kind {
	case KindNeedsClarification:
		return &ProcessResult{
			NeedsClarification:  true,
			ClarificationPrompt: resolution.Clarification.Prompt,
		}, nil
	case KindNoMatch:
		return &ProcessResult{
			NoMatch:     true,
			UserMessage: ingredientPrompt,
		}, nil
	}

	totals := Aggregate(resolution.Foods)
	patterns := s.analyzer.Analyze(history, now)
	recommendations := s.recommender.Recommend(totals, history, patterns, now)

	entry := &domain.HistoryEntry{
		UserID:         userID,
		Timestamp:      now,
		MealType:       mealType,
		Foods:          resolution.Foods,
		TotalNutrition: totals,
		OriginalText:   text,
	}
	if err := s.history.Save(ctx, entry); err != nil {
		// The resolution already succeeded; report it even if persistence
		// failed.
		log.Printf("[SERVICE] Failed to save log entry for user %s: %v", userID, err)
	}

	result := &ProcessResult{
		Foods:           resolution.Foods,
		TotalNutrition:  totals,
		Recommendations: recommendations,
	}
	if len(resolution.Foods) == 1 && resolution.Foods[0].Source == domain.SourceIngredientEstimate {
		result.UserMessage = fmt.Sprintf(
			"I estimated this as a mixed dish from: %s",
			strings.Join(resolution.Foods[0].Ingredients, ", "))
	}
	return result, nil
}

// DailySummary is the logged state for one calendar day.
type DailySummary struct {
	Entries []domain.HistoryEntry `json:"logs"`
	Totals  domain.NutrientVector `json:"dailyTotal"`
}

// TodayLogs returns the user's entries for the current day with their
// summed nutrition.
func (s *LogService) TodayLogs(ctx context.Context, userID string) (*DailySummary, error) {
	if userID == "" {
		return nil, domain.ErrInvalidRequest
	}

	now := s.clock()
	today := now.Format("2006-01-02")
	history, err := s.history.RecentEntries(ctx, userID, now.AddDate(0, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	summary := &DailySummary{Entries: []domain.HistoryEntry{}}
	for _, entry := range history {
		// Stored timestamps are UTC; compare in the clock's location.
		if entry.Timestamp.In(now.Location()).Format("2006-01-02") != today {
			continue
		}
		summary.Entries = append(summary.Entries, entry)
		summary.Totals = summary.Totals.Add(entry.TotalNutrition)
	}
	return summary, nil
}

// Recommendations generates advice from history alone, without a current
// meal, mirroring what a dashboard shows between logs.
func (s *LogService) Recommendations(ctx context.Context, userID string) ([]domain.Recommendation, error) {
	if userID == "" {
		return nil, domain.ErrInvalidRequest
	}

	now := s.clock()
	history, err := s.history.RecentEntries(ctx, userID, now.AddDate(0, 0, -s.windowDays))
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	patterns := s.analyzer.Analyze(history, now)
	return s.recommender.Recommend(domain.NutrientVector{}, history, patterns, now), nil
}

// FoodCount is one entry of the most-common-foods ranking.
type FoodCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats is the aggregate view over the pattern window.
type Stats struct {
	TotalMealsLogged int         `json:"totalMealsLogged"`
	AvgDailyCalories float64     `json:"avgDailyCalories"`
	AvgDailyProtein  float64     `json:"avgDailyProtein"`
	LowProteinDays   int         `json:"lowProteinDays"`
	HighCalorieDays  int         `json:"highCalorieDays"`
	MostCommonFoods  []FoodCount `json:"mostCommonFoods"`
}

// Stats summarizes the user's pattern window. Returns nil when there is no
// history to summarize.
func (s *LogService) Stats(ctx context.Context, userID string) (*Stats, error) {
	if userID == "" {
		return nil, domain.ErrInvalidRequest
	}

	now := s.clock()
	history, err := s.history.RecentEntries(ctx, userID, now.AddDate(0, 0, -s.windowDays))
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	patterns := s.analyzer.Analyze(history, now)
	if patterns.InsufficientData {
		return nil, nil
	}

	counts := make([]FoodCount, 0, len(patterns.FoodFrequency))
	for name, count := range patterns.FoodFrequency {
		counts = append(counts, FoodCount{Name: name, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	if len(counts) > 5 {
		counts = counts[:5]
	}

	return &Stats{
		TotalMealsLogged: patterns.TotalMeals,
		AvgDailyCalories: math.Round(patterns.AvgCalories),
		AvgDailyProtein:  math.Round(patterns.AvgProtein),
		LowProteinDays:   patterns.LowProteinDays,
		HighCalorieDays:  patterns.HighCalorieDays,
		MostCommonFoods:  counts,
	}, nil
}
