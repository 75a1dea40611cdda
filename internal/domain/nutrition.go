package domain

import (
	"math"
	"time"
)

// NutrientVector holds the five tracked macronutrients. Values are
// non-negative and always travel together; a partially filled vector is
// never produced.
type NutrientVector struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"` // grams
	Carbs    float64 `json:"carbs"`   // grams
	Fat      float64 `json:"fat"`     // grams
	Fiber    float64 `json:"fiber"`   // grams
}

// Add returns the element-wise sum of two vectors.
func (v NutrientVector) Add(o NutrientVector) NutrientVector {
	return NutrientVector{
		Calories: v.Calories + o.Calories,
		Protein:  v.Protein + o.Protein,
		Carbs:    v.Carbs + o.Carbs,
		Fat:      v.Fat + o.Fat,
		Fiber:    v.Fiber + o.Fiber,
	}
}

// Scale multiplies every nutrient by the portion multiplier and rounds each
// value to one decimal place.
func (v NutrientVector) Scale(portion float64) NutrientVector {
	return NutrientVector{
		Calories: round1(v.Calories * portion),
		Protein:  round1(v.Protein * portion),
		Carbs:    round1(v.Carbs * portion),
		Fat:      round1(v.Fat * portion),
		Fiber:    round1(v.Fiber * portion),
	}
}

// IsZero reports whether every nutrient is zero.
func (v NutrientVector) IsZero() bool {
	return v == NutrientVector{}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

// Category classifies a dictionary entry by food group.
type Category string

const (
	CategoryProtein    Category = "protein"
	CategoryCarbs      Category = "carbs"
	CategoryVegetables Category = "vegetables"
	CategoryFruits     Category = "fruits"
	CategoryDairy      Category = "dairy"
	CategoryFastFood   Category = "fast_food"
	CategoryTreats     Category = "treats"
	CategoryBeverages  Category = "beverages"
	CategoryMixed      Category = "mixed"
)

// ValidCategory reports whether c is one of the known food categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryProtein, CategoryCarbs, CategoryVegetables, CategoryFruits,
		CategoryDairy, CategoryFastFood, CategoryTreats, CategoryBeverages,
		CategoryMixed:
		return true
	}
	return false
}

// DictionaryEntry is the per-serving nutrition record for a canonical food
// name. Entries are immutable after the dictionary is loaded.
type DictionaryEntry struct {
	PerServing NutrientVector `json:"nutrition"`
	Category   Category       `json:"category"`
}

// Source identifies which resolution tier produced a ResolvedFood.
type Source string

const (
	SourceDictionary         Source = "dictionary"
	SourceCache              Source = "cache"
	SourceOracle             Source = "oracle"
	SourceIngredientEstimate Source = "ingredient_estimate"
)

// ResolvedFood is one matched food with its nutrition already scaled by the
// detected portion. Instances are never mutated after creation.
type ResolvedFood struct {
	DisplayName  string         `json:"name"`
	Portion      float64        `json:"portion"`
	PortionLabel string         `json:"portionLabel"`
	Nutrition    NutrientVector `json:"nutrition"`
	Category     Category       `json:"category"`
	Source       Source         `json:"source"`
	Confidence   float64        `json:"confidence"`

	// Ingredients lists the contributing dictionary foods when Source is
	// ingredient_estimate; empty otherwise.
	Ingredients []string `json:"ingredients,omitempty"`
}

// ClarificationRequest is produced instead of a ResolvedFood when the input
// names a generic term (e.g. "soda") without a specific variant.
type ClarificationRequest struct {
	GenericTerm string   `json:"genericTerm"`
	Options     []string `json:"options"`
	Prompt      string   `json:"prompt"`
}

// NutrientRecord is the cache/oracle exchange format: per-serving nutrition
// for a single named food.
type NutrientRecord struct {
	Name       string         `json:"name"`
	PerServing NutrientVector `json:"nutrition"`
	Category   Category       `json:"category"`
	Confidence float64        `json:"confidence"`
	Source     string         `json:"source"`
	CachedAt   time.Time      `json:"cachedAt,omitempty"`
}
