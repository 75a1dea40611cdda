package usecase

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/mindfulplate/backend/internal/domain"
	"github.com/mindfulplate/backend/internal/infrastructure/dictionary"
)

// Package-level compiled regex patterns for performance
var (
	quantityTokenRegex  = regexp.MustCompile(`\d+\.?\d*\s*(?:oz|ounces?|cups?|grams?|g|servings?|pieces?|slices?)?\b`)
	nonAlphanumRegex    = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
	ingredientSplitter  = regexp.MustCompile(`,|;|\band\b`)
)

const (
	// defaultOracleConfidence is used when the oracle omits its own score.
	defaultOracleConfidence = 0.85

	// ingredientServingWeight is the fixed per-ingredient weight for the
	// decomposition fallback: ingredients are assumed to be mixed in
	// smaller quantities than a whole dish.
	ingredientServingWeight = 0.5

	// ingredientEstimateConfidence marks decomposition results as rough.
	ingredientEstimateConfidence = 0.5

	mixedDishName = "Mixed Dish (estimated)"
)

// ResolutionKind tags the pipeline outcome.
type ResolutionKind int

const (
	// KindResolved means one or more foods were resolved.
	KindResolved ResolutionKind = iota
	// KindNeedsClarification means a generic term requires user input.
	KindNeedsClarification
	// KindNoMatch means no tier recognized anything; the caller should
	// prompt the user for ingredients.
	KindNoMatch
)

// Resolution is the tagged pipeline result. Exactly one of Foods and
// Clarification is populated, depending on Kind.
type Resolution struct {
	Kind          ResolutionKind
	Foods         []domain.ResolvedFood
	Clarification *domain.ClarificationRequest
}

// PipelineConfig holds tunables for the resolution pipeline.
type PipelineConfig struct {
	CacheTTL time.Duration
}

// Pipeline orchestrates the strict fallback chain:
// dictionary -> cache -> oracle -> ingredient decomposition. Each tier runs
// only when every prior tier produced nothing; tiers never merge partial
// results for the same input.
type Pipeline struct {
	dict     *dictionary.Dictionary
	matcher  *Matcher
	cache    domain.NutrientCache   // optional
	oracle   domain.NutritionOracle // optional
	cacheTTL time.Duration
}

// NewPipeline creates a resolution pipeline. cache and oracle may be nil;
// their tiers are skipped when absent.
func NewPipeline(
	dict *dictionary.Dictionary,
	cache domain.NutrientCache,
	oracle domain.NutritionOracle,
	config PipelineConfig,
) *Pipeline {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour // 30 days
	}
	return &Pipeline{
		dict:     dict,
		matcher:  NewMatcher(dict),
		cache:    cache,
		oracle:   oracle,
		cacheTTL: cacheTTL,
	}
}

// Resolve turns a free-text meal description into resolved foods with scaled
// nutrition. Malformed input never produces an error; unrecognized input is
// reported as KindNoMatch.
func (p *Pipeline) Resolve(ctx context.Context, text string) (*Resolution, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidRequest
	}

	outcome := p.matcher.Match(text)
	if outcome.Clarification != nil {
		return &Resolution{Kind: KindNeedsClarification, Clarification: outcome.Clarification}, nil
	}

	// Portion is computed once per input and applied to every matched food.
	portion, portionLabel := ResolvePortion(text)

	if len(outcome.Matches) > 0 {
		foods := make([]domain.ResolvedFood, 0, len(outcome.Matches))
		for _, match := range outcome.Matches {
			confidence := 1.0
			if !match.Exact {
				confidence = fuzzyMatchConfidence
			}
			foods = append(foods, domain.ResolvedFood{
				DisplayName:  titleCase(match.CanonicalName),
				Portion:      portion,
				PortionLabel: portionLabel,
				Nutrition:    match.Entry.PerServing.Scale(portion),
				Category:     match.Entry.Category,
				Source:       domain.SourceDictionary,
				Confidence:   confidence,
			})
		}
		return &Resolution{Kind: KindResolved, Foods: foods}, nil
	}

	phrase := extractFoodPhrase(text)

	if food, ok := p.fromCache(ctx, phrase, portion, portionLabel); ok {
		return &Resolution{Kind: KindResolved, Foods: []domain.ResolvedFood{food}}, nil
	}

	if food, ok := p.fromOracle(ctx, phrase, portion, portionLabel); ok {
		return &Resolution{Kind: KindResolved, Foods: []domain.ResolvedFood{food}}, nil
	}

	if food, ok := p.fromIngredients(text); ok {
		return &Resolution{Kind: KindResolved, Foods: []domain.ResolvedFood{food}}, nil
	}

	return &Resolution{Kind: KindNoMatch}, nil
}

// ResolveIngredients handles the reply to an ingredient prompt: the text is
// treated as an ingredient list and decomposed directly, skipping the
// matching tiers. A lone ingredient list resolving through the matcher would
// count every ingredient as a full serving; here each contributes half.
func (p *Pipeline) ResolveIngredients(text string) (*Resolution, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidRequest
	}
	if food, ok := p.fromIngredients(text); ok {
		return &Resolution{Kind: KindResolved, Foods: []domain.ResolvedFood{food}}, nil
	}
	return &Resolution{Kind: KindNoMatch}, nil
}

// fromCache consults the nutrient cache by normalized food phrase.
func (p *Pipeline) fromCache(ctx context.Context, phrase string, portion float64, portionLabel string) (domain.ResolvedFood, bool) {
	if p.cache == nil || phrase == "" {
		return domain.ResolvedFood{}, false
	}

	record, err := p.cache.Get(ctx, normalizeKey(phrase))
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.Printf("[PIPELINE] Cache lookup failed for %q: %v", phrase, err)
		}
		return domain.ResolvedFood{}, false
	}

	return recordToFood(record, portion, portionLabel, domain.SourceCache), true
}

// fromOracle consults the external oracle and caches a structured success
// for future calls. A failed or malformed response is "no data", not an
// error to retry.
func (p *Pipeline) fromOracle(ctx context.Context, phrase string, portion float64, portionLabel string) (domain.ResolvedFood, bool) {
	if p.oracle == nil || phrase == "" {
		return domain.ResolvedFood{}, false
	}

	record, err := p.oracle.Lookup(ctx, phrase, portionLabel)
	if err != nil {
		if !errors.Is(err, domain.ErrFoodNotFound) {
			log.Printf("[PIPELINE] Oracle lookup failed for %q: %v", phrase, err)
		}
		return domain.ResolvedFood{}, false
	}

	if record.Confidence == 0 {
		record.Confidence = defaultOracleConfidence
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, normalizeKey(phrase), record, p.cacheTTL); err != nil {
			log.Printf("[PIPELINE] Failed to cache oracle result for %q: %v", phrase, err)
		}
	}

	return recordToFood(record, portion, portionLabel, domain.SourceOracle), true
}

// fromIngredients splits the input on commas, semicolons and "and", looks
// each token up in the dictionary at a fixed half-serving weight, and sums
// the findings into one synthetic mixed-dish entry.
func (p *Pipeline) fromIngredients(text string) (domain.ResolvedFood, bool) {
	lower := strings.ToLower(text)
	var total domain.NutrientVector
	var ingredients []string
	seen := make(map[string]bool)

	for _, token := range ingredientSplitter.Split(lower, -1) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		// Longest-first so "chicken breast" beats "chicken" for the
		// same token.
		for _, name := range p.dict.Names() {
			if !strings.Contains(token, name) || seen[name] {
				continue
			}
			entry, _ := p.dict.Lookup(name)
			total.Calories += entry.PerServing.Calories * ingredientServingWeight
			total.Protein += entry.PerServing.Protein * ingredientServingWeight
			total.Carbs += entry.PerServing.Carbs * ingredientServingWeight
			total.Fat += entry.PerServing.Fat * ingredientServingWeight
			total.Fiber += entry.PerServing.Fiber * ingredientServingWeight
			ingredients = append(ingredients, titleCase(name))
			seen[name] = true
			break
		}
	}

	if len(ingredients) == 0 {
		return domain.ResolvedFood{}, false
	}

	// Round the summed estimate once, to one decimal per nutrient.
	total = total.Scale(1)

	return domain.ResolvedFood{
		DisplayName:  mixedDishName,
		Portion:      1.0,
		PortionLabel: "1 serving (estimated)",
		Nutrition:    total,
		Category:     domain.CategoryMixed,
		Source:       domain.SourceIngredientEstimate,
		Confidence:   ingredientEstimateConfidence,
		Ingredients:  ingredients,
	}, true
}

func recordToFood(record *domain.NutrientRecord, portion float64, portionLabel string, source domain.Source) domain.ResolvedFood {
	name := record.Name
	if name == "" {
		name = mixedDishName
	}
	return domain.ResolvedFood{
		DisplayName:  name,
		Portion:      portion,
		PortionLabel: portionLabel,
		Nutrition:    record.PerServing.Scale(portion),
		Category:     record.Category,
		Source:       source,
		Confidence:   record.Confidence,
	}
}

// Aggregate sums resolved foods into one total nutrient vector. Empty input
// yields a zero vector. Sums may exceed one decimal of precision; only the
// per-food values are rounded.
func Aggregate(foods []domain.ResolvedFood) domain.NutrientVector {
	var total domain.NutrientVector
	for _, f := range foods {
		total = total.Add(f.Nutrition)
	}
	return total
}

// extractFoodPhrase strips quantity and unit tokens from the raw text so
// cache and oracle lookups receive a clean food phrase.
func extractFoodPhrase(text string) string {
	phrase := strings.ToLower(text)
	phrase = quantityTokenRegex.ReplaceAllString(phrase, " ")
	words := strings.Fields(phrase)
	kept := words[:0:0]
	for _, w := range words {
		if !fillerWords[w] {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		kept = words
	}
	return strings.Join(kept, " ")
}

// normalizeKey normalizes a phrase for use as a cache key: lowercase,
// alphanumerics only, single spaces.
func normalizeKey(s string) string {
	s = strings.ToLower(s)
	s = nonAlphanumRegex.ReplaceAllString(s, "")
	s = multipleSpacesRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// titleCase capitalizes the first letter of each word, matching the display
// form of dictionary names ("grilled chicken" -> "Grilled Chicken").
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
