package dictionary

import "github.com/mindfulplate/backend/internal/domain"

func entry(calories, protein, carbs, fat, fiber float64, category domain.Category) domain.DictionaryEntry {
	return domain.DictionaryEntry{
		PerServing: domain.NutrientVector{
			Calories: calories,
			Protein:  protein,
			Carbs:    carbs,
			Fat:      fat,
			Fiber:    fiber,
		},
		Category: category,
	}
}

// builtinFoods is the built-in per-serving nutrition table. Keys are the
// canonical lowercase names the matcher searches for.
var builtinFoods = map[string]domain.DictionaryEntry{
	// Proteins
	"chicken breast":  entry(165, 31, 0, 3.6, 0, domain.CategoryProtein),
	"grilled chicken": entry(165, 31, 0, 3.6, 0, domain.CategoryProtein),
	"chicken":         entry(165, 31, 0, 3.6, 0, domain.CategoryProtein),
	"salmon":          entry(206, 22, 0, 13, 0, domain.CategoryProtein),
	"fish":            entry(206, 22, 0, 13, 0, domain.CategoryProtein),
	"tuna":            entry(132, 28, 0, 1.3, 0, domain.CategoryProtein),
	"beef":            entry(250, 26, 0, 15, 0, domain.CategoryProtein),
	"steak":           entry(250, 26, 0, 15, 0, domain.CategoryProtein),
	"turkey":          entry(135, 30, 0, 0.7, 0, domain.CategoryProtein),
	"pork":            entry(242, 27, 0, 14, 0, domain.CategoryProtein),
	"eggs":            entry(155, 13, 1.1, 11, 0, domain.CategoryProtein),
	"egg":             entry(78, 6.5, 0.6, 5.5, 0, domain.CategoryProtein),
	"tofu":            entry(76, 8, 1.9, 4.8, 0.3, domain.CategoryProtein),

	// Carbs
	"brown rice":   entry(216, 5, 45, 1.8, 3.5, domain.CategoryCarbs),
	"white rice":   entry(205, 4.3, 45, 0.4, 0.6, domain.CategoryCarbs),
	"rice":         entry(205, 4.3, 45, 0.4, 0.6, domain.CategoryCarbs),
	"quinoa":       entry(222, 8, 39, 3.6, 5.2, domain.CategoryCarbs),
	"pasta":        entry(221, 8, 43, 1.3, 2.5, domain.CategoryCarbs),
	"bread":        entry(265, 9, 49, 3.2, 2.7, domain.CategoryCarbs),
	"toast":        entry(79, 2.6, 15, 1, 0.8, domain.CategoryCarbs),
	"bagel":        entry(289, 11, 56, 2, 2.3, domain.CategoryCarbs),
	"oatmeal":      entry(158, 6, 27, 3.2, 4, domain.CategoryCarbs),
	"potato":       entry(163, 4.3, 37, 0.2, 2.5, domain.CategoryCarbs),
	"sweet potato": entry(180, 4, 41, 0.3, 6.6, domain.CategoryCarbs),

	// Vegetables
	"broccoli":    entry(55, 3.7, 11, 0.6, 2.4, domain.CategoryVegetables),
	"spinach":     entry(23, 2.9, 3.6, 0.4, 2.2, domain.CategoryVegetables),
	"carrots":     entry(41, 0.9, 10, 0.2, 2.8, domain.CategoryVegetables),
	"tomato":      entry(18, 0.9, 3.9, 0.2, 1.2, domain.CategoryVegetables),
	"lettuce":     entry(15, 1.4, 2.9, 0.2, 1.3, domain.CategoryVegetables),
	"cucumber":    entry(16, 0.7, 3.6, 0.1, 0.5, domain.CategoryVegetables),
	"bell pepper": entry(31, 1, 6, 0.3, 2.1, domain.CategoryVegetables),
	"onion":       entry(40, 1.1, 9.3, 0.1, 1.7, domain.CategoryVegetables),
	"mushroom":    entry(22, 3.1, 3.3, 0.3, 1, domain.CategoryVegetables),

	// Dairy
	"milk":         entry(149, 8, 12, 8, 0, domain.CategoryDairy),
	"cheese":       entry(402, 25, 1.3, 33, 0, domain.CategoryDairy),
	"yogurt":       entry(59, 10, 3.6, 0.4, 0, domain.CategoryDairy),
	"greek yogurt": entry(100, 17, 6, 0.7, 0, domain.CategoryDairy),
	"cream cheese": entry(99, 2, 1.6, 10, 0, domain.CategoryDairy),

	// Fast food / treats
	"pizza":     entry(285, 12, 36, 10, 2.5, domain.CategoryFastFood),
	"burger":    entry(354, 20, 30, 17, 1.5, domain.CategoryFastFood),
	"fries":     entry(312, 3.4, 41, 15, 3.8, domain.CategoryFastFood),
	"donut":     entry(269, 3, 31, 15, 0.9, domain.CategoryTreats),
	"cookie":    entry(142, 2, 20, 6.5, 0.7, domain.CategoryTreats),
	"ice cream": entry(207, 3.5, 24, 11, 0.7, domain.CategoryTreats),

	// Fruits
	"apple":      entry(95, 0.5, 25, 0.3, 4.4, domain.CategoryFruits),
	"banana":     entry(105, 1.3, 27, 0.4, 3.1, domain.CategoryFruits),
	"orange":     entry(62, 1.2, 15, 0.2, 3.1, domain.CategoryFruits),
	"berries":    entry(57, 1.1, 14, 0.5, 2.4, domain.CategoryFruits),
	"strawberry": entry(32, 0.7, 7.7, 0.3, 2, domain.CategoryFruits),

	// Beverages
	"pepsi":         entry(150, 0, 41, 0, 0, domain.CategoryBeverages),
	"coke":          entry(140, 0, 39, 0, 0, domain.CategoryBeverages),
	"coca cola":     entry(140, 0, 39, 0, 0, domain.CategoryBeverages),
	"sprite":        entry(140, 0, 38, 0, 0, domain.CategoryBeverages),
	"fanta":         entry(160, 0, 44, 0, 0, domain.CategoryBeverages),
	"mountain dew":  entry(170, 0, 46, 0, 0, domain.CategoryBeverages),
	"soda":          entry(150, 0, 40, 0, 0, domain.CategoryBeverages),
	"orange juice":  entry(112, 1.7, 26, 0.5, 0.5, domain.CategoryBeverages),
	"apple juice":   entry(114, 0.1, 28, 0.3, 0.2, domain.CategoryBeverages),
	"juice":         entry(110, 1, 26, 0.3, 0.3, domain.CategoryBeverages),
	"coffee":        entry(2, 0.3, 0, 0, 0, domain.CategoryBeverages),
	"tea":           entry(2, 0, 0.7, 0, 0, domain.CategoryBeverages),
	"water":         entry(0, 0, 0, 0, 0, domain.CategoryBeverages),
	"smoothie":      entry(145, 3, 32, 1.5, 3, domain.CategoryBeverages),
	"protein shake": entry(160, 25, 10, 3, 1, domain.CategoryBeverages),
}
