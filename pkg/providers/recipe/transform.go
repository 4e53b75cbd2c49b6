package recipe

import (
	"math"

	"github.com/glucolog-health/glucolog-engine/pkg/models"
)

// Nutrient names as they appear in the provider's flat nutrient list.
// Lookup is by exact name match; a missing nutrient defaults to 0.
const (
	nutrientCalories = "Calories"
	nutrientCarbs    = "Carbohydrates"
	nutrientProtein  = "Protein"
	nutrientFat      = "Fat"
	nutrientFiber    = "Fiber"
	nutrientSodium   = "Sodium"
	nutrientSugar    = "Sugar"
)

// Transform converts one raw recipe record into the normalized shape.
// It is pure: identical input always produces identical output. Rating
// and review count are left nil because the provider supplies neither.
func Transform(info *Information) models.Recipe {
	return models.Recipe{
		ID:             info.ID,
		Title:          info.Title,
		Image:          info.Image,
		ReadyInMinutes: info.ReadyInMinutes,
		Servings:       info.Servings,
		Calories:       nutrientAmount(info.Nutrition.Nutrients, nutrientCalories),
		Carbs:          nutrientAmount(info.Nutrition.Nutrients, nutrientCarbs),
		Protein:        nutrientAmount(info.Nutrition.Nutrients, nutrientProtein),
		Fat:            nutrientAmount(info.Nutrition.Nutrients, nutrientFat),
		Fiber:          nutrientAmount(info.Nutrition.Nutrients, nutrientFiber),
		Sodium:         nutrientAmount(info.Nutrition.Nutrients, nutrientSodium),
		Sugar:          nutrientAmount(info.Nutrition.Nutrients, nutrientSugar),
		Category:       CategoryFromDishTypes(info.DishTypes),
		Difficulty:     DifficultyFromTime(info.ReadyInMinutes),
		SourceURL:      info.SourceURL,
	}
}

// TransformAll converts a list of raw records.
func TransformAll(infos []Information) []models.Recipe {
	recipes := make([]models.Recipe, 0, len(infos))
	for i := range infos {
		recipes = append(recipes, Transform(&infos[i]))
	}
	return recipes
}

// nutrientAmount finds a nutrient by exact name and rounds it to the
// nearest integer. Missing nutrients default to 0.
func nutrientAmount(nutrients []Nutrient, name string) int {
	for _, n := range nutrients {
		if n.Name == name {
			return int(math.Round(n.Amount))
		}
	}
	return 0
}

// CategoryFromDishTypes infers a meal category from the provider's dish
// types with fixed precedence: breakfast, then dinner/main course, then
// snack/appetizer, else lunch. First match wins.
func CategoryFromDishTypes(dishTypes []string) string {
	if contains(dishTypes, "breakfast") {
		return models.CategoryBreakfast
	}
	if contains(dishTypes, "dinner") || contains(dishTypes, "main course") {
		return models.CategoryDinner
	}
	if contains(dishTypes, "snack") || contains(dishTypes, "appetizer") {
		return models.CategorySnack
	}
	return models.CategoryLunch
}

// DifficultyFromTime derives difficulty purely from total prep+cook time.
func DifficultyFromTime(readyInMinutes int) string {
	switch {
	case readyInMinutes > 60:
		return models.DifficultyHard
	case readyInMinutes > 30:
		return models.DifficultyMedium
	default:
		return models.DifficultyEasy
	}
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
