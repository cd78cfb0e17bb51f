package services

import (
	"math"

	"backend/models"
)

// Plausible bounds for a single scaled ingredient serving, in grams.
const (
	minPortionGrams = 10.0
	maxPortionGrams = 1000.0
	portionStepG    = 5.0
)

// PortionMultiplier returns how much to scale a recipe so one serving hits
// targetCalories. Recipes without calorie data scale by 1.
func PortionMultiplier(recipe *models.Recipe, targetCalories float64) float64 {
	if recipe == nil || recipe.CaloriesPerPortion <= 0 {
		return 1
	}
	return targetCalories / recipe.CaloriesPerPortion
}

// RoundPortion rounds grams to the nearest 5 g step.
func RoundPortion(grams float64) float64 {
	return math.Round(grams/portionStepG) * portionStepG
}

// ClampPortion limits grams to a plausible serving size.
func ClampPortion(grams float64) float64 {
	if grams < minPortionGrams {
		return minPortionGrams
	}
	if grams > maxPortionGrams {
		return maxPortionGrams
	}
	return grams
}

// BuildPortionsMetadata scales every ingredient of the recipe by multiplier,
// clamping and rounding each line. Empty when the recipe has no ingredients.
func BuildPortionsMetadata(recipe *models.Recipe, multiplier float64) []models.PortionItem {
	if recipe == nil || len(recipe.Items) == 0 {
		return nil
	}
	out := make([]models.PortionItem, 0, len(recipe.Items))
	for _, it := range recipe.Items {
		out = append(out, models.PortionItem{
			ProductID:   it.ProductID,
			BaseGrams:   it.Grams,
			ScaledGrams: RoundPortion(ClampPortion(it.Grams * multiplier)),
		})
	}
	return out
}
