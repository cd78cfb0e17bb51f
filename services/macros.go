package services

import "math"

// kcal per gram of each macro-nutrient
const (
	kcalPerGramProtein = 4.0
	kcalPerGramFat     = 9.0
	kcalPerGramCarbs   = 4.0
)

// Macros is a daily or per-meal nutrient target.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// ImpliedCalories recomputes the calorie total from the gram values.
func (m Macros) ImpliedCalories() float64 {
	return m.Protein*kcalPerGramProtein + m.Fat*kcalPerGramFat + m.Carbs*kcalPerGramCarbs
}

// RenormalizeMacros uniformly scales protein/fat/carb grams so their implied
// calorie total equals targetCalories exactly, preserving the ratios between
// the macros. Zero-gram inputs pass through with only the calorie value set.
func RenormalizeMacros(m Macros, targetCalories float64) Macros {
	implied := m.ImpliedCalories()
	if implied <= 0 {
		m.Calories = targetCalories
		return m
	}
	scale := targetCalories / implied
	return Macros{
		Calories: targetCalories,
		Protein:  m.Protein * scale,
		Fat:      m.Fat * scale,
		Carbs:    m.Carbs * scale,
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
