package utils

import (
	"errors"
	"strings"
	"time"
)

// CalculateBMI expects height in centimeters and weight in kilograms.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, errors.New("height and weight must be positive")
	}
	// Sanity checks to avoid garbage input
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return 0, errors.New("height/weight out of plausible range")
	}

	h := heightCm / 100.0 // to meters
	return weightKg / (h * h), nil
}

func CalculateAge(birthday time.Time) int {
	if birthday.IsZero() {
		return 0
	}
	now := time.Now()
	age := now.Year() - birthday.Year()
	if now.YearDay() < birthday.YearDay() {
		age--
	}
	return age
}

// activity multipliers applied to BMR
var activityFactors = map[string]float64{
	"sedentary": 1.2,
	"light":     1.375,
	"moderate":  1.55,
	"active":    1.725,
	"athlete":   1.9,
}

// CalculateBMR uses the Mifflin-St Jeor equation.
func CalculateBMR(sex string, ageYears int, heightCm, weightKg float64) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if strings.ToLower(strings.TrimSpace(sex)) == "female" {
		return base - 161
	}
	return base + 5
}

// DailyCalorieTarget derives a maintenance target from profile data.
// Falls back to 2000 kcal when the profile is too incomplete to compute.
func DailyCalorieTarget(sex string, ageYears int, heightCm, weightKg float64, activityLevel string) float64 {
	if heightCm <= 0 || weightKg <= 0 || ageYears <= 0 {
		return 2000
	}
	factor, ok := activityFactors[strings.ToLower(strings.TrimSpace(activityLevel))]
	if !ok {
		factor = activityFactors["moderate"]
	}
	return CalculateBMR(sex, ageYears, heightCm, weightKg) * factor
}
