package models

import (
	"time"

	"gorm.io/gorm"
)

type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
	PlanArchived  PlanStatus = "archived"
)

// MealTime is the closed set of daily meal slots.
type MealTime string

const (
	MealBreakfast MealTime = "breakfast"
	MealLunch     MealTime = "lunch"
	MealDinner    MealTime = "dinner"
	MealSnack     MealTime = "snack"
)

// MealTimes lists the slots in serving order.
func MealTimes() []MealTime {
	return []MealTime{MealBreakfast, MealLunch, MealDinner, MealSnack}
}

// DailyDietPlan owns its meals. Macros are mutated only by the correction
// engine's apply step, which also flips IsCorrected.
type DailyDietPlan struct {
	gorm.Model
	UserID     uint      `gorm:"index;not null"`
	TemplateID *uint     `gorm:"index"`
	Date       time.Time `gorm:"index;not null"`

	Calories float64
	Protein  float64
	Fat      float64
	Carbs    float64

	NumberOfMeals int        `gorm:"default:4"`
	Status        PlanStatus `gorm:"size:20;default:active"`
	IsCorrected   bool       `gorm:"default:false"`

	Meals []Meal
}

type Meal struct {
	gorm.Model
	DailyDietPlanID uint     `gorm:"index;not null"`
	MealTime        MealTime `gorm:"size:20;not null"`
	Order           int      `gorm:"column:meal_order"`

	Calories float64
	Protein  float64
	Fat      float64
	Carbs    float64

	Recipes []MealRecipe
}

// PortionItem is one scaled ingredient line inside MealRecipe.Portions.
type PortionItem struct {
	ProductID   uint    `json:"product_id"`
	BaseGrams   float64 `json:"base_grams"`
	ScaledGrams float64 `json:"scaled_grams"`
}

// MealRecipe joins a meal to a catalog recipe with its computed scaling.
type MealRecipe struct {
	gorm.Model
	MealID            uint `gorm:"index;not null"`
	RecipeID          uint `gorm:"index;not null"`
	PortionMultiplier float64
	Portions          []PortionItem `gorm:"serializer:json"`
}
