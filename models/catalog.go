package models

import "gorm.io/gorm"

// DietaryRestriction flags, stored as a bitmask on User.Restrictions and
// Product.Allergens. A recipe is unsuitable when the masks intersect.
const (
	RestrictionNone     int64 = 0
	RestrictionGluten   int64 = 1 << 0
	RestrictionLactose  int64 = 1 << 1
	RestrictionNuts     int64 = 1 << 2
	RestrictionSeafood  int64 = 1 << 3
	RestrictionEggs     int64 = 1 << 4
	RestrictionSoy      int64 = 1 << 5
	RestrictionHoney    int64 = 1 << 6
	RestrictionRedMeat  int64 = 1 << 7
	RestrictionVegan    int64 = 1 << 8
)

type Product struct {
	gorm.Model
	Name            string `gorm:"not null"`
	Category        string
	CaloriesPer100g float64
	ProteinPer100g  float64
	FatPer100g      float64
	CarbsPer100g    float64
	Allergens       int64 `gorm:"default:0"`
}

// Recipe is catalog data: read-only to the planning core.
type Recipe struct {
	gorm.Model
	Name         string `gorm:"not null"`
	Instructions string `gorm:"type:text"`

	// Macros for one unscaled portion
	CaloriesPerPortion float64
	ProteinPerPortion  float64
	FatPerPortion      float64
	CarbsPerPortion    float64

	// Union of ingredient allergen masks, denormalized for filtering
	Allergens int64 `gorm:"default:0"`

	Items []RecipeItem
}

// RecipeItem joins a recipe to a product with a base quantity in grams.
type RecipeItem struct {
	gorm.Model
	RecipeID  uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	Grams     float64
}

// DietPlanTemplate is a preset macro profile a plan can be generated from.
type DietPlanTemplate struct {
	gorm.Model
	Name          string `gorm:"not null"`
	Description   string `gorm:"type:text"`
	Calories      float64
	Protein       float64
	Fat           float64
	Carbs         float64
	NumberOfMeals int `gorm:"default:4"`
}
