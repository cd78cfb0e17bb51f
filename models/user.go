package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
	FullName string

	// Profile data the target derivation needs
	Sex           string    `gorm:"size:10"` // "male" | "female"
	Birthday      time.Time
	HeightCm      float64
	WeightKg      float64
	ActivityLevel string `gorm:"size:20;default:moderate"` // sedentary|light|moderate|active|athlete

	// Bitmask of DietaryRestriction flags
	Restrictions int64 `gorm:"default:0"`
}
