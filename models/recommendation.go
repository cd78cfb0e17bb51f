package models

import "time"

type RecommendationType string

const (
	RecHighActivity     RecommendationType = "high_activity"
	RecLowActivity      RecommendationType = "low_activity"
	RecSleepDeprivation RecommendationType = "sleep_deprivation"
	RecHeartRateAnomaly RecommendationType = "heart_rate_anomaly"
	RecRecovery         RecommendationType = "recovery"
)

type RecommendationStatus string

const (
	RecPending  RecommendationStatus = "pending"
	RecApplied  RecommendationStatus = "applied"
	RecRejected RecommendationStatus = "rejected"
)

// SuggestedMacros is the serialized payload of a recommendation: the reason
// plus the macros before and after the rule fired.
type SuggestedMacros struct {
	Reason           string  `json:"reason"`
	PreviousCalories float64 `json:"previous_calories"`
	PreviousProtein  float64 `json:"previous_protein"`
	PreviousFat      float64 `json:"previous_fat"`
	PreviousCarbs    float64 `json:"previous_carbs"`
	Calories         float64 `json:"calories"`
	Protein          float64 `json:"protein"`
	Fat              float64 `json:"fat"`
	Carbs            float64 `json:"carbs"`
}

type Recommendation struct {
	ID              uint  `gorm:"primaryKey"`
	DailyDietPlanID uint  `gorm:"index;not null"`
	MealID          *uint `gorm:"index"`

	Type    RecommendationType   `gorm:"size:30;not null"`
	Status  RecommendationStatus `gorm:"size:15;default:pending"`
	Payload SuggestedMacros      `gorm:"serializer:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Alert struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index"`
	Type      string    `gorm:"size:30"` // "warning" | "info"
	Message   string    `gorm:"type:text"`
	CreatedAt time.Time
}
