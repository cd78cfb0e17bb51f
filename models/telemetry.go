package models

import "time"

// TelemetryType is the closed set of reading kinds a device can report.
type TelemetryType string

const (
	TelemetryHeartRate     TelemetryType = "heart_rate"
	TelemetrySteps         TelemetryType = "steps"
	TelemetryDistance      TelemetryType = "distance"
	TelemetryCalories      TelemetryType = "calories"
	TelemetryWeight        TelemetryType = "weight"
	TelemetryBloodPressure TelemetryType = "blood_pressure"
	TelemetryBloodSugar    TelemetryType = "blood_sugar"
	TelemetryTemperature   TelemetryType = "temperature"
	TelemetryOther         TelemetryType = "other"
)

// KnownTelemetryType reports whether t is one of the accepted kinds.
func KnownTelemetryType(t TelemetryType) bool {
	switch t {
	case TelemetryHeartRate, TelemetrySteps, TelemetryDistance,
		TelemetryCalories, TelemetryWeight, TelemetryBloodPressure,
		TelemetryBloodSugar, TelemetryTemperature, TelemetryOther:
		return true
	}
	return false
}

// TelemetrySample is one validated reading. Immutable once stored.
type TelemetrySample struct {
	ID         uint          `gorm:"primaryKey"`
	DeviceID   uint          `gorm:"index;not null"`
	RecordedAt time.Time     `gorm:"index;not null"`
	Type       TelemetryType `gorm:"size:20;index;not null"`
	Value      float64
	Metadata   map[string]float64 `gorm:"serializer:json"`
	CreatedAt  time.Time
}

type SleepRecord struct {
	ID                uint      `gorm:"primaryKey"`
	DeviceID          uint      `gorm:"index;not null"`
	Date              time.Time `gorm:"index;not null"` // truncated to local midnight
	TotalSleepMinutes float64
	DeepSleepMinutes  float64
	LightSleepMinutes float64
	AwakeMinutes      float64
	Quality           *float64 // 0..100, absent when the device can't score
	StartTime         time.Time
	EndTime           time.Time
	CreatedAt         time.Time
}

// TrainingIntensity is ordinal so it can be averaged.
type TrainingIntensity int

const (
	IntensityLow      TrainingIntensity = 1
	IntensityModerate TrainingIntensity = 2
	IntensityHigh     TrainingIntensity = 3
	IntensityMax      TrainingIntensity = 4
)

type TrainingSession struct {
	ID                uint      `gorm:"primaryKey"`
	DeviceID          uint      `gorm:"index;not null"`
	StartTime         time.Time `gorm:"index;not null"`
	EndTime           time.Time
	Type              string `gorm:"size:40"` // "run", "swim", ...
	Intensity         TrainingIntensity
	DurationMinutes   float64
	EstimatedCalories float64
	CreatedAt         time.Time
}
