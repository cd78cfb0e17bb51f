package models

import (
	"time"

	"gorm.io/gorm"
)

// Device is a registered telemetry bracelet/tracker owned by a user.
type Device struct {
	gorm.Model
	UserID       uint   `gorm:"index;not null"`
	SerialNumber string `gorm:"type:varchar(64);uniqueIndex;not null"` // issued at registration
	PairingCode  string `gorm:"size:16"`                               // shown on the bracelet display during linking
	Name         string `gorm:"size:100"`
	Type         string `gorm:"size:30"` // "bracelet" | "scale" | "other"
	Active       bool   `gorm:"default:true"`
}

// UserDevice is a push-notification endpoint (phone), distinct from
// telemetry devices.
type UserDevice struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"index"`
	Platform    string    `gorm:"size:16"` // "android" | "ios"
	TokenHash   string    `gorm:"size:64"`
	EndpointARN string    `gorm:"size:256"`
	Enabled     bool      `gorm:"default:true"`
	UpdatedAt   time.Time
	CreatedAt   time.Time
}
