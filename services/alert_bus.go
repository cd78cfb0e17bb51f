package services

import (
	"fmt"
	"time"

	"backend/models"

	"gorm.io/gorm"
)

type alertDeps struct {
	db *gorm.DB
	rt *RealtimeHub
	ps *PushService
}

var _alert alertDeps

func InitAlertDeps(db *gorm.DB, rt *RealtimeHub, ps *PushService) {
	_alert = alertDeps{db: db, rt: rt, ps: ps}
}

// EmitAlert persists an alert and fans it out over websocket and push.
// Safe to call anywhere, including before InitAlertDeps in tests.
func EmitAlert(userID uint, typ, message string) {
	if _alert.db == nil {
		return // not initialized
	}
	a := &models.Alert{UserID: userID, Type: typ, Message: message, CreatedAt: time.Now()}
	_ = _alert.db.Create(a).Error

	if _alert.rt != nil {
		_alert.rt.BroadcastEvent(userID, "alert.created", a)
	}
	if _alert.ps != nil {
		_alert.ps.PushToUser(userID, "NutriTrack", message, map[string]string{
			"type": typ, "alertId": fmt.Sprintf("%d", a.ID),
		})
	}
}

// ListAlerts returns the user's alerts, newest first.
func ListAlerts(db *gorm.DB, userID uint, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	var alerts []models.Alert
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}
