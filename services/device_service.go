package services

import (
	"context"

	"backend/models"
	"backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const pairingCodeLength = 8

type DeviceService struct {
	db *gorm.DB
}

func NewDeviceService(db *gorm.DB) *DeviceService {
	return &DeviceService{db: db}
}

// RegisterDevice issues a serial number plus a pairing code and stores the
// bracelet.
func (s *DeviceService) RegisterDevice(ctx context.Context, userID uint, name, deviceType string) (*models.Device, error) {
	if deviceType == "" {
		deviceType = "bracelet"
	}
	dev := models.Device{
		UserID:       userID,
		SerialNumber: uuid.NewString(),
		PairingCode:  utils.GeneratePairingCode(pairingCodeLength),
		Name:         name,
		Type:         deviceType,
		Active:       true,
	}
	if err := s.db.WithContext(ctx).Create(&dev).Error; err != nil {
		return nil, err
	}
	return &dev, nil
}

func (s *DeviceService) ListDevices(ctx context.Context, userID uint) ([]models.Device, error) {
	var devices []models.Device
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&devices).Error
	return devices, err
}

// DeactivateDevice keeps the row (historical samples reference it) but stops
// new ingestion and excludes it from the monitors.
func (s *DeviceService) DeactivateDevice(ctx context.Context, userID, deviceID uint) error {
	res := s.db.WithContext(ctx).
		Model(&models.Device{}).
		Where("id = ? AND user_id = ?", deviceID, userID).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDeviceNotFound
	}
	return nil
}
