package services

import (
	"errors"
	"time"

	"backend/models"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetProfile(userID uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ProfilePatch carries optional fields; nil means "leave untouched".
type ProfilePatch struct {
	FullName      *string    `json:"full_name"`
	Sex           *string    `json:"sex"`
	Birthday      *time.Time `json:"birthday"`
	HeightCm      *float64   `json:"height_cm"`
	WeightKg      *float64   `json:"weight_kg"`
	ActivityLevel *string    `json:"activity_level"`
	Restrictions  *int64     `json:"restrictions"`
}

// UpdateProfile applies only the fields present in the patch.
func (s *UserService) UpdateProfile(userID uint, patch ProfilePatch) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if patch.FullName != nil {
		user.FullName = *patch.FullName
	}
	if patch.Sex != nil {
		user.Sex = *patch.Sex
	}
	if patch.Birthday != nil {
		user.Birthday = *patch.Birthday
	}
	if patch.HeightCm != nil {
		user.HeightCm = *patch.HeightCm
	}
	if patch.WeightKg != nil {
		user.WeightKg = *patch.WeightKg
	}
	if patch.ActivityLevel != nil {
		user.ActivityLevel = *patch.ActivityLevel
	}
	if patch.Restrictions != nil {
		user.Restrictions = *patch.Restrictions
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
