package services

import (
	"context"
	"time"

	"backend/models"

	"gorm.io/gorm"
)

// Default deprivation thresholds; each is independently overridable on the
// service.
const (
	DefaultMinSleepHours   = 6.0
	DefaultMinDeepSleepPct = 0.20
	DefaultMinSleepQuality = 0.60
	defaultSleepWindowDays = 3
)

// SleepQualityAnalysis summarizes the trailing sleep window. Averages are
// zero when no records exist; quality is a 0..1 fraction.
type SleepQualityAnalysis struct {
	AvgSleepHours       float64 `json:"avg_sleep_hours"`
	AvgDeepSleepPercent float64 `json:"avg_deep_sleep_percent"`
	AvgQuality          float64 `json:"avg_quality"`
	RecordsUsed         int     `json:"records_used"`
	IsSleepDeprived     bool    `json:"is_sleep_deprived"`
}

type SleepService struct {
	db *gorm.DB

	MinSleepHours   float64
	MinDeepSleepPct float64
	MinQuality      float64
}

func NewSleepService(db *gorm.DB) *SleepService {
	return &SleepService{
		db:              db,
		MinSleepHours:   DefaultMinSleepHours,
		MinDeepSleepPct: DefaultMinDeepSleepPct,
		MinQuality:      DefaultMinSleepQuality,
	}
}

// AnalyzeSleepQuality averages the trailing `days` records ending at `date`
// inclusive. days <= 0 falls back to the default window.
func (s *SleepService) AnalyzeSleepQuality(ctx context.Context, userID uint, date time.Time, days int) (*SleepQualityAnalysis, error) {
	if days <= 0 {
		days = defaultSleepWindowDays
	}

	deviceIDs, err := DeviceIDsForUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if len(deviceIDs) == 0 {
		return &SleepQualityAnalysis{}, nil
	}

	from := dayStart(date).AddDate(0, 0, -(days - 1))
	var records []models.SleepRecord
	if err := s.db.WithContext(ctx).
		Where("device_id IN ? AND date >= ? AND date <= ?", deviceIDs, from, dayEnd(date)).
		Order("date DESC").
		Limit(days).
		Find(&records).Error; err != nil {
		return nil, err
	}

	out := s.Summarize(records)
	return &out, nil
}

// Summarize is the pure aggregation over loaded records.
func (s *SleepService) Summarize(records []models.SleepRecord) SleepQualityAnalysis {
	out := SleepQualityAnalysis{RecordsUsed: len(records)}
	if len(records) == 0 {
		return out
	}

	var hoursSum, deepPctSum, qualitySum float64
	var deepN, qualityN int
	for _, r := range records {
		hoursSum += r.TotalSleepMinutes / 60.0
		if r.TotalSleepMinutes > 0 {
			deepPctSum += r.DeepSleepMinutes / r.TotalSleepMinutes
			deepN++
		}
		if r.Quality != nil {
			qualitySum += *r.Quality / 100.0
			qualityN++
		}
	}

	out.AvgSleepHours = hoursSum / float64(len(records))
	if deepN > 0 {
		out.AvgDeepSleepPercent = deepPctSum / float64(deepN)
	}
	if qualityN > 0 {
		out.AvgQuality = qualitySum / float64(qualityN)
	}

	out.IsSleepDeprived = out.AvgSleepHours < s.MinSleepHours ||
		(deepN > 0 && out.AvgDeepSleepPercent < s.MinDeepSleepPct) ||
		(qualityN > 0 && out.AvgQuality < s.MinQuality)
	return out
}

// IsRecordDeprived applies the same thresholds to a single record.
func (s *SleepService) IsRecordDeprived(rec models.SleepRecord) bool {
	if rec.TotalSleepMinutes/60.0 < s.MinSleepHours {
		return true
	}
	if rec.TotalSleepMinutes > 0 && rec.DeepSleepMinutes/rec.TotalSleepMinutes < s.MinDeepSleepPct {
		return true
	}
	if rec.Quality != nil && *rec.Quality/100.0 < s.MinQuality {
		return true
	}
	return false
}
