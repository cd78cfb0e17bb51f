package services

import (
	"context"
	"time"

	"backend/models"

	"gorm.io/gorm"
)

// Anomaly thresholds against the trailing-week baseline.
const (
	stepsSpikeThreshold      = 0.30 // +30% over weekly average
	stepsDropThreshold       = 0.30 // -30% under weekly average
	intensityChangeThreshold = 0.20 // |±20%| of weekly average
	restingHeartRateMin      = 40.0
	restingHeartRateMax      = 100.0
)

// ActivityChangeResult compares today against the trailing 7-day baseline.
// Change percentages are nil when either side has no data or the baseline
// is zero.
type ActivityChangeResult struct {
	StepsToday     float64  `json:"steps_today"`
	HeartRateToday *float64 `json:"heart_rate_today"`
	IntensityToday *float64 `json:"intensity_today"`

	WeeklyAvgSteps     float64  `json:"weekly_avg_steps"`
	WeeklyAvgHeartRate *float64 `json:"weekly_avg_heart_rate"`
	WeeklyAvgIntensity *float64 `json:"weekly_avg_intensity"`

	StepsChange     *float64 `json:"steps_change"`
	HeartRateChange *float64 `json:"heart_rate_change"`
	IntensityChange *float64 `json:"intensity_change"`

	StepsSpike              bool `json:"steps_spike"`
	TrainingIntensityChange bool `json:"training_intensity_change"`
	HeartRateAnomaly        bool `json:"heart_rate_anomaly"`
}

type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// CheckActivityChanges builds today's activity signal for the user. Users
// without devices get a zero-valued result rather than an error.
func (s *ActivityService) CheckActivityChanges(ctx context.Context, userID uint, date time.Time) (*ActivityChangeResult, error) {
	deviceIDs, err := DeviceIDsForUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	out := &ActivityChangeResult{}
	if len(deviceIDs) == 0 {
		return out, nil
	}

	dayFrom := dayStart(date)
	dayTo := dayFrom.AddDate(0, 0, 1)
	weekFrom := dayFrom.AddDate(0, 0, -7) // week window excludes today

	// today's samples
	var todaySamples []models.TelemetrySample
	if err := s.db.WithContext(ctx).
		Where("device_id IN ? AND recorded_at >= ? AND recorded_at < ? AND type IN ?",
			deviceIDs, dayFrom, dayTo,
			[]models.TelemetryType{models.TelemetrySteps, models.TelemetryHeartRate}).
		Find(&todaySamples).Error; err != nil {
		return nil, err
	}

	var weekSamples []models.TelemetrySample
	if err := s.db.WithContext(ctx).
		Where("device_id IN ? AND recorded_at >= ? AND recorded_at < ? AND type IN ?",
			deviceIDs, weekFrom, dayFrom,
			[]models.TelemetryType{models.TelemetrySteps, models.TelemetryHeartRate}).
		Find(&weekSamples).Error; err != nil {
		return nil, err
	}

	var todayTraining []models.TrainingSession
	if err := s.db.WithContext(ctx).
		Where("device_id IN ? AND start_time >= ? AND start_time < ?", deviceIDs, dayFrom, dayTo).
		Find(&todayTraining).Error; err != nil {
		return nil, err
	}
	var weekTraining []models.TrainingSession
	if err := s.db.WithContext(ctx).
		Where("device_id IN ? AND start_time >= ? AND start_time < ?", deviceIDs, weekFrom, dayFrom).
		Find(&weekTraining).Error; err != nil {
		return nil, err
	}

	*out = BuildActivityChangeResult(todaySamples, weekSamples, todayTraining, weekTraining)
	return out, nil
}

// BuildActivityChangeResult is the pure aggregation over loaded records.
func BuildActivityChangeResult(
	todaySamples, weekSamples []models.TelemetrySample,
	todayTraining, weekTraining []models.TrainingSession,
) ActivityChangeResult {
	out := ActivityChangeResult{}

	out.StepsToday = sumByType(todaySamples, models.TelemetrySteps)
	out.HeartRateToday = meanByType(todaySamples, models.TelemetryHeartRate)
	out.IntensityToday = meanIntensity(todayTraining)

	// Weekly baseline: aggregate per calendar day first, then average the
	// per-day values.
	out.WeeklyAvgSteps = meanOfDays(dailyStepSums(weekSamples))
	out.WeeklyAvgHeartRate = meanOfDayMeans(dailyHeartRateMeans(weekSamples))
	out.WeeklyAvgIntensity = meanOfDayMeans(dailyIntensityMeans(weekTraining))

	out.StepsChange = percentChange(&out.StepsToday, &out.WeeklyAvgSteps)
	out.HeartRateChange = percentChange(out.HeartRateToday, out.WeeklyAvgHeartRate)
	out.IntensityChange = percentChange(out.IntensityToday, out.WeeklyAvgIntensity)

	out.StepsSpike = out.StepsChange != nil && *out.StepsChange > stepsSpikeThreshold
	out.TrainingIntensityChange = out.IntensityChange != nil &&
		(*out.IntensityChange > intensityChangeThreshold || *out.IntensityChange < -intensityChangeThreshold)
	out.HeartRateAnomaly = out.HeartRateToday != nil &&
		(*out.HeartRateToday < restingHeartRateMin || *out.HeartRateToday > restingHeartRateMax)

	return out
}

// ---------- pure aggregation helpers ----------

func sumByType(samples []models.TelemetrySample, t models.TelemetryType) float64 {
	var sum float64
	for _, s := range samples {
		if s.Type == t {
			sum += s.Value
		}
	}
	return sum
}

func meanByType(samples []models.TelemetrySample, t models.TelemetryType) *float64 {
	var sum float64
	var n int
	for _, s := range samples {
		if s.Type == t {
			sum += s.Value
			n++
		}
	}
	if n == 0 {
		return nil
	}
	m := sum / float64(n)
	return &m
}

func meanIntensity(sessions []models.TrainingSession) *float64 {
	if len(sessions) == 0 {
		return nil
	}
	var sum float64
	for _, s := range sessions {
		sum += float64(s.Intensity)
	}
	m := sum / float64(len(sessions))
	return &m
}

func dayKey(t time.Time) string { return t.Format("2006-01-02") }

func dailyStepSums(samples []models.TelemetrySample) map[string]float64 {
	days := map[string]float64{}
	for _, s := range samples {
		if s.Type == models.TelemetrySteps {
			days[dayKey(s.RecordedAt)] += s.Value
		}
	}
	return days
}

func dailyHeartRateMeans(samples []models.TelemetrySample) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, s := range samples {
		if s.Type == models.TelemetryHeartRate {
			k := dayKey(s.RecordedAt)
			sums[k] += s.Value
			counts[k]++
		}
	}
	means := map[string]float64{}
	for k, sum := range sums {
		means[k] = sum / float64(counts[k])
	}
	return means
}

func dailyIntensityMeans(sessions []models.TrainingSession) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, s := range sessions {
		k := dayKey(s.StartTime)
		sums[k] += float64(s.Intensity)
		counts[k]++
	}
	means := map[string]float64{}
	for k, sum := range sums {
		means[k] = sum / float64(counts[k])
	}
	return means
}

// meanOfDays averages per-day sums; 0 when no data at all.
func meanOfDays(days map[string]float64) float64 {
	if len(days) == 0 {
		return 0
	}
	var sum float64
	for _, v := range days {
		sum += v
	}
	return sum / float64(len(days))
}

// meanOfDayMeans averages per-day means; nil when no data at all.
func meanOfDayMeans(days map[string]float64) *float64 {
	if len(days) == 0 {
		return nil
	}
	var sum float64
	for _, v := range days {
		sum += v
	}
	m := sum / float64(len(days))
	return &m
}

// percentChange is (today-baseline)/baseline; undefined (nil) when either
// side is missing or the baseline is zero.
func percentChange(today, baseline *float64) *float64 {
	if today == nil || baseline == nil || *baseline == 0 {
		return nil
	}
	c := (*today - *baseline) / *baseline
	return &c
}

// ---------- shared date helpers ----------

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
