package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"backend/models"

	"gorm.io/gorm"
)

// ---------- result shapes ----------

type HeartRateStats struct {
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

type SleepStats struct {
	TotalMinutes float64 `json:"total_minutes"`
	DeepMinutes  float64 `json:"deep_minutes"`
	LightMinutes float64 `json:"light_minutes"`
	AwakeMinutes float64 `json:"awake_minutes"`
}

type TrainingStats struct {
	Count           int     `json:"count"`
	DurationMinutes float64 `json:"duration_minutes"`
	MeanIntensity   float64 `json:"mean_intensity"`
	Calories        float64 `json:"calories"`
}

// DailyStatistics carries one day's aggregates; each section is nil when no
// samples of that kind exist.
type DailyStatistics struct {
	Date      string          `json:"date"`
	Steps     *float64        `json:"steps"`
	HeartRate *HeartRateStats `json:"heart_rate"`
	Sleep     *SleepStats     `json:"sleep"`
	Training  *TrainingStats  `json:"training"`
}

// WeeklyTrends compares the mean of the first three days against the mean of
// the last three days of the week. Nil when either side has no data.
type WeeklyTrends struct {
	Steps            *float64 `json:"steps"`
	HeartRate        *float64 `json:"heart_rate"`
	SleepMinutes     *float64 `json:"sleep_minutes"`
	TrainingDuration *float64 `json:"training_duration"`
	TrainingCalories *float64 `json:"training_calories"`
}

type WeeklyStatistics struct {
	WeekStart string            `json:"week_start"`
	Days      []DailyStatistics `json:"days"`

	TotalSteps           float64  `json:"total_steps"`
	AvgSteps             float64  `json:"avg_steps"`
	AvgHeartRate         *float64 `json:"avg_heart_rate"`
	TotalSleepMinutes    float64  `json:"total_sleep_minutes"`
	TotalTrainingMinutes float64  `json:"total_training_minutes"`
	TotalTrainingCal     float64  `json:"total_training_calories"`

	Trends WeeklyTrends `json:"trends"`
}

type WeekComparison struct {
	PreviousWeekStart string `json:"previous_week_start"`
	WeekStart         string `json:"week_start"`

	Steps            *float64 `json:"steps"`
	HeartRate        *float64 `json:"heart_rate"`
	SleepMinutes     *float64 `json:"sleep_minutes"`
	TrainingDuration *float64 `json:"training_duration"`
	TrainingCalories *float64 `json:"training_calories"`
}

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// DailyStatistics aggregates one day; users without devices or samples get
// null-filled sections rather than errors.
func (s *StatsService) DailyStatistics(ctx context.Context, userID uint, date time.Time) (*DailyStatistics, error) {
	out := &DailyStatistics{Date: dayStart(date).Format("2006-01-02")}

	deviceIDs, err := DeviceIDsForUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if len(deviceIDs) == 0 {
		return out, nil
	}

	from := dayStart(date)
	to := from.AddDate(0, 0, 1)

	var samples []models.TelemetrySample
	if err := s.db.WithContext(ctx).
		Where("device_id IN ? AND recorded_at >= ? AND recorded_at < ? AND type IN ?",
			deviceIDs, from, to,
			[]models.TelemetryType{models.TelemetrySteps, models.TelemetryHeartRate}).
		Find(&samples).Error; err != nil {
		return nil, err
	}

	var sleeps []models.SleepRecord
	if err := s.db.WithContext(ctx).
		Where("device_id IN ? AND date >= ? AND date < ?", deviceIDs, from, to).
		Find(&sleeps).Error; err != nil {
		return nil, err
	}

	var sessions []models.TrainingSession
	if err := s.db.WithContext(ctx).
		Where("device_id IN ? AND start_time >= ? AND start_time < ?", deviceIDs, from, to).
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	*out = BuildDailyStatistics(from, samples, sleeps, sessions)
	return out, nil
}

// BuildDailyStatistics is the pure aggregation over loaded records.
func BuildDailyStatistics(day time.Time, samples []models.TelemetrySample, sleeps []models.SleepRecord, sessions []models.TrainingSession) DailyStatistics {
	out := DailyStatistics{Date: dayStart(day).Format("2006-01-02")}

	var stepsSum float64
	var hasSteps bool
	var hr HeartRateStats
	for _, sm := range samples {
		switch sm.Type {
		case models.TelemetrySteps:
			stepsSum += sm.Value
			hasSteps = true
		case models.TelemetryHeartRate:
			if hr.Count == 0 || sm.Value < hr.Min {
				hr.Min = sm.Value
			}
			if hr.Count == 0 || sm.Value > hr.Max {
				hr.Max = sm.Value
			}
			hr.Mean += sm.Value
			hr.Count++
		}
	}
	if hasSteps {
		out.Steps = &stepsSum
	}
	if hr.Count > 0 {
		hr.Mean = round2(hr.Mean / float64(hr.Count))
		out.HeartRate = &hr
	}

	if len(sleeps) > 0 {
		var sl SleepStats
		for _, r := range sleeps {
			sl.TotalMinutes += r.TotalSleepMinutes
			sl.DeepMinutes += r.DeepSleepMinutes
			sl.LightMinutes += r.LightSleepMinutes
			sl.AwakeMinutes += r.AwakeMinutes
		}
		out.Sleep = &sl
	}

	if len(sessions) > 0 {
		var tr TrainingStats
		var intensitySum float64
		for _, t := range sessions {
			tr.Count++
			tr.DurationMinutes += t.DurationMinutes
			tr.Calories += t.EstimatedCalories
			intensitySum += float64(t.Intensity)
		}
		tr.MeanIntensity = round2(intensitySum / float64(tr.Count))
		out.Training = &tr
	}

	return out
}

// WeeklyStatistics aggregates seven consecutive days starting at weekStart.
func (s *StatsService) WeeklyStatistics(ctx context.Context, userID uint, weekStart time.Time) (*WeeklyStatistics, error) {
	start := dayStart(weekStart)
	out := &WeeklyStatistics{WeekStart: start.Format("2006-01-02")}

	for i := 0; i < 7; i++ {
		day, err := s.DailyStatistics(ctx, userID, start.AddDate(0, 0, i))
		if err != nil {
			return nil, err
		}
		out.Days = append(out.Days, *day)
	}

	var hrSum float64
	var hrDays int
	for _, d := range out.Days {
		if d.Steps != nil {
			out.TotalSteps += *d.Steps
		}
		if d.HeartRate != nil {
			hrSum += d.HeartRate.Mean
			hrDays++
		}
		if d.Sleep != nil {
			out.TotalSleepMinutes += d.Sleep.TotalMinutes
		}
		if d.Training != nil {
			out.TotalTrainingMinutes += d.Training.DurationMinutes
			out.TotalTrainingCal += d.Training.Calories
		}
	}
	out.AvgSteps = round2(out.TotalSteps / 7)
	if hrDays > 0 {
		avg := round2(hrSum / float64(hrDays))
		out.AvgHeartRate = &avg
	}

	out.Trends = BuildWeeklyTrends(out.Days)
	return out, nil
}

// BuildWeeklyTrends compares the first 3 days against the last 3 days of a
// 7-day window.
func BuildWeeklyTrends(days []DailyStatistics) WeeklyTrends {
	if len(days) < 7 {
		return WeeklyTrends{}
	}
	first, last := days[:3], days[4:]

	return WeeklyTrends{
		Steps:            trendOf(first, last, func(d DailyStatistics) *float64 { return d.Steps }),
		HeartRate:        trendOf(first, last, func(d DailyStatistics) *float64 { return hrMean(d) }),
		SleepMinutes:     trendOf(first, last, func(d DailyStatistics) *float64 { return sleepTotal(d) }),
		TrainingDuration: trendOf(first, last, func(d DailyStatistics) *float64 { return trainingDuration(d) }),
		TrainingCalories: trendOf(first, last, func(d DailyStatistics) *float64 { return trainingCalories(d) }),
	}
}

func hrMean(d DailyStatistics) *float64 {
	if d.HeartRate == nil {
		return nil
	}
	v := d.HeartRate.Mean
	return &v
}

func sleepTotal(d DailyStatistics) *float64 {
	if d.Sleep == nil {
		return nil
	}
	v := d.Sleep.TotalMinutes
	return &v
}

func trainingDuration(d DailyStatistics) *float64 {
	if d.Training == nil {
		return nil
	}
	v := d.Training.DurationMinutes
	return &v
}

func trainingCalories(d DailyStatistics) *float64 {
	if d.Training == nil {
		return nil
	}
	v := d.Training.Calories
	return &v
}

// trendOf computes the percent change between the metric means of two day
// groups; days without the metric are skipped.
func trendOf(first, last []DailyStatistics, metric func(DailyStatistics) *float64) *float64 {
	firstMean := groupMean(first, metric)
	lastMean := groupMean(last, metric)
	return percentChange(lastMean, firstMean)
}

func groupMean(days []DailyStatistics, metric func(DailyStatistics) *float64) *float64 {
	var sum float64
	var n int
	for _, d := range days {
		if v := metric(d); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	m := sum / float64(n)
	return &m
}

// CompareWithPreviousWeek computes percent deltas between the week starting
// at weekStart and the week before it.
func (s *StatsService) CompareWithPreviousWeek(ctx context.Context, userID uint, weekStart time.Time) (*WeekComparison, error) {
	current, err := s.WeeklyStatistics(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}
	prevStart := dayStart(weekStart).AddDate(0, 0, -7)
	previous, err := s.WeeklyStatistics(ctx, userID, prevStart)
	if err != nil {
		return nil, err
	}

	cmp := CompareWeeks(previous, current)
	return &cmp, nil
}

// CompareWeeks is the pure delta computation between two weekly results.
func CompareWeeks(previous, current *WeeklyStatistics) WeekComparison {
	out := WeekComparison{
		PreviousWeekStart: previous.WeekStart,
		WeekStart:         current.WeekStart,
	}

	out.Steps = percentChange(&current.TotalSteps, &previous.TotalSteps)
	out.HeartRate = percentChange(current.AvgHeartRate, previous.AvgHeartRate)
	out.SleepMinutes = percentChange(&current.TotalSleepMinutes, &previous.TotalSleepMinutes)
	out.TrainingDuration = percentChange(&current.TotalTrainingMinutes, &previous.TotalTrainingMinutes)
	out.TrainingCalories = percentChange(&current.TotalTrainingCal, &previous.TotalTrainingCal)
	return out
}

// RenderWeeklyReport formats a weekly result for the report email.
func RenderWeeklyReport(w *WeeklyStatistics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Week of %s\n\n", w.WeekStart)
	fmt.Fprintf(&b, "Steps: %.0f total (%.0f/day)\n", w.TotalSteps, w.AvgSteps)
	if w.AvgHeartRate != nil {
		fmt.Fprintf(&b, "Average heart rate: %.0f bpm\n", *w.AvgHeartRate)
	}
	fmt.Fprintf(&b, "Sleep: %.0f minutes total\n", w.TotalSleepMinutes)
	fmt.Fprintf(&b, "Training: %.0f minutes, %.0f kcal\n", w.TotalTrainingMinutes, w.TotalTrainingCal)

	appendTrend := func(name string, v *float64) {
		if v != nil {
			fmt.Fprintf(&b, "  %s: %+.0f%%\n", name, *v*100)
		}
	}
	b.WriteString("\nTrend (first 3 days vs last 3 days):\n")
	appendTrend("steps", w.Trends.Steps)
	appendTrend("heart rate", w.Trends.HeartRate)
	appendTrend("sleep", w.Trends.SleepMinutes)
	appendTrend("training duration", w.Trends.TrainingDuration)
	appendTrend("training calories", w.Trends.TrainingCalories)
	return b.String()
}
