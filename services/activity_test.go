package services

import (
	"math"
	"testing"
	"time"

	"backend/models"
)

func sampleAt(day time.Time, hour int, typ models.TelemetryType, value float64) models.TelemetrySample {
	return models.TelemetrySample{
		DeviceID:   1,
		RecordedAt: day.Add(time.Duration(hour) * time.Hour),
		Type:       typ,
		Value:      value,
	}
}

func TestBuildActivityChangeResultStepsSpike(t *testing.T) {
	today := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	d1 := today.AddDate(0, 0, -3)
	d2 := today.AddDate(0, 0, -1)

	todaySamples := []models.TelemetrySample{
		sampleAt(today, 9, models.TelemetrySteps, 4000),
		sampleAt(today, 18, models.TelemetrySteps, 4000),
	}
	// weekly baseline averages per-day sums: (4000 + 6000) / 2 = 5000
	weekSamples := []models.TelemetrySample{
		sampleAt(d1, 9, models.TelemetrySteps, 2000),
		sampleAt(d1, 18, models.TelemetrySteps, 2000),
		sampleAt(d2, 12, models.TelemetrySteps, 6000),
	}

	got := BuildActivityChangeResult(todaySamples, weekSamples, nil, nil)

	if got.StepsToday != 8000 {
		t.Errorf("steps today = %v, want 8000", got.StepsToday)
	}
	if got.WeeklyAvgSteps != 5000 {
		t.Errorf("weekly avg steps = %v, want 5000 (per-day sums averaged)", got.WeeklyAvgSteps)
	}
	if got.StepsChange == nil || math.Abs(*got.StepsChange-0.6) > 1e-9 {
		t.Fatalf("steps change = %v, want 0.6", got.StepsChange)
	}
	if !got.StepsSpike {
		t.Error("+60% over baseline must flag a steps spike")
	}
}

func TestBuildActivityChangeResultNoSpikeUnderThreshold(t *testing.T) {
	today := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	d1 := today.AddDate(0, 0, -2)

	todaySamples := []models.TelemetrySample{sampleAt(today, 9, models.TelemetrySteps, 6000)}
	weekSamples := []models.TelemetrySample{sampleAt(d1, 9, models.TelemetrySteps, 5000)}

	got := BuildActivityChangeResult(todaySamples, weekSamples, nil, nil)
	if got.StepsChange == nil || math.Abs(*got.StepsChange-0.2) > 1e-9 {
		t.Fatalf("steps change = %v, want 0.2", got.StepsChange)
	}
	if got.StepsSpike {
		t.Error("+20% is under the +30% threshold, must not flag a spike")
	}
}

func TestBuildActivityChangeResultHeartRateAnomaly(t *testing.T) {
	today := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	normal := BuildActivityChangeResult([]models.TelemetrySample{
		sampleAt(today, 8, models.TelemetryHeartRate, 50),
		sampleAt(today, 20, models.TelemetryHeartRate, 60),
	}, nil, nil, nil)
	if normal.HeartRateToday == nil || *normal.HeartRateToday != 55 {
		t.Fatalf("heart rate today = %v, want 55", normal.HeartRateToday)
	}
	if normal.HeartRateAnomaly {
		t.Error("55 bpm is inside [40, 100], must not flag an anomaly")
	}

	elevated := BuildActivityChangeResult([]models.TelemetrySample{
		sampleAt(today, 8, models.TelemetryHeartRate, 120),
	}, nil, nil, nil)
	if !elevated.HeartRateAnomaly {
		t.Error("120 bpm must flag a heart rate anomaly")
	}

	low := BuildActivityChangeResult([]models.TelemetrySample{
		sampleAt(today, 8, models.TelemetryHeartRate, 38),
	}, nil, nil, nil)
	if !low.HeartRateAnomaly {
		t.Error("38 bpm must flag a heart rate anomaly")
	}
}

func TestBuildActivityChangeResultIntensity(t *testing.T) {
	today := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	d1 := today.AddDate(0, 0, -4)
	d2 := today.AddDate(0, 0, -2)

	todayTraining := []models.TrainingSession{
		{DeviceID: 1, StartTime: today.Add(7 * time.Hour), Intensity: models.IntensityMax},
	}
	weekTraining := []models.TrainingSession{
		{DeviceID: 1, StartTime: d1.Add(7 * time.Hour), Intensity: models.IntensityModerate},
		{DeviceID: 1, StartTime: d1.Add(18 * time.Hour), Intensity: models.IntensityModerate},
		{DeviceID: 1, StartTime: d2.Add(7 * time.Hour), Intensity: models.IntensityModerate},
	}

	got := BuildActivityChangeResult(nil, nil, todayTraining, weekTraining)
	if got.IntensityToday == nil || *got.IntensityToday != 4 {
		t.Fatalf("intensity today = %v, want 4", got.IntensityToday)
	}
	if got.WeeklyAvgIntensity == nil || *got.WeeklyAvgIntensity != 2 {
		t.Fatalf("weekly avg intensity = %v, want 2", got.WeeklyAvgIntensity)
	}
	if got.IntensityChange == nil || math.Abs(*got.IntensityChange-1.0) > 1e-9 {
		t.Fatalf("intensity change = %v, want 1.0", got.IntensityChange)
	}
	if !got.TrainingIntensityChange {
		t.Error("+100% intensity must flag a training intensity change")
	}
}

func TestBuildActivityChangeResultZeroBaseline(t *testing.T) {
	today := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	got := BuildActivityChangeResult(
		[]models.TelemetrySample{sampleAt(today, 9, models.TelemetrySteps, 8000)},
		nil, nil, nil)

	if got.StepsChange != nil {
		t.Errorf("change against an empty baseline must be nil, got %v", *got.StepsChange)
	}
	if got.StepsSpike {
		t.Error("no baseline means no spike flag")
	}
}

func TestBuildActivityChangeResultEmpty(t *testing.T) {
	got := BuildActivityChangeResult(nil, nil, nil, nil)
	if got.StepsToday != 0 || got.HeartRateToday != nil || got.IntensityToday != nil {
		t.Errorf("empty input must yield a zero result, got %+v", got)
	}
	if got.StepsSpike || got.TrainingIntensityChange || got.HeartRateAnomaly {
		t.Errorf("empty input must not raise flags, got %+v", got)
	}
}
