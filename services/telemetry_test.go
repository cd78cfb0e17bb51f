package services

import (
	"strings"
	"testing"

	"backend/models"
)

func TestNormalizeHeartRateBoundaries(t *testing.T) {
	cases := []struct {
		value float64
		valid bool
	}{
		{39, false},
		{40, true},
		{220, true},
		{221, false},
	}
	for _, c := range cases {
		res := NormalizeTelemetry(models.TelemetryHeartRate, c.value)
		if res.Valid != c.valid {
			t.Errorf("heart rate %v: valid = %v, want %v (%s)", c.value, res.Valid, c.valid, res.Reason)
		}
		if !c.valid && res.Reason == "" {
			t.Errorf("heart rate %v: rejected without a reason", c.value)
		}
	}
}

func TestNormalizeRejectsNegativesExceptBloodPressure(t *testing.T) {
	for _, typ := range []models.TelemetryType{
		models.TelemetrySteps, models.TelemetryDistance, models.TelemetryCalories,
		models.TelemetryWeight, models.TelemetryBloodSugar, models.TelemetryTemperature,
		models.TelemetryOther,
	} {
		if res := NormalizeTelemetry(typ, -1); res.Valid {
			t.Errorf("%s: negative value must be rejected", typ)
		}
	}

	if res := NormalizeTelemetry(models.TelemetryBloodPressure, -5); !res.Valid {
		t.Errorf("blood pressure may be negative, got rejection: %s", res.Reason)
	}
}

func TestNormalizeRounding(t *testing.T) {
	if res := NormalizeTelemetry(models.TelemetryHeartRate, 72.6); !res.Valid || res.Value != 73 {
		t.Errorf("heart rate rounds to 0 decimals, got %v", res.Value)
	}
	if res := NormalizeTelemetry(models.TelemetrySteps, 1023.4); !res.Valid || res.Value != 1023 {
		t.Errorf("steps round to 0 decimals, got %v", res.Value)
	}
	if res := NormalizeTelemetry(models.TelemetryWeight, 82.1278); !res.Valid || res.Value != 82.13 {
		t.Errorf("weight rounds to 2 decimals, got %v", res.Value)
	}
}

func TestNormalizeUnknownType(t *testing.T) {
	if res := NormalizeTelemetry("pulse_ox", 97); res.Valid {
		t.Error("unknown telemetry type must be rejected")
	}
}

func TestValidateSleepMetadata(t *testing.T) {
	if res := ValidateSleepMetadata(nil); res.Valid {
		t.Error("nil metadata must be rejected")
	}
	if res := ValidateSleepMetadata(map[string]float64{"DeepSleepMinutes": 90}); res.Valid {
		t.Error("metadata without TotalSleepMinutes must be rejected")
	}

	res := ValidateSleepMetadata(map[string]float64{MetaTotalSleepMinutes: 1441})
	if res.Valid {
		t.Error("TotalSleepMinutes above 1440 must be rejected")
	}
	if !strings.Contains(res.Reason, "1440") {
		t.Errorf("rejection reason should mention the bound, got %q", res.Reason)
	}

	if res := ValidateSleepMetadata(map[string]float64{MetaTotalSleepMinutes: -1}); res.Valid {
		t.Error("negative TotalSleepMinutes must be rejected")
	}
	if res := ValidateSleepMetadata(map[string]float64{MetaTotalSleepMinutes: 480}); !res.Valid || res.Value != 480 {
		t.Errorf("valid metadata rejected: %+v", res)
	}
}

// The mandatory total is rejected out of range, everything else is clamped.
func TestSleepClampAsymmetry(t *testing.T) {
	if got := ClampSleepMinutes(-30); got != 0 {
		t.Errorf("ClampSleepMinutes(-30) = %v, want 0", got)
	}
	if got := ClampSleepMinutes(2000); got != 1440 {
		t.Errorf("ClampSleepMinutes(2000) = %v, want 1440", got)
	}
	if got := ClampSleepMinutes(480); got != 480 {
		t.Errorf("ClampSleepMinutes(480) = %v, want 480", got)
	}

	if got := ClampSleepQuality(120); got != 100 {
		t.Errorf("ClampSleepQuality(120) = %v, want 100", got)
	}
	if got := ClampSleepQuality(-3); got != 0 {
		t.Errorf("ClampSleepQuality(-3) = %v, want 0", got)
	}
	if got := ClampSleepQuality(87.6543); got != 87.65 {
		t.Errorf("ClampSleepQuality rounds to 2 decimals, got %v", got)
	}
}
